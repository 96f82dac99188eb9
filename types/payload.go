package types

import (
	"encoding/json"
	"fmt"
)

// PayloadTypeEntryFunction 入口函数调用 payload 类型
const PayloadTypeEntryFunction = "entry_function_payload"

// Payload 远程调用描述（入口函数标识 + 类型参数 + 位置参数）
//
// 构造后不可修改：字段不导出，访问器返回副本。
type Payload struct {
	function      string
	typeArguments []string
	arguments     []interface{}
}

// NewPayload 构建 payload，复制传入的切片
func NewPayload(function string, typeArguments []string, arguments []interface{}) Payload {
	tyArgs := make([]string, len(typeArguments))
	copy(tyArgs, typeArguments)
	args := make([]interface{}, len(arguments))
	copy(args, arguments)
	return Payload{
		function:      function,
		typeArguments: tyArgs,
		arguments:     args,
	}
}

// Function 完整的函数标识（address::module::function）
func (p Payload) Function() string {
	return p.function
}

// TypeArguments 类型参数副本
func (p Payload) TypeArguments() []string {
	out := make([]string, len(p.typeArguments))
	copy(out, p.typeArguments)
	return out
}

// Arguments 调用参数副本
func (p Payload) Arguments() []interface{} {
	out := make([]interface{}, len(p.arguments))
	copy(out, p.arguments)
	return out
}

type payloadJSON struct {
	Type          string        `json:"type"`
	Function      string        `json:"function"`
	TypeArguments []string      `json:"type_arguments"`
	Arguments     []interface{} `json:"arguments"`
}

// MarshalJSON 编码为节点 / 钱包接受的 entry_function_payload
func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(payloadJSON{
		Type:          PayloadTypeEntryFunction,
		Function:      p.function,
		TypeArguments: nonNilStrings(p.typeArguments),
		Arguments:     nonNilArgs(p.arguments),
	})
}

// UnmarshalJSON 解码 entry_function_payload
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw payloadJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type != "" && raw.Type != PayloadTypeEntryFunction {
		return fmt.Errorf("unsupported payload type %q", raw.Type)
	}
	*p = NewPayload(raw.Function, raw.TypeArguments, raw.Arguments)
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilArgs(a []interface{}) []interface{} {
	if a == nil {
		return []interface{}{}
	}
	return a
}
