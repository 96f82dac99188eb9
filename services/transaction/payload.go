// Package transaction 构建入口函数调用 payload，并按“提交 → 等待确认”的顺序执行。
package transaction

import (
	"github.com/stackvault/client-sdk-go/types"
)

// BuildPayload 构建不可变的调用描述
//
// 不在本地校验参数个数与类型，不匹配时由节点拒绝。
//
// 示例：
//
//	payload := BuildPayload(contract.FunctionID("take_loan"), nil, types.U64(id), types.U64(amount))
func BuildPayload(function string, typeArgs []string, args ...interface{}) types.Payload {
	return types.NewPayload(function, typeArgs, args)
}
