package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// U64 Move u64 数值
// 节点 JSON 中 u64 以十进制字符串表示（"1000"），也兼容数字形式。
type U64 uint64

// MarshalJSON 编码为十进制字符串
func (u U64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

// UnmarshalJSON 支持 "123" 与 123 两种形式
func (u *U64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = 0
		return nil
	}
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	if s == "" {
		*u = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid u64 %q: %w", s, err)
	}
	*u = U64(v)
	return nil
}

// HexBytes Move vector<u8> 数值
// 节点 JSON 使用 0x 前缀十六进制字符串；浏览器钱包会传数字数组，两种形式都接受。
type HexBytes []byte

// MarshalJSON 编码为 0x 前缀十六进制字符串
func (b HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hexutil.Encode(b))
}

// UnmarshalJSON 支持 "0x..." 与 [1,2,3] 两种形式
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*b = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var nums []uint8
		if err := json.Unmarshal(data, &nums); err != nil {
			return fmt.Errorf("invalid byte array: %w", err)
		}
		*b = HexBytes(nums)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*b = HexBytes{}
		return nil
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	decoded, err := hexutil.Decode(s)
	if err != nil {
		return fmt.Errorf("invalid hex bytes %q: %w", s, err)
	}
	*b = HexBytes(decoded)
	return nil
}

// String 返回 0x 前缀十六进制表示
func (b HexBytes) String() string {
	return hexutil.Encode(b)
}
