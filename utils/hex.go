package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DecodeHexUTF8 将十六进制字节串解码为 UTF-8 文本
//
// 接受带或不带 0x 前缀的输入；非法十六进制或非法 UTF-8 返回错误。
func DecodeHexUTF8(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	if s == "0x" || s == "0X" {
		return "", nil
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return "", fmt.Errorf("invalid hex: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("decoded bytes are not valid utf-8")
	}
	return string(raw), nil
}

// EncodeUTF8Hex 将文本编码为 0x 前缀十六进制
func EncodeUTF8Hex(s string) string {
	return hexutil.Encode([]byte(s))
}
