package utils

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// CIDv0Length CIDv0 字符串长度
const CIDv0Length = 46

// CIDv0 的 multihash 前缀：sha2-256 (0x12)，摘要长度 32 (0x20)
const (
	multihashSHA256 = 0x12
	multihashLength = 0x20
)

// IsCIDShape 是否为 46 位字母数字字符串
//
// 只检查形状，不校验 base58 内容。
func IsCIDShape(s string) bool {
	if len(s) != CIDv0Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// DecodeCIDv0 解码 CIDv0，返回 32 字节 sha2-256 摘要
func DecodeCIDv0(cid string) ([]byte, error) {
	if !IsCIDShape(cid) {
		return nil, fmt.Errorf("invalid CIDv0 shape: %q", cid)
	}
	decoded := base58.Decode(cid)
	if len(decoded) != 2+multihashLength {
		return nil, fmt.Errorf("invalid CIDv0 length: expected %d bytes after Base58 decode, got %d", 2+multihashLength, len(decoded))
	}
	if decoded[0] != multihashSHA256 || decoded[1] != multihashLength {
		return nil, fmt.Errorf("invalid CIDv0 multihash prefix: 0x%02x%02x", decoded[0], decoded[1])
	}
	return decoded[2:], nil
}

// IsCIDv0 是否为合法 CIDv0
func IsCIDv0(cid string) bool {
	_, err := DecodeCIDv0(cid)
	return err == nil
}
