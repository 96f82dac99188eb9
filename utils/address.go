package utils

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// AddressHexLength 账户地址十六进制长度（32 字节）
const AddressHexLength = 64

// NormalizeAddress 规范化账户地址
//
// **规则**：
// - 去掉首尾空白，统一小写
// - 补齐 0x 前缀
// - 短地址（如 0x1）左侧补零到 64 个十六进制字符
func NormalizeAddress(address string) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(address))
	addr = strings.TrimPrefix(addr, "0x")
	if addr == "" {
		return "", fmt.Errorf("empty address")
	}
	if len(addr) > AddressHexLength {
		return "", fmt.Errorf("invalid address length: expected at most %d hex characters, got %d", AddressHexLength, len(addr))
	}
	if _, err := hex.DecodeString(padHex(addr)); err != nil {
		return "", fmt.Errorf("invalid hex address: %w", err)
	}
	return "0x" + strings.Repeat("0", AddressHexLength-len(addr)) + addr, nil
}

// IsValidAddress 地址是否可以规范化
func IsValidAddress(address string) bool {
	_, err := NormalizeAddress(address)
	return err == nil
}

// ShortenAddress 缩短地址用于展示：前 6 位 + "..." + 后 4 位
//
// 长度不足 10 的地址原样返回。
func ShortenAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// AvatarSeed 由地址第 2 到第 10 个字符（去掉 0x 之后的 8 位）生成头像种子
func AvatarSeed(address string) (uint32, error) {
	if len(address) < 10 {
		return 0, fmt.Errorf("address too short for avatar seed: %q", address)
	}
	seed, err := strconv.ParseUint(address[2:10], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid avatar seed source: %w", err)
	}
	return uint32(seed), nil
}

// padHex 奇数长度时左侧补零
func padHex(s string) string {
	if len(s)%2 == 1 {
		return "0" + s
	}
	return s
}
