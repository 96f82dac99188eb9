package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"
)

// ed25519 单签名认证方案标识
const ed25519Scheme = 0x00

// Wallet 本地密钥钱包接口
type Wallet interface {
	// Address 账户地址（0x + 64 位十六进制）
	Address() string

	// PublicKey 公钥（0x 前缀十六进制）
	PublicKey() string

	// Sign 对签名消息签名
	Sign(message []byte) []byte

	// Seed 32 字节私钥种子（谨慎使用）
	Seed() []byte
}

// SimpleWallet ed25519 钱包实现
type SimpleWallet struct {
	privateKey ed25519.PrivateKey
	address    string
}

// NewWallet 生成新钱包
func NewWallet() (*SimpleWallet, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	return newSimpleWallet(privateKey), nil
}

// NewWalletFromSeed 由 32 字节种子创建钱包
func NewWalletFromSeed(seed []byte) (*SimpleWallet, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid private key length: expected %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return newSimpleWallet(ed25519.NewKeyFromSeed(seed)), nil
}

// NewWalletFromPrivateKey 由十六进制私钥种子创建钱包（可带 0x 前缀）
func NewWalletFromPrivateKey(privateKeyHex string) (*SimpleWallet, error) {
	if len(privateKeyHex) < 2 || privateKeyHex[:2] != "0x" {
		privateKeyHex = "0x" + privateKeyHex
	}
	seed, err := hexutil.Decode(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	return NewWalletFromSeed(seed)
}

func newSimpleWallet(privateKey ed25519.PrivateKey) *SimpleWallet {
	publicKey := privateKey.Public().(ed25519.PublicKey)
	return &SimpleWallet{
		privateKey: privateKey,
		address:    DeriveAddress(publicKey),
	}
}

// Address 获取钱包地址
func (w *SimpleWallet) Address() string {
	return w.address
}

// PublicKey 获取公钥
func (w *SimpleWallet) PublicKey() string {
	return hexutil.Encode(w.privateKey.Public().(ed25519.PublicKey))
}

// Sign 签名消息（ed25519 对原始消息签名，不预先哈希）
func (w *SimpleWallet) Sign(message []byte) []byte {
	return ed25519.Sign(w.privateKey, message)
}

// Seed 获取私钥种子
func (w *SimpleWallet) Seed() []byte {
	return w.privateKey.Seed()
}

// DeriveAddress 由 ed25519 公钥派生账户地址
//
// 地址 = SHA3-256(public_key || 0x00)，即单签名账户的初始认证密钥。
func DeriveAddress(publicKey ed25519.PublicKey) string {
	h := sha3.New256()
	_, _ = h.Write(publicKey)
	_, _ = h.Write([]byte{ed25519Scheme})
	return hexutil.Encode(h.Sum(nil))
}
