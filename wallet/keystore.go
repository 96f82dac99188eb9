package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

// ErrInvalidPassword 口令错误（MAC 校验失败）
var ErrInvalidPassword = errors.New("keystore: invalid password")

const (
	keystoreVersion = 1
	kdfIterations   = 262144
	kdfKeyLen       = 32
)

// Keystore 加密私钥文件结构
type Keystore struct {
	Version int    `json:"version"`
	ID      string `json:"id"`
	Address string `json:"address"`
	Crypto  Crypto `json:"crypto"`
}

// Crypto 加密信息
type Crypto struct {
	Cipher       string       `json:"cipher"`
	CipherText   string       `json:"ciphertext"`
	CipherParams CipherParams `json:"cipherparams"`
	KDF          string       `json:"kdf"`
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"`
}

// CipherParams 加密参数
type CipherParams struct {
	IV string `json:"iv"`
}

// KDFParams PBKDF2 参数
type KDFParams struct {
	C     int    `json:"c"`
	DKLen int    `json:"dklen"`
	PRF   string `json:"prf"`
	Salt  string `json:"salt"`
}

// KeystoreManager Keystore 管理器
type KeystoreManager struct {
	keystoreDir string
	iterations  int
}

// NewKeystoreManager 创建 Keystore 管理器
func NewKeystoreManager(keystoreDir string) (*KeystoreManager, error) {
	if err := os.MkdirAll(keystoreDir, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &KeystoreManager{keystoreDir: keystoreDir, iterations: kdfIterations}, nil
}

// Save 用口令加密私钥种子并写入 <dir>/<address>.json
func (km *KeystoreManager) Save(address string, seed []byte, password string) (string, error) {
	salt := make([]byte, 32)
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	key := deriveKey(password, salt, km.iterations)
	ciphertext, err := aesCTR(key[:16], seed, iv)
	if err != nil {
		return "", fmt.Errorf("encrypt private key: %w", err)
	}

	ks := &Keystore{
		Version: keystoreVersion,
		ID:      uuid.NewString(),
		Address: address,
		Crypto: Crypto{
			Cipher:       "aes-128-ctr",
			CipherText:   hex.EncodeToString(ciphertext),
			CipherParams: CipherParams{IV: hex.EncodeToString(iv)},
			KDF:          "pbkdf2",
			KDFParams: KDFParams{
				C:     km.iterations,
				DKLen: kdfKeyLen,
				PRF:   "hmac-sha256",
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(computeMAC(key, ciphertext)),
		},
	}

	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode keystore: %w", err)
	}
	keystorePath := km.path(address)
	if err := os.WriteFile(keystorePath, data, 0600); err != nil {
		return "", fmt.Errorf("write keystore file: %w", err)
	}
	return keystorePath, nil
}

// Load 解密 address 对应的私钥种子
func (km *KeystoreManager) Load(address string, password string) ([]byte, error) {
	data, err := os.ReadFile(km.path(address))
	if err != nil {
		return nil, fmt.Errorf("read keystore file: %w", err)
	}

	var ks Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}
	if ks.Crypto.KDF != "pbkdf2" {
		return nil, fmt.Errorf("unsupported kdf %q", ks.Crypto.KDF)
	}

	salt, err := hex.DecodeString(ks.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	iv, err := hex.DecodeString(ks.Crypto.CipherParams.IV)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	ciphertext, err := hex.DecodeString(ks.Crypto.CipherText)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	actualMAC, err := hex.DecodeString(ks.Crypto.MAC)
	if err != nil {
		return nil, fmt.Errorf("decode mac: %w", err)
	}

	key := deriveKey(password, salt, ks.Crypto.KDFParams.C)
	if subtle.ConstantTimeCompare(computeMAC(key, ciphertext), actualMAC) != 1 {
		return nil, ErrInvalidPassword
	}

	seed, err := aesCTR(key[:16], ciphertext, iv)
	if err != nil {
		return nil, fmt.Errorf("decrypt private key: %w", err)
	}
	return seed, nil
}

// LoadWallet 解密并构建钱包，校验派生地址与文件地址一致
func (km *KeystoreManager) LoadWallet(address string, password string) (*SimpleWallet, error) {
	seed, err := km.Load(address, password)
	if err != nil {
		return nil, err
	}
	w, err := NewWalletFromSeed(seed)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(w.Address(), address) {
		return nil, fmt.Errorf("keystore address mismatch: file %s, key %s", address, w.Address())
	}
	return w, nil
}

// SaveWallet 保存钱包，文件名为钱包地址
func (km *KeystoreManager) SaveWallet(w Wallet, password string) (string, error) {
	return km.Save(w.Address(), w.Seed(), password)
}

// List 列出已保存的地址
func (km *KeystoreManager) List() ([]string, error) {
	entries, err := os.ReadDir(km.keystoreDir)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}
	addresses := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		addresses = append(addresses, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(addresses)
	return addresses, nil
}

func (km *KeystoreManager) path(address string) string {
	return filepath.Join(km.keystoreDir, strings.ToLower(address)+".json")
}

// deriveKey PBKDF2-HMAC-SHA256 派生密钥
func deriveKey(password string, salt []byte, iterations int) []byte {
	if iterations <= 0 {
		iterations = kdfIterations
	}
	return pbkdf2.Key([]byte(password), salt, iterations, kdfKeyLen, sha256.New)
}

// aesCTR AES-CTR 加解密（对称）
func aesCTR(key, input, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(input))
	cipher.NewCTR(block, iv).XORKeyStream(out, input)
	return out, nil
}

// computeMAC SHA-256(key[16:32] || ciphertext)
func computeMAC(key, ciphertext []byte) []byte {
	buf := make([]byte, 0, 16+len(ciphertext))
	buf = append(buf, key[16:32]...)
	buf = append(buf, ciphertext...)
	hash := sha256.Sum256(buf)
	return hash[:]
}
