package wallet

import (
	"context"
	"errors"
	"strings"

	"github.com/stackvault/client-sdk-go/types"
)

// 网络名称
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
	NetworkDevnet  = "devnet"
	NetworkLocal   = "local"
)

// ErrUserRejected 用户在钱包中拒绝了请求
var ErrUserRejected = errors.New("wallet: request rejected by user")

// ErrNotConnected 钱包尚未连接
var ErrNotConnected = errors.New("wallet: not connected")

// Account 钱包披露的账户
type Account struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey,omitempty"`
}

// Provider 钱包能力接口
//
// 由运行环境提供（浏览器扩展桥接、本地密钥等），会话管理器只消费它。
type Provider interface {
	// Connect 请求用户披露账户地址
	Connect(ctx context.Context) (*Account, error)

	// Disconnect 断开钱包
	Disconnect(ctx context.Context) error

	// Network 钱包当前所在网络名称
	Network(ctx context.Context) (string, error)

	// SignAndSubmitTransaction 签名并提交交易，返回节点接受的待确认交易
	SignAndSubmitTransaction(ctx context.Context, payload types.Payload) (*types.PendingTransaction, error)
}

// NetworkFromChainID 由链 ID 推断网络名称
func NetworkFromChainID(chainID uint8) string {
	switch chainID {
	case 1:
		return NetworkMainnet
	case 2:
		return NetworkTestnet
	case 4:
		return NetworkLocal
	default:
		return NetworkDevnet
	}
}

// SameNetwork 网络名称是否相同（忽略大小写与首尾空白）
func SameNetwork(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
