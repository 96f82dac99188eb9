package client

import (
	"context"

	"github.com/stackvault/client-sdk-go/types"
)

// Client Aptos 节点客户端接口
//
// 只读方法在可重试错误上按 RetryConfig 重试；提交交易不重试。
type Client interface {
	// GetLedgerInfo 查询节点账本信息（链 ID、账本版本）
	GetLedgerInfo(ctx context.Context) (*types.LedgerInfo, error)

	// GetAccount 查询账户序列号与认证密钥
	GetAccount(ctx context.Context, address string) (*types.AccountData, error)

	// GetAccountResources 查询账户下的全部资源
	GetAccountResources(ctx context.Context, address string) ([]types.MoveResource, error)

	// GetAccountResource 按类型查询单个资源，不存在时返回的错误满足 IsNotFound
	GetAccountResource(ctx context.Context, address, resourceType string) (*types.MoveResource, error)

	// GetTransactionByHash 按哈希查询交易
	GetTransactionByHash(ctx context.Context, hash string) (*types.Transaction, error)

	// WaitForTransaction 等待交易执行完成；执行失败时返回 ErrCodeTxFailed 错误
	WaitForTransaction(ctx context.Context, hash string) (*types.Transaction, error)

	// EstimateGasPrice 估算 gas 单价
	EstimateGasPrice(ctx context.Context) (uint64, error)

	// EncodeSubmission 获取待签名消息（BCS 编码由节点完成）
	EncodeSubmission(ctx context.Context, req *types.SubmitRequest) ([]byte, error)

	// SubmitTransaction 提交已签名交易
	SubmitTransaction(ctx context.Context, req *types.SubmitRequest) (*types.PendingTransaction, error)

	// Close 关闭连接
	Close() error
}

// NewClient 创建新的客户端
func NewClient(config *Config) (Client, error) {
	return NewHTTPClient(config)
}
