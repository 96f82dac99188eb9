package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/types"
	"github.com/stackvault/client-sdk-go/wallet"
)

// ErrNoProvider 没有可用于签名的钱包
var ErrNoProvider = errors.New("transaction: no wallet provider")

// Waiter 等待交易确认（client.Client 实现了该接口）
type Waiter interface {
	WaitForTransaction(ctx context.Context, hash string) (*types.Transaction, error)
}

// Result 执行结果
type Result struct {
	Hash        string
	Transaction *types.Transaction // 确认后的交易，等待失败时可能为 nil
}

// Success 交易是否已成功执行
func (r *Result) Success() bool {
	return r != nil && r.Transaction != nil && r.Transaction.Success
}

// Executor 提交并等待交易
type Executor struct {
	provider wallet.Provider
	waiter   Waiter
	logger   client.Logger
}

// NewExecutor 创建执行器
func NewExecutor(provider wallet.Provider, waiter Waiter, logger client.Logger) *Executor {
	return &Executor{
		provider: provider,
		waiter:   waiter,
		logger:   client.OrNop(logger),
	}
}

// Execute 钱包签名提交，然后等待节点确认；不重试
//
// 提交成功但等待失败（超时、执行失败）时返回的 Result 仍带有交易哈希。
func (e *Executor) Execute(ctx context.Context, payload types.Payload) (*Result, error) {
	if e.provider == nil {
		return nil, ErrNoProvider
	}

	// 1. 签名并提交
	pending, err := e.provider.SignAndSubmitTransaction(ctx, payload)
	if err != nil {
		e.logger.Error("Submit transaction failed", "function", payload.Function(), "error", err)
		return nil, fmt.Errorf("submit %s: %w", payload.Function(), err)
	}
	result := &Result{Hash: pending.Hash}

	// 2. 等待确认
	tx, err := e.waiter.WaitForTransaction(ctx, pending.Hash)
	result.Transaction = tx
	if err != nil {
		e.logger.Error("Transaction not confirmed", "hash", pending.Hash, "function", payload.Function(), "error", err)
		return result, fmt.Errorf("wait for %s: %w", pending.Hash, err)
	}

	e.logger.Info("Transaction confirmed", "hash", pending.Hash, "function", payload.Function(), "version", uint64(tx.Version))
	return result, nil
}
