package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/stackvault/client-sdk-go/types"
)

// GetTransactionByHash 按哈希查询交易
func (c *httpClient) GetTransactionByHash(ctx context.Context, hash string) (*types.Transaction, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, NewInvalidParamsError("transaction hash is required")
	}
	var tx types.Transaction
	if err := c.get(ctx, "/transactions/by_hash/"+url.PathEscape(hash), &tx); err != nil {
		return nil, fmt.Errorf("get transaction %s failed: %w", hash, err)
	}
	return &tx, nil
}

// WaitForTransaction 轮询直到交易离开 pending 状态
//
// 刚提交的交易可能还未被索引，not-found 视为继续等待。
func (c *httpClient) WaitForTransaction(ctx context.Context, hash string) (*types.Transaction, error) {
	deadline := time.Now().Add(c.waitTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		tx, err := c.GetTransactionByHash(ctx, hash)
		switch {
		case err == nil && !tx.Pending():
			if !tx.Success {
				return tx, NewTxFailedError(hash, tx.VMStatus)
			}
			return tx, nil
		case err != nil && !IsNotFound(err):
			return nil, err
		}

		if time.Now().After(deadline) {
			return nil, NewTimeoutError(fmt.Sprintf("transaction %s not confirmed within %v", hash, c.waitTimeout))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// EstimateGasPrice 估算 gas 单价
func (c *httpClient) EstimateGasPrice(ctx context.Context) (uint64, error) {
	var estimate struct {
		GasEstimate uint64 `json:"gas_estimate"`
	}
	if err := c.get(ctx, "/estimate_gas_price", &estimate); err != nil {
		return 0, fmt.Errorf("estimate gas price failed: %w", err)
	}
	return estimate.GasEstimate, nil
}

// EncodeSubmission 由节点完成 BCS 编码，返回待签名消息
func (c *httpClient) EncodeSubmission(ctx context.Context, req *types.SubmitRequest) ([]byte, error) {
	if req == nil {
		return nil, NewInvalidParamsError("submit request is required")
	}
	unsigned := *req
	unsigned.Signature = nil

	var encoded string
	if err := c.post(ctx, "/transactions/encode_submission", &unsigned, &encoded); err != nil {
		return nil, fmt.Errorf("encode submission failed: %w", err)
	}
	message, err := hexutil.Decode(encoded)
	if err != nil {
		return nil, NewInvalidResponseError("invalid signing message", err)
	}
	return message, nil
}

// SubmitTransaction 提交已签名交易
func (c *httpClient) SubmitTransaction(ctx context.Context, req *types.SubmitRequest) (*types.PendingTransaction, error) {
	if req == nil || req.Signature == nil {
		return nil, NewInvalidParamsError("signed submit request is required")
	}
	var pending types.PendingTransaction
	if err := c.post(ctx, "/transactions", req, &pending); err != nil {
		return nil, fmt.Errorf("submit transaction failed: %w", err)
	}
	if pending.Hash == "" {
		return nil, NewInvalidResponseError("submit response has no hash", nil)
	}
	return &pending, nil
}
