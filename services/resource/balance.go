package resource

import (
	"context"
	"fmt"

	"github.com/stackvault/client-sdk-go/types"
	"github.com/stackvault/client-sdk-go/utils"
)

// FetchBalance 查询账户原生币余额，不修改缓存
func (r *Reader) FetchBalance(ctx context.Context, account string) (uint64, error) {
	if account == "" {
		return 0, ErrNoAccount
	}

	// 1. 查询全部资源
	resources, err := r.client.GetAccountResources(ctx, account)
	if err != nil {
		return 0, err
	}

	// 2. 按固定类型定位余额资源
	coin, ok := types.FindResource(resources, types.NativeCoinStoreType)
	if !ok {
		return 0, fmt.Errorf("%w for %s", ErrBalanceNotFound, account)
	}

	// 3. 提取余额
	var data types.CoinStoreData
	if err := coin.DecodeData(&data); err != nil {
		return 0, err
	}
	return uint64(data.Coin.Value), nil
}

// RefreshBalance 读取余额并更新缓存
//
// 失败时记录错误，缓存余额保持上一次的值，返回值也是该值。
func (r *Reader) RefreshBalance(ctx context.Context, account string) (uint64, error) {
	seq := r.begin(kindBalance)

	balance, err := r.FetchBalance(ctx, account)
	if err != nil {
		r.logger.Warn("Refresh balance failed", "account", account, "error", err)
		r.commit(kindBalance, seq, func() { r.err = err })
		last, _ := r.Balance()
		return last, err
	}

	if !r.commit(kindBalance, seq, func() {
		r.balance = balance
		r.hasBalance = true
	}) {
		r.logger.Debug("Discarding stale balance response", "account", account)
	}
	return balance, nil
}

// BalanceResult 单个账户的余额查询结果
type BalanceResult struct {
	Account string
	Balance uint64
	Err     error
}

// GetBalances 并发查询多个账户余额，结果与输入顺序一致，不修改缓存
func (r *Reader) GetBalances(ctx context.Context, accounts []string) []BalanceResult {
	batch := utils.BatchQuery(ctx, accounts, func(ctx context.Context, account string, _ int) (uint64, error) {
		return r.FetchBalance(ctx, account)
	}, r.batch)

	results := make([]BalanceResult, len(accounts))
	for i, item := range batch.Items {
		results[i] = BalanceResult{Account: accounts[i], Balance: item.Value, Err: item.Err}
	}
	return results
}
