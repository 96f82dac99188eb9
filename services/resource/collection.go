package resource

import (
	"context"
	"fmt"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/types"
)

// CheckCollectionExists 检查账户下是否存在代币集合资源
//
// 节点明确返回 not-found 时为 (false, nil)；其他失败返回 (false, err)，
// 不会把网络故障误报为集合不存在。
func (r *Reader) CheckCollectionExists(ctx context.Context, account string) (bool, error) {
	if account == "" {
		return false, ErrNoAccount
	}
	seq := r.begin(kindCollection)

	_, err := r.client.GetAccountResource(ctx, account, r.contract.CollectionType())
	switch {
	case err == nil:
		r.commit(kindCollection, seq, func() { r.collectionExists = true })
		return true, nil
	case client.IsNotFound(err):
		r.commit(kindCollection, seq, func() { r.collectionExists = false })
		return false, nil
	default:
		r.logger.Warn("Check collection failed", "account", account, "error", err)
		r.commit(kindCollection, seq, func() {
			r.collectionExists = false
			r.err = err
		})
		return false, err
	}
}

// FetchTokens 读取账户下的代币记录
//
// 集合不存在时返回空切片和 nil 错误。
func (r *Reader) FetchTokens(ctx context.Context, account string) ([]types.TokenRecord, error) {
	if account == "" {
		return []types.TokenRecord{}, nil
	}

	// 1. 读取集合资源
	res, err := r.client.GetAccountResource(ctx, account, r.contract.CollectionType())
	if err != nil {
		if client.IsNotFound(err) {
			return []types.TokenRecord{}, nil
		}
		return []types.TokenRecord{}, err
	}

	// 2. 解码并转换每条记录
	var data types.CollectionData
	if err := res.DecodeData(&data); err != nil {
		return []types.TokenRecord{}, fmt.Errorf("decode collection of %s: %w", account, err)
	}
	tokens := make([]types.TokenRecord, 0, len(data.Tokens))
	for _, raw := range data.Tokens {
		tokens = append(tokens, raw.ToRecord())
	}
	return tokens, nil
}

// GetTokens 读取代币记录并更新缓存，从不返回错误
//
// 失败时错误写入 Err()，返回空切片。
func (r *Reader) GetTokens(ctx context.Context, account string) []types.TokenRecord {
	seq := r.begin(kindTokens)

	tokens, err := r.FetchTokens(ctx, account)
	if err != nil {
		r.logger.Error("Fetch tokens failed", "account", account, "error", err)
		r.commit(kindTokens, seq, func() {
			r.tokens = nil
			r.err = err
		})
		return []types.TokenRecord{}
	}

	if !r.commit(kindTokens, seq, func() { r.tokens = tokens }) {
		r.logger.Debug("Discarding stale tokens response", "account", account)
	}
	out := make([]types.TokenRecord, len(tokens))
	copy(out, tokens)
	return out
}

// FindToken 在 tokens 中查找 id
func FindToken(tokens []types.TokenRecord, id uint64) (types.TokenRecord, bool) {
	for _, t := range tokens {
		if t.ID == id {
			return t, true
		}
	}
	return types.TokenRecord{}, false
}
