// Package resource 读取链上账户资源：原生币余额、代币集合。
//
// 所有读取都是时间点快照，内存中只保留最近一次结果，每次调用都会重新查询节点。
package resource

import (
	"context"
	"errors"
	"sync"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/services"
	"github.com/stackvault/client-sdk-go/types"
	"github.com/stackvault/client-sdk-go/utils"
)

// ErrNoAccount 没有活动账户
var ErrNoAccount = errors.New("resource: no active account")

// ErrBalanceNotFound 账户下没有原生币余额资源
var ErrBalanceNotFound = errors.New("resource: native coin store not found")

// AccountSource 提供当前活动账户（*session.Manager 实现了该接口）
type AccountSource interface {
	Account() (string, bool)
}

// 请求种类，每种各自排序
type requestKind int

const (
	kindBalance requestKind = iota
	kindCollection
	kindTokens
	kindCount
)

// Reader 链上资源读取器
//
// 同一种请求并发发起时，只有最后发起的那次结果会写入缓存，较早请求的响应被丢弃。
type Reader struct {
	client   client.Client
	accounts AccountSource
	contract services.ContractConfig
	logger   client.Logger
	batch    *utils.BatchConfig

	mu               sync.RWMutex
	seq              [kindCount]uint64
	balance          uint64
	hasBalance       bool
	collectionExists bool
	tokens           []types.TokenRecord
	err              error
}

// Option Reader 选项
type Option func(*Reader)

// WithLogger 设置日志
func WithLogger(logger client.Logger) Option {
	return func(r *Reader) { r.logger = client.OrNop(logger) }
}

// WithBatchConfig 设置 GetBalances 的批量参数
func WithBatchConfig(cfg *utils.BatchConfig) Option {
	return func(r *Reader) { r.batch = cfg }
}

// NewReader 创建读取器；accounts 可以为 nil（此时 Refresh 不可用）
func NewReader(cli client.Client, accounts AccountSource, contract services.ContractConfig, opts ...Option) *Reader {
	r := &Reader{
		client:   cli,
		accounts: accounts,
		contract: contract.WithDefaults(),
		logger:   client.NopLogger(),
		batch:    utils.DefaultBatchConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh 刷新活动账户的余额与集合状态
func (r *Reader) Refresh(ctx context.Context) error {
	account, ok := "", false
	if r.accounts != nil {
		account, ok = r.accounts.Account()
	}
	if !ok {
		return ErrNoAccount
	}

	// 余额与集合检查并行，两者的错误合并返回
	checks := []func(context.Context) error{
		func(ctx context.Context) error {
			_, err := r.RefreshBalance(ctx, account)
			return err
		},
		func(ctx context.Context) error {
			_, err := r.CheckCollectionExists(ctx, account)
			return err
		},
	}
	_, err := utils.ParallelExecute(ctx, checks, func(ctx context.Context, check func(context.Context) error) (struct{}, error) {
		return struct{}{}, check(ctx)
	}, len(checks))
	return err
}

// Balance 最近一次成功读取的余额（octas）
func (r *Reader) Balance() (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.balance, r.hasBalance
}

// CollectionExists 最近一次检查的集合存在结果
func (r *Reader) CollectionExists() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectionExists
}

// Tokens 最近一次读取的代币列表副本
func (r *Reader) Tokens() []types.TokenRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.TokenRecord, len(r.tokens))
	copy(out, r.tokens)
	return out
}

// Err 最近一次报告的读取错误
func (r *Reader) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// ClearError 清除错误状态
func (r *Reader) ClearError() {
	r.mu.Lock()
	r.err = nil
	r.mu.Unlock()
}

// PatchToken 就地修改缓存中的代币记录（交易确认后、重新读取前的临时修正）
func (r *Reader) PatchToken(id uint64, patch func(*types.TokenRecord)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tokens {
		if r.tokens[i].ID == id {
			patch(&r.tokens[i])
			return true
		}
	}
	return false
}

// begin 发起一次 kind 请求
func (r *Reader) begin(kind requestKind) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq[kind]++
	return r.seq[kind]
}

// commit 在 seq 仍是最新时执行 apply，返回是否写入
func (r *Reader) commit(kind requestKind, seq uint64, apply func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seq[kind] != seq {
		return false
	}
	apply()
	return true
}
