// Package loan 实现抵押借贷合约操作：铸造、锁定 / 解锁抵押、借款、还款、转让。
//
// 每个操作都遵循同样的流程：本地前置检查 → 钱包签名提交 → 等待确认 → 重新读取链上状态。
package loan

import (
	"context"
	"errors"
	"io"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/services"
	"github.com/stackvault/client-sdk-go/services/resource"
	"github.com/stackvault/client-sdk-go/services/storage"
	"github.com/stackvault/client-sdk-go/services/transaction"
	"github.com/stackvault/client-sdk-go/types"
	"github.com/stackvault/client-sdk-go/wallet"
)

// 合约入口函数名
const (
	FnMint     = "mint_real_estate_token"
	FnLock     = "lock_for_collateral"
	FnUnlock   = "unlock_collateral"
	FnTakeLoan = "take_loan"
	FnRepay    = "repay_loan"
	FnTransfer = "transfer_token"
)

var (
	// ErrTokenNotFound 当前账户下没有该代币
	ErrTokenNotFound = errors.New("loan: token not found")
	// ErrAlreadyLocked 代币已锁定为抵押品
	ErrAlreadyLocked = errors.New("loan: token is already locked for collateral")
	// ErrNotLocked 代币未锁定
	ErrNotLocked = errors.New("loan: token is not locked for collateral")
	// ErrLoanActive 该代币已经借过款
	ErrLoanActive = errors.New("loan: a loan has already been taken for this NFT")
	// ErrNoActiveLoan 没有需要偿还的借款
	ErrNoActiveLoan = errors.New("loan: no active loan")
	// ErrLoanExceedsValue 借款金额必须小于资产估值
	ErrLoanExceedsValue = errors.New("loan: loan amount must be less than the asset value")
	// ErrInvalidAmount 金额必须大于 0
	ErrInvalidAmount = errors.New("loan: amount must be greater than zero")
	// ErrInvalidRequest 请求缺少必填字段
	ErrInvalidRequest = errors.New("loan: invalid request")
)

// Session 提供活动账户与钱包能力（*session.Manager 实现了该接口）
type Session interface {
	RequireAccount() (string, error)
	Provider() wallet.Provider
}

// Uploader 资产文件上传（*storage.Client 实现了该接口）
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader, opts ...storage.UploadOption) (string, error)
	UploadFile(ctx context.Context, path string, opts ...storage.UploadOption) (string, error)
}

// Service 借贷业务服务接口
type Service interface {
	// Mint 上传资产文件并铸造代币
	Mint(ctx context.Context, req *MintRequest) (*MintResult, error)

	// LockCollateral 锁定代币作为抵押品，返回确认后本地修正的记录
	LockCollateral(ctx context.Context, id uint64) (*types.TokenRecord, error)

	// UnlockCollateral 解除抵押锁定
	UnlockCollateral(ctx context.Context, id uint64) (*transaction.Result, error)

	// TakeLoan 以已锁定代币借款
	TakeLoan(ctx context.Context, id, amount uint64) (*transaction.Result, error)

	// RepayLoan 偿还借款
	RepayLoan(ctx context.Context, id uint64) (*transaction.Result, error)

	// Transfer 把代币转让给 recipient
	Transfer(ctx context.Context, id uint64, recipient string) (*transaction.Result, error)

	// Tokens 重新读取活动账户的代币（不需要签名）
	Tokens(ctx context.Context) ([]types.TokenRecord, error)
}

// Config 服务依赖
type Config struct {
	Session  Session
	Waiter   transaction.Waiter
	Reader   *resource.Reader
	Uploader Uploader // 只有 Mint 需要
	Contract services.ContractConfig
	Logger   client.Logger
}

// loanService 借贷服务实现
type loanService struct {
	session  Session
	waiter   transaction.Waiter
	reader   *resource.Reader
	uploader Uploader
	contract services.ContractConfig
	logger   client.Logger
}

// NewService 创建借贷服务
func NewService(cfg Config) Service {
	return &loanService{
		session:  cfg.Session,
		waiter:   cfg.Waiter,
		reader:   cfg.Reader,
		uploader: cfg.Uploader,
		contract: cfg.Contract.WithDefaults(),
		logger:   client.OrNop(cfg.Logger),
	}
}

// Tokens 重新读取活动账户的代币
func (s *loanService) Tokens(ctx context.Context) ([]types.TokenRecord, error) {
	account, err := s.session.RequireAccount()
	if err != nil {
		return nil, err
	}
	tokens := s.reader.GetTokens(ctx, account)
	return tokens, nil
}

// lookup 读取最新链上记录并定位 id
func (s *loanService) lookup(ctx context.Context, account string, id uint64) (types.TokenRecord, error) {
	tokens, err := s.reader.FetchTokens(ctx, account)
	if err != nil {
		return types.TokenRecord{}, err
	}
	token, ok := resource.FindToken(tokens, id)
	if !ok {
		return types.TokenRecord{}, ErrTokenNotFound
	}
	return token, nil
}

// execute 提交 → 等待 → 刷新
//
// 刷新失败只记日志，不影响已确认交易的结果。
func (s *loanService) execute(ctx context.Context, account string, fn string, args ...interface{}) (*transaction.Result, error) {
	payload := transaction.BuildPayload(s.contract.FunctionID(fn), nil, args...)
	executor := transaction.NewExecutor(s.session.Provider(), s.waiter, s.logger)

	result, err := executor.Execute(ctx, payload)
	if err != nil {
		return result, err
	}
	s.refresh(ctx, account)
	return result, nil
}

func (s *loanService) refresh(ctx context.Context, account string) {
	s.reader.GetTokens(ctx, account)
	if _, err := s.reader.RefreshBalance(ctx, account); err != nil {
		s.logger.Warn("Refresh balance after transaction failed", "account", account, "error", err)
	}
}
