package loan

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/stackvault/client-sdk-go/services/storage"
	"github.com/stackvault/client-sdk-go/services/transaction"
	"github.com/stackvault/client-sdk-go/types"
	"github.com/stackvault/client-sdk-go/utils"
)

// MintRequest 铸造请求
type MintRequest struct {
	Value     uint64    // 资产估值（APT），必须大于 0
	AssetType string    // 资产类型，见 AssetTypes
	FileName  string    // 与 File 一起使用
	File      io.Reader // 资产文件内容；为 nil 时使用 FilePath
	FilePath  string
	Progress  func(utils.FileProgress) // 可选：上传进度
}

// MintResult 铸造结果
type MintResult struct {
	CID        string
	ContentRef string // 链上记录中的 CID 形式（UTF-8 十六进制），与 TokenRecord.ContentRef 一致
	*transaction.Result
}

// Mint 上传资产文件并铸造代币
func (s *loanService) Mint(ctx context.Context, req *MintRequest) (*MintResult, error) {
	// 1. 参数验证
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}
	if req.Value == 0 {
		return nil, fmt.Errorf("%w: asset value is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.AssetType) == "" {
		return nil, fmt.Errorf("%w: asset type is required", ErrInvalidRequest)
	}
	if req.File == nil && strings.TrimSpace(req.FilePath) == "" {
		return nil, fmt.Errorf("%w: asset file is required", ErrInvalidRequest)
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: no uploader configured", ErrInvalidRequest)
	}
	account, err := s.session.RequireAccount()
	if err != nil {
		return nil, err
	}

	// 2. 上传文件
	var opts []storage.UploadOption
	if req.Progress != nil {
		opts = append(opts, storage.WithProgress(0, req.Progress))
	}
	var cid string
	if req.File != nil {
		cid, err = s.uploader.Upload(ctx, req.FileName, req.File, opts...)
	} else {
		cid, err = s.uploader.UploadFile(ctx, req.FilePath, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("upload asset file: %w", err)
	}

	// 3. 提交铸造交易
	s.logger.Info("Minting token", "account", account, "value", req.Value, "asset_type", req.AssetType, "cid", cid)
	payload := transaction.BuildPayload(s.contract.FunctionID(FnMint), nil,
		types.U64(req.Value), types.HexBytes(cid), types.HexBytes(req.AssetType))
	executor := transaction.NewExecutor(s.session.Provider(), s.waiter, s.logger)
	result, err := executor.Execute(ctx, payload)
	minted := &MintResult{CID: cid, ContentRef: utils.EncodeUTF8Hex(cid), Result: result}
	if err != nil {
		return minted, err
	}

	// 4. 刷新余额
	if _, err := s.reader.RefreshBalance(ctx, account); err != nil {
		s.logger.Warn("Refresh balance after mint failed", "account", account, "error", err)
	}
	return minted, nil
}

// LockCollateral 锁定代币作为抵押品
//
// 确认后先在缓存中把记录修正为已锁定并返回该记录，再重新读取代币列表。
func (s *loanService) LockCollateral(ctx context.Context, id uint64) (*types.TokenRecord, error) {
	account, err := s.session.RequireAccount()
	if err != nil {
		return nil, err
	}
	token, err := s.lookup(ctx, account, id)
	if err != nil {
		return nil, err
	}
	if token.Locked {
		return nil, ErrAlreadyLocked
	}

	payload := transaction.BuildPayload(s.contract.FunctionID(FnLock), nil, types.U64(id))
	executor := transaction.NewExecutor(s.session.Provider(), s.waiter, s.logger)
	if _, err := executor.Execute(ctx, payload); err != nil {
		return nil, err
	}

	patched := token
	patched.Locked = true
	s.reader.PatchToken(id, func(t *types.TokenRecord) { t.Locked = true })
	s.refresh(ctx, account)
	return &patched, nil
}

// UnlockCollateral 解除抵押锁定；有未偿还借款时拒绝
func (s *loanService) UnlockCollateral(ctx context.Context, id uint64) (*transaction.Result, error) {
	account, err := s.session.RequireAccount()
	if err != nil {
		return nil, err
	}
	token, err := s.lookup(ctx, account, id)
	if err != nil {
		return nil, err
	}
	if !token.Locked {
		return nil, ErrNotLocked
	}
	if token.LoanActive {
		return nil, ErrLoanActive
	}
	return s.execute(ctx, account, FnUnlock, types.U64(id))
}

// TakeLoan 以已锁定代币借款
//
// 每个代币只能借款一次（loan_amount > 0 即拒绝），金额必须严格小于估值。
func (s *loanService) TakeLoan(ctx context.Context, id, amount uint64) (*transaction.Result, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	account, err := s.session.RequireAccount()
	if err != nil {
		return nil, err
	}
	token, err := s.lookup(ctx, account, id)
	if err != nil {
		return nil, err
	}
	if !token.Locked {
		return nil, ErrNotLocked
	}
	if token.HasLoan() {
		return nil, ErrLoanActive
	}
	if amount >= token.PropertyValue {
		return nil, ErrLoanExceedsValue
	}

	s.logger.Info("Taking loan", "token", id, "amount", amount, "ltv", LoanToValue(amount, token.PropertyValue))
	return s.execute(ctx, account, FnTakeLoan, types.U64(id), types.U64(amount))
}

// RepayLoan 偿还借款
func (s *loanService) RepayLoan(ctx context.Context, id uint64) (*transaction.Result, error) {
	account, err := s.session.RequireAccount()
	if err != nil {
		return nil, err
	}
	token, err := s.lookup(ctx, account, id)
	if err != nil {
		return nil, err
	}
	if !token.LoanActive {
		return nil, ErrNoActiveLoan
	}
	return s.execute(ctx, account, FnRepay, types.U64(id))
}

// Transfer 把代币转让给 recipient；锁定中的代币不能转让
func (s *loanService) Transfer(ctx context.Context, id uint64, recipient string) (*transaction.Result, error) {
	if strings.TrimSpace(recipient) == "" {
		return nil, fmt.Errorf("%w: recipient address is required", ErrInvalidRequest)
	}
	to, err := utils.NormalizeAddress(recipient)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	account, err := s.session.RequireAccount()
	if err != nil {
		return nil, err
	}
	token, err := s.lookup(ctx, account, id)
	if err != nil {
		return nil, err
	}
	if token.Locked {
		return nil, ErrAlreadyLocked
	}
	return s.execute(ctx, account, FnTransfer, to, types.U64(id))
}
