package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/types"
)

const (
	defaultMaxGasAmount = 200000
	defaultExpiration   = 30 * time.Second
)

// LocalProvider 使用本地 ed25519 密钥签名的钱包
//
// 构建交易所需的序列号、gas 单价从节点获取，BCS 编码由节点的
// encode_submission 接口完成。
type LocalProvider struct {
	wallet  Wallet
	client  client.Client
	logger  client.Logger
	network string

	maxGasAmount uint64
	expiration   time.Duration
	now          func() time.Time

	mu        sync.Mutex
	connected bool
}

// LocalProviderOption LocalProvider 选项
type LocalProviderOption func(*LocalProvider)

// WithNetwork 固定网络名称，不再从链 ID 推断
func WithNetwork(network string) LocalProviderOption {
	return func(p *LocalProvider) { p.network = network }
}

// WithMaxGasAmount 设置单笔交易最大 gas
func WithMaxGasAmount(amount uint64) LocalProviderOption {
	return func(p *LocalProvider) { p.maxGasAmount = amount }
}

// WithExpiration 设置交易过期时长
func WithExpiration(d time.Duration) LocalProviderOption {
	return func(p *LocalProvider) { p.expiration = d }
}

// WithLogger 设置日志
func WithLogger(logger client.Logger) LocalProviderOption {
	return func(p *LocalProvider) { p.logger = client.OrNop(logger) }
}

// NewLocalProvider 创建本地签名钱包
func NewLocalProvider(w Wallet, cli client.Client, opts ...LocalProviderOption) (*LocalProvider, error) {
	if w == nil {
		return nil, fmt.Errorf("wallet is required")
	}
	if cli == nil {
		return nil, fmt.Errorf("node client is required")
	}
	p := &LocalProvider{
		wallet:       w,
		client:       cli,
		logger:       client.NopLogger(),
		maxGasAmount: defaultMaxGasAmount,
		expiration:   defaultExpiration,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Connect 本地钱包无需用户确认，直接披露账户
func (p *LocalProvider) Connect(ctx context.Context) (*Account, error) {
	p.mu.Lock()
	p.connected = true
	p.mu.Unlock()
	return &Account{Address: p.wallet.Address(), PublicKey: p.wallet.PublicKey()}, nil
}

// Disconnect 断开
func (p *LocalProvider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()
	return nil
}

// Network 返回固定网络或由节点链 ID 推断
func (p *LocalProvider) Network(ctx context.Context) (string, error) {
	if p.network != "" {
		return p.network, nil
	}
	info, err := p.client.GetLedgerInfo(ctx)
	if err != nil {
		return "", fmt.Errorf("query network: %w", err)
	}
	return NetworkFromChainID(info.ChainID), nil
}

// SignAndSubmitTransaction 构建、签名并提交交易
func (p *LocalProvider) SignAndSubmitTransaction(ctx context.Context, payload types.Payload) (*types.PendingTransaction, error) {
	p.mu.Lock()
	connected := p.connected
	p.mu.Unlock()
	if !connected {
		return nil, ErrNotConnected
	}

	sender := p.wallet.Address()
	account, err := p.client.GetAccount(ctx, sender)
	if err != nil {
		return nil, fmt.Errorf("get sequence number: %w", err)
	}
	gasPrice, err := p.client.EstimateGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("estimate gas price: %w", err)
	}

	req := &types.SubmitRequest{
		Sender:                  sender,
		SequenceNumber:          account.SequenceNumber,
		MaxGasAmount:            types.U64(p.maxGasAmount),
		GasUnitPrice:            types.U64(gasPrice),
		ExpirationTimestampSecs: types.U64(p.now().Add(p.expiration).Unix()),
		Payload:                 payload,
	}

	message, err := p.client.EncodeSubmission(ctx, req)
	if err != nil {
		return nil, err
	}
	req.Signature = &types.TxSignature{
		Type:      types.SignatureTypeEd25519,
		PublicKey: p.wallet.PublicKey(),
		Signature: hexutil.Encode(p.wallet.Sign(message)),
	}

	pending, err := p.client.SubmitTransaction(ctx, req)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Transaction submitted",
		"hash", pending.Hash,
		"function", payload.Function(),
		"sequence", uint64(account.SequenceNumber),
	)
	return pending, nil
}
