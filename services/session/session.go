// Package session 管理钱包连接状态：检测钱包、连接 / 断开、校验目标网络。
//
// 状态机：
//
//	loading → {not_installed | not_connected} → {connected | wrong_network | not_connected}
//
// 初始化之后只有 Connect / Disconnect 会触发状态迁移，连接后不会自动重新检查网络。
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/wallet"
)

// Status 会话状态
type Status string

const (
	StatusLoading      Status = "loading"
	StatusNotInstalled Status = "not_installed"
	StatusNotConnected Status = "not_connected"
	StatusWrongNetwork Status = "wrong_network"
	StatusConnected    Status = "connected"
)

var (
	// ErrNotInstalled 没有可用的钱包
	ErrNotInstalled = errors.New("session: wallet not installed")
	// ErrNotConnected 会话未连接
	ErrNotConnected = errors.New("session: wallet not connected")
	// ErrWrongNetwork 钱包所在网络与目标网络不一致
	ErrWrongNetwork = errors.New("session: wallet on wrong network")
	// ErrSuperseded 操作完成前已有更新的 Connect / Disconnect，结果被丢弃
	ErrSuperseded = errors.New("session: superseded by a newer request")
)

// Snapshot 会话状态快照
type Snapshot struct {
	Status     Status
	Account    string // 未连接时为空
	Network    string // 钱包最近一次报告的网络，未知时为空
	Generation uint64
}

// Connected 是否已连接
func (s Snapshot) Connected() bool {
	return s.Status == StatusConnected
}

// Manager 钱包会话管理器
//
// 并发安全。每次 Connect / Disconnect 获取新的 generation，
// 完成时 generation 已过期的结果不会写入会话。
type Manager struct {
	provider      wallet.Provider
	targetNetwork string
	logger        client.Logger
	listener      func(Snapshot)

	mu         sync.RWMutex
	status     Status
	account    string
	network    string
	generation uint64
}

// Option Manager 选项
type Option func(*Manager)

// WithLogger 设置日志
func WithLogger(logger client.Logger) Option {
	return func(m *Manager) { m.logger = client.OrNop(logger) }
}

// WithListener 每次状态变化后回调新的快照
func WithListener(fn func(Snapshot)) Option {
	return func(m *Manager) { m.listener = fn }
}

// New 创建会话管理器，初始状态为 loading
//
// provider 为 nil 表示运行环境没有钱包。
func New(provider wallet.Provider, targetNetwork string, opts ...Option) *Manager {
	m := &Manager{
		provider:      provider,
		targetNetwork: targetNetwork,
		logger:        client.NopLogger(),
		status:        StatusLoading,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize 检测钱包并尝试连接
//
// 没有钱包时进入 not_installed 并返回 ErrNotInstalled；
// 否则进入 not_connected 并立即调用 Connect。
func (m *Manager) Initialize(ctx context.Context) error {
	if m.provider == nil {
		m.logger.Warn("No wallet provider available")
		m.set(m.begin(), StatusNotInstalled, "", "")
		return ErrNotInstalled
	}
	m.set(m.begin(), StatusNotConnected, "", "")
	return m.Connect(ctx)
}

// Connect 请求钱包披露账户并校验网络
func (m *Manager) Connect(ctx context.Context) error {
	if m.provider == nil {
		return ErrNotInstalled
	}
	gen := m.begin()

	account, err := m.provider.Connect(ctx)
	if err != nil {
		m.logger.Error("Wallet connect failed", "error", err)
		return m.fail(gen, fmt.Errorf("connect wallet: %w", err))
	}

	network, err := m.provider.Network(ctx)
	if err != nil {
		m.logger.Error("Wallet network query failed", "error", err)
		return m.fail(gen, fmt.Errorf("query wallet network: %w", err))
	}

	if !wallet.SameNetwork(network, m.targetNetwork) {
		m.logger.Warn("Wallet on wrong network", "network", network, "target", m.targetNetwork)
		if !m.set(gen, StatusWrongNetwork, "", network) {
			return ErrSuperseded
		}
		return fmt.Errorf("%w: %s (expected %s)", ErrWrongNetwork, network, m.targetNetwork)
	}

	if !m.set(gen, StatusConnected, account.Address, network) {
		return ErrSuperseded
	}
	m.logger.Info("Wallet connected", "account", account.Address, "network", network)
	return nil
}

// Disconnect 断开钱包
//
// 钱包返回错误时会话状态保持不变，调用方可以重试。
func (m *Manager) Disconnect(ctx context.Context) error {
	if m.provider == nil {
		return ErrNotInstalled
	}
	gen := m.begin()

	if err := m.provider.Disconnect(ctx); err != nil {
		m.logger.Error("Wallet disconnect failed", "error", err)
		return fmt.Errorf("disconnect wallet: %w", err)
	}

	m.mu.RLock()
	network := m.network
	m.mu.RUnlock()
	if !m.set(gen, StatusNotConnected, "", network) {
		return ErrSuperseded
	}
	m.logger.Info("Wallet disconnected")
	return nil
}

// fail 连接失败统一进入 not_connected
func (m *Manager) fail(gen uint64, err error) error {
	m.mu.RLock()
	network := m.network
	m.mu.RUnlock()
	if !m.set(gen, StatusNotConnected, "", network) {
		return ErrSuperseded
	}
	return err
}

// begin 开始新的请求，返回其 generation
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	return m.generation
}

// set 仅当 gen 仍是最新时写入状态
func (m *Manager) set(gen uint64, status Status, account, network string) bool {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		m.logger.Debug("Discarding stale session update", "generation", gen, "status", string(status))
		return false
	}
	m.status = status
	m.account = account
	m.network = network
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if m.listener != nil {
		m.listener(snap)
	}
	return true
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Status:     m.status,
		Account:    m.account,
		Network:    m.network,
		Generation: m.generation,
	}
}

// Snapshot 当前状态快照
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Status 当前状态
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Account 当前账户，未连接时第二个返回值为 false
func (m *Manager) Account() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account, m.status == StatusConnected && m.account != ""
}

// RequireAccount 已连接时返回账户，否则返回 ErrNotConnected
func (m *Manager) RequireAccount() (string, error) {
	account, ok := m.Account()
	if !ok {
		return "", ErrNotConnected
	}
	return account, nil
}

// Network 钱包最近一次报告的网络
func (m *Manager) Network() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.network
}

// TargetNetwork 配置的目标网络
func (m *Manager) TargetNetwork() string {
	return m.targetNetwork
}

// Provider 钱包能力，未安装时为 nil
func (m *Manager) Provider() wallet.Provider {
	return m.provider
}

// Generation 当前 generation，每次 Initialize / Connect / Disconnect 递增
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}
