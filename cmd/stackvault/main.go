// Command stackvault 是 StackVault 抵押借贷客户端的命令行前端。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/config"
	"github.com/stackvault/client-sdk-go/services/loan"
	"github.com/stackvault/client-sdk-go/services/resource"
	"github.com/stackvault/client-sdk-go/services/session"
	"github.com/stackvault/client-sdk-go/services/storage"
	"github.com/stackvault/client-sdk-go/wallet"
)

var (
	flagConfig  string
	flagDebug   bool
	flagBridge  string
	flagAddress string
)

// app 一次命令执行期间共享的依赖
type app struct {
	cfg     *config.Config
	zap     *zap.Logger
	logger  client.Logger
	client  client.Client
	reader  *resource.Reader
	storage *storage.Client

	session *session.Manager
	closers []func() error
}

var current *app

var rootCmd = &cobra.Command{
	Use:           "stackvault",
	Short:         "NFT-collateralized lending on Aptos",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current != nil {
			return current.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ./stackvault.{toml,yaml,json})")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "development logging")
	rootCmd.PersistentFlags().StringVar(&flagBridge, "bridge", "", "wallet bridge endpoint (ws://...)")
	rootCmd.PersistentFlags().StringVar(&flagAddress, "address", "", "keystore account used for signing")
}

func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDebug {
		cfg.Log.Debug = true
	}
	if flagBridge != "" {
		cfg.Wallet.BridgeURL = flagBridge
	}
	if flagAddress != "" {
		cfg.Wallet.Address = flagAddress
	}

	zl, err := cfg.Log.NewLogger()
	if err != nil {
		return nil, err
	}
	logger := client.NewZapLogger(zl)

	cli, err := client.NewClient(cfg.ClientConfig(logger))
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		zap:     zl,
		logger:  logger,
		client:  cli,
		storage: storage.NewClient(cfg.StorageConfig(logger)),
	}
	a.closers = append(a.closers, cli.Close)
	a.reader = resource.NewReader(cli, a, cfg.ContractConfig(), resource.WithLogger(logger))
	return a, nil
}

// Account 实现 resource.AccountSource；未连接钱包时没有账户
func (a *app) Account() (string, bool) {
	if a.session == nil {
		return "", false
	}
	return a.session.Account()
}

// provider 按 --bridge / --address 选择钱包；都未配置时返回 nil（视为未安装钱包）
func (a *app) provider(ctx context.Context) (wallet.Provider, error) {
	w := a.cfg.Wallet
	switch {
	case w.BridgeURL != "":
		bridge, err := wallet.DialBridge(ctx, w.BridgeURL, wallet.WithBridgeLogger(a.logger))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, bridge.Close)
		return bridge, nil
	case w.Address != "":
		km, err := wallet.NewKeystoreManager(w.KeystoreDir)
		if err != nil {
			return nil, err
		}
		password, err := walletPassword(false)
		if err != nil {
			return nil, err
		}
		sw, err := km.LoadWallet(w.Address, password)
		if err != nil {
			return nil, fmt.Errorf("unlock keystore %s: %w", w.Address, err)
		}
		// 网络由节点链 ID 推断，节点与 node.network 不一致时会话进入 wrong_network
		local, err := wallet.NewLocalProvider(sw, a.client, wallet.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		return local, nil
	default:
		return nil, nil
	}
}

// connect 建立钱包会话，返回活动账户
func (a *app) connect(ctx context.Context) (string, error) {
	if a.session == nil {
		p, err := a.provider(ctx)
		if err != nil {
			return "", err
		}
		a.session = session.New(p, a.cfg.Node.Network, session.WithLogger(a.logger))
		if err := a.session.Initialize(ctx); err != nil {
			return "", describeSessionError(a.session.Snapshot(), err)
		}
	}
	return a.session.RequireAccount()
}

func describeSessionError(snap session.Snapshot, err error) error {
	switch snap.Status {
	case session.StatusNotInstalled:
		return fmt.Errorf("%w: pass --bridge or --address", err)
	case session.StatusWrongNetwork:
		return fmt.Errorf("%w: wallet is on %q, switch it to the configured network", err, snap.Network)
	default:
		return err
	}
}

func (a *app) loanService() loan.Service {
	return loan.NewService(loan.Config{
		Session:  a.session,
		Waiter:   a.client,
		Reader:   a.reader,
		Uploader: a.storage,
		Contract: a.cfg.ContractConfig(),
		Logger:   a.logger,
	})
}

// Close 释放连接并刷新日志
func (a *app) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = a.zap.Sync()
	return firstErr
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
