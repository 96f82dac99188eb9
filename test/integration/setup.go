package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/services"
	"github.com/stackvault/client-sdk-go/services/resource"
	"github.com/stackvault/client-sdk-go/wallet"
)

const (
	// DefaultNodeEndpoint 本地测试网节点（aptos node run-local-testnet）
	DefaultNodeEndpoint = "http://127.0.0.1:8080/v1"
	// DefaultFaucetEndpoint 本地测试网水龙头
	DefaultFaucetEndpoint = "http://127.0.0.1:8081"
	// DefaultTimeout 默认超时时间
	DefaultTimeout = 30 * time.Second
	// TransactionConfirmTimeout 交易确认超时时间
	TransactionConfirmTimeout = 60 * time.Second

	// EnvEnable 设置为 1 时才运行集成测试
	EnvEnable = "STACKVAULT_INTEGRATION"
	// EnvModuleAddress 已发布合约的账户地址
	EnvModuleAddress = "STACKVAULT_MODULE_ADDRESS"
	// EnvPublisherKey 合约发布账户的私钥（铸造、借款均在该账户下进行）
	EnvPublisherKey = "STACKVAULT_PUBLISHER_KEY"
)

// TestConfig 测试配置
type TestConfig struct {
	NodeEndpoint   string
	FaucetEndpoint string
	Timeout        time.Duration
}

// DefaultTestConfig 返回默认测试配置，可用 STACKVAULT_NODE_URL / STACKVAULT_FAUCET_URL 覆盖
func DefaultTestConfig() *TestConfig {
	cfg := &TestConfig{
		NodeEndpoint:   DefaultNodeEndpoint,
		FaucetEndpoint: DefaultFaucetEndpoint,
		Timeout:        DefaultTimeout,
	}
	if v := os.Getenv("STACKVAULT_NODE_URL"); v != "" {
		cfg.NodeEndpoint = v
	}
	if v := os.Getenv("STACKVAULT_FAUCET_URL"); v != "" {
		cfg.FaucetEndpoint = v
	}
	return cfg
}

// EnsureNodeRunning 未开启集成测试时跳过；开启后节点必须可达
func EnsureNodeRunning(t *testing.T) {
	t.Helper()
	if os.Getenv(EnvEnable) != "1" {
		t.Skipf("set %s=1 to run integration tests against a local testnet", EnvEnable)
	}
	c := SetupTestClient(t)
	TeardownTestClient(t, c)
}

// SetupTestClient 创建客户端并确认节点在运行
func SetupTestClient(t *testing.T) client.Client {
	t.Helper()
	cfg := DefaultTestConfig()

	c, err := client.NewClient(&client.Config{
		Endpoint:     cfg.NodeEndpoint,
		Timeout:      int(cfg.Timeout.Seconds()),
		WaitTimeout:  int(TransactionConfirmTimeout.Seconds()),
		PollInterval: 500,
	})
	require.NoError(t, err, "创建客户端失败")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = c.GetLedgerInfo(ctx)
	require.NoError(t, err, "节点未运行，请先启动本地测试网: %s\n启动命令: aptos node run-local-testnet --with-faucet", cfg.NodeEndpoint)
	return c
}

// TeardownTestClient 清理测试客户端
func TeardownTestClient(t *testing.T, c client.Client) {
	if c != nil {
		if err := c.Close(); err != nil {
			t.Logf("关闭客户端时出现警告: %v", err)
		}
	}
}

// CreateTestWallet 创建随机测试钱包
func CreateTestWallet(t *testing.T) *wallet.SimpleWallet {
	w, err := wallet.NewWallet()
	require.NoError(t, err, "创建测试钱包失败")
	return w
}

// PublisherWallet 合约发布账户；未配置时跳过测试
func PublisherWallet(t *testing.T) (*wallet.SimpleWallet, services.ContractConfig) {
	t.Helper()
	key := os.Getenv(EnvPublisherKey)
	module := os.Getenv(EnvModuleAddress)
	if key == "" || module == "" {
		t.Skipf("set %s and %s to run contract tests", EnvPublisherKey, EnvModuleAddress)
	}
	w, err := wallet.NewWalletFromPrivateKey(key)
	require.NoError(t, err, "从私钥创建钱包失败")
	return w, services.ContractConfig{ModuleAddress: module}
}

// FundTestAccount 通过水龙头为账户充值并等待入账
func FundTestAccount(t *testing.T, c client.Client, address string, amount uint64) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), TransactionConfirmTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/mint?amount=%d&address=%s", DefaultTestConfig().FaucetEndpoint, amount, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "调用水龙头失败")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "水龙头返回错误")

	var hashes []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hashes), "解析水龙头响应失败")
	for _, hash := range hashes {
		_, err := c.WaitForTransaction(ctx, hash)
		require.NoError(t, err, "等待充值交易失败: %s", hash)
	}
	t.Logf("已为账户充值: %s (%d octas)", address, amount)
}

// GetTestAccountBalance 查询账户余额
func GetTestAccountBalance(t *testing.T, c client.Client, address string) uint64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reader := resource.NewReader(c, nil, services.DefaultContractConfig())
	balance, err := reader.FetchBalance(ctx, address)
	require.NoError(t, err, "查询余额失败")
	return balance
}
