package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/services/session"
	"github.com/stackvault/client-sdk-go/services/storage"
	"github.com/stackvault/client-sdk-go/services/transaction"
	"github.com/stackvault/client-sdk-go/wallet"
)

// TestCID 假固定服务返回的内容标识
const TestCID = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

// NewFakePinata 启动只实现 pinFileToIPFS 的固定服务
func NewFakePinata(t *testing.T) *storage.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/pinning/pinFileToIPFS") {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"IpfsHash": TestCID})
	}))
	t.Cleanup(server.Close)
	return storage.NewClient(storage.Config{JWT: "integration", APIURL: server.URL})
}

// ConnectSession 用本地钱包建立会话
func ConnectSession(t *testing.T, c client.Client, w wallet.Wallet) *session.Manager {
	t.Helper()
	provider, err := wallet.NewLocalProvider(w, c)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	network, err := provider.Network(ctx)
	require.NoError(t, err, "查询网络失败")

	m := session.New(provider, network)
	require.NoError(t, m.Initialize(ctx), "连接钱包失败")
	require.Equal(t, session.StatusConnected, m.Status())
	return m
}

// VerifyTransactionSuccess 验证交易已成功执行
func VerifyTransactionSuccess(t *testing.T, result *transaction.Result) {
	t.Helper()
	require.NotNil(t, result, "交易结果为空")
	assert.NotEmpty(t, result.Hash, "交易哈希为空")
	assert.True(t, result.Success(), "交易执行失败")
}

// WaitForBalanceChange 轮询直到余额与 before 不同
func WaitForBalanceChange(t *testing.T, c client.Client, address string, before uint64, timeout time.Duration) uint64 {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		current := GetTestAccountBalance(t, c, address)
		if current != before {
			return current
		}
		if time.Now().After(deadline) {
			t.Fatalf("等待余额变化超时: 当前=%d", current)
		}
		time.Sleep(500 * time.Millisecond)
	}
}
