package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvault/client-sdk-go/services"
	"github.com/stackvault/client-sdk-go/services/resource"
	integration "github.com/stackvault/client-sdk-go/test/integration"
)

// TestGetBalances_Funded 充值后批量查询余额
func TestGetBalances_Funded(t *testing.T) {
	integration.EnsureNodeRunning(t)

	c := integration.SetupTestClient(t)
	defer integration.TeardownTestClient(t, c)

	funded := integration.CreateTestWallet(t)
	integration.FundTestAccount(t, c, funded.Address(), 100_000_000)
	empty := integration.CreateTestWallet(t)

	reader := resource.NewReader(c, nil, services.DefaultContractConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := reader.GetBalances(ctx, []string{funded.Address(), empty.Address()})
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	assert.Equal(t, uint64(100_000_000), results[0].Balance)
	assert.Error(t, results[1].Err, "账户不存在时应返回错误")
	t.Logf("账户余额: %d", results[0].Balance)
}

// TestCheckCollectionExists_NewAccount 新账户没有代币集合
func TestCheckCollectionExists_NewAccount(t *testing.T) {
	integration.EnsureNodeRunning(t)

	c := integration.SetupTestClient(t)
	defer integration.TeardownTestClient(t, c)

	w := integration.CreateTestWallet(t)
	integration.FundTestAccount(t, c, w.Address(), 1_000_000)

	reader := resource.NewReader(c, nil, services.DefaultContractConfig())
	exists, err := reader.CheckCollectionExists(context.Background(), w.Address())
	require.NoError(t, err)
	assert.False(t, exists)
}
