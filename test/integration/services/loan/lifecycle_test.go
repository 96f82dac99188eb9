package loan

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvault/client-sdk-go/services/loan"
	"github.com/stackvault/client-sdk-go/services/resource"
	integration "github.com/stackvault/client-sdk-go/test/integration"
	"github.com/stackvault/client-sdk-go/types"
)

// TestLoanLifecycle 铸造 → 锁定 → 借款 → 还款 → 解锁 → 转让
func TestLoanLifecycle(t *testing.T) {
	integration.EnsureNodeRunning(t)
	publisher, contract := integration.PublisherWallet(t)

	c := integration.SetupTestClient(t)
	defer integration.TeardownTestClient(t, c)

	sess := integration.ConnectSession(t, c, publisher)
	reader := resource.NewReader(c, sess, contract)
	svc := loan.NewService(loan.Config{
		Session:  sess,
		Waiter:   c,
		Reader:   reader,
		Uploader: integration.NewFakePinata(t),
		Contract: contract,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	before, err := svc.Tokens(ctx)
	require.NoError(t, err)

	// 1. 铸造
	minted, err := svc.Mint(ctx, &loan.MintRequest{
		Value:     1000,
		AssetType: loan.AssetRealEstate,
		FileName:  "deed.txt",
		File:      strings.NewReader("integration deed"),
	})
	require.NoError(t, err, "铸造失败")
	integration.VerifyTransactionSuccess(t, minted.Result)

	tokens, err := svc.Tokens(ctx)
	require.NoError(t, err)
	require.Len(t, tokens, len(before)+1)
	token := newest(tokens)
	assert.Equal(t, uint64(1000), token.PropertyValue)
	assert.Equal(t, loan.AssetRealEstate, token.AssetType)

	// 2. 锁定
	locked, err := svc.LockCollateral(ctx, token.ID)
	require.NoError(t, err, "锁定失败")
	assert.True(t, locked.Locked)

	_, err = svc.Transfer(ctx, token.ID, integration.CreateTestWallet(t).Address())
	assert.ErrorIs(t, err, loan.ErrAlreadyLocked)

	// 3. 借款
	_, err = svc.TakeLoan(ctx, token.ID, 1000)
	assert.ErrorIs(t, err, loan.ErrLoanExceedsValue)
	res, err := svc.TakeLoan(ctx, token.ID, 400)
	require.NoError(t, err, "借款失败")
	integration.VerifyTransactionSuccess(t, res)

	_, err = svc.TakeLoan(ctx, token.ID, 100)
	assert.ErrorIs(t, err, loan.ErrLoanActive)

	// 4. 还款 + 解锁
	res, err = svc.RepayLoan(ctx, token.ID)
	require.NoError(t, err, "还款失败")
	integration.VerifyTransactionSuccess(t, res)

	res, err = svc.UnlockCollateral(ctx, token.ID)
	require.NoError(t, err, "解锁失败")
	integration.VerifyTransactionSuccess(t, res)

	t.Logf("代币 %d 完成借贷周期", token.ID)
}

func newest(tokens []types.TokenRecord) types.TokenRecord {
	out := tokens[0]
	for _, t := range tokens[1:] {
		if t.ID > out.ID {
			out = t
		}
	}
	return out
}
