package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/types"
	"github.com/stackvault/client-sdk-go/wallet"
)

type recordingProvider struct {
	wallet.Provider
	calls     []string
	submitErr error
}

func (p *recordingProvider) SignAndSubmitTransaction(ctx context.Context, payload types.Payload) (*types.PendingTransaction, error) {
	p.calls = append(p.calls, "submit:"+payload.Function())
	if p.submitErr != nil {
		return nil, p.submitErr
	}
	return &types.PendingTransaction{Hash: "0xabc1"}, nil
}

type fakeWaiter struct {
	provider *recordingProvider
	tx       *types.Transaction
	err      error
}

func (w *fakeWaiter) WaitForTransaction(ctx context.Context, hash string) (*types.Transaction, error) {
	w.provider.calls = append(w.provider.calls, "wait:"+hash)
	return w.tx, w.err
}

func TestBuildPayload(t *testing.T) {
	args := []interface{}{types.U64(5), types.HexBytes("Qm")}
	p := BuildPayload("0xabc::RealEstateToken::mint_real_estate_token", nil, args...)
	args[0] = types.U64(99)

	assert.Equal(t, "0xabc::RealEstateToken::mint_real_estate_token", p.Function())
	assert.Empty(t, p.TypeArguments())
	assert.Equal(t, types.U64(5), p.Arguments()[0])

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"entry_function_payload","function":"0xabc::RealEstateToken::mint_real_estate_token","type_arguments":[],"arguments":["5","0x516d"]}`, string(raw))
}

func TestBuildPayload_NoArityCheck(t *testing.T) {
	p := BuildPayload("0x1::coin::transfer", []string{"0x1::aptos_coin::AptosCoin"})
	assert.Empty(t, p.Arguments())
	assert.Equal(t, []string{"0x1::aptos_coin::AptosCoin"}, p.TypeArguments())
}

func TestExecute_SubmitThenWait(t *testing.T) {
	provider := &recordingProvider{}
	waiter := &fakeWaiter{provider: provider, tx: &types.Transaction{Type: types.TxTypeUser, Hash: "0xabc1", Success: true}}
	e := NewExecutor(provider, waiter, nil)

	result, err := e.Execute(context.Background(), BuildPayload("0xabc::RealEstateToken::repay_loan", nil, types.U64(1)))
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, "0xabc1", result.Hash)
	assert.Equal(t, []string{"submit:0xabc::RealEstateToken::repay_loan", "wait:0xabc1"}, provider.calls)
}

func TestExecute_SubmitFailure(t *testing.T) {
	provider := &recordingProvider{submitErr: wallet.ErrUserRejected}
	waiter := &fakeWaiter{provider: provider}
	e := NewExecutor(provider, waiter, nil)

	result, err := e.Execute(context.Background(), BuildPayload("0x1::m::f", nil))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, wallet.ErrUserRejected)
	assert.Len(t, provider.calls, 1, "no wait after failed submit")
}

func TestExecute_ExecutionFailed(t *testing.T) {
	provider := &recordingProvider{}
	failed := &types.Transaction{Type: types.TxTypeUser, Hash: "0xabc1", VMStatus: "Move abort"}
	waiter := &fakeWaiter{provider: provider, tx: failed, err: client.NewTxFailedError("0xabc1", "Move abort")}
	e := NewExecutor(provider, waiter, nil)

	result, err := e.Execute(context.Background(), BuildPayload("0x1::m::f", nil))
	require.Error(t, err)
	assert.True(t, client.HasCode(err, client.ErrCodeTxFailed))
	require.NotNil(t, result)
	assert.Equal(t, "0xabc1", result.Hash)
	assert.False(t, result.Success())
}

func TestExecute_NoProvider(t *testing.T) {
	e := NewExecutor(nil, &fakeWaiter{}, nil)
	_, err := e.Execute(context.Background(), BuildPayload("0x1::m::f", nil))
	assert.True(t, errors.Is(err, ErrNoProvider))
}
