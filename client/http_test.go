package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvault/client-sdk-go/types"
)

const testAccount = "0x1a2b"

func newTestClient(t *testing.T, handler http.Handler, retry *RetryConfig) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(&Config{
		Endpoint:     server.URL + "/v1",
		Retry:        retry,
		WaitTimeout:  2,
		PollInterval: 10,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func fastRetry() *RetryConfig {
	return &RetryConfig{MaxRetries: 2, InitialDelay: 1, MaxDelay: 5, BackoffMultiplier: 2}
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := NewClient(&Config{Endpoint: "  "})
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeInvalidParams))
}

func TestGetAccountResources(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accounts/"+testAccount+"/resources", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"type":"0x1::account::Account","data":{"sequence_number":"3"}},
			{"type":"0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>","data":{"coin":{"value":"150000000"},"frozen":false}}
		]`))
	})
	c := newTestClient(t, mux, NoRetry())

	resources, err := c.GetAccountResources(context.Background(), testAccount)
	require.NoError(t, err)
	require.Len(t, resources, 2)

	coin, ok := types.FindResource(resources, types.NativeCoinStoreType)
	require.True(t, ok)
	var data types.CoinStoreData
	require.NoError(t, coin.DecodeData(&data))
	assert.Equal(t, types.U64(150000000), data.Coin.Value)
}

func TestGetAccountResource_NotFound(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Resource not found","error_code":"resource_not_found","vm_error_code":null}`))
	})
	c := newTestClient(t, handler, fastRetry())

	_, err := c.GetAccountResource(context.Background(), testAccount, "0xabc::RealEstateToken::RealEstateCollection")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load(), "not-found must not be retried")

	var nodeErr *types.NodeError
	require.True(t, errors.As(err, &nodeErr))
	assert.Equal(t, types.ErrorCodeResourceNotFound, nodeErr.ErrorCode)

	viaHelper, ok := types.IsNodeError(err)
	require.True(t, ok, "wrapped client errors must still match")
	assert.Same(t, nodeErr, viaHelper)
}

func TestGetTransactionByHash(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transactions/by_hash/0xabc1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"type":"user_transaction","hash":"0xabc1","version":"77","success":true,"vm_status":"Executed successfully","gas_used":"12","sender":"0x1a2b"}`))
	})
	c := newTestClient(t, mux, NoRetry())

	tx, err := c.GetTransactionByHash(context.Background(), " 0xabc1 ")
	require.NoError(t, err)
	assert.Equal(t, types.TxTypeUser, tx.Type)
	assert.Equal(t, types.U64(77), tx.Version)
	assert.Equal(t, types.U64(12), tx.GasUsed)
	assert.True(t, tx.Success)
	assert.False(t, tx.Pending())

	_, err = c.GetTransactionByHash(context.Background(), "")
	assert.True(t, HasCode(err, ErrCodeInvalidParams))

	_, err = c.GetTransactionByHash(context.Background(), "0xdead")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestEstimateGasPrice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/estimate_gas_price", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"deprioritized_gas_estimate":100,"gas_estimate":150,"prioritized_gas_estimate":200}`))
	})
	c := newTestClient(t, mux, NoRetry())

	price, err := c.EstimateGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(150), price)
}

func TestEstimateGasPrice_InvalidResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	c := newTestClient(t, handler, NoRetry())

	_, err := c.EstimateGasPrice(context.Background())
	assert.Error(t, err)
}

func TestGetAccountResource_PathCarriesType(t *testing.T) {
	const resourceType = "0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>"
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts/"+testAccount+"/resource/"+resourceType, r.URL.Path)
		_, _ = w.Write([]byte(`{"type":"` + resourceType + `","data":{"coin":{"value":"1"}}}`))
	})
	c := newTestClient(t, handler, NoRetry())

	res, err := c.GetAccountResource(context.Background(), testAccount, resourceType)
	require.NoError(t, err)
	assert.Equal(t, resourceType, res.Type)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"chain_id":2,"epoch":"1","ledger_version":"10","block_height":"5","node_role":"full_node"}`))
	})
	c := newTestClient(t, handler, fastRetry())

	info, err := c.GetLedgerInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(2), info.ChainID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_TransportErrorIsNotNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c := newTestClient(t, handler, NoRetry())

	_, err := c.GetAccountResource(context.Background(), testAccount, "0x1::m::R")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestWaitForTransaction(t *testing.T) {
	tests := []struct {
		name      string
		responses []string
		wantErr   bool
		wantCode  int
	}{
		{
			name: "pending then success",
			responses: []string{
				`{"type":"pending_transaction","hash":"0xaa"}`,
				`{"type":"user_transaction","hash":"0xaa","success":true,"vm_status":"Executed successfully"}`,
			},
		},
		{
			name: "not indexed yet then success",
			responses: []string{
				"404",
				`{"type":"user_transaction","hash":"0xaa","success":true,"vm_status":"Executed successfully"}`,
			},
		},
		{
			name: "executed with failure",
			responses: []string{
				`{"type":"user_transaction","hash":"0xaa","success":false,"vm_status":"Move abort: ELOAN_ACTIVE"}`,
			},
			wantErr:  true,
			wantCode: ErrCodeTxFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/transactions/by_hash/0xaa", r.URL.Path)
				i := int(calls.Add(1)) - 1
				if i >= len(tt.responses) {
					i = len(tt.responses) - 1
				}
				if tt.responses[i] == "404" {
					w.WriteHeader(http.StatusNotFound)
					_, _ = w.Write([]byte(`{"message":"not found","error_code":"transaction_not_found"}`))
					return
				}
				_, _ = w.Write([]byte(tt.responses[i]))
			})
			c := newTestClient(t, handler, NoRetry())

			tx, err := c.WaitForTransaction(context.Background(), "0xaa")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.True(t, tx.Success)
			assert.False(t, tx.Pending())
		})
	}
}

func TestWaitForTransaction_Timeout(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"pending_transaction","hash":"0xbb"}`))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	c, err := NewClient(&Config{Endpoint: server.URL, Retry: NoRetry(), WaitTimeout: 1, PollInterval: 50})
	require.NoError(t, err)

	_, err = c.WaitForTransaction(context.Background(), "0xbb")
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeTimeout))
}

func TestSubmitTransaction(t *testing.T) {
	payload := types.NewPayload("0xabc::RealEstateToken::repay_loan", nil, []interface{}{types.U64(1)})
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transactions/encode_submission", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "signature")
		_, _ = w.Write([]byte(`"0xb5e97db07fa0bd0e5598aa3643a9bc6f6693bddc1a9fec9e674a461eaa00b193dead"`))
	})
	mux.HandleFunc("/v1/transactions", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "signature")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"hash":"0xcc","sender":"0x1"}`))
	})
	c := newTestClient(t, mux, NoRetry())

	req := &types.SubmitRequest{Sender: "0x1", SequenceNumber: 1, MaxGasAmount: 2000, GasUnitPrice: 100, ExpirationTimestampSecs: 99, Payload: payload}
	msg, err := c.EncodeSubmission(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, msg, 34)

	req.Signature = &types.TxSignature{Type: types.SignatureTypeEd25519, PublicKey: "0x01", Signature: "0x02"}
	pending, err := c.SubmitTransaction(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "0xcc", pending.Hash)
}

func TestSubmitTransaction_RejectsUnsigned(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler(), NoRetry())
	_, err := c.SubmitTransaction(context.Background(), &types.SubmitRequest{})
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeInvalidParams))
}
