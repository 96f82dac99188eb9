package wallet

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvault/client-sdk-go/types"
)

// bridgeHandler 模拟浏览器钱包桥接页面
type bridgeHandler struct {
	t       *testing.T
	network interface{}
	replies map[string]func(params json.RawMessage) (interface{}, *RPCError)
}

func (h *bridgeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.t.Errorf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
			ID     uint64          `json:"id"`
		}
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		reply, ok := h.replies[req.Method]
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if !ok {
			resp["error"] = RPCError{Code: -32601, Message: "method not found"}
		} else if result, rpcErr := reply(req.Params); rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func dialTestBridge(t *testing.T, h http.Handler) *BridgeProvider {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	b, err := DialBridge(context.Background(), server.URL, WithRequestTimeout(2*time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBridgeProvider_Flow(t *testing.T) {
	var gotFunction string
	h := &bridgeHandler{t: t, replies: map[string]func(json.RawMessage) (interface{}, *RPCError){
		methodConnect: func(json.RawMessage) (interface{}, *RPCError) {
			return map[string]string{"address": "0xabc", "publicKey": "0x01"}, nil
		},
		methodNetwork: func(json.RawMessage) (interface{}, *RPCError) {
			return map[string]string{"name": "Testnet"}, nil
		},
		methodSignSubmit: func(params json.RawMessage) (interface{}, *RPCError) {
			var args []map[string]interface{}
			if err := json.Unmarshal(params, &args); err == nil && len(args) == 1 {
				gotFunction, _ = args[0]["function"].(string)
			}
			return map[string]string{"hash": "0x99"}, nil
		},
		methodDisconnect: func(json.RawMessage) (interface{}, *RPCError) {
			return nil, nil
		},
	}}
	b := dialTestBridge(t, h)
	ctx := context.Background()

	account, err := b.Connect(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", account.Address)

	network, err := b.Network(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Testnet", network)

	pending, err := b.SignAndSubmitTransaction(ctx, types.NewPayload("0xabc::RealEstateToken::repay_loan", nil, []interface{}{types.U64(1)}))
	require.NoError(t, err)
	assert.Equal(t, "0x99", pending.Hash)
	assert.Equal(t, "0xabc::RealEstateToken::repay_loan", gotFunction)

	require.NoError(t, b.Disconnect(ctx))
}

func TestBridgeProvider_UserRejected(t *testing.T) {
	h := &bridgeHandler{t: t, replies: map[string]func(json.RawMessage) (interface{}, *RPCError){
		methodConnect: func(json.RawMessage) (interface{}, *RPCError) {
			return nil, &RPCError{Code: rpcCodeUserRejected, Message: "User rejected the request."}
		},
	}}
	b := dialTestBridge(t, h)

	_, err := b.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserRejected)

	_, err = b.Network(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserRejected)
}

func TestBridgeProvider_ContextCancel(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	h := &bridgeHandler{t: t, replies: map[string]func(json.RawMessage) (interface{}, *RPCError){
		methodConnect: func(json.RawMessage) (interface{}, *RPCError) {
			<-block
			return nil, nil
		},
	}}
	b := dialTestBridge(t, h)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := b.Connect(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// dropAfterFirstRequest 读到第一个请求后直接断开，不回复
func dropAfterFirstRequest(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		_, _, _ = conn.ReadMessage()
		_ = conn.Close()
	})
}

func TestBridgeProvider_PeerDropped(t *testing.T) {
	b := dialTestBridge(t, dropAfterFirstRequest(t))

	_, err := b.Connect(context.Background())
	require.Error(t, err)
	<-b.done

	start := time.Now()
	_, err = b.Network(context.Background())
	assert.ErrorIs(t, err, errBridgeClosed)
	assert.Less(t, time.Since(start), time.Second, "calls after the drop fail without waiting for the timeout")

	_ = b.Close()
	assert.ErrorIs(t, b.conn.UnderlyingConn().Close(), net.ErrClosed, "Close releases the connection after a peer drop")
	assert.NotPanics(t, func() { _ = b.Close() })
}

func TestParseNetworkResult(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{`"testnet"`, "testnet", false},
		{`{"name":"Testnet","chainId":"2"}`, "Testnet", false},
		{`42`, "", true},
	}
	for _, tt := range tests {
		got, err := parseNetworkResult(json.RawMessage(tt.raw))
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestToWebSocketURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8546", toWebSocketURL("http://localhost:8546"))
	assert.Equal(t, "wss://bridge.example", toWebSocketURL("https://bridge.example"))
	assert.Equal(t, "ws://localhost:1", toWebSocketURL("localhost:1"))
	assert.True(t, strings.HasPrefix(toWebSocketURL("wss://x"), "wss://"))
}
