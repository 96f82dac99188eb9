package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/types"
)

// 桥接 JSON-RPC 方法名（与浏览器钱包注入对象的方法一致）
const (
	methodConnect    = "connect"
	methodDisconnect = "disconnect"
	methodNetwork    = "network"
	methodSignSubmit = "signAndSubmitTransaction"
)

// 用户拒绝请求的错误码
const rpcCodeUserRejected = 4001

const defaultBridgeRequestTimeout = 2 * time.Minute

var errBridgeClosed = errors.New("wallet bridge is closed")

// BridgeProvider 通过 WebSocket JSON-RPC 连接浏览器钱包桥接页面
type BridgeProvider struct {
	endpoint string
	conn     *websocket.Conn
	logger   client.Logger
	timeout  time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    int32
	nextID   uint64
	requests map[uint64]chan *rpcResponse
	muReq    sync.Mutex
	done     chan struct{}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      uint64      `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// RPCError 桥接返回的错误
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("wallet bridge error %d: %s", e.Code, e.Message)
}

// Unwrap 用户拒绝映射为 ErrUserRejected
func (e *RPCError) Unwrap() error {
	if e.Code == rpcCodeUserRejected {
		return ErrUserRejected
	}
	return nil
}

// BridgeOption BridgeProvider 选项
type BridgeOption func(*BridgeProvider)

// WithBridgeLogger 设置日志
func WithBridgeLogger(logger client.Logger) BridgeOption {
	return func(b *BridgeProvider) { b.logger = client.OrNop(logger) }
}

// WithRequestTimeout 设置单个请求等待时长（包括用户在钱包中确认的时间）
func WithRequestTimeout(d time.Duration) BridgeOption {
	return func(b *BridgeProvider) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// DialBridge 连接钱包桥接
//
// endpoint 可以是 ws(s):// 或 http(s):// 地址。
func DialBridge(ctx context.Context, endpoint string, opts ...BridgeOption) (*BridgeProvider, error) {
	endpoint = toWebSocketURL(endpoint)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial wallet bridge: %w", err)
	}

	b := &BridgeProvider{
		endpoint: endpoint,
		conn:     conn,
		logger:   client.NopLogger(),
		timeout:  defaultBridgeRequestTimeout,
		requests: make(map[uint64]chan *rpcResponse),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.readLoop()
	return b, nil
}

func toWebSocketURL(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "ws://"), strings.HasPrefix(endpoint, "wss://"):
		return endpoint
	default:
		return "ws://" + endpoint
	}
}

// readLoop 分发响应到等待中的请求
func (b *BridgeProvider) readLoop() {
	defer func() {
		atomic.StoreInt32(&b.closed, 1)
		b.muReq.Lock()
		for id, ch := range b.requests {
			close(ch)
			delete(b.requests, id)
		}
		b.muReq.Unlock()
		close(b.done)
	}()

	for {
		var resp rpcResponse
		if err := b.conn.ReadJSON(&resp); err != nil {
			if atomic.LoadInt32(&b.closed) == 0 {
				b.logger.Warn("Wallet bridge read failed", "endpoint", b.endpoint, "error", err)
			}
			return
		}

		b.muReq.Lock()
		ch, exists := b.requests[resp.ID]
		if exists {
			delete(b.requests, resp.ID)
		}
		b.muReq.Unlock()

		if !exists {
			b.logger.Debug("Dropping unsolicited bridge message", "id", resp.ID)
			continue
		}
		ch <- &resp
	}
}

// call 发送请求并等待响应
func (b *BridgeProvider) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	if atomic.LoadInt32(&b.closed) == 1 {
		return errBridgeClosed
	}

	reqID := atomic.AddUint64(&b.nextID, 1)
	respCh := make(chan *rpcResponse, 1)
	// readLoop 退出时先置 closed 再持锁清空 requests，这里持锁复查
	b.muReq.Lock()
	if atomic.LoadInt32(&b.closed) == 1 {
		b.muReq.Unlock()
		return errBridgeClosed
	}
	b.requests[reqID] = respCh
	b.muReq.Unlock()

	forget := func() {
		b.muReq.Lock()
		delete(b.requests, reqID)
		b.muReq.Unlock()
	}

	b.writeMu.Lock()
	err := b.conn.WriteJSON(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: reqID})
	b.writeMu.Unlock()
	if err != nil {
		forget()
		return fmt.Errorf("write %s request: %w", method, err)
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case resp, ok := <-respCh:
		if !ok || resp == nil {
			return fmt.Errorf("wallet bridge closed while waiting for %s", method)
		}
		if resp.Error != nil {
			return resp.Error
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("unmarshal %s result: %w", method, err)
		}
		return nil
	case <-ctx.Done():
		forget()
		return ctx.Err()
	case <-timer.C:
		forget()
		return fmt.Errorf("wallet bridge %s request timeout", method)
	}
}

// Connect 请求钱包披露账户
func (b *BridgeProvider) Connect(ctx context.Context) (*Account, error) {
	var account Account
	if err := b.call(ctx, methodConnect, nil, &account); err != nil {
		return nil, err
	}
	if account.Address == "" {
		return nil, fmt.Errorf("wallet bridge returned empty address")
	}
	return &account, nil
}

// Disconnect 断开钱包
func (b *BridgeProvider) Disconnect(ctx context.Context) error {
	return b.call(ctx, methodDisconnect, nil, nil)
}

// Network 查询钱包网络，结果可能是字符串或 {"name": ...}
func (b *BridgeProvider) Network(ctx context.Context) (string, error) {
	var raw json.RawMessage
	if err := b.call(ctx, methodNetwork, nil, &raw); err != nil {
		return "", err
	}
	return parseNetworkResult(raw)
}

func parseNetworkResult(raw json.RawMessage) (string, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name, nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("unexpected network result %s", string(raw))
	}
	return obj.Name, nil
}

// SignAndSubmitTransaction 由钱包签名并提交
func (b *BridgeProvider) SignAndSubmitTransaction(ctx context.Context, payload types.Payload) (*types.PendingTransaction, error) {
	var pending types.PendingTransaction
	if err := b.call(ctx, methodSignSubmit, []interface{}{payload}, &pending); err != nil {
		return nil, err
	}
	if pending.Hash == "" {
		return nil, fmt.Errorf("wallet bridge returned no transaction hash")
	}
	return &pending, nil
}

// Close 关闭连接
//
// 对端已断开时不再发送关闭帧，但底层连接总会被关闭。可重复调用。
func (b *BridgeProvider) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if atomic.CompareAndSwapInt32(&b.closed, 0, 1) {
			b.writeMu.Lock()
			_ = b.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			b.writeMu.Unlock()
		}
		err = b.conn.Close()
	})
	<-b.done
	return err
}
