package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stackvault/client-sdk-go/types"
)

// httpClient 节点 REST 客户端实现
type httpClient struct {
	endpoint     string
	client       *http.Client
	logger       Logger
	debug        bool
	retry        *RetryConfig
	waitTimeout  time.Duration
	pollInterval time.Duration
}

// NewHTTPClient 创建 HTTP 客户端
func NewHTTPClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	endpoint := strings.TrimRight(strings.TrimSpace(config.Endpoint), "/")
	if endpoint == "" {
		return nil, NewInvalidParamsError("endpoint is required")
	}

	httpCli := config.HTTPClient
	if httpCli == nil {
		timeout := time.Duration(config.Timeout) * time.Second
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpCli = &http.Client{Timeout: timeout}
	}

	logger := OrNop(config.Logger)

	retryConfig := config.Retry
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
		if config.Debug {
			retryConfig.OnRetry = func(attempt int, err error) {
				logger.Warn("Retrying request", "attempt", attempt, "error", err)
			}
		}
	}

	waitTimeout := time.Duration(config.WaitTimeout) * time.Second
	if waitTimeout <= 0 {
		waitTimeout = 60 * time.Second
	}
	pollInterval := time.Duration(config.PollInterval) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = time.Second
	}

	return &httpClient{
		endpoint:     endpoint,
		client:       httpCli,
		logger:       logger,
		debug:        config.Debug,
		retry:        retryConfig,
		waitTimeout:  waitTimeout,
		pollInterval: pollInterval,
	}, nil
}

// get 只读请求（带重试）
func (c *httpClient) get(ctx context.Context, path string, out interface{}) error {
	return withRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, path, nil, out)
	}, c.retry)
}

// post 写请求（不重试）
func (c *httpClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, reqBody, out)
}

// do 发送单次请求并解码响应
func (c *httpClient) do(ctx context.Context, method, path string, reqBody []byte, out interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.debug {
		c.logger.Debug("Node request", "method", method, "path", path, "body", string(reqBody))
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return NewNetworkError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError(fmt.Errorf("read response failed: %w", err))
	}

	if c.debug {
		c.logger.Debug("Node response", "path", path, "status", resp.StatusCode, "body", string(respBody))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.ParseNodeError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return NewInvalidResponseError(fmt.Sprintf("unmarshal %s response failed", path), err)
	}
	return nil
}

// Close 关闭连接（HTTP 客户端只需释放空闲连接）
func (c *httpClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
