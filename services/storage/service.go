// Package storage 上传资产文件到 Pinata 固定服务，并解析内容标识对应的网关 URL。
package storage

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/utils"
)

// 默认服务地址
const (
	DefaultAPIURL     = "https://api.pinata.cloud"
	DefaultGatewayURL = "https://sapphire-tricky-hyena-133.mypinata.cloud/ipfs/"

	pinFilePath = "/pinning/pinFileToIPFS"
)

// Config 上传客户端配置
type Config struct {
	// JWT Pinata API JWT（Bearer）
	JWT string
	// APIURL API 根地址
	APIURL string
	// GatewayURL 网关前缀，内容标识直接拼接在后面
	GatewayURL string
	// Timeout 单次上传超时（秒），0 表示不限制
	Timeout int
	// HTTPClient 自定义 HTTP 客户端（可选）
	HTTPClient *http.Client
	// Logger 日志（可选）
	Logger client.Logger
}

// Client Pinata 上传客户端
type Client struct {
	jwt        string
	apiURL     string
	gatewayURL string
	http       *http.Client
	logger     client.Logger
}

// NewClient 创建上传客户端
//
// JWT 为空时仍可创建（仅使用 ResolveURL），上传会被服务端拒绝。
func NewClient(cfg Config) *Client {
	apiURL := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	gateway := strings.TrimSpace(cfg.GatewayURL)
	if gateway == "" {
		gateway = DefaultGatewayURL
	}
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	httpCli := cfg.HTTPClient
	if httpCli == nil {
		httpCli = &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}
	}
	return &Client{
		jwt:        cfg.JWT,
		apiURL:     apiURL,
		gatewayURL: gateway,
		http:       httpCli,
		logger:     client.OrNop(cfg.Logger),
	}
}

// GatewayURL 网关 URL
func (c *Client) GatewayURL(cid string) string {
	return c.gatewayURL + cid
}

// ResolveURL 把内容标识或其十六进制编码解析为网关 URL
//
// **规则**：
// - 去掉 0x 前缀
// - 形如 46 位字母数字的输入直接视为内容标识
// - 否则按十六进制解码为 UTF-8 文本作为内容标识
// - 解码失败返回 ("", false)
func (c *Client) ResolveURL(input string) (string, bool) {
	clean := strings.TrimPrefix(strings.TrimSpace(input), "0x")
	if utils.IsCIDShape(clean) {
		return c.GatewayURL(clean), true
	}
	if clean == "" {
		return "", false
	}
	decoded, err := utils.DecodeHexUTF8(clean)
	if err != nil || decoded == "" {
		c.logger.Warn("Cannot decode content identifier", "input", input, "error", err)
		return "", false
	}
	return c.GatewayURL(decoded), true
}

// UploadError 固定服务返回的非 2xx 响应
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("pinata upload failed: HTTP %d: %s", e.StatusCode, e.Body)
}
