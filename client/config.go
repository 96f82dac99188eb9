package client

import (
	"net/http"
)

// Config 客户端配置
type Config struct {
	// Endpoint 节点 REST 端点（如 https://fullnode.testnet.aptoslabs.com/v1）
	Endpoint string

	// Timeout 单次 HTTP 请求超时时间（秒）
	Timeout int

	// Retry 只读请求的重试配置（nil 使用默认配置，MaxRetries=0 关闭重试）
	Retry *RetryConfig

	// WaitTimeout 等待交易确认的超时时间（秒）
	WaitTimeout int

	// PollInterval 等待交易确认时的轮询间隔（毫秒）
	PollInterval int

	// HTTPClient 自定义 HTTP 客户端（可选，测试用）
	HTTPClient *http.Client

	// 调试模式
	Debug bool

	// 日志器（可选）
	Logger Logger
}

// 默认节点（Aptos testnet）
const DefaultEndpoint = "https://fullnode.testnet.aptoslabs.com/v1"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Endpoint:     DefaultEndpoint,
		Timeout:      30,
		WaitTimeout:  60,
		PollInterval: 1000,
		Debug:        false,
	}
}
