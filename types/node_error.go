package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NodeError Aptos 节点返回的错误
// 节点错误体格式：{"message": "...", "error_code": "resource_not_found", "vm_error_code": 4008}
type NodeError struct {
	Status      int    `json:"-"`
	Message     string `json:"message"`
	ErrorCode   string `json:"error_code"`
	VMErrorCode *int   `json:"vm_error_code,omitempty"`

	// SDK 扩展字段
	Layer     string `json:"-"`
	TraceID   string `json:"-"`
	Timestamp string `json:"-"`
}

func (e *NodeError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("[%d %s] %s", e.Status, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

// NotFound 是否为"不存在"类错误（资源 / 账户 / 交易）
func (e *NodeError) NotFound() bool {
	switch e.ErrorCode {
	case ErrorCodeResourceNotFound, ErrorCodeAccountNotFound, ErrorCodeTransactionNotFound,
		ErrorCodeModuleNotFound, ErrorCodeTableItemNotFound:
		return true
	}
	return e.ErrorCode == "" && e.Status == http.StatusNotFound
}

// IsNodeError 在错误链中查找 NodeError
func IsNodeError(err error) (*NodeError, bool) {
	var nodeErr *NodeError
	if errors.As(err, &nodeErr) {
		return nodeErr, true
	}
	return nil, false
}

// LayerAptosNode 节点错误的来源层
const LayerAptosNode = "aptos-node"

// 节点错误码（参考 Aptos REST API AptosErrorCode）
const (
	ErrorCodeAccountNotFound     = "account_not_found"
	ErrorCodeResourceNotFound    = "resource_not_found"
	ErrorCodeModuleNotFound      = "module_not_found"
	ErrorCodeTableItemNotFound   = "table_item_not_found"
	ErrorCodeTransactionNotFound = "transaction_not_found"
	ErrorCodeInvalidInput        = "invalid_input"
	ErrorCodeVMError             = "vm_error"
	ErrorCodeMempoolFull         = "mempool_is_full"
	ErrorCodeInternal            = "internal_error"
)

// ParseNodeError 从 HTTP 响应解析节点错误
//
// 响应体不是 JSON 或缺少 message 字段时，仍返回 NodeError，message 取原始响应体。
func ParseNodeError(status int, body []byte) *NodeError {
	nodeErr := &NodeError{}
	if err := json.Unmarshal(body, nodeErr); err != nil || nodeErr.Message == "" {
		nodeErr.Message = strings.TrimSpace(string(body))
		if nodeErr.Message == "" {
			nodeErr.Message = http.StatusText(status)
		}
	}
	nodeErr.Status = status
	nodeErr.Layer = LayerAptosNode
	nodeErr.TraceID = uuid.New().String()
	nodeErr.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return nodeErr
}
