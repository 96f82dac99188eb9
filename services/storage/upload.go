package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/stackvault/client-sdk-go/utils"
)

// maxErrorBody 错误响应体最多保留的字节数
const maxErrorBody = 4096

type uploadOptions struct {
	pinName    string
	total      int64
	onProgress func(utils.FileProgress)
}

// UploadOption 上传选项
type UploadOption func(*uploadOptions)

// WithPinName 设置 pinataMetadata.name
func WithPinName(name string) UploadOption {
	return func(o *uploadOptions) { o.pinName = name }
}

// WithProgress 设置进度回调；total 为文件大小（未知时传 0）
func WithProgress(total int64, fn func(utils.FileProgress)) UploadOption {
	return func(o *uploadOptions) {
		o.total = total
		o.onProgress = fn
	}
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// Upload 以 multipart 流式上传文件，返回服务分配的内容标识
//
// 不重试。网络、认证、服务端错误原样向上返回（HTTP 错误为 *UploadError）。
func (c *Client) Upload(ctx context.Context, name string, r io.Reader, opts ...UploadOption) (string, error) {
	if r == nil {
		return "", fmt.Errorf("upload: file is required")
	}
	if strings.TrimSpace(name) == "" {
		name = "file"
	}
	options := &uploadOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.onProgress != nil {
		r = utils.NewProgressReader(r, options.total, options.onProgress)
	}

	// 1. 边写 multipart 边发送
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeMultipart(mw, name, r, options.pinName))
	}()

	defer pr.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+pinFilePath, pr)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.jwt)

	// 2. 发送请求
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Pinata upload failed", "file", name, "error", err)
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	defer resp.Body.Close()

	// 3. 解析响应
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		uploadErr := &UploadError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		c.logger.Error("Pinata rejected upload", "file", name, "status", resp.StatusCode, "body", uploadErr.Body)
		return "", uploadErr
	}

	var pinned pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if pinned.IpfsHash == "" {
		return "", fmt.Errorf("upload response has no IpfsHash")
	}
	if !utils.IsCIDv0(pinned.IpfsHash) {
		c.logger.Debug("Pinata returned a non-CIDv0 identifier", "cid", pinned.IpfsHash)
	}

	c.logger.Info("File pinned", "file", name, "cid", pinned.IpfsHash, "size", pinned.PinSize)
	return pinned.IpfsHash, nil
}

// UploadFile 上传本地文件，文件名用作 pin 名称
func (c *Client) UploadFile(ctx context.Context, path string, opts ...UploadOption) (string, error) {
	probe := &uploadOptions{}
	for _, opt := range opts {
		opt(probe)
	}

	f, err := utils.OpenFileWithProgress(path, probe.onProgress)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// 进度由文件读取器回调，避免重复计数
	uploadOpts := []UploadOption{WithPinName(f.Name)}
	if probe.pinName != "" {
		uploadOpts = []UploadOption{WithPinName(probe.pinName)}
	}
	return c.Upload(ctx, f.Name, f, uploadOpts...)
}

// writeMultipart 写入 file 字段与可选的 pinataMetadata 字段
func writeMultipart(mw *multipart.Writer, name string, r io.Reader, pinName string) error {
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if pinName != "" {
		meta, err := json.Marshal(map[string]string{"name": pinName})
		if err != nil {
			return err
		}
		if err := mw.WriteField("pinataMetadata", string(meta)); err != nil {
			return err
		}
	}
	return mw.Close()
}
