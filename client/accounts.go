package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/stackvault/client-sdk-go/types"
)

// GetLedgerInfo 查询节点账本信息
func (c *httpClient) GetLedgerInfo(ctx context.Context) (*types.LedgerInfo, error) {
	var info types.LedgerInfo
	if err := c.get(ctx, "/", &info); err != nil {
		return nil, fmt.Errorf("get ledger info failed: %w", err)
	}
	return &info, nil
}

// GetAccount 查询账户信息
func (c *httpClient) GetAccount(ctx context.Context, address string) (*types.AccountData, error) {
	path, err := accountPath(address, "")
	if err != nil {
		return nil, err
	}
	var account types.AccountData
	if err := c.get(ctx, path, &account); err != nil {
		return nil, fmt.Errorf("get account %s failed: %w", address, err)
	}
	return &account, nil
}

// GetAccountResources 查询账户下全部资源
func (c *httpClient) GetAccountResources(ctx context.Context, address string) ([]types.MoveResource, error) {
	path, err := accountPath(address, "/resources")
	if err != nil {
		return nil, err
	}
	var resources []types.MoveResource
	if err := c.get(ctx, path, &resources); err != nil {
		return nil, fmt.Errorf("get resources of %s failed: %w", address, err)
	}
	return resources, nil
}

// GetAccountResource 按类型查询单个资源
func (c *httpClient) GetAccountResource(ctx context.Context, address, resourceType string) (*types.MoveResource, error) {
	if strings.TrimSpace(resourceType) == "" {
		return nil, NewInvalidParamsError("resource type is required")
	}
	path, err := accountPath(address, "/resource/"+url.PathEscape(resourceType))
	if err != nil {
		return nil, err
	}
	var resource types.MoveResource
	if err := c.get(ctx, path, &resource); err != nil {
		return nil, fmt.Errorf("get resource %s of %s failed: %w", resourceType, address, err)
	}
	return &resource, nil
}

// accountPath 构建 /accounts/{address}{suffix}
func accountPath(address, suffix string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", NewInvalidParamsError("address is required")
	}
	return "/accounts/" + url.PathEscape(address) + suffix, nil
}
