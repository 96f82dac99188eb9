package types

import (
	"encoding/json"
	"fmt"
)

// NativeCoinStoreType 原生币余额资源类型
const NativeCoinStoreType = "0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>"

// MoveResource 账户下的 Move 资源
type MoveResource struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// DecodeData 将资源 data 解码到 out
func (r *MoveResource) DecodeData(out interface{}) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("resource %s has no data", r.Type)
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return fmt.Errorf("decode resource %s: %w", r.Type, err)
	}
	return nil
}

// CoinStoreData 0x1::coin::CoinStore 的 data 部分
type CoinStoreData struct {
	Coin struct {
		Value U64 `json:"value"`
	} `json:"coin"`
	Frozen bool `json:"frozen"`
}

// FindResource 按类型查找资源
func FindResource(resources []MoveResource, resourceType string) (*MoveResource, bool) {
	for i := range resources {
		if resources[i].Type == resourceType {
			return &resources[i], true
		}
	}
	return nil, false
}
