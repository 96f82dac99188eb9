package types

import (
	"strings"
	"unicode/utf8"
)

// DefaultAssetType 资产类型为空时的展示文本
const DefaultAssetType = "Not specified"

// RawToken 合约 RealEstateCollection.tokens 中的单条记录（链上原始形式）
type RawToken struct {
	ID                  U64      `json:"id"`
	PropertyValue       U64      `json:"property_value"`
	AssetType           HexBytes `json:"asset_type"`
	LockedForCollateral bool     `json:"locked_for_collateral"`
	LoanAmount          U64      `json:"loan_amount"`
	IsLoanActive        bool     `json:"is_loan_active"`
	IsLoanRepaid        bool     `json:"is_loan_repaid"`
	IPFSHash            HexBytes `json:"ipfs_hash"`
}

// CollectionData RealEstateCollection 资源的 data 部分
type CollectionData struct {
	Tokens []RawToken `json:"tokens"`
}

// TokenRecord 代币化资产记录（某次读取时刻的只读副本）
//
// 记录由外部合约产生，本地只缓存读取结果；交易确认之后必须重新读取，
// 不能继续信任 Locked / LoanActive 等标志。
type TokenRecord struct {
	ID            uint64
	PropertyValue uint64 // 资产所有者提交的估值（APT）
	AssetType     string // asset_type 按 UTF-8 解码后的文本
	Locked        bool   // 是否已锁定为抵押品
	LoanAmount    uint64 // 当前借款金额，无借款时为 0
	LoanActive    bool
	LoanRepaid    bool
	ContentRef    string // ipfs_hash 的 0x 十六进制编码，交给 storage.ResolveURL 解析
}

// HasLoan 是否已经借过款（loan_amount > 0）
func (t TokenRecord) HasLoan() bool {
	return t.LoanAmount > 0
}

// ToRecord 转换为 TokenRecord，解码 asset_type
func (r RawToken) ToRecord() TokenRecord {
	return TokenRecord{
		ID:            uint64(r.ID),
		PropertyValue: uint64(r.PropertyValue),
		AssetType:     DecodeAssetType(r.AssetType),
		Locked:        r.LockedForCollateral,
		LoanAmount:    uint64(r.LoanAmount),
		LoanActive:    r.IsLoanActive,
		LoanRepaid:    r.IsLoanRepaid,
		ContentRef:    r.IPFSHash.String(),
	}
}

// DecodeAssetType 将 asset_type 字节解码为文本，空值返回 DefaultAssetType
func DecodeAssetType(b []byte) string {
	if len(b) == 0 {
		return DefaultAssetType
	}
	// 连续的非法字节替换为一个 U+FFFD
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
