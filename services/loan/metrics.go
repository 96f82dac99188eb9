package loan

import "math"

const (
	// MaxLoanToValue 展示用的借款价值比上限（百分比）
	MaxLoanToValue = 80.0
	// DefaultInterestRate 默认利率（百分比）
	DefaultInterestRate = 5.0
)

// 资产类型
const (
	AssetRealEstate = "real-estate"
	AssetVehicle    = "vehicle"
	AssetArt        = "art"
	AssetJewelry    = "jewelry"
	AssetOther      = "other"
)

// AssetTypes 可选的资产类型
var AssetTypes = []string{AssetRealEstate, AssetVehicle, AssetArt, AssetJewelry, AssetOther}

// LoanToValue 借款价值比（百分比），上限 MaxLoanToValue；value 为 0 时返回 0
func LoanToValue(amount, value uint64) float64 {
	if value == 0 {
		return 0
	}
	return math.Min(float64(amount)/float64(value)*100, MaxLoanToValue)
}

// TotalRepayment 含利息的应还总额
func TotalRepayment(amount uint64, ratePercent float64) float64 {
	return float64(amount) * (1 + ratePercent/100)
}
