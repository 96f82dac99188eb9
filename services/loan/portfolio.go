package loan

import "github.com/stackvault/client-sdk-go/types"

// Summary 账户持仓概览
type Summary struct {
	Locked           int    // 已锁定为抵押品
	Unlocked         int    // 未锁定
	AvailableForLoan int    // 已锁定但尚未借款
	LoansTaken       int    // loan_amount > 0 的代币数
	TotalLoanAmount  uint64 // 借款总额
}

// Summarize 汇总代币列表
func Summarize(tokens []types.TokenRecord) Summary {
	var s Summary
	for _, t := range tokens {
		if t.Locked {
			s.Locked++
		} else {
			s.Unlocked++
		}
		if t.HasLoan() {
			s.LoansTaken++
		}
		s.TotalLoanAmount += t.LoanAmount
	}
	if s.Locked > s.LoansTaken {
		s.AvailableForLoan = s.Locked - s.LoansTaken
	}
	return s
}

// FilterRepaid showRepaid 为 false 时去掉已还清借款的代币
func FilterRepaid(tokens []types.TokenRecord, showRepaid bool) []types.TokenRecord {
	out := make([]types.TokenRecord, 0, len(tokens))
	for _, t := range tokens {
		if !showRepaid && t.LoanRepaid {
			continue
		}
		out = append(out, t)
	}
	return out
}
