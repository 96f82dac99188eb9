package types

// 交易类型（节点返回的 type 字段）
const (
	TxTypePending = "pending_transaction"
	TxTypeUser    = "user_transaction"
)

// LedgerInfo 节点账本信息（GET /）
type LedgerInfo struct {
	ChainID       uint8  `json:"chain_id"`
	Epoch         U64    `json:"epoch"`
	LedgerVersion U64    `json:"ledger_version"`
	BlockHeight   U64    `json:"block_height"`
	NodeRole      string `json:"node_role"`
}

// AccountData 账户基础信息（GET /accounts/{address}）
type AccountData struct {
	SequenceNumber    U64    `json:"sequence_number"`
	AuthenticationKey string `json:"authentication_key"`
}

// PendingTransaction 已提交、等待确认的交易
type PendingTransaction struct {
	Hash                    string       `json:"hash"`
	Sender                  string       `json:"sender,omitempty"`
	SequenceNumber          U64          `json:"sequence_number,omitempty"`
	MaxGasAmount            U64          `json:"max_gas_amount,omitempty"`
	GasUnitPrice            U64          `json:"gas_unit_price,omitempty"`
	ExpirationTimestampSecs U64          `json:"expiration_timestamp_secs,omitempty"`
	Payload                 *Payload     `json:"payload,omitempty"`
	Signature               *TxSignature `json:"signature,omitempty"`
}

// Transaction 节点返回的交易（pending 或已执行）
type Transaction struct {
	Type     string `json:"type"`
	Hash     string `json:"hash"`
	Version  U64    `json:"version,omitempty"`
	Success  bool   `json:"success"`
	VMStatus string `json:"vm_status,omitempty"`
	GasUsed  U64    `json:"gas_used,omitempty"`
	Sender   string `json:"sender,omitempty"`
}

// Pending 交易是否仍在等待执行
func (t *Transaction) Pending() bool {
	return t.Type == TxTypePending
}

// TxSignature 交易签名（单签 ed25519）
type TxSignature struct {
	Type      string `json:"type"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

// SignatureTypeEd25519 ed25519 签名类型
const SignatureTypeEd25519 = "ed25519_signature"

// SubmitRequest 交易提交请求（POST /transactions 与 /transactions/encode_submission）
type SubmitRequest struct {
	Sender                  string       `json:"sender"`
	SequenceNumber          U64          `json:"sequence_number"`
	MaxGasAmount            U64          `json:"max_gas_amount"`
	GasUnitPrice            U64          `json:"gas_unit_price"`
	ExpirationTimestampSecs U64          `json:"expiration_timestamp_secs"`
	Payload                 Payload      `json:"payload"`
	Signature               *TxSignature `json:"signature,omitempty"`
}
