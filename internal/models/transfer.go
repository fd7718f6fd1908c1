package models

import "github.com/shopspring/decimal"

// TransferRequest asks for Amount to be moved from AccountFromID to AccountToID.
// It is never persisted.
type TransferRequest struct {
	AccountFromID string
	AccountToID   string
	Amount        decimal.Decimal
}

// TransferReceipt is returned to HTTP callers after a successful transfer.
type TransferReceipt struct {
	Reference     string `json:"reference"`
	AccountFromID string `json:"accountFromId"`
	AccountToID   string `json:"accountToId"`
	Amount        string `json:"amount"`
}
