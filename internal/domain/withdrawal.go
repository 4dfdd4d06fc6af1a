// internal/domain/withdrawal.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PayoutMethod selects how a withdrawal is paid out.
type PayoutMethod string

const (
	MethodBankTransfer PayoutMethod = "Local Bank Transfer"
	MethodEWallet      PayoutMethod = "E-Wallet"
	MethodInstaPay     PayoutMethod = "InstaPay"
)

// WithdrawalStatus is the processing state of a cash-out request.
type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalRejected   WithdrawalStatus = "rejected"
	WithdrawalCancelled  WithdrawalStatus = "cancelled"
)

// BankTransferDetails carries the fields for a local bank transfer payout.
type BankTransferDetails struct {
	BankName      string `json:"bankName"`
	ReceiverName  string `json:"receiverName"`
	AccountNumber string `json:"accountNumber"`
}

// EWalletDetails carries the fields for an e-wallet payout.
type EWalletDetails struct {
	Provider     string `json:"provider"`
	MobileNumber string `json:"mobileNumber"`
}

// InstaPayDetails carries the fields for an InstaPay payout.
type InstaPayDetails struct {
	InstapayID   string `json:"instapayId"`
	MobileNumber string `json:"mobileNumber"`
}

// PayoutDetails is a tagged union keyed by PayoutMethod: exactly one variant
// is set, matching the withdrawal's method. Stored as JSONB.
type PayoutDetails struct {
	BankTransfer *BankTransferDetails `json:"bankTransfer,omitempty"`
	EWallet      *EWalletDetails      `json:"eWallet,omitempty"`
	InstaPay     *InstaPayDetails     `json:"instaPay,omitempty"`
}

// Validate checks that the variant matching method is present and complete,
// and that no other variant is set.
func (d PayoutDetails) Validate(method PayoutMethod) error {
	set := 0
	if d.BankTransfer != nil {
		set++
	}
	if d.EWallet != nil {
		set++
	}
	if d.InstaPay != nil {
		set++
	}
	if set != 1 {
		return errors.New("exactly one payout detail variant must be set")
	}
	switch method {
	case MethodBankTransfer:
		b := d.BankTransfer
		if b == nil {
			return fmt.Errorf("method %q requires bankTransfer details", method)
		}
		if strings.TrimSpace(b.BankName) == "" || strings.TrimSpace(b.ReceiverName) == "" || strings.TrimSpace(b.AccountNumber) == "" {
			return errors.New("bankName, receiverName, and accountNumber are required")
		}
	case MethodEWallet:
		e := d.EWallet
		if e == nil {
			return fmt.Errorf("method %q requires eWallet details", method)
		}
		if strings.TrimSpace(e.Provider) == "" || strings.TrimSpace(e.MobileNumber) == "" {
			return errors.New("provider and mobileNumber are required")
		}
	case MethodInstaPay:
		i := d.InstaPay
		if i == nil {
			return fmt.Errorf("method %q requires instaPay details", method)
		}
		if strings.TrimSpace(i.InstapayID) == "" {
			return errors.New("instapayId is required")
		}
	default:
		return fmt.Errorf("unknown payout method %q", method)
	}
	return nil
}

// Value implements driver.Valuer for JSONB storage.
func (d PayoutDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB storage.
func (d *PayoutDetails) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = PayoutDetails{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into PayoutDetails", src)
	}
}

// Withdrawal is a cash-out request. Funds are not debited at request time;
// the balance check and debit happen at approval.
type Withdrawal struct {
	ID          int64            `db:"id" json:"id"`
	UserID      int64            `db:"user_id" json:"userId"`
	Amount      decimal.Decimal  `db:"amount" json:"amount"`
	Method      PayoutMethod     `db:"method" json:"method"`
	Details     PayoutDetails    `db:"details" json:"details"`
	Status      WithdrawalStatus `db:"status" json:"status"`
	Notes       *string          `db:"notes" json:"notes,omitempty"`
	ProcessedBy *int64           `db:"processed_by" json:"processedBy,omitempty"`
	ProcessedAt *time.Time       `db:"processed_at" json:"processedAt,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}
