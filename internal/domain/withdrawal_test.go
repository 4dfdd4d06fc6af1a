// internal/domain/withdrawal_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayoutDetailsValidate(t *testing.T) {
	bank := &BankTransferDetails{BankName: "CIB", ReceiverName: "Dana Farid", AccountNumber: "100200300"}
	wallet := &EWalletDetails{Provider: "Vodafone Cash", MobileNumber: "+201001234567"}
	instapay := &InstaPayDetails{InstapayID: "dana@instapay", MobileNumber: "+201001234567"}

	t.Run("MatchingVariant", func(t *testing.T) {
		assert.NoError(t, PayoutDetails{BankTransfer: bank}.Validate(MethodBankTransfer))
		assert.NoError(t, PayoutDetails{EWallet: wallet}.Validate(MethodEWallet))
		assert.NoError(t, PayoutDetails{InstaPay: instapay}.Validate(MethodInstaPay))
	})

	t.Run("MissingVariant", func(t *testing.T) {
		assert.Error(t, PayoutDetails{}.Validate(MethodBankTransfer))
		assert.Error(t, PayoutDetails{EWallet: wallet}.Validate(MethodBankTransfer))
	})

	t.Run("ExtraVariant", func(t *testing.T) {
		details := PayoutDetails{BankTransfer: bank, EWallet: wallet}
		assert.Error(t, details.Validate(MethodBankTransfer))
	})

	t.Run("IncompleteFields", func(t *testing.T) {
		assert.Error(t, PayoutDetails{BankTransfer: &BankTransferDetails{BankName: "CIB"}}.Validate(MethodBankTransfer))
		assert.Error(t, PayoutDetails{EWallet: &EWalletDetails{Provider: "Vodafone Cash"}}.Validate(MethodEWallet))
		assert.Error(t, PayoutDetails{InstaPay: &InstaPayDetails{MobileNumber: "+20100"}}.Validate(MethodInstaPay))
	})

	t.Run("UnknownMethod", func(t *testing.T) {
		assert.Error(t, PayoutDetails{BankTransfer: bank}.Validate(PayoutMethod("Cheque")))
	})
}

func TestPayoutDetailsRoundTrip(t *testing.T) {
	details := PayoutDetails{EWallet: &EWalletDetails{Provider: "Orange Cash", MobileNumber: "+201112223334"}}

	value, err := details.Value()
	require.NoError(t, err)

	var decoded PayoutDetails
	require.NoError(t, decoded.Scan(value))
	require.NotNil(t, decoded.EWallet)
	assert.Equal(t, "Orange Cash", decoded.EWallet.Provider)
	assert.Nil(t, decoded.BankTransfer)
}
