package billing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateForSigning(t *testing.T) {
	cb := ParseFormCallback([]Field{
		{Key: "txnid", Value: "T1"},
		{Key: "amount", Value: "100"},
		{Key: "productinfo", Value: "Gold Plan"},
		{Key: "firstname", Value: "Asha"},
		{Key: "email", Value: "a@x.com"},
	})
	require.NoError(t, cb.ValidateForSigning())

	err := cb.ValidateForVerification()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFields))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"status", "digest"}, verr.Fields)
}

func TestValidateReportsCanonicalNames(t *testing.T) {
	cb := ParseFormCallback([]Field{{Key: "amount", Value: "  "}, {Key: "email", Value: "a@x.com"}})

	var verr *ValidationError
	require.True(t, errors.As(cb.ValidateForSigning(), &verr))
	assert.ElementsMatch(t, []string{"transactionId", "amount", "productInfo", "firstName"}, verr.Fields)
	assert.Contains(t, verr.Error(), "transactionId")
}

func TestValidateRejectsNonNumericAmount(t *testing.T) {
	cb := ParseFormCallback([]Field{
		{Key: "txnid", Value: "T1"},
		{Key: "amount", Value: "ten"},
		{Key: "productinfo", Value: "Gold Plan"},
		{Key: "firstname", Value: "Asha"},
		{Key: "email", Value: "a@x.com"},
	})

	var verr *ValidationError
	require.True(t, errors.As(cb.ValidateForSigning(), &verr))
	assert.Equal(t, []string{"amount"}, verr.Fields)
}

func TestValidateRejectsSignedAndZeroAmounts(t *testing.T) {
	form := func(amount string) *Callback {
		return ParseFormCallback([]Field{
			{Key: "txnid", Value: "T1"},
			{Key: "amount", Value: amount},
			{Key: "productinfo", Value: "Gold Plan"},
			{Key: "firstname", Value: "Asha"},
			{Key: "email", Value: "a@x.com"},
		})
	}

	for _, amount := range []string{"-5", "+5", "-0", "0", "0.00", "1e3", "5.", ".5"} {
		var verr *ValidationError
		require.True(t, errors.As(form(amount).ValidateForSigning(), &verr), amount)
		assert.Equal(t, []string{"amount"}, verr.Fields, amount)
	}
	for _, amount := range []string{"5", "500.00", "499.50", "0.01"} {
		assert.NoError(t, form(amount).ValidateForSigning(), amount)
	}
}
