package billing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONCallback(t *testing.T) {
	body := []byte(`{
		"action": "Generate-Hash",
		"transactionId": "T1",
		"amount": 100,
		"productInfo": "Gold Plan",
		"firstName": "Asha",
		"email": "a@x.com",
		"userField1": "user-7",
		"userField4": null,
		"nested": {"ignored": true}
	}`)

	cb, err := ParseJSONCallback(body)
	require.NoError(t, err)

	assert.Equal(t, "generate-hash", cb.Action)
	assert.Equal(t, "T1", cb.Fields.TransactionID)
	assert.Equal(t, "100", cb.Fields.Amount)
	assert.Equal(t, "Gold Plan", cb.Fields.ProductInfo)
	assert.Equal(t, "user-7", cb.Fields.UserFields[0])
	assert.Equal(t, "", cb.Fields.UserFields[3])
	assert.Equal(t, "user-7", cb.PayerID())
	assert.Equal(t, "Gold Plan", cb.PlanName())

	for _, f := range cb.Raw {
		assert.NotEqual(t, "nested", f.Key)
	}
}

func TestParseJSONCallbackKeepsFractionalAmountText(t *testing.T) {
	cb, err := ParseJSONCallback([]byte(`{"amount": 499.50}`))
	require.NoError(t, err)
	assert.Equal(t, "499.50", cb.Fields.Amount)
}

func TestParseJSONCallbackRejectsInvalidBody(t *testing.T) {
	_, err := ParseJSONCallback([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = ParseJSONCallback([]byte(`{`))
	assert.Error(t, err)
}

func TestParseFormCallbackProcessorNames(t *testing.T) {
	fields := []Field{
		{Key: "mihpayid", Value: "403993715"},
		{Key: "status", Value: "success"},
		{Key: "txnid", Value: "T9"},
		{Key: "amount", Value: "499.50"},
		{Key: "productinfo", Value: "Explorer"},
		{Key: "firstname", Value: "Ravi"},
		{Key: "email", Value: "r@x.com"},
		{Key: "udf1", Value: "user-9"},
		{Key: "udf2", Value: "explorer"},
		{Key: "udf3", Value: "https://app.example.com/thanks"},
		{Key: "udf4", Value: "affiliate"},
		{Key: "hash", Value: "ABC"},
		{Key: "surl", Value: "https://app.example.com/success"},
		{Key: "bank_ref_num", Value: "87d3b2a1"},
		{Key: "key", Value: "mKey"},
	}

	cb := ParseFormCallback(fields)

	assert.Equal(t, "T9", cb.Fields.TransactionID)
	assert.Equal(t, "Explorer", cb.Fields.ProductInfo)
	assert.Equal(t, "Ravi", cb.Fields.FirstName)
	assert.Equal(t, "success", cb.Fields.Status)
	assert.Equal(t, [5]string{"user-9", "explorer", "https://app.example.com/thanks", "affiliate", ""}, cb.Fields.UserFields)
	assert.Equal(t, "ABC", cb.Digest)
	assert.Equal(t, "403993715", cb.ProcessorRef)
	assert.Equal(t, "https://app.example.com/thanks", cb.RedirectTarget)
	assert.Equal(t, "https://app.example.com/success", cb.SuccessURL)
	assert.Equal(t, "affiliate", cb.Discriminator())
	assert.Equal(t, "explorer", cb.PlanName())
	assert.Equal(t, "mKey", cb.Get(FieldMerchantKey))

	// Nothing is dropped, order is preserved.
	require.Len(t, cb.Raw, len(fields))
	assert.Equal(t, fields, cb.Raw)

	fields[0].Value = "mutated"
	assert.Equal(t, "403993715", cb.Raw[0].Value)
}

func TestCanonicalNameWinsOverAlias(t *testing.T) {
	cb := ParseFormCallback([]Field{
		{Key: "txnid", Value: "alias"},
		{Key: "transactionId", Value: "canonical"},
	})
	assert.Equal(t, "canonical", cb.Fields.TransactionID)

	cb = ParseFormCallback([]Field{
		{Key: "transactionId", Value: ""},
		{Key: "TXNID", Value: "alias"},
	})
	assert.Equal(t, "alias", cb.Fields.TransactionID)
}

func TestPayerIDFallsBackToEmail(t *testing.T) {
	cb := ParseFormCallback([]Field{{Key: "email", Value: " A@X.com "}})
	assert.Equal(t, "a@x.com", cb.PayerID())
}

func TestCallbackPayloadJSON(t *testing.T) {
	cb := ParseFormCallback([]Field{{Key: "txnid", Value: "T1"}, {Key: "hash", Value: "abc"}})

	var m map[string]string
	require.NoError(t, json.Unmarshal([]byte(cb.PayloadJSON()), &m))
	assert.Equal(t, map[string]string{"txnid": "T1", "hash": "abc"}, m)
}

func TestCallbackPayloadJSONKeepsVerifiedDuplicate(t *testing.T) {
	cb := ParseFormCallback([]Field{
		{Key: "amount", Value: "500"},
		{Key: "txnid", Value: "T1"},
		{Key: "amount", Value: "5"},
	})
	require.Equal(t, "500", cb.Fields.Amount)

	var m map[string]string
	require.NoError(t, json.Unmarshal([]byte(cb.PayloadJSON()), &m))
	assert.Equal(t, "500", m["amount"])
}
