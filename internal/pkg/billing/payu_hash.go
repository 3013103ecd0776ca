package billing

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// userFieldSlots is the number of user defined fields (udf1..udf5) the
// processor signs.
const userFieldSlots = 5

// reservedSlots are the unused udf6..udf10 positions. They still occupy a
// pipe-separated slot each.
const reservedSlots = 5

// Credentials are the merchant key and the shared secret ("salt").
type Credentials struct {
	Key  string
	Salt string
}

// SignatureFields is the fixed set of values covered by the processor hash.
// Absent optional values are empty strings, never omitted.
type SignatureFields struct {
	TransactionID string
	Amount        string
	ProductInfo   string
	FirstName     string
	Email         string
	UserFields    [userFieldSlots]string
	Status        string
}

// FormatAmount renders whole amounts without a decimal point ("500.00" ->
// "500") and keeps fractional amounts exactly as received ("499.50").
func FormatAmount(raw string) string {
	s := strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return s
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return s
}

// RequestHashString builds the outgoing pipe string:
// key|txnid|amount|productinfo|firstname|email|udf1..udf5||||||salt
func RequestHashString(f SignatureFields, creds Credentials) string {
	parts := make([]string, 0, 7+userFieldSlots+reservedSlots)
	parts = append(parts,
		creds.Key,
		f.TransactionID,
		FormatAmount(f.Amount),
		f.ProductInfo,
		f.FirstName,
		f.Email,
	)
	parts = append(parts, f.UserFields[:]...)
	for i := 0; i < reservedSlots; i++ {
		parts = append(parts, "")
	}
	parts = append(parts, creds.Salt)
	return strings.Join(parts, "|")
}

// ResponseHashString builds the incoming pipe string:
// salt|status||||||udf5..udf1|email|firstname|productinfo|amount|txnid|key
func ResponseHashString(f SignatureFields, creds Credentials) string {
	parts := make([]string, 0, 8+userFieldSlots+reservedSlots)
	parts = append(parts, creds.Salt, f.Status)
	for i := 0; i < reservedSlots; i++ {
		parts = append(parts, "")
	}
	for i := userFieldSlots - 1; i >= 0; i-- {
		parts = append(parts, f.UserFields[i])
	}
	parts = append(parts,
		f.Email,
		f.FirstName,
		f.ProductInfo,
		FormatAmount(f.Amount),
		f.TransactionID,
		creds.Key,
	)
	return strings.Join(parts, "|")
}

// Sign returns the hash for a request about to be sent to the processor.
func Sign(f SignatureFields, creds Credentials) string {
	return sha512Hex(RequestHashString(f, creds))
}

// SignResponse returns the hash the processor is expected to send back.
func SignResponse(f SignatureFields, creds Credentials) string {
	return sha512Hex(ResponseHashString(f, creds))
}

// Verify reports whether digest matches the response hash of f. It never
// fails loudly: any mismatch, including an empty digest, is false.
func Verify(f SignatureFields, creds Credentials, digest string) bool {
	got := strings.ToLower(strings.TrimSpace(digest))
	if got == "" {
		return false
	}
	want := SignResponse(f, creds)
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
