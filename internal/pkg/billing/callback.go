package billing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonical callback field names.
const (
	FieldAction        = "action"
	FieldTransactionID = "transactionId"
	FieldAmount        = "amount"
	FieldProductInfo   = "productInfo"
	FieldFirstName     = "firstName"
	FieldEmail         = "email"
	FieldUserField1    = "userField1"
	FieldUserField2    = "userField2"
	FieldUserField3    = "userField3"
	FieldUserField4    = "userField4"
	FieldUserField5    = "userField5"
	FieldStatus        = "status"
	FieldDigest        = "digest"
	FieldProcessorRef  = "processorRef"
	FieldSuccessURL    = "successUrl"
	FieldMerchantKey   = "merchantKey"
)

var userFieldNames = [userFieldSlots]string{
	FieldUserField1, FieldUserField2, FieldUserField3, FieldUserField4, FieldUserField5,
}

// fieldAliases maps the processor's native form names onto canonical names.
var fieldAliases = map[string]string{
	"txnid":       FieldTransactionID,
	"productinfo": FieldProductInfo,
	"firstname":   FieldFirstName,
	"udf1":        FieldUserField1,
	"udf2":        FieldUserField2,
	"udf3":        FieldUserField3,
	"udf4":        FieldUserField4,
	"udf5":        FieldUserField5,
	"hash":        FieldDigest,
	"mihpayid":    FieldProcessorRef,
	"surl":        FieldSuccessURL,
	"key":         FieldMerchantKey,
}

// Field is a single key/value pair exactly as it arrived.
type Field struct {
	Key   string
	Value string
}

// Callback is the transport independent view of a processor message.
type Callback struct {
	Action       string
	Fields       SignatureFields
	Digest       string
	ProcessorRef string

	// RedirectTarget is the embedded target from userField3, SuccessURL the
	// processor's success URL. Precedence is decided by the dispatcher.
	RedirectTarget string
	SuccessURL     string

	// Raw holds every received field verbatim, in arrival order.
	Raw []Field

	values map[string]string
}

// ParseFormCallback normalizes a form-encoded browser redirect.
func ParseFormCallback(fields []Field) *Callback {
	raw := make([]Field, len(fields))
	copy(raw, fields)
	return newCallback(raw)
}

// ParseJSONCallback normalizes a JSON API body. Amounts may be numbers or strings.
func ParseJSONCallback(body []byte) (*Callback, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", err)
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	raw := make([]Field, 0, len(keys))
	for _, k := range keys {
		v, ok := scalarString(payload[k])
		if !ok {
			continue
		}
		raw = append(raw, Field{Key: k, Value: v})
	}
	return newCallback(raw), nil
}

func scalarString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func newCallback(raw []Field) *Callback {
	values := make(map[string]string, len(raw))
	aliased := make(map[string]string)
	for _, f := range raw {
		if canonical, ok := fieldAliases[strings.ToLower(f.Key)]; ok {
			if _, seen := aliased[canonical]; !seen {
				aliased[canonical] = f.Value
			}
			continue
		}
		if _, seen := values[f.Key]; !seen {
			values[f.Key] = f.Value
		}
	}
	// Canonical names win over processor aliases.
	for k, v := range aliased {
		if strings.TrimSpace(values[k]) == "" {
			values[k] = v
		}
	}

	cb := &Callback{
		Raw:    raw,
		values: values,
	}
	cb.Action = strings.ToLower(cb.Get(FieldAction))
	// Signed values stay untouched; the processor hashes them as posted.
	cb.Fields = SignatureFields{
		TransactionID: values[FieldTransactionID],
		Amount:        values[FieldAmount],
		ProductInfo:   values[FieldProductInfo],
		FirstName:     values[FieldFirstName],
		Email:         values[FieldEmail],
		Status:        values[FieldStatus],
	}
	for i, name := range userFieldNames {
		cb.Fields.UserFields[i] = values[name]
	}
	cb.Digest = cb.Get(FieldDigest)
	cb.ProcessorRef = cb.Get(FieldProcessorRef)
	cb.RedirectTarget = cb.Get(FieldUserField3)
	cb.SuccessURL = cb.Get(FieldSuccessURL)
	return cb
}

// Get returns the trimmed value of a canonical field, or "" when absent.
func (c *Callback) Get(name string) string {
	return strings.TrimSpace(c.values[name])
}

// PayerID is userField1, falling back to the payer email.
func (c *Callback) PayerID() string {
	if id := strings.TrimSpace(c.Fields.UserFields[0]); id != "" {
		return id
	}
	return strings.ToLower(strings.TrimSpace(c.Fields.Email))
}

// PlanName is userField2, falling back to the product description.
func (c *Callback) PlanName() string {
	if plan := strings.TrimSpace(c.Fields.UserFields[1]); plan != "" {
		return plan
	}
	return strings.TrimSpace(c.Fields.ProductInfo)
}

// Discriminator is the ledger selector carried in userField4.
func (c *Callback) Discriminator() string {
	return c.Fields.UserFields[3]
}

// PayloadJSON renders the raw fields as a JSON object for the audit column.
// A repeated key keeps its first value, the one that was verified.
func (c *Callback) PayloadJSON() string {
	m := make(map[string]string, len(c.Raw))
	for _, f := range c.Raw {
		if _, seen := m[f.Key]; !seen {
			m[f.Key] = f.Value
		}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}
