package billing

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// amountPattern accepts unsigned decimal amounts only.
var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("amount", validAmount); err != nil {
		panic(err)
	}
	return v
}

func validAmount(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !amountPattern.MatchString(s) {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v > 0
}

// signingInput holds the fields every hash needs.
type signingInput struct {
	TransactionID string `json:"transactionId" validate:"required"`
	Amount        string `json:"amount" validate:"required,amount"`
	ProductInfo   string `json:"productInfo" validate:"required"`
	FirstName     string `json:"firstName" validate:"required"`
	Email         string `json:"email" validate:"required"`
}

// verificationInput adds what a processor response must carry.
type verificationInput struct {
	signingInput
	Status string `json:"status" validate:"required"`
	Digest string `json:"digest" validate:"required"`
}

// ValidateForSigning reports missing fields needed to sign an outgoing request.
func (c *Callback) ValidateForSigning() error {
	return validationError(validate.Struct(c.signingInput()))
}

// ValidateForVerification reports missing fields needed to verify a response.
func (c *Callback) ValidateForVerification() error {
	return validationError(validate.Struct(verificationInput{
		signingInput: c.signingInput(),
		Status:       c.Get(FieldStatus),
		Digest:       c.Digest,
	}))
}

func (c *Callback) signingInput() signingInput {
	return signingInput{
		TransactionID: c.Get(FieldTransactionID),
		Amount:        c.Get(FieldAmount),
		ProductInfo:   c.Get(FieldProductInfo),
		FirstName:     c.Get(FieldFirstName),
		Email:         c.Get(FieldEmail),
	}
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}
