package tax

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations against the wire field names, not Go identifiers.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// TaxInfoInput is the user-submitted tax profile. Expenses and Deductions are
// pointers so that an absent field can be told apart from an explicit zero.
type TaxInfoInput struct {
	Income     float64  `json:"income" validate:"required,gt=0"`
	Expenses   *float64 `json:"expenses" validate:"required,gte=0"`
	Deductions *float64 `json:"deductions" validate:"omitempty,gte=0"`
	Country    string   `json:"country" validate:"required,min=2"`
}

// Validate enforces the field constraints. Violations never reach the
// advisory service; the handler rejects first.
func (t *TaxInfoInput) Validate() error {
	return validate.Struct(t)
}

// Normalize fills defaults after successful validation.
func (t *TaxInfoInput) Normalize() {
	if t.Deductions == nil {
		zero := 0.0
		t.Deductions = &zero
	}
}

// ExpensesValue returns the submitted expenses, 0 when unset.
func (t *TaxInfoInput) ExpensesValue() float64 {
	if t.Expenses == nil {
		return 0
	}
	return *t.Expenses
}

// DeductionsValue returns the submitted deductions, 0 when unset.
func (t *TaxInfoInput) DeductionsValue() float64 {
	if t.Deductions == nil {
		return 0
	}
	return *t.Deductions
}

// FieldError is one entry of the 422 response detail.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationDetail converts validator errors into field-level detail for the
// 422 response body.
func ValidationDetail(err error) []FieldError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	detail := make([]FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		detail = append(detail, FieldError{Field: fe.Field(), Message: describeViolation(fe)})
	}
	return detail
}

func describeViolation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// TokenResponse is the body of a successful token issuance.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TaxAdviceResponse carries the advisory outcome. Advisory failures still use
// this shape with an explanatory advice text; the HTTP status stays 200.
type TaxAdviceResponse struct {
	Message  string        `json:"message"`
	Advice   string        `json:"advice,omitempty"`
	RawInput *TaxInfoInput `json:"raw_input,omitempty"`
}

// AppInfo is the build/config metadata served on /tax/info. It must never
// carry the provider credential.
type AppInfo struct {
	ProjectName     string `json:"project_name"`
	Version         string `json:"version"`
	Description     string `json:"description"`
	DefaultModel    string `json:"default_model"`
	ConfiguredModel string `json:"configured_model"`
	API             string `json:"api"`
}
