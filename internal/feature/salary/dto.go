package salary

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salary-portal/internal/core/validate"
	"salary-portal/internal/domain"
)

// MaxAmount is the largest value a decimal(10,2) column holds.
const MaxAmount = "99999999.99"

// SubmitRequest is the public form payload.
type SubmitRequest struct {
	Name                  string           `json:"name" validate:"required,max=255"`
	Email                 string           `json:"email" validate:"required,email,max=255"`
	Currency              string           `json:"currency" validate:"required,max=3"`
	SalaryInLocalCurrency *decimal.Decimal `json:"salary_in_local_currency" validate:"required,min=0,max=99999999.99"`

	decodeErrs validate.FieldErrors
}

// UnmarshalJSON only fails on a body that is not a JSON object. Fields of the
// wrong type are recorded and reported together with the validation errors.
func (r *SubmitRequest) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name                  json.RawMessage `json:"name"`
		Email                 json.RawMessage `json:"email"`
		Currency              json.RawMessage `json:"currency"`
		SalaryInLocalCurrency json.RawMessage `json:"salary_in_local_currency"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	fe := validate.FieldErrors{}
	*r = SubmitRequest{
		Name:                  parseString(fe, "name", raw.Name),
		Email:                 parseString(fe, "email", raw.Email),
		Currency:              parseString(fe, "currency", raw.Currency),
		SalaryInLocalCurrency: parseAmount(fe, "salary_in_local_currency", raw.SalaryInLocalCurrency),
		decodeErrs:            fe,
	}
	return nil
}

// DecodeErrors lists the fields whose JSON value could not be used.
func (r SubmitRequest) DecodeErrors() validate.FieldErrors { return r.decodeErrs }

// UpdateRequest holds the admin-editable amounts. Absent and null both mean
// "keep"; any other key in the body is ignored.
type UpdateRequest struct {
	SalaryInLocalCurrency *decimal.Decimal `json:"salary_in_local_currency" validate:"omitempty,min=0,max=99999999.99"`
	SalaryInEuros         *decimal.Decimal `json:"salary_in_euros" validate:"omitempty,min=0,max=99999999.99"`
	Commission            *decimal.Decimal `json:"commission" validate:"omitempty,min=0,max=99999999.99"`

	decodeErrs validate.FieldErrors
}

func (r *UpdateRequest) UnmarshalJSON(b []byte) error {
	var raw struct {
		SalaryInLocalCurrency json.RawMessage `json:"salary_in_local_currency"`
		SalaryInEuros         json.RawMessage `json:"salary_in_euros"`
		Commission            json.RawMessage `json:"commission"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	fe := validate.FieldErrors{}
	*r = UpdateRequest{
		SalaryInLocalCurrency: parseAmount(fe, "salary_in_local_currency", raw.SalaryInLocalCurrency),
		SalaryInEuros:         parseAmount(fe, "salary_in_euros", raw.SalaryInEuros),
		Commission:            parseAmount(fe, "commission", raw.Commission),
		decodeErrs:            fe,
	}
	return nil
}

func (r UpdateRequest) DecodeErrors() validate.FieldErrors { return r.decodeErrs }

func (r UpdateRequest) patch() domain.AmountPatch {
	return domain.AmountPatch{
		SalaryInLocalCurrency: round2(r.SalaryInLocalCurrency),
		SalaryInEuros:         round2(r.SalaryInEuros),
		Commission:            round2(r.Commission),
	}
}

// parseString accepts a JSON string; missing and null yield "".
func parseString(fe validate.FieldErrors, field string, raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		fe.Add(field, validate.Label(field)+" must be a string")
		return ""
	}
	return s
}

const (
	// maxAmountLen bounds the literal handed to the decimal parser.
	maxAmountLen = 64
	// Values of 1e9 and up are out of range and values below 1e-40 store as
	// 0.00. Both are decided from digit count and exponent alone, so nothing
	// downstream ever expands something like 1e100000000.
	maxAmountMag = 9
	minAmountMag = -40
)

// parseAmount accepts a JSON number or a numeric string. Missing, null and
// "" yield nil.
func parseAmount(fe validate.FieldErrors, field string, raw json.RawMessage) *decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	label := validate.Label(field)
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			fe.Add(field, label+" must be a number")
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
	}
	if len(s) > maxAmountLen {
		fe.Add(field, label+" must be a number")
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		fe.Add(field, label+" must be a number")
		return nil
	}
	if d.IsZero() {
		// 0e100000000 is zero, but rescaling it would not be cheap
		z := decimal.Zero
		return &z
	}
	// 10^(mag-1) <= |d| < 10^mag
	mag := d.NumDigits() + int(d.Exponent())
	switch {
	case d.IsNegative() && (mag > maxAmountMag || mag < minAmountMag):
		fe.Add(field, label+" must be at least 0")
		return nil
	case mag > maxAmountMag:
		fe.Add(field, label+" must not be greater than "+MaxAmount)
		return nil
	case mag < minAmountMag:
		z := decimal.Zero
		return &z
	}
	return &d
}

func round2(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(2)
	return &r
}

// Amount renders as a JSON number with exactly two decimals.
type Amount struct{ decimal.Decimal }

func (a Amount) MarshalJSON() ([]byte, error) { return []byte(a.StringFixed(2)), nil }

type SalaryResponse struct {
	ID                    uint64    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Currency              string    `json:"currency"`
	SalaryInLocalCurrency Amount    `json:"salary_in_local_currency"`
	SalaryInEuros         *Amount   `json:"salary_in_euros"`
	Commission            Amount    `json:"commission"`
	DisplayedSalary       Amount    `json:"displayed_salary"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func toResponse(r domain.SalaryRecord) SalaryResponse {
	out := SalaryResponse{
		ID:                    r.ID,
		Name:                  r.Name,
		Email:                 r.Email,
		Currency:              r.Currency,
		SalaryInLocalCurrency: Amount{r.SalaryInLocalCurrency},
		Commission:            Amount{r.Commission},
		DisplayedSalary:       Amount{r.DisplayedSalary()},
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
	if r.SalaryInEuros.Valid {
		out.SalaryInEuros = &Amount{r.SalaryInEuros.Decimal}
	}
	return out
}

func toResponses(rows []domain.SalaryRecord) []SalaryResponse {
	out := make([]SalaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toResponse(r))
	}
	return out
}
