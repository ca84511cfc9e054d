package salary_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salary-portal/internal/feature/salary"
)

func TestSubmitRequest_UnmarshalJSON(t *testing.T) {
	t.Run("number and numeric string", func(t *testing.T) {
		var a, b salary.SubmitRequest
		require.NoError(t, json.Unmarshal([]byte(`{"name":"A","email":"a@x.com","currency":"USD","salary_in_local_currency":1000.5}`), &a))
		require.NoError(t, json.Unmarshal([]byte(`{"name":"A","email":"a@x.com","currency":"USD","salary_in_local_currency":" 1000.50 "}`), &b))

		require.NotNil(t, a.SalaryInLocalCurrency)
		require.NotNil(t, b.SalaryInLocalCurrency)
		assert.True(t, a.SalaryInLocalCurrency.Equal(*b.SalaryInLocalCurrency))
	})

	t.Run("missing, null and empty are absent", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"salary_in_local_currency":null}`, `{"salary_in_local_currency":""}`} {
			var r salary.SubmitRequest
			require.NoError(t, json.Unmarshal([]byte(body), &r), body)
			assert.Nil(t, r.SalaryInLocalCurrency, body)
		}
	})

	t.Run("non numeric is a decode error", func(t *testing.T) {
		var r salary.SubmitRequest
		require.NoError(t, json.Unmarshal([]byte(`{"salary_in_local_currency":"lots"}`), &r))
		assert.Nil(t, r.SalaryInLocalCurrency)
		assert.Equal(t, []string{"Salary In Local Currency must be a number"}, r.DecodeErrors()["salary_in_local_currency"])
	})

	t.Run("out of range literals are judged by magnitude", func(t *testing.T) {
		tooBig := "Salary In Local Currency must not be greater than 99999999.99"
		negative := "Salary In Local Currency must be at least 0"
		cases := []struct{ lit, want string }{
			{`1e100000000`, tooBig},
			{`1e9`, tooBig},
			{`-1e100000000`, negative},
			{`"-1e-100000000"`, negative},
			{`"` + strings.Repeat("9", 70) + `"`, "Salary In Local Currency must be a number"},
		}
		for _, tc := range cases {
			var r salary.SubmitRequest
			require.NoError(t, json.Unmarshal([]byte(`{"salary_in_local_currency":`+tc.lit+`}`), &r), tc.lit)
			assert.Equal(t, []string{tc.want}, r.DecodeErrors()["salary_in_local_currency"], tc.lit)
		}
	})

	t.Run("in range exponents parse", func(t *testing.T) {
		cases := []struct{ lit, want string }{
			{`1e3`, "1000.00"},
			{`"2.5E1"`, "25.00"},
			{`"1e-100000000"`, "0.00"},
			{`0e100000000`, "0.00"},
		}
		for _, tc := range cases {
			var r salary.SubmitRequest
			require.NoError(t, json.Unmarshal([]byte(`{"salary_in_local_currency":`+tc.lit+`}`), &r), tc.lit)
			assert.Empty(t, r.DecodeErrors(), tc.lit)
			require.NotNil(t, r.SalaryInLocalCurrency, tc.lit)
			assert.Equal(t, tc.want, r.SalaryInLocalCurrency.StringFixed(2), tc.lit)
		}
	})

	t.Run("wrong type on a string field", func(t *testing.T) {
		var r salary.SubmitRequest
		require.NoError(t, json.Unmarshal([]byte(`{"name":42,"email":"q@x.com","currency":["USD"]}`), &r))

		assert.Equal(t, "q@x.com", r.Email)
		assert.Equal(t, []string{"Name must be a string"}, r.DecodeErrors()["name"])
		assert.Equal(t, []string{"Currency must be a string"}, r.DecodeErrors()["currency"])
	})

	t.Run("not an object", func(t *testing.T) {
		var r salary.SubmitRequest
		assert.Error(t, json.Unmarshal([]byte(`[1]`), &r))
	})
}

func TestUpdateRequest_UnmarshalJSON(t *testing.T) {
	t.Run("only present fields are set", func(t *testing.T) {
		var r salary.UpdateRequest
		require.NoError(t, json.Unmarshal([]byte(`{"commission":250,"salary_in_euros":null,"name":"ignored"}`), &r))

		require.NotNil(t, r.Commission)
		assert.Equal(t, "250.00", r.Commission.StringFixed(2))
		assert.Nil(t, r.SalaryInEuros)
		assert.Nil(t, r.SalaryInLocalCurrency)
	})

	t.Run("every bad field is reported", func(t *testing.T) {
		var r salary.UpdateRequest
		require.NoError(t, json.Unmarshal([]byte(`{"commission":true,"salary_in_euros":"x"}`), &r))
		fe := r.DecodeErrors()
		assert.Contains(t, fe, "commission")
		assert.Contains(t, fe, "salary_in_euros")
		assert.NotContains(t, fe, "salary_in_local_currency")
	})
}
