package validate

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldErrors maps a JSON field name to its messages, the shape 422 bodies use.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, msg string) { f[field] = append(f[field], msg) }

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(f[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Merge reports decode-time errors together with the result of Struct. A
// field that failed to decode keeps only its decode messages.
func Merge(decoded FieldErrors, err error) error {
	if len(decoded) == 0 {
		return err
	}
	out := FieldErrors{}
	for k, v := range decoded {
		out[k] = append([]string(nil), v...)
	}
	if err == nil {
		return out
	}
	fe, ok := AsFieldErrors(err)
	if !ok {
		return err
	}
	for k, v := range fe {
		if _, seen := out[k]; !seen {
			out[k] = v
		}
	}
	return out
}

type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// decimals are checked as numbers (min/max/required)
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			fl, _ := d.Float64()
			return fl
		}
		return nil
	}, decimal.Decimal{})

	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	registerMessages(v, trans)

	return &Validator{v: v, trans: trans}
}

// Struct returns FieldErrors for invalid input and nil otherwise.
func (x *Validator) Struct(s any) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		out.Add(fe.Field(), fe.Translate(x.trans))
	}
	return out
}

var title = cases.Title(language.English)

// Label turns salary_in_local_currency into "Salary In Local Currency".
func Label(field string) string {
	return title.String(strings.ReplaceAll(field, "_", " "))
}

type message struct {
	tag  string
	text string
}

func registerMessages(v *validator.Validate, trans ut.Translator) {
	msgs := []message{
		{"required", "{0} is required"},
		{"email", "{0} must be a valid email address"},
		{"min", "{0} must be at least {1}"},
		{"max", "{0} must not be greater than {1}"},
		{"max-string", "{0} must not be greater than {1} characters"},
	}
	for _, m := range msgs {
		_ = trans.Add(m.tag, m.text, true)
	}

	for _, tag := range []string{"required", "email", "min", "max"} {
		tag := tag
		_ = v.RegisterTranslation(tag, trans,
			func(ut.Translator) error { return nil },
			func(t ut.Translator, fe validator.FieldError) string {
				key := fe.Tag()
				if key == "max" && fe.Kind() == reflect.String {
					key = "max-string"
				}
				s, err := t.T(key, Label(fe.Field()), fe.Param())
				if err != nil {
					return fe.Error()
				}
				return s
			})
	}
}
