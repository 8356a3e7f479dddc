// Package bind provides JSON bind and validation helpers for handlers
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	perr "tasker/internal/platform/errors"
	"tasker/internal/platform/logger"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	pt_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

// Locales a translator exists for, the first is the default
const (
	LocalePT = "pt_BR"
	LocaleEN = "en"
)

// FieldError aliases validator.FieldError
type FieldError = validator.FieldError

// ValidatorSvc holds a singleton validator and its translators
type ValidatorSvc struct {
	Validator   *validator.Validate
	Translator  ut.Translator
	translators map[string]ut.Translator
}

var (
	vOnce    sync.Once
	vSvc     *ValidatorSvc
	jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam
)

// message pairs for the tags we add or shorten, by locale
var messages = map[string]map[string]string{
	LocalePT: {
		"min":   "{0} deve ter no mínimo {1}",
		"max":   "{0} deve ter no máximo {1}",
		"date":  "{0} deve estar no formato AAAA-MM-DD",
		"clock": "{0} deve estar no formato HH:MM",
	},
	LocaleEN: {
		"min":   "{0} must be at least {1}",
		"max":   "{0} must be at most {1}",
		"date":  "{0} must be a YYYY-MM-DD date",
		"clock": "{0} must be an HH:MM time",
	},
}

// Init builds the validator with pt_BR and en messages and json tag names
func Init() *ValidatorSvc {
	vOnce.Do(func() {
		ptLoc, enLoc := pt_BR.New(), en.New()
		uni := ut.New(ptLoc, ptLoc, enLoc)

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("date", isDate)
		_ = v.RegisterValidation("clock", isClock)

		svc := &ValidatorSvc{Validator: v, translators: map[string]ut.Translator{}}
		for _, loc := range []string{LocalePT, LocaleEN} {
			trans, _ := uni.GetTranslator(loc)
			switch loc {
			case LocalePT:
				_ = pt_translations.RegisterDefaultTranslations(v, trans)
			default:
				_ = en_translations.RegisterDefaultTranslations(v, trans)
			}
			for tag, text := range messages[loc] {
				registerMessage(v, trans, tag, text)
			}
			svc.translators[loc] = trans
		}
		svc.Translator = svc.translators[LocalePT]
		vSvc = svc
	})
	return vSvc
}

// Get returns the validator singleton, initializing on first use
func Get() *ValidatorSvc { return Init() }

// For returns the translator for locale, falling back to pt_BR
func (s *ValidatorSvc) For(locale string) ut.Translator {
	if t, ok := s.translators[locale]; ok {
		return t
	}
	return s.Translator
}

func jsonName(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	if tag == "-" || tag == "" {
		return fld.Name
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	return tag
}

// isDate accepts YYYY-MM-DD calendar dates only
func isDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != len(time.DateOnly) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// isClock accepts zero-padded 24h HH:MM
func isClock(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // default 1MB
	DisallowUnknown bool  // default true
	AllowEmptyBody  bool  // default false
}

func defaultJSONOptions() JSONOptions {
	return JSONOptions{
		MaxBytes:        1 << 20,
		DisallowUnknown: true,
	}
}

// ParseJSON decodes JSON into T, validates it, and maps failures to project errors
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Named("bind").Error().Err(err).Msg("failed to close request body")
		}
	}()

	var reader io.Reader = r.Body
	if !o.AllowEmptyBody {
		buf := make([]byte, 1)
		n, _ := r.Body.Read(buf)
		if n == 0 {
			switch r.Method {
			case http.MethodGet, http.MethodDelete, http.MethodHead:
				return zero, nil
			}
			return zero, perr.JSONErrf("empty body")
		}
		reader = io.MultiReader(bytes.NewReader(buf[:n]), r.Body)
	}
	if o.MaxBytes > 0 {
		reader = io.LimitReader(reader, o.MaxBytes)
	}

	dec := json.NewDecoder(reader)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		if o.AllowEmptyBody && errors.Is(err, io.EOF) {
			return dst, nil
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := Struct(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// Struct validates v and returns a validation error naming the first bad field
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Named("bind").Error().Err(inv).Msg("validator internal error")
		return perr.JSONErrf("validation error")
	}
	field, msg := ValidationFieldAndMessage(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

// Var validates a single value such as a query parameter under name
func Var(name string, value any, tag string) error {
	err := Get().Validator.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msg := verrs[0].Translate(Get().Translator)
		// Var has no struct field so the message starts blank
		msg = strings.TrimSpace(name + " " + strings.TrimSpace(msg))
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), name)
	}
	return perr.WithField(perr.Validationf("%s: %v", name, err), name)
}

// ValidationFieldAndMessage returns the first field and its pt_BR message
func ValidationFieldAndMessage(err error) (field, message string) {
	return FieldAndMessage(err, LocalePT)
}

// FieldAndMessage returns the first field and its message in locale
func FieldAndMessage(err error, locale string) (field, message string) {
	if err == nil {
		return "", ""
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return "", inv.Error()
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			return fe.Field(), fe.Translate(Get().For(locale))
		}
	}
	return "", err.Error()
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
