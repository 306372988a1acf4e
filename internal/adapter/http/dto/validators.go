package dto

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"case-opening-platform/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.:]+$`)

var algorithms = map[string]bool{
	"price":        true,
	"byprice":      true,
	"rarity":       true,
	"byraritytier": true,
	"combined":     true,
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidations(v)
	}
}

// RegisterValidations installs the custom tags used by the request DTOs.
func RegisterValidations(v *validator.Validate) {
	_ = v.RegisterValidation("safe_id", validateSafeID)
	_ = v.RegisterValidation("provider", validateProvider)
	_ = v.RegisterValidation("algorithm", validateAlgorithm)
}

// ValidIdempotencyKey reports whether an Idempotency-Key header value is acceptable.
func ValidIdempotencyKey(key string) bool {
	return len(key) <= 64 && safeStringRe.MatchString(key)
}

// validateSafeID allows alphanumeric, underscore, dash, dot and colon.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

func validateProvider(fl validator.FieldLevel) bool {
	return domain.Provider(strings.ToUpper(fl.Field().String())).Valid()
}

func validateAlgorithm(fl validator.FieldLevel) bool {
	return algorithms[strings.ToLower(fl.Field().String())]
}

// SanitizeStruct trims whitespace and strips control characters from every
// exported string field of a struct pointer, descending into slices of
// strings and structs. Item names are matched verbatim, so nothing is escaped.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		sanitizeValue(rv.Field(i))
	}
}

func sanitizeValue(f reflect.Value) {
	if !f.CanSet() {
		return
	}
	switch f.Kind() {
	case reflect.String:
		f.SetString(sanitize(f.String()))
	case reflect.Ptr:
		if f.IsNil() {
			return
		}
		switch elem := f.Elem(); elem.Kind() {
		case reflect.String:
			elem.SetString(sanitize(elem.String()))
		case reflect.Struct:
			sanitizeFields(elem)
		}
	case reflect.Slice:
		for j := 0; j < f.Len(); j++ {
			sanitizeValue(f.Index(j))
		}
	case reflect.Struct:
		sanitizeFields(f)
	}
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
