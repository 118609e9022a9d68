package validator

import (
	"reflect"
	"strings"
	"sync"

	v10 "github.com/go-playground/validator/v10"

	"github.com/hoshichaam/pasal_storefront_go/pkg/passwordpolicy"
)

// Singleton validator dari go-playground
var (
	once sync.Once
	v    *v10.Validate
)

// New mengembalikan instance validator yang sama (thread-safe).
func New() *v10.Validate {
	once.Do(func() {
		v = v10.New()
		// report json names so field errors line up with the form
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("strongpassword", func(fl v10.FieldLevel) bool {
			return passwordpolicy.Validate(fl.Field().String()) == nil
		})
	})
	return v
}

// ValidateStruct memvalidasi struct dan merapikan error menjadi map[field]message.
func ValidateStruct(s any) (map[string]string, error) {
	err := New().Struct(s)
	if err == nil {
		return nil, nil
	}
	ve, ok := err.(v10.ValidationErrors)
	if !ok {
		// bukan error validasi terstruktur
		return map[string]string{"_": err.Error()}, err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = msgForTag(fe)
	}
	return fields, err
}

// msgForTag bikin pesan ringkas per rule
func msgForTag(fe v10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "eqfield":
		return "Passwords don't match"
	case "strongpassword":
		pw, _ := fe.Value().(string)
		if err := passwordpolicy.Validate(pw); err != nil {
			return err.Error()
		}
		return "password too weak"
	default:
		return fe.Error() // fallback detail bawaan
	}
}
