package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is shared by the HTTP decoders and the intake services. Field errors carry
// the json name of the field.
var Validate = New()

func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

func jsonFieldName(f reflect.StructField) string {
	tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if tag == "" || tag == "-" {
		return f.Name
	}
	return tag
}
