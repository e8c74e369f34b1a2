package http

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RecordIDPattern restricts stored record names to safe file tokens.
var RecordIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// TemplatePattern restricts template set names to safe directory tokens.
var TemplatePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,31}$`)

var requestValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names so messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("record_id", func(fl validator.FieldLevel) bool {
		return RecordIDPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("template_name", func(fl validator.FieldLevel) bool {
		return TemplatePattern.MatchString(fl.Field().String())
	})
	return v
}
