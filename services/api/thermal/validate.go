package thermal

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/catalog"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

var errorMessageTemplates = map[string]string{
	"required":    "%s is required",
	"latitude":    "%s must be a valid latitude (-90 to 90)",
	"longitude":   "%s must be a valid longitude (-180 to 180)",
	"batteryyear": "%s is outside the accepted battery years",
}

var errorMessageWithParam = map[string]string{
	"oneof":   "%s must be one of: %s",
	"gte":     "%s must be greater than or equal to %s",
	"lte":     "%s must be less than or equal to %s",
	"gt":      "%s must be greater than %s",
	"lt":      "%s must be less than %s",
	"min":     "%s must be at least %s",
	"max":     "%s must be at most %s",
	"catalog": "%s is not a known %s",
	"nefield": "%s must differ from %s",
}

func newValidator(cat *catalog.Catalog) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// Timestamps are validated as the text the client sent, so that an offset-less value
	// can be reported verbatim.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		t, ok := field.Interface().(models.AwareTime)
		if !ok || (t.IsZero() && !t.Naive) {
			return ""
		}
		return t.String()
	}, models.AwareTime{})

	_ = v.RegisterValidation("aware", func(fl validator.FieldLevel) bool {
		t, err := models.ParseAwareTime(fl.Field().String())
		return err == nil && !t.Naive
	})
	_ = v.RegisterValidation("catalog", func(fl validator.FieldLevel) bool {
		return cat.Contains(catalog.Set(fl.Param()), fl.Field().String())
	})
	_ = v.RegisterValidation("batteryyear", func(fl validator.FieldLevel) bool {
		return cat.BatteryYear.Contains(int(fl.Field().Int()))
	})
	return v
}

func translateError(fe validator.FieldError, field string) string {
	tag, param := fe.Tag(), fe.Param()
	if tag == "aware" {
		return fmt.Sprintf("%v is not time zone aware", fe.Value())
	}
	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}

// check validates a request struct and reports every failing field as one Validation error.
func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Validation(err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, translateError(fe, fe.Field()))
	}
	return apperr.Validation(strings.Join(msgs, "; "))
}

// checkValue validates a single value against a tag list.
func (s *Service) checkValue(field string, value any, tag string) error {
	err := s.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperr.Validation(translateError(fieldErrs[0], field))
	}
	return apperr.Validation(err.Error())
}
