package draft

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"lpmanager/internal/models"
	"lpmanager/internal/sanitize"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
		registerCustomValidations(validate)
	})
	return validate
}

func registerCustomValidations(v *validator.Validate) {
	for tag, fn := range customValidations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}
}

var customValidations = map[string]validator.Func{
	"notblank":     validateNotBlank,
	"section_type": validateSectionType,
	"csscolor":     validateCSSColor,
}

// jsonName reports fields by their JSON names.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateSectionType(fl validator.FieldLevel) bool {
	return models.SectionType(fl.Field().String()).Known()
}

func validateCSSColor(fl validator.FieldLevel) bool {
	return sanitize.IsCSSColor(fl.Field().String())
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, f := range keys {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "invalid template: " + strings.Join(parts, "; ")
}

// Validate checks a record before it is committed.
func Validate(rec *models.TemplateRecord) error {
	err := validatorInstance().Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate template: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldName(fe)] = message(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldName turns "TemplateRecord.colors.primary" into "colors.primary".
func fieldName(fe validator.FieldError) string {
	_, field, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return field
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "section_type":
		return fmt.Sprintf("unknown section type %q", fe.Value())
	case "oneof":
		return "must be one of " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "csscolor":
		return fmt.Sprintf("%q is not a CSS colour", fe.Value())
	default:
		return "failed " + fe.Tag()
	}
}
