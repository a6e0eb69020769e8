package utils

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// FieldsError lists the fields that failed struct-tag validation
type FieldsError struct {
	Fields map[string]string
	cause  error
}

func (e *FieldsError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, tag := range e.Fields {
		parts = append(parts, field+" failed '"+tag+"'")
	}
	sort.Strings(parts)
	return "invalid fields: " + strings.Join(parts, ", ")
}

func (e *FieldsError) Unwrap() error {
	return e.cause
}

// ValidateStruct runs struct-tag validation and flattens failures into a *FieldsError
func ValidateStruct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	fields := ValidationErrors(err)
	if len(fields) == 0 {
		return err
	}
	return &FieldsError{Fields: fields, cause: err}
}

// ValidationErrors maps each failing field to the tag it violated
func ValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return out
	}
	for _, ve := range validationErrors {
		out[ve.Field()] = ve.Tag()
	}
	return out
}
