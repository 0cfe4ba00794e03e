package utils

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var engineOnce sync.Once

// validationEngine returns gin's validator, reporting fields by their json names.
func validationEngine() *validator.Validate {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	engineOnce.Do(func() {
		v.RegisterTagNameFunc(jsonFieldName)
	})
	return v
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// RegisterValidation adds a custom binding tag to gin's validator.
func RegisterValidation(tag string, fn validator.Func) {
	v := validationEngine()
	if v == nil {
		GetLogger().Sugar().Errorf("validation engine unavailable, %s not registered", tag)
		return
	}
	if err := v.RegisterValidation(tag, fn); err != nil {
		GetLogger().Sugar().Errorf("failed to register %s validation: %v", tag, err)
	}
}

// ValidateStruct runs the binding tags of obj.
func ValidateStruct(obj any) error {
	validationEngine()
	return binding.Validator.ValidateStruct(obj)
}

// AsFieldErrors extracts the per-field failures of a binding error, in field order.
func AsFieldErrors(err error) (validator.ValidationErrors, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
