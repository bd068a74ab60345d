package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validate reads the same `binding` tags gin uses and reports fields by
// their JSON names.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}()

// Validate performs validation on a struct.
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// IsValidationError reports whether err came from struct validation.
func IsValidationError(err error) bool {
	var errs validator.ValidationErrors
	return errors.As(err, &errs)
}

// FormatValidationError formats validation errors into a readable string.
func FormatValidationError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", e.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed on '%s'", e.Field(), e.Tag()))
		}
	}
	return strings.Join(messages, ", ")
}

// Normalizer is implemented by payloads that canonicalize fields before
// their tags are checked.
type Normalizer interface {
	Normalize()
}

// structValidator plugs the shared validator into gin's binding.
type structValidator struct{}

func (structValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	if n, ok := obj.(Normalizer); ok {
		n.Normalize()
	}
	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return validate.Struct(obj)
}

func (structValidator) Engine() any {
	return validate
}

// InstallBindingValidator makes gin's ShouldBind* use the shared validator.
func InstallBindingValidator() {
	binding.Validator = structValidator{}
}

// BindAndValidate binds the request body to a struct and validates it.
// If either step fails, it sends a 422 response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if IsValidationError(err) {
			UnprocessableEntity(c, "Validation failed: "+FormatValidationError(err))
		} else {
			UnprocessableEntity(c, "Invalid request payload: "+err.Error())
		}
		return false
	}
	return true
}
