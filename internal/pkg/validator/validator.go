package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations()
}

func registerCustomValidations() {
	// Product type validation
	validate.RegisterValidation("product_type", func(fl validator.FieldLevel) bool {
		t := fl.Field().String()
		validTypes := []string{"experience", "class", "trip"}
		for _, v := range validTypes {
			if t == v {
				return true
			}
		}
		return false
	})

	// Booking status validation
	validate.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		validStatuses := []string{"pending", "confirmed", "completed", "cancelled"}
		for _, v := range validStatuses {
			if s == v {
				return true
			}
		}
		return false
	})

	// Currency validation (ISO 4217 alpha code)
	validate.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		c := fl.Field().String()
		if len(c) != 3 {
			return false
		}
		for _, r := range c {
			if r < 'A' || r > 'Z' {
				return false
			}
		}
		return true
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "uuid":
			errors[field] = "Invalid UUID format"
		case "product_type":
			errors[field] = "Invalid product type. Must be: experience, class, or trip"
		case "booking_status":
			errors[field] = "Invalid status. Must be: pending, confirmed, completed, or cancelled"
		case "currency":
			errors[field] = "Invalid currency code"
		case "oneof":
			errors[field] = "Must be one of: " + err.Param()
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
