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

	registerCustomValidations()
}

func registerCustomValidations() {
	validate.RegisterValidation("category_type", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), "costume", "accessory")
	})

	validate.RegisterValidation("item_status", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), "available", "rented", "cleaning", "damaged", "")
	})

	validate.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), "active", "completed", "overdue", "cancelled")
	})

	validate.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), "pending", "paid", "refunded")
	})
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
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
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "category_type":
			errors[field] = "Invalid type. Must be: costume or accessory"
		case "item_status":
			errors[field] = "Invalid status. Must be: available, rented, cleaning, or damaged"
		case "booking_status":
			errors[field] = "Invalid status. Must be: active, completed, overdue, or cancelled"
		case "payment_status":
			errors[field] = "Invalid payment status. Must be: pending, paid, or refunded"
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
