package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"chatshare-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and reports the first failing field.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return apperror.Validation(fmt.Sprintf("%s is required.", field))
		case "oneof":
			return apperror.Validation(fmt.Sprintf("%s must be one of: %s.", field, fe.Param()))
		case "email":
			return apperror.Validation(fmt.Sprintf("%s must be a valid email.", field))
		case "min":
			return apperror.Validation(fmt.Sprintf("%s must be at least %s characters.", field, fe.Param()))
		default:
			return apperror.Validation(fmt.Sprintf("%s is invalid.", field))
		}
	}
	return apperror.Wrap(apperror.KindValidation, "Invalid request.", err)
}
