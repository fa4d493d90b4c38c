package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"voicescribe/internal/api/errors"
)

// ValidateQuery binds and validates query parameters against the struct's
// binding tags.
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		validationErrors := make(map[string]string)

		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrs {
				field := strings.ToLower(fieldError.Field())
				validationErrors[field] = "invalid query parameter"
			}
		} else {
			validationErrors["query"] = "invalid query parameters"
		}

		return errors.NewValidationError("Invalid query parameters", validationErrors)
	}
	return nil
}
