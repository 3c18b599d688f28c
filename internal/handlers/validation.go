package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	govalidator "github.com/go-playground/validator/v10"

	"github.com/taskhive/taskhive/internal/models"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
	"github.com/taskhive/taskhive/pkg/validator"
)

func init() {
	// assignable_role restricts request payloads to roles the member-update
	// API accepts, so owner and admin are rejected at the edge.
	err := validator.RegisterValidation("assignable_role", func(fl govalidator.FieldLevel) bool {
		return models.ParseRole(fl.Field().String()).IsAssignable()
	})
	if err != nil {
		panic(err)
	}
}

// bindAndValidate decodes the JSON body into T and runs struct validation.
// Rule failures come back as a validation error carrying one detail line per
// failed field.
func bindAndValidate[T any](c *gin.Context) (T, error) {
	var payload T
	if err := c.ShouldBindJSON(&payload); err != nil {
		return payload, apperrors.NewBadRequest("invalid request body")
	}

	if err := validator.ValidateStruct(payload); err != nil {
		var failures validator.ValidationErrors
		if errors.As(err, &failures) {
			return payload, apperrors.NewValidationError(failures.Describe())
		}
		return payload, apperrors.NewBadRequest(err.Error())
	}
	return payload, nil
}
