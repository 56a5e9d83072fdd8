package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/padho/internal/client/models"
)

// RegisterRequest is the self-registration payload.
type RegisterRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Name     string      `json:"name" validate:"required"`
	Role     models.Role `json:"role" validate:"required,self_service_role"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("self_service_role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).SelfService()
	})
	if err != nil {
		panic(fmt.Sprintf("register validation: %v", err))
	}
	return v
}

// Validate checks the request before it is sent. Failures wrap ErrValidation.
func (r RegisterRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &APIError{Detail: strings.Join(msgs, "; "), Err: ErrValidation}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case "email":
		return "email is not a valid address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", strings.ToLower(fe.Field()), fe.Param())
	case "self_service_role":
		return "role must be student or instructor"
	default:
		return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
	}
}
