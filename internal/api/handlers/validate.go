package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return models.Category(fl.Field().String()).Valid()
		})
		validate.RegisterValidation("status", func(fl validator.FieldLevel) bool {
			return models.Status(fl.Field().String()).Valid()
		})
	})
	return validate
}

// validateStruct runs the struct tags of v and reports the first failure as
// a validation error
func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", models.ErrValidation, fe.Field())
	case "category", "status":
		return fmt.Errorf("%w: %s %q is not a valid %s", models.ErrValidation, fe.Field(), fe.Value(), fe.Tag())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s long", models.ErrValidation, fe.Field(), fe.Param())
	case "min":
		return fmt.Errorf("%w: %s must be at least %s long", models.ErrValidation, fe.Field(), fe.Param())
	}
	return fmt.Errorf("%w: %s failed %s", models.ErrValidation, fe.Field(), fe.Tag())
}

type addItemRequest struct {
	ExternalID string          `json:"externalId" validate:"required,max=64"`
	Category   models.Category `json:"category" validate:"required,category"`
	Status     models.Status   `json:"status" validate:"omitempty,status"`
}

type setStatusRequest struct {
	ExternalID string          `json:"externalId" validate:"required,max=64"`
	Category   models.Category `json:"category" validate:"required,category"`
	Status     models.Status   `json:"status" validate:"required,status"`
}

type updateItemRequest struct {
	Status models.Status `json:"status" validate:"required,status"`
}

type friendRequest struct {
	UserID uint `json:"userId" validate:"required"`
}

type profileRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=80"`
	Bio  *string `json:"bio" validate:"omitempty,max=500"`
}

type avatarRequest struct {
	Avatar string `json:"avatar" validate:"required,max=64"`
}
