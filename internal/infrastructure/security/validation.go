// Package security provides input validation for commands entering the
// application layer
package security

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/multivarka/kitchen/pkg/errors"
)

// ValidationService validates command structs by their `validate` tags
type ValidationService struct {
	logger    *zap.Logger
	validator *validator.Validate
}

// NewValidationService creates a new validation service
func NewValidationService(logger *zap.Logger) *ValidationService {
	validate := validator.New()

	// Report JSON field names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Register custom validation rules
	_ = validate.RegisterValidation("product_kind", validateProductKind)
	_ = validate.RegisterValidation("kitchen_date", validateKitchenDate)
	_ = validate.RegisterValidation("meal_slot", validateMealSlot)

	return &ValidationService{
		logger:    logger.Named("validation"),
		validator: validate,
	}
}

// Validate checks a command and converts failures to a validation AppError
func (s *ValidationService) Validate(cmd interface{}) error {
	err := s.validator.Struct(cmd)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		s.logger.Warn("Validation could not run", zap.Error(err))
		return errors.NewValidationError(err.Error())
	}

	out := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, errors.ValidationError{
			Field:   fieldPath(fe),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: describe(fe),
		})
	}

	s.logger.Debug("Command rejected", zap.Int("violations", len(out)))
	return errors.NewValidationErrors(out)
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "product_kind":
		return fmt.Sprintf("%s must be %q or %q", field, pantry.KindQuantity, pantry.KindAvailability)
	case "kitchen_date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "meal_slot":
		return fmt.Sprintf("%s must be one of %s", field, slotNames())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}

func slotNames() string {
	slots := recipe.MealSlots()
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// validateProductKind accepts the known product kinds
func validateProductKind(fl validator.FieldLevel) bool {
	_, err := pantry.ParseKind(fl.Field().String())
	return err == nil
}

// validateKitchenDate accepts calendar dates in the pantry date layout
func validateKitchenDate(fl validator.FieldLevel) bool {
	_, ok := pantry.ParseDate(fl.Field().String())
	return ok
}

// validateMealSlot accepts meal slot names in either snake or kebab case
func validateMealSlot(fl validator.FieldLevel) bool {
	_, err := recipe.ParseMealSlot(fl.Field().String())
	return err == nil
}
