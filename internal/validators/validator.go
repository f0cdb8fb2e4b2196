// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/go-diary-keeper/models"
)

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,64}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,18}[0-9]$`)
)

// StructValidator implements [Validator] with go-playground struct tags plus
// the custom rules "username", "phone" and "attachment_kind".
type StructValidator struct {
	validate *validator.Validate
}

// NewStructValidator creates a validator with the custom rules registered.
// Field names in errors are taken from json tags when present.
func NewStructValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("username", validateUsername)
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("attachment_kind", validateAttachmentKind)

	return &StructValidator{validate: v}
}

// Validate checks value, a struct or pointer to struct. When fields are
// given only those (by Go field name) are checked. Violations are returned
// as one error wrapping [ErrValidation].
func (s *StructValidator) Validate(ctx context.Context, value any, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = s.validate.StructPartialCtx(ctx, value, fields...)
	} else {
		err = s.validate.StructCtx(ctx, value)
	}
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %T", ErrUnsupportedType, value)
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "username":
		return field + " must be 3-64 letters, digits, '.', '_' or '-'"
	case "phone":
		return field + " must be a phone number"
	case "attachment_kind":
		return field + " must be image, audio or video"
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed rule %q", field, fe.Tag())
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateAttachmentKind(fl validator.FieldLevel) bool {
	return models.AttachmentKind(fl.Field().String()).Valid()
}
