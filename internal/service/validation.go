package service

import (
	"errors"
	"strings"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
	"github.com/go-playground/validator/v10"
)

// toValidationError переводит ошибки validator в ValidationError с путями
// полей вида Items[0].Quantity.
func toValidationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}

		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fields[field] = msg
	}
	return &entities.ValidationError{Fields: fields}
}
