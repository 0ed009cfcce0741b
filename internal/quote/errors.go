package quote

import (
	pkgerrors "github.com/obrafurniture/quote-service/pkg/errors"
)

// validationError builds the ValidationError kind: invalid setter input that
// leaves the engine unchanged.
func validationError(msg string, details map[string]any) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(details)
}

// IsValidationError reports whether err was produced by a rejected mutation.
func IsValidationError(err error) bool {
	return pkgerrors.HasCode(err, pkgerrors.CodeValidation)
}
