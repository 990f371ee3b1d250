package core

import "errors"

// ValidationError reports a request that breaks a business rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports an operation blocked by existing data.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

var (
	ErrInvalidInput       = &ValidationError{Message: "invalid input"}
	ErrMinorIncome        = &ValidationError{Message: "minors may only record expenses"}
	ErrKindNotPermitted   = &ValidationError{Message: "category does not permit this transaction kind"}
	ErrInvalidName        = &ValidationError{Message: "invalid name"}
	ErrInvalidAge         = &ValidationError{Message: "age must be greater than zero"}
	ErrInvalidDescription = &ValidationError{Message: "invalid description"}
	ErrInvalidPurpose     = &ValidationError{Message: "invalid category purpose"}
	ErrInvalidKind        = &ValidationError{Message: "invalid transaction kind"}

	ErrPersonNotFound      = &NotFoundError{Message: "person not found"}
	ErrCategoryNotFound    = &NotFoundError{Message: "category not found"}
	ErrTransactionNotFound = &NotFoundError{Message: "transaction not found"}

	ErrCategoryInUse = &ConflictError{Message: "category is referenced by existing transactions"}
)

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
