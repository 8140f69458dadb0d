package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found in the system.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameExists is returned when the wallet already has a category with the same name and type.
	ErrCategoryNameExists = errors.New("category name already exists")

	// ErrCategoryNameRequired is returned when a category is created without a name.
	ErrCategoryNameRequired = errors.New("category name is required")

	// ErrCategoryNameTooLong is returned when the category name exceeds the maximum length.
	ErrCategoryNameTooLong = errors.New("category name too long")

	// ErrInvalidCategoryType is returned when the category type is invalid.
	ErrInvalidCategoryType = errors.New("invalid category type")

	// ErrCategoryInUse is returned when a category referenced by entries or rules is
	// deleted or changes type.
	ErrCategoryInUse = errors.New("category is in use")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeCategoryNameTooLong  CategoryErrorCode = "CAT-010001"
	ErrCodeCategoryNameRequired CategoryErrorCode = "CAT-010002"
	ErrCodeCategoryNotFound     CategoryErrorCode = "CAT-010004"
	ErrCodeCategoryNameExists   CategoryErrorCode = "CAT-010005"
	ErrCodeInvalidCategoryType  CategoryErrorCode = "CAT-010007"
	ErrCodeCategoryInUse        CategoryErrorCode = "CAT-010008"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
