package error

import "errors"

// Wallet sharing domain errors.
var (
	// ErrInvalidShareEmail is returned when the invitee email is malformed.
	ErrInvalidShareEmail = errors.New("invalid invitee email")

	// ErrInvalidSharePermission is returned when the permission is not VIEW or EDIT.
	ErrInvalidSharePermission = errors.New("invalid share permission")

	// ErrCannotShareWithSelf is returned when the owner invites their own address.
	ErrCannotShareWithSelf = errors.New("cannot share a wallet with yourself")

	// ErrWalletAlreadyShared is returned when the wallet already has a share for the email.
	ErrWalletAlreadyShared = errors.New("wallet already shared with this user")

	// ErrInvitationNotFound is returned when no pending invitation matches the caller.
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrShareNotFound is returned when a share does not exist on the wallet.
	ErrShareNotFound = errors.New("share not found")
)

// ShareErrorCode defines error codes for wallet sharing errors.
// Format: SHR-XXYYYY where XX is category and YYYY is specific error.
type ShareErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidShareEmail      ShareErrorCode = "SHR-010001"
	ErrCodeInvalidSharePermission ShareErrorCode = "SHR-010002"
	ErrCodeCannotShareWithSelf    ShareErrorCode = "SHR-010003"

	// State errors (02XXXX)
	ErrCodeWalletAlreadyShared ShareErrorCode = "SHR-020001"
	ErrCodeInvitationNotFound  ShareErrorCode = "SHR-020002"
	ErrCodeShareNotFound       ShareErrorCode = "SHR-020003"
)

// ShareError represents a wallet sharing error with code and message.
type ShareError struct {
	Code    ShareErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ShareError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ShareError) Unwrap() error {
	return e.Err
}

// NewShareError creates a new ShareError with the given code and message.
func NewShareError(code ShareErrorCode, message string, err error) *ShareError {
	return &ShareError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
