package error

import "errors"

// Wallet domain errors.
var (
	// ErrWalletNotFound is returned when a wallet is not found in the system.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrNotAuthorizedToAccessWallet is returned when the caller neither owns the wallet
	// nor holds a share granting the required permission.
	ErrNotAuthorizedToAccessWallet = errors.New("not authorized to access wallet")

	// ErrMaxWalletsReached is returned when the user already owns the maximum number of wallets.
	ErrMaxWalletsReached = errors.New("maximum number of wallets reached")

	// ErrWalletNameRequired is returned when a wallet is created without a name.
	ErrWalletNameRequired = errors.New("wallet name is required")

	// ErrWalletNameTooLong is returned when the wallet name exceeds the maximum length.
	ErrWalletNameTooLong = errors.New("wallet name too long")

	// ErrInvalidCurrency is returned when the currency code is not a 3-letter code.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrBalanceMismatch is returned when the cached balance differs from the ledger sum.
	ErrBalanceMismatch = errors.New("wallet balance does not match ledger")

	// ErrWalletHasTransactions is returned when deleting a wallet that still has live entries.
	ErrWalletHasTransactions = errors.New("wallet still has transactions")
)

// WalletErrorCode defines error codes for wallet errors.
// Format: WAL-XXYYYY where XX is category and YYYY is specific error.
type WalletErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeWalletNameRequired  WalletErrorCode = "WAL-010001"
	ErrCodeWalletNameTooLong   WalletErrorCode = "WAL-010002"
	ErrCodeInvalidCurrency     WalletErrorCode = "WAL-010003"
	ErrCodeWalletNotFound      WalletErrorCode = "WAL-010004"
	ErrCodeNotAuthorizedWallet WalletErrorCode = "WAL-010005"
	ErrCodeMaxWalletsReached   WalletErrorCode = "WAL-010006"

	// Consistency errors (02XXXX)
	ErrCodeBalanceMismatch  WalletErrorCode = "WAL-020001"
	ErrCodeWalletHasEntries WalletErrorCode = "WAL-020002"
)

// WalletError represents a wallet error with code and message.
type WalletError struct {
	Code    WalletErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *WalletError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *WalletError) Unwrap() error {
	return e.Err
}

// NewWalletError creates a new WalletError with the given code and message.
func NewWalletError(code WalletErrorCode, message string, err error) *WalletError {
	return &WalletError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
