package error

import "errors"

// Recurrence domain errors.
var (
	// ErrRecurrenceNotFound is returned when a recurrence rule is not found in the system.
	ErrRecurrenceNotFound = errors.New("recurrence rule not found")

	// ErrInvalidFrequency is returned when the frequency is not DAILY, WEEKLY, MONTHLY or YEARLY.
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrInvalidCycleDayOfMonth is returned when the day-of-month anchor is outside 1..31.
	ErrInvalidCycleDayOfMonth = errors.New("cycle day of month must be between 1 and 31")

	// ErrInvalidCycleDayOfWeek is returned when the day-of-week anchor is outside 0..6.
	ErrInvalidCycleDayOfWeek = errors.New("cycle day of week must be between 0 and 6")

	// ErrEndDateBeforeStartDate is returned when the end date precedes the start date.
	ErrEndDateBeforeStartDate = errors.New("end date must not be before start date")

	// ErrRecurrenceNameRequired is returned when a rule is created without a name.
	ErrRecurrenceNameRequired = errors.New("recurrence name is required")

	// ErrRecurrenceNotDue is returned when applying a rule that has no pending occurrence.
	ErrRecurrenceNotDue = errors.New("recurrence rule is not due")

	// ErrRecurrenceAlreadyApplied is returned when another run advanced the rule first.
	ErrRecurrenceAlreadyApplied = errors.New("recurrence rule already applied")

	// ErrLedgerInvariantViolation is returned when a unit of work would leave the ledger inconsistent.
	ErrLedgerInvariantViolation = errors.New("ledger invariant violation")

	// ErrStorageFailure is returned when the storage backend fails.
	ErrStorageFailure = errors.New("storage failure")

	// ErrBatchAlreadyRunning is returned when another batch holds the run lock.
	ErrBatchAlreadyRunning = errors.New("recurring batch already running")
)

// RecurrenceErrorCode defines error codes for recurrence errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type RecurrenceErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidFrequency        RecurrenceErrorCode = "REC-010001"
	ErrCodeInvalidCycleDayOfMonth  RecurrenceErrorCode = "REC-010002"
	ErrCodeInvalidCycleDayOfWeek   RecurrenceErrorCode = "REC-010003"
	ErrCodeEndDateBeforeStartDate  RecurrenceErrorCode = "REC-010004"
	ErrCodeRecurrenceNotFound      RecurrenceErrorCode = "REC-010005"
	ErrCodeInvalidRecurrenceAmount RecurrenceErrorCode = "REC-010006"
	ErrCodeInvalidRecurrenceType   RecurrenceErrorCode = "REC-010007"
	ErrCodeRecCategoryNotFound     RecurrenceErrorCode = "REC-010008"
	ErrCodeRecCategoryTypeMismatch RecurrenceErrorCode = "REC-010009"
	ErrCodeRecurrenceNameRequired  RecurrenceErrorCode = "REC-010010"
	ErrCodeInvalidStartDate        RecurrenceErrorCode = "REC-010011"
	ErrCodeRecurrenceNameTooLong   RecurrenceErrorCode = "REC-010012"
	ErrCodeRecDescriptionTooLong   RecurrenceErrorCode = "REC-010013"

	// Application errors (02XXXX)
	ErrCodeStorageFailure           RecurrenceErrorCode = "REC-020001"
	ErrCodeRecurrenceAlreadyApplied RecurrenceErrorCode = "REC-020002"
	ErrCodeLedgerInvariantViolation RecurrenceErrorCode = "REC-020003"
	ErrCodeRecurrenceNotDue         RecurrenceErrorCode = "REC-020004"
	ErrCodeBatchAlreadyRunning      RecurrenceErrorCode = "REC-020005"
)

// RecurrenceError represents a recurrence error with code and message.
type RecurrenceError struct {
	Code    RecurrenceErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RecurrenceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RecurrenceError) Unwrap() error {
	return e.Err
}

// NewRecurrenceError creates a new RecurrenceError with the given code and message.
func NewRecurrenceError(code RecurrenceErrorCode, message string, err error) *RecurrenceError {
	return &RecurrenceError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
