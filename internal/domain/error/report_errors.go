package error

import "errors"

// Report domain errors.
var (
	// ErrInvalidReportRange is returned when a report period is missing or inverted.
	ErrInvalidReportRange = errors.New("invalid report date range")

	// ErrInvalidReportInterval is returned when the trend interval is unknown.
	ErrInvalidReportInterval = errors.New("invalid report interval")
)

// ReportErrorCode defines error codes for report errors.
// Format: RPT-XXYYYY where XX is category and YYYY is specific error.
type ReportErrorCode string

const (
	ErrCodeInvalidReportRange    ReportErrorCode = "RPT-010001"
	ErrCodeInvalidReportInterval ReportErrorCode = "RPT-010002"
	ErrCodeInvalidReportType     ReportErrorCode = "RPT-010003"
)

// ReportError represents a report error with code and message.
type ReportError struct {
	Code    ReportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError with the given code and message.
func NewReportError(code ReportErrorCode, message string, err error) *ReportError {
	return &ReportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
