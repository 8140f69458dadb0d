package dto

// CronRunResponse is returned by the recurring batch trigger. Field names follow the
// contract expected by external cron callers.
type CronRunResponse struct {
	Success        bool   `json:"success"`
	ProcessedCount int    `json:"processedCount"`
	Timestamp      string `json:"timestamp"`
}

// CronErrorResponse is returned when the batch cannot run.
type CronErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}
