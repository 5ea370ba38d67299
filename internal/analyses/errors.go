package analyses

import "errors"

var (
	ErrNotFound = errors.New("not found")
)

const (
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeAgentFailed = "AGENT_FAILED"
	ErrorCodeExtraction  = "EXTRACTION_ERROR"
	ErrorCodeStorage     = "STORAGE_ERROR"
	ErrorCodeInternal    = "INTERNAL_ERROR"
)
