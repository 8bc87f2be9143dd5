package errors

// Code represents an error code
type Code string

const (
	CodeUnknown              Code = "UNKNOWN"               // Unknown error occurred
	CodeInternalError        Code = "INTERNAL_ERROR"        // Internal system error
	CodeValidationFailed     Code = "VALIDATION_FAILED"     // Input validation failed
	CodeInvalidParameter     Code = "INVALID_PARAMETER"     // Invalid parameter provided
	CodeMissingParameter     Code = "MISSING_PARAMETER"     // Required parameter missing
	CodeIoError              Code = "IO_ERROR"              // Input/output operation failed
	CodeNotFound             Code = "NOT_FOUND"             // Not found
	CodeAlreadyExists        Code = "ALREADY_EXISTS"        // Already exists
	CodeConfigurationInvalid Code = "CONFIGURATION_INVALID" // Configuration invalid
	CodeNetworkError         Code = "NETWORK_ERROR"         // Network error
	CodeTimeoutError         Code = "TIMEOUT_ERROR"         // Timeout error
	CodeGenerationFailed     Code = "GENERATION_FAILED"     // LLM produced no usable result
)
