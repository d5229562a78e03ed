// Action result envelope: the only shape server actions return to callers.
// No error values cross the action boundary into CLI or HTTP code.
package types

// Action error codes.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeAccessDenied    = "ACCESS_DENIED"
	CodeValidationError = "VALIDATION_ERROR"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeNotFound        = "NOT_FOUND"
)

// ActionResult is the uniform envelope for every server action.
// On failure, Error carries a user-facing message and Code one of the Code
// constants. Warning is set on partial success: the primary record was
// committed but a dependent sync failed.
type ActionResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// OK returns a success result carrying data.
func OK(data any) ActionResult {
	return ActionResult{Success: true, Data: data}
}

// OKWithWarning returns a partial-success result: data was committed but a
// dependent operation failed.
func OKWithWarning(data any, warning string) ActionResult {
	return ActionResult{Success: true, Data: data, Warning: warning}
}

// Fail returns a failure result with a user-facing message and error code.
func Fail(code, msg string) ActionResult {
	return ActionResult{Success: false, Error: msg, Code: code}
}
