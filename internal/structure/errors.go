package structure

import "fmt"

// RuleMaxDepthExceeded names the business rule that rejects suspiciously deep structures.
const RuleMaxDepthExceeded = "max-depth-exceeded"

// ValidationError reports a malformed request parameter. It is raised before
// any data source access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports that the root item does not exist.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %q not found", e.Code)
}

// DataAccessError wraps a failure of the structure data source.
type DataAccessError struct {
	Call string
	Code string
	Err  error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Call, e.Code, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// BusinessRuleError reports a successfully built result that should not be trusted.
type BusinessRuleError struct {
	Rule   string
	Limit  int
	Actual int
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: structure has %d levels, maximum allowed is %d; source data is likely circular",
		e.Rule, e.Actual, e.Limit)
}
