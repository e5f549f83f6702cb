package shared

// Result carries the outcome of a workflow operation. Business-rule
// violations are reported in Errors, never as a Go error.
type Result[T any] struct {
	Value    T        `json:"value,omitempty"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewResult creates an empty result with non-nil slices.
func NewResult[T any]() *Result[T] {
	return &Result[T]{
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}
}

// Success reports whether no blocking error was recorded.
func (r *Result[T]) Success() bool {
	return len(r.Errors) == 0
}

// AddError records a blocking error
func (r *Result[T]) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning records a non-blocking warning
func (r *Result[T]) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Merge appends the messages of other.
func (r *Result[T]) Merge(errs, warnings []string) {
	r.Errors = append(r.Errors, errs...)
	r.Warnings = append(r.Warnings, warnings...)
}

// Fail returns a result holding a single error.
func Fail[T any](msg string) *Result[T] {
	r := NewResult[T]()
	r.AddError(msg)
	return r
}

// CheckResult is the issues/fixed pair produced by an audit check.
type CheckResult struct {
	Issues []string `json:"issues"`
	Fixed  []string `json:"fixed"`
}

// NewCheckResult creates a CheckResult with non-nil slices so it
// serializes as [] rather than null.
func NewCheckResult() CheckResult {
	return CheckResult{
		Issues: make([]string, 0),
		Fixed:  make([]string, 0),
	}
}

// AddIssue records a detected inconsistency
func (c *CheckResult) AddIssue(msg string) {
	c.Issues = append(c.Issues, msg)
}

// AddFixed records an applied correction
func (c *CheckResult) AddFixed(msg string) {
	c.Fixed = append(c.Fixed, msg)
}

// Append concatenates another check's findings.
func (c *CheckResult) Append(other CheckResult) {
	c.Issues = append(c.Issues, other.Issues...)
	c.Fixed = append(c.Fixed, other.Fixed...)
}
