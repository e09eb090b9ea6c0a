package diag

import "fmt"

// Severity classifies a Diagnostic. Only Error prevents a successful
// compile; Warning and Info never abort the pipeline (§7).
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Code is a stable diagnostic code. By convention (§6.2):
//
//	100-series: validator (good-parts gate)
//	300-series: ownership analyzer
//	400-series: null-safety checker
//
// Further series are reserved for future stages.
type Code string

// Validator codes (§4.1).
const (
	CodeWithBlock           Code = "101"
	CodeDynamicEval         Code = "102"
	CodeImplicitVariadic    Code = "103"
	CodeKeyEnumeration      Code = "104"
	CodeFunctionScopedVar   Code = "105"
	CodeWeakEquality        Code = "106"
	CodeWeakInequality      Code = "107"
	CodeThisInFreeFunction  Code = "108"
	CodeDynamicCatchAll     Code = "109"
	CodeTruthyCondition     Code = "110"
	CodePropertyDelete      Code = "111"
	CodeCommaExpression     Code = "112"
	CodeSwitchFallthrough   Code = "113"
	CodeUnaryVoid           Code = "115"
	CodePrimitiveWrapperNew Code = "116"
	CodePrototypeAccess     Code = "126"
	CodeDynamicImportPath   Code = "127"
)

// Ownership analyzer codes (§4.3).
const (
	CodeOwnershipCycle      Code = "301"
	CodeIllegalDerivation   Code = "303"
)

// Null-safety checker codes (§4.4).
const (
	CodeUseFieldEscape    Code = "401"
	CodeUseReturnType     Code = "402"
	CodeUseReturnValue    Code = "403"
)

// Internal-error codes (§7). LoweringFailure is still folded into the
// owning stage's Bag as an ordinary error diagnostic, since lowering
// already accumulates per-declaration errors and a malformed construct
// is just one more entry in that same list. BackendFailure is different:
// §7 calls it out by name as an internal-error fatal that "bypasses
// accumulation and is reported directly", so it is never added to a Bag
// — see BackendFailure below.
const (
	CodeLoweringFailure Code = "501"
	CodeBackendFailure  Code = "502"
)

// BackendFailure is the internal-error fatal for a well-formed-IR
// violation the backend cannot emit (§7). It is returned out-of-band
// from a stage function, not added to a Bag, mirroring the teacher's
// PassManager.RunAll short-circuit on a non-diagnostic error.
type BackendFailure struct {
	Message string
}

func (e *BackendFailure) Error() string {
	return fmt.Sprintf("[%s] %s", CodeBackendFailure, e.Message)
}

// Diagnostic is one finding emitted by a pipeline stage.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Pos      Position
	// HasPos is false for diagnostics that are not anchored to a single
	// source location (rare; kept for completeness of §6.2's "optional
	// source location").
	HasPos bool
}

// New creates an error-severity diagnostic at pos.
func New(code Code, pos Position, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		HasPos:   true,
	}
}

// Newf is an alias of New kept for readability at call sites that already
// read like a Printf call.
func Newf(code Code, pos Position, format string, args ...any) Diagnostic {
	return New(code, pos, format, args...)
}

// Warningf creates a warning-severity diagnostic at pos.
func Warningf(code Code, pos Position, format string, args ...any) Diagnostic {
	d := New(code, pos, format, args...)
	d.Severity = Warning
	return d
}

// String renders "file:line:col: severity [code] message".
func (d Diagnostic) String() string {
	if !d.HasPos {
		return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s [%s] %s", d.Pos, d.Severity, d.Code, d.Message)
}

// Error implements the error interface so a Diagnostic can be returned or
// wrapped directly where Go idiom expects an error.
func (d Diagnostic) Error() string { return d.String() }
