// Package diagnostics defines the typed error/warning taxonomy the core
// attaches to source ranges. Rendering diagnostics for a human is out of
// scope here; this package only carries the structured data.
package diagnostics

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Span is a half-open byte range into a single source file. The concrete
// source-file bookkeeping lives with the parser/driver; the core only ever
// copies a Span out of the AST facade it is handed.
type Span struct {
	File  string
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d-%d", s.File, s.Start, s.End)
}

// Severity distinguishes fatal-to-codegen errors from advisory warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// ErrorKind enumerates every named error condition the builder can record.
type ErrorKind int

const (
	ErrTypeMismatch ErrorKind = iota
	ErrCastMismatch
	ErrUncallableType
	ErrArgumentMismatch
	ErrUnknownField
	ErrInvalidFieldAccess
	ErrIndexAccess
	ErrDuplicateField
	ErrDuplicateEnumVariant
	ErrUnknownEnumVariant
	ErrRecursiveConstantReference
	ErrRecursiveInlineConstantReference
	ErrRecursiveInlineFunctionCall
	ErrRecursiveTypeAlias
	ErrNonAtomEquality
	ErrEmptyBlock
	ErrInvalidSpreadArgument
	ErrUnsupportedFunctionSpread
	ErrRequiredFunctionSpread
	ErrMissingMain
	ErrUndefinedReference
	ErrUndefinedType
	ErrUninitializableType
	ErrPathNotAllowed
	ErrPathIntoNonEnum
	ErrUnsupportedTypeGuard
	ErrNonAnyPairTypeGuard
	ErrNonListPairTypeGuard
	ErrImplicitReturnInIf
	ErrExplicitReturnInExpr
	ErrGenericArgsMismatch
	ErrUnexpectedGenericArgs
)

// WarningKind enumerates advisory conditions.
type WarningKind int

const (
	WarnUnusedFunction WarningKind = iota
	WarnUnusedParameter
	WarnUnusedConst
	WarnUnusedLet
	WarnUnusedEnum
	WarnUnusedEnumVariant
	WarnUnusedStruct
	WarnUnusedTypeAlias
	WarnUselessOptionalType
	WarnRedundantTypeCheck
)

// Kind is the sum of ErrorKind and WarningKind, tagged by Severity.
type Kind struct {
	Severity Severity
	Error    ErrorKind
	Warning  WarningKind

	// Args carries the kind-specific payload (type names, identifiers,
	// counts) used to reconstruct a human message downstream, in the order
	// each ErrorKind/WarningKind names its parameters.
	Args []string
}

func Error(kind ErrorKind, args ...string) Kind {
	return Kind{Severity: SeverityError, Error: kind, Args: args}
}

func Warning(kind WarningKind, args ...string) Kind {
	return Kind{Severity: SeverityWarning, Warning: kind, Args: args}
}

// Diagnostic attaches a Kind to the source range responsible for it.
type Diagnostic struct {
	Kind Kind
	Span Span
}

func (d Diagnostic) IsError() bool { return d.Kind.Severity == SeverityError }

// Collector accumulates diagnostics in source order within a module and in
// the driver's stable module-visit order across modules (section 5). It
// never aborts a compilation on its own; only the driver decides whether an
// ErrorKind is fatal (MissingMain, or an invariant violation reported as a
// FatalError).
type Collector struct {
	diagnostics []Diagnostic
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Add(kind Kind, span Span) {
	c.diagnostics = append(c.diagnostics, Diagnostic{Kind: kind, Span: span})
}

func (c *Collector) Error(kind ErrorKind, span Span, args ...string) {
	c.Add(Error(kind, args...), span)
}

func (c *Collector) Warning(kind WarningKind, span Span) {
	c.Add(Warning(kind), span)
}

func (c *Collector) All() []Diagnostic {
	return c.diagnostics
}

func (c *Collector) HasErrors() bool {
	for _, d := range c.diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Summary renders a one-line, thousands-grouped count suitable for a
// progress notice; it is not diagnostic *rendering* (that stays out of
// scope), just a count a driver can log.
func (c *Collector) Summary() string {
	errs, warns := 0, 0
	for _, d := range c.diagnostics {
		if d.IsError() {
			errs++
		} else {
			warns++
		}
	}
	return fmt.Sprintf("%s error(s), %s warning(s)", humanize.Comma(int64(errs)), humanize.Comma(int64(warns)))
}

// FatalError reports an invariant violation. These are the only conditions
// where the driver aborts the phase outright rather than continuing to
// collect diagnostics.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string {
	return "internal invariant violated: " + e.Reason
}
