package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorOrdersBySourceOrder(t *testing.T) {
	c := NewCollector()
	c.Error(ErrUndefinedReference, Span{File: "a.clv", Start: 1, End: 2}, "x")
	c.Error(ErrTypeMismatch, Span{File: "a.clv", Start: 5, End: 6}, "Int", "Bytes")

	all := c.All()
	assert.Len(t, all, 2)
	assert.Equal(t, ErrUndefinedReference, all[0].Kind.Error)
	assert.Equal(t, ErrTypeMismatch, all[1].Kind.Error)
}

func TestHasErrorsIgnoresWarnings(t *testing.T) {
	c := NewCollector()
	c.Warning(WarnUnusedLet, Span{})
	assert.False(t, c.HasErrors())

	c.Error(ErrMissingMain, Span{})
	assert.True(t, c.HasErrors())
}

func TestSummaryCountsErrorsAndWarningsSeparately(t *testing.T) {
	c := NewCollector()
	c.Error(ErrMissingMain, Span{})
	c.Error(ErrEmptyBlock, Span{})
	c.Warning(WarnUnusedFunction, Span{})

	assert.Equal(t, "2 error(s), 1 warning(s)", c.Summary())
}

func TestSpanStringFormat(t *testing.T) {
	s := Span{File: "main.clv", Start: 10, End: 20}
	assert.Equal(t, "main.clv:10-20", s.String())
}

func TestDiagnosticIsErrorDistinguishesSeverity(t *testing.T) {
	errDiag := Diagnostic{Kind: Error(ErrMissingMain)}
	warnDiag := Diagnostic{Kind: Warning(WarnUnusedLet)}

	assert.True(t, errDiag.IsError())
	assert.False(t, warnDiag.IsError())
}

func TestFatalErrorMessageNamesReason(t *testing.T) {
	err := &FatalError{Reason: "Ref observed after resolution"}
	assert.Contains(t, err.Error(), "Ref observed after resolution")
}
