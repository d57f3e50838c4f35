package checker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snc-project/snc/internal/ir"
)

func TestParseDiagnostics(t *testing.T) {
	tsc := NewTSC("")
	out := `artifact.ts(3,5): error TS2304: Cannot find name 'foo'.
artifact.ts(7,1): error TS1005: ';' expected.
some unrelated tsc chatter
`
	errs := tsc.parseDiagnostics(out)

	require.Len(t, errs, 2)
	assert.Equal(t, ir.ValidationError{
		Source:  "artifact.ts",
		Line:    3,
		Column:  5,
		Code:    "TS2304",
		Message: "Cannot find name 'foo'.",
	}, errs[0])
	assert.Equal(t, "TS1005", errs[1].Code)
}

func TestParseDiagnosticsEmpty(t *testing.T) {
	tsc := NewTSC("")
	assert.Empty(t, tsc.parseDiagnostics(""))
	assert.Empty(t, tsc.parseDiagnostics("no diagnostics here\n"))
}

func TestParseDiagnosticsFiltersStubNoise(t *testing.T) {
	tsc := NewTSC("")
	out := `artifact.ts(1,24): error TS2307: Cannot find module '@angular/core' or its corresponding type declarations.
artifact.ts(2,24): error TS2307: Cannot find module 'left-pad' or its corresponding type declarations.
`
	errs := tsc.parseDiagnostics(out)

	// The stubbed module's resolution error is noise; the unknown module's
	// is a real diagnostic.
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "left-pad")
}

func TestIsStubNoiseOnlyForResolutionCode(t *testing.T) {
	tsc := NewTSC("")
	assert.True(t, tsc.isStubNoise("TS2307", "Cannot find module '@angular/core'."))
	assert.False(t, tsc.isStubNoise("TS2304", "Cannot find module '@angular/core'."))
	assert.False(t, tsc.isStubNoise("TS2307", "Cannot find module 'rxjs'."))
}

func TestCheckUnavailableTool(t *testing.T) {
	tsc := NewTSC("definitely-not-a-real-tool-7f3a")
	_, err := tsc.Check(context.Background(), "export {};")

	var unavailable *Unavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "definitely-not-a-real-tool-7f3a", unavailable.Tool)
}

func TestStubFileName(t *testing.T) {
	assert.Equal(t, "angular_core.ts", stubFileName("@angular/core"))
	assert.Equal(t, "rxjs.ts", stubFileName("rxjs"))
}

func TestNewTSCDefaults(t *testing.T) {
	tsc := NewTSC("")
	assert.Equal(t, "tsc", tsc.Tool)
	assert.Contains(t, tsc.Stubs, "@angular/core")
}
