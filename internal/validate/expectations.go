package validate

import (
	"regexp"
	"strings"

	"github.com/snc-project/snc/internal/ir"
)

// Expectation extraction: simple pattern matching over the narrative text,
// not parsing. "component named Cart" expects an exported unit Cart;
// "method addItem" expects a callable addItem somewhere in the code.
var (
	expectComponentPattern = regexp.MustCompile(`(?i)component\s+named\s+(\w+)`)
	expectMethodPattern    = regexp.MustCompile(`(?i)method\s+(\w+)`)
	expectFunctionPattern  = regexp.MustCompile(`(?i)function\s+(\w+)`)
)

// Expectations are the names the narrative promises the code will contain.
type Expectations struct {
	Components []string
	Methods    []string
}

// DeriveExpectations extracts expected component and method names from
// narrative text.
func DeriveExpectations(narrative string) Expectations {
	var exp Expectations
	for _, m := range expectComponentPattern.FindAllStringSubmatch(narrative, -1) {
		exp.Components = append(exp.Components, m[1])
	}
	for _, m := range expectMethodPattern.FindAllStringSubmatch(narrative, -1) {
		exp.Methods = append(exp.Methods, m[1])
	}
	// "function X" promises a callable the same way "method X" does.
	// Marker lines like [Function: x] do not match: the colon breaks the
	// word boundary.
	for _, m := range expectFunctionPattern.FindAllStringSubmatch(narrative, -1) {
		if !contains(exp.Methods, m[1]) {
			exp.Methods = append(exp.Methods, m[1])
		}
	}
	return exp
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// CheckExpectations verifies each expectation's textual presence in the
// generated code. One error per missing expectation, each with a distinct
// machine-readable code.
func CheckExpectations(exp Expectations, code string) []ir.ValidationError {
	var errs []ir.ValidationError
	for _, name := range exp.Components {
		if !strings.Contains(code, name) {
			errs = append(errs, ir.ValidationError{
				Code:    ir.CodeMissingComponent,
				Message: "missing expected component " + name,
			})
		}
	}
	for _, name := range exp.Methods {
		if !strings.Contains(code, name) {
			errs = append(errs, ir.ValidationError{
				Code:    ir.CodeMissingMethod,
				Message: "missing expected method " + name,
			})
		}
	}
	return errs
}
