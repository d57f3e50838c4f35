package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/snc-project/snc/internal/ir"
)

// DefaultSceneName is the name of the scene created implicitly when content
// or a component/function marker appears before any [Scene:] marker.
const DefaultSceneName = "DefaultScene"

// Unit is one node of the narrative tree: a scene, component or function
// with the literal lines it directly owns and its nested children.
type Unit struct {
	Type     ir.TokenType
	Name     string
	Lines    []string
	Children []*Unit

	deps map[string]struct{}
}

// AddLine appends one literal content line to the unit.
func (u *Unit) AddLine(line string) {
	u.Lines = append(u.Lines, line)
}

// AddChild nests a unit under this one.
func (u *Unit) AddChild(child *Unit) {
	u.Children = append(u.Children, child)
}

// FullText returns the newline-joined literal lines directly owned by the
// unit. Descendants' lines are not included.
func (u *Unit) FullText() string {
	return strings.Join(u.Lines, "\n")
}

// Hash returns the content fingerprint of FullText.
func (u *Unit) Hash() string {
	return ir.Fingerprint(u.FullText())
}

// Deps returns the names this unit references, sorted. Children's
// references are included: depending on a part means depending on the
// whole.
func (u *Unit) Deps() []string {
	if len(u.deps) == 0 {
		return nil
	}
	out := make([]string, 0, len(u.deps))
	for name := range u.deps {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Reference annotations inside content lines. Both the bracketed and the
// bare form are honored.
var (
	refBracketPattern = regexp.MustCompile(`\[REF\s*:\s*([^\]]*?)\s*\]`)
	refBarePattern    = regexp.MustCompile(`REF\s*:\s*(\w+)`)
)

// extractDeps scans the unit's own lines for [REF:X] / REF:X annotations,
// recurses into children, and folds child references into the parent.
func (u *Unit) extractDeps() {
	if u.deps == nil {
		u.deps = make(map[string]struct{})
	}
	text := u.FullText()
	for _, m := range refBracketPattern.FindAllStringSubmatch(text, -1) {
		if name := strings.TrimSpace(m[1]); name != "" {
			u.deps[name] = struct{}{}
		}
	}
	for _, m := range refBarePattern.FindAllStringSubmatch(text, -1) {
		if name := strings.TrimSpace(m[1]); name != "" {
			u.deps[name] = struct{}{}
		}
	}
	for _, child := range u.Children {
		child.extractDeps()
		for name := range child.deps {
			u.deps[name] = struct{}{}
		}
	}
}
