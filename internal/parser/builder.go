package parser

import (
	"regexp"
	"strings"

	"github.com/snc-project/snc/internal/ir"
)

// Marker patterns, matched against whole trimmed lines only.
var (
	scenePattern     = regexp.MustCompile(`(?i)^\[scene\s*:\s*(.*?)\s*\]$`)
	componentPattern = regexp.MustCompile(`(?i)^\[component\s*:\s*(.*?)\s*\]$`)
	functionPattern  = regexp.MustCompile(`(?i)^\[function(?:\s*:\s*(.*?))?\s*\]$`)
)

// Nesting levels. A marker closes every open unit at its own level or
// deeper before opening.
const (
	levelScene = iota
	levelComponent
	levelFunction
)

func unitLevel(u *Unit) int {
	switch u.Type {
	case ir.TokenScene:
		return levelScene
	case ir.TokenComponent:
		return levelComponent
	default:
		return levelFunction
	}
}

// builder holds the parse state: a stack of open units and the finished
// roots. Units attach to their parent when they close, not when they open.
type builder struct {
	stack []*Unit
	roots []*Unit
}

func (b *builder) top() *Unit {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *builder) push(u *Unit) {
	b.stack = append(b.stack, u)
}

// pop closes the innermost open unit, appending it to its parent, or to
// the roots when it has none.
func (b *builder) pop() {
	n := len(b.stack)
	u := b.stack[n-1]
	b.stack = b.stack[:n-1]
	if parent := b.top(); parent != nil {
		parent.AddChild(u)
	} else {
		b.roots = append(b.roots, u)
	}
}

// closeTo pops every open unit at the given level or deeper.
func (b *builder) closeTo(level int) {
	for len(b.stack) > 0 && unitLevel(b.top()) >= level {
		b.pop()
	}
}

// ensureScene opens an implicit DefaultScene when content or a nested
// marker appears before any scene.
func (b *builder) ensureScene() {
	if len(b.stack) == 0 {
		b.push(&Unit{Type: ir.TokenScene, Name: DefaultSceneName})
	}
}

// BuildTree parses narrative text into a forest of scene units. Empty or
// whitespace-only input yields nil: no implicit DefaultScene is created
// for nothing.
func BuildTree(text string) []*Unit {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	b := &builder{}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := scenePattern.FindStringSubmatch(line); m != nil {
			b.closeTo(levelScene)
			b.push(&Unit{Type: ir.TokenScene, Name: m[1]})
			continue
		}
		if m := componentPattern.FindStringSubmatch(line); m != nil {
			b.closeTo(levelComponent)
			b.ensureScene()
			b.push(&Unit{Type: ir.TokenComponent, Name: m[1]})
			continue
		}
		if m := functionPattern.FindStringSubmatch(line); m != nil {
			b.closeTo(levelFunction)
			b.ensureScene()
			name := strings.TrimSpace(m[1])
			if name == "" {
				// Deterministic name for anonymous functions, derived from
				// the marker line so the stable key survives body edits.
				name = "func_" + ir.Fingerprint(line)[:8]
			}
			b.push(&Unit{Type: ir.TokenFunction, Name: name})
			continue
		}

		b.ensureScene()
		b.top().AddLine(line)
	}
	b.closeTo(levelScene)

	for _, root := range b.roots {
		root.extractDeps()
	}
	return b.roots
}
