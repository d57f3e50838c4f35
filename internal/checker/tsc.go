package checker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/snc-project/snc/internal/ir"
)

// TSC type-checks TypeScript by invoking the compiler as a subprocess.
// The artifact is written to a scratch project together with stub modules
// for framework imports, so generated component code checks without a
// node_modules tree.
type TSC struct {
	// Tool is the compiler command, usually "tsc".
	Tool string

	// Stubs maps import specifiers to stub module source. Diagnostics
	// caused purely by resolving these specifiers are filtered out.
	Stubs map[string]string
}

// NewTSC creates a TypeScript checker with the default Angular stubs.
func NewTSC(tool string) *TSC {
	if tool == "" {
		tool = "tsc"
	}
	return &TSC{Tool: tool, Stubs: defaultAngularStubs}
}

// tsc output format: file(line,col): error TSxxxx: message
var tscDiagnosticPattern = regexp.MustCompile(`^(.+?)\((\d+),(\d+)\):\s+error\s+(TS\d+):\s+(.*)$`)

// Module-resolution diagnostics; dropped when they point at a stubbed
// import.
const tsCannotFindModule = "TS2307"

func (t *TSC) Check(ctx context.Context, code string) ([]ir.ValidationError, error) {
	if _, err := exec.LookPath(t.Tool); err != nil {
		return nil, &Unavailable{Tool: t.Tool, Err: err}
	}

	dir, err := os.MkdirTemp("", "snc-tsc-*")
	if err != nil {
		return nil, fmt.Errorf("tsc scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := t.writeProject(dir, code); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, t.Tool, "--noEmit", "--pretty", "false", "-p", dir)
	out, runErr := cmd.CombinedOutput()
	if runErr != nil {
		// A non-zero exit with parseable diagnostics is the normal failure
		// mode; anything else means the tool itself is broken.
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, &Unavailable{Tool: t.Tool, Err: runErr}
		}
	}

	return t.parseDiagnostics(string(out)), nil
}

// writeProject lays out artifact.ts, one stub file per stubbed module, and
// a tsconfig with path mappings pointing the imports at the stubs.
func (t *TSC) writeProject(dir, code string) error {
	if err := os.WriteFile(filepath.Join(dir, "artifact.ts"), []byte(code), 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	paths := map[string][]string{}
	if len(t.Stubs) > 0 {
		stubDir := filepath.Join(dir, "stubs")
		if err := os.Mkdir(stubDir, 0o755); err != nil {
			return fmt.Errorf("write stubs: %w", err)
		}
		for module, src := range t.Stubs {
			name := stubFileName(module)
			if err := os.WriteFile(filepath.Join(stubDir, name), []byte(src), 0o644); err != nil {
				return fmt.Errorf("write stub %s: %w", module, err)
			}
			paths[module] = []string{"./stubs/" + strings.TrimSuffix(name, ".ts")}
		}
	}

	tsconfig := map[string]any{
		"compilerOptions": map[string]any{
			"target":           "es2020",
			"module":           "es2020",
			"moduleResolution": "node",
			"noEmit":           true,
			"skipLibCheck":     true,
			"baseUrl":          ".",
			"paths":            paths,
			"experimentalDecorators": true,
		},
		"include": []string{"artifact.ts", "stubs/*.ts"},
	}
	data, err := json.Marshal(tsconfig)
	if err != nil {
		return fmt.Errorf("marshal tsconfig: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tsconfig.json"), data, 0o644); err != nil {
		return fmt.Errorf("write tsconfig: %w", err)
	}
	return nil
}

func (t *TSC) parseDiagnostics(output string) []ir.ValidationError {
	var errs []ir.ValidationError
	for _, line := range strings.Split(output, "\n") {
		m := tscDiagnosticPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		if t.isStubNoise(m[4], m[5]) {
			continue
		}
		lineNo, _ := strconv.Atoi(m[2])
		colNo, _ := strconv.Atoi(m[3])
		errs = append(errs, ir.ValidationError{
			Source:  filepath.Base(m[1]),
			Line:    lineNo,
			Column:  colNo,
			Code:    m[4],
			Message: m[5],
		})
	}
	return errs
}

// isStubNoise reports whether a diagnostic only complains about resolving
// a module we stub: stubbed imports are satisfied by construction, and any
// leftover resolution noise is the scratch project's fault, not the code's.
func (t *TSC) isStubNoise(code, message string) bool {
	if code != tsCannotFindModule {
		return false
	}
	for module := range t.Stubs {
		if strings.Contains(message, "'"+module+"'") {
			return true
		}
	}
	return false
}

func stubFileName(module string) string {
	name := strings.NewReplacer("@", "", "/", "_", ".", "_").Replace(module)
	return name + ".ts"
}

// defaultAngularStubs is the minimum surface the generated Angular
// components touch. Extend per deployment via the validator registry.
var defaultAngularStubs = map[string]string{
	"@angular/core": `
export interface OnInit { ngOnInit(): void; }
export interface OnDestroy { ngOnDestroy(): void; }
export const Component: (arg: {
  selector: string;
  template?: string;
  templateUrl?: string;
  styleUrls?: string[];
}) => ClassDecorator = () => { return () => {}; };
export const Injectable: () => ClassDecorator = () => { return () => {}; };
export const Input: () => PropertyDecorator = () => { return () => {}; };
export const Output: () => PropertyDecorator = () => { return () => {}; };
export class EventEmitter<T> {
  emit(value?: T): void {}
  subscribe(next?: (value: T) => void): { unsubscribe: () => void } {
    return { unsubscribe: () => {} };
  }
}
`,
}
