package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Layers may only depend downward: domain and pkg sit at the bottom, then
// platform, data, modules, http, and app on top.
var forbidden = map[string][]string{
	"internal/domain/":   {"platform/", "data/", "modules/", "http/", "app"},
	"internal/pkg/":      {"platform/", "data/", "modules/", "http/", "app"},
	"internal/platform/": {"data/", "modules/", "http/", "app"},
	"internal/data/":     {"modules/", "http/", "app"},
	"internal/modules/":  {"http/", "app"},
	"internal/http/":     {"app"},
}

func TestImportBoundaries(t *testing.T) {
	var b strings.Builder
	walkImports(t, func(modulePath, rel, imp string) {
		for layer, rules := range forbidden {
			if !strings.HasPrefix(rel, layer) {
				continue
			}
			for _, rule := range rules {
				if strings.HasPrefix(imp, modulePath+"/internal/"+rule) {
					fmt.Fprintf(&b, "- %s imports %q (%s may not import internal/%s)\n", rel, imp, strings.TrimSuffix(layer, "/"), rule)
				}
			}
		}
	})
	if b.Len() > 0 {
		t.Fatal("import boundary violations:\n" + b.String())
	}
}

func TestHabitabilityStaysTransportFree(t *testing.T) {
	walkImports(t, func(modulePath, rel, imp string) {
		if !strings.HasPrefix(rel, "internal/modules/habitability/") {
			return
		}
		switch {
		case strings.HasPrefix(imp, "github.com/gin-gonic/"),
			strings.HasPrefix(imp, "github.com/redis/"),
			imp == "net/http":
			t.Errorf("%s imports %q; the evaluator must not depend on a transport", rel, imp)
		}
	})
}

// walkImports calls fn for every import of every Go file under internal/.
func walkImports(t *testing.T, fn func(modulePath, rel, imp string)) {
	t.Helper()

	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	fset := token.NewFileSet()
	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			fn(modulePath, filepath.ToSlash(rel), imp)
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
}

func findModuleRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if mp, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "module "); ok {
			return strings.TrimSpace(mp), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
