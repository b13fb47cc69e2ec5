package lint

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// runBuiltin performs a small set of structural checks with tree-sitter
// when golangci-lint isn't available: it can't replace a real linter's
// rule set, but it keeps the lint stage functional in an environment
// that only has the Go toolchain's dependencies, the same spirit as the
// original tool degrading gracefully when flake8 wasn't installed
// (though there it returned -1; here a result that can still be acted on
// is more useful than a hard failure).
func runBuiltin(searchPath string) Result {
	result := Result{Backend: "builtin"}

	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	defer parser.Close()

	// Version-control, vendored, coverage-output and log directories are
	// never linted.
	skipDirs := map[string]bool{".git": true, "vendor": true, "htmlcov": true, ".testrules": true}

	_ = filepath.WalkDir(searchPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != searchPath && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		tree, parseErr := parser.ParseCtx(context.Background(), nil, content)
		if parseErr != nil {
			return nil
		}
		defer tree.Close()

		result.Violations = append(result.Violations, checkFile(path, content, tree.RootNode())...)
		return nil
	})

	return result
}

// checkFile runs the built-in rule set against one parsed file:
// exported declarations with no doc comment, and an ERROR node anywhere
// in the tree (tree-sitter's own syntax-error marker).
func checkFile(path string, content []byte, root *sitter.Node) []Violation {
	var violations []Violation

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n.IsError() || n.Type() == "ERROR" {
			violations = append(violations, Violation{
				File:    path,
				Line:    int(n.StartPoint().Row) + 1,
				Column:  int(n.StartPoint().Column) + 1,
				Rule:    "builtin-syntax",
				Message: "syntax error",
			})
		}
		if (n.Type() == "function_declaration" || n.Type() == "type_declaration") && !hasPrecedingComment(n, content) {
			nameNode := exportedNameNode(n)
			if nameNode != nil {
				name := nameNode.Content(content)
				if isExported(name) {
					violations = append(violations, Violation{
						File:    path,
						Line:    int(n.StartPoint().Row) + 1,
						Column:  int(n.StartPoint().Column) + 1,
						Rule:    "builtin-undocumented-export",
						Message: "exported " + name + " has no doc comment",
					})
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	return violations
}

func exportedNameNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "function_declaration" {
		return n.ChildByFieldName("name")
	}
	// type_declaration wraps one or more type_spec children.
	for i := 0; i < int(n.NamedChildCount()); i++ {
		spec := n.NamedChild(i)
		if spec.Type() == "type_spec" {
			return spec.ChildByFieldName("name")
		}
	}
	return nil
}

func isExported(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// hasPrecedingComment reports whether n's immediately preceding sibling
// is a comment node, the tree-sitter-visible stand-in for "has a doc
// comment".
func hasPrecedingComment(n *sitter.Node, content []byte) bool {
	prev := n.PrevSibling()
	return prev != nil && prev.Type() == "comment"
}
