// Package inspect statically enumerates the testable surface of a Go test
// source file. It is the Go-native replacement for the original tool's
// reflective dir()/getattr()/issubclass() walk: rather than importing the
// file and reflecting over live objects, it parses the file with
// tree-sitter and reads the same information off the AST, since Go has no
// runtime facility for importing an arbitrary file chosen at runtime.
// Actually loading and running the discovered methods is internal/exec's
// job, not this package's.
package inspect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"testrules/internal/testcase"
)

// Diagnostic reports a non-fatal problem inspecting one file, mirroring
// the original tool's per-module failed-import bookkeeping.
type Diagnostic struct {
	Module  string
	Message string
}

// Inspector walks Go source files with tree-sitter to find test cases. It
// owns one *sitter.Parser per instance so callers can reuse it across
// files instead of reallocating a parser per call.
type Inspector struct {
	parser *sitter.Parser

	// searchPathStack mirrors the original tool's sys.path push/pop
	// around each import: testrules never actually needs the resolved
	// directory for a static parse, but the stack is kept as an explicit
	// invariant (an inspection is scoped to the directory it came from
	// for the duration of the call, then unwound) because later stages
	// (internal/exec) rely on the same discipline when resolving
	// yaegi's GOPATH-style import roots.
	searchPathStack []string
}

// New builds an Inspector with its own tree-sitter parser.
func New() *Inspector {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &Inspector{parser: p}
}

// Close releases the underlying tree-sitter parser.
func (ins *Inspector) Close() {
	ins.parser.Close()
}

// pushSearchPath and popSearchPath bracket one file's inspection the way
// the original tool bracketed sys.path.insert/sys.path.remove around one
// safe_import_module call.
func (ins *Inspector) pushSearchPath(dir string) {
	ins.searchPathStack = append(ins.searchPathStack, dir)
}

func (ins *Inspector) popSearchPath() {
	if len(ins.searchPathStack) == 0 {
		return
	}
	ins.searchPathStack = ins.searchPathStack[:len(ins.searchPathStack)-1]
}

// Inspect parses filePath and returns every Test* method/function it
// finds, tagged with moduleName. A syntax error, parse failure or
// unreadable file yields a Diagnostic and no methods instead of an
// error: one bad file should not abort
// discovery for the rest of the suite, matching the original tool's
// per-module failure isolation.
func (ins *Inspector) Inspect(moduleName, filePath string) ([]testcase.Method, *Diagnostic) {
	ins.pushSearchPath(filepath.Dir(filePath))
	defer ins.popSearchPath()

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &Diagnostic{Module: moduleName, Message: fmt.Sprintf("file not found: %v", err)}
	}

	tree, err := ins.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, &Diagnostic{Module: moduleName, Message: fmt.Sprintf("parse failed: %v", err)}
	}
	defer tree.Close()

	// tree-sitter recovers from syntax errors instead of failing the
	// parse, so they have to be detected on the resulting tree.
	if tree.RootNode().HasError() {
		return nil, &Diagnostic{Module: moduleName, Message: fmt.Sprintf("syntax error in %s", filePath)}
	}

	caseTypes := findCaseEmbeddingTypes(tree.RootNode(), content)

	var methods []testcase.Method
	methods = append(methods, findCaseMethods(tree.RootNode(), content, moduleName, filePath, caseTypes)...)
	methods = append(methods, findStandaloneTestFuncs(tree.RootNode(), content, moduleName, filePath)...)

	return methods, nil
}

func text(n *sitter.Node, content []byte) string {
	return n.Content(content)
}

// findCaseEmbeddingTypes returns the set of type names whose struct body
// embeds testkit.Case (or a bare Case, for a dot-imported testkit), the
// static analogue of issubclass(attr, unittest.TestCase).
func findCaseEmbeddingTypes(root *sitter.Node, content []byte) map[string]bool {
	types := make(map[string]bool)

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "type_declaration" {
			for i := 0; i < int(n.NamedChildCount()); i++ {
				spec := n.NamedChild(i)
				if spec.Type() != "type_spec" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				typeNode := spec.ChildByFieldName("type")
				if nameNode == nil || typeNode == nil || typeNode.Type() != "struct_type" {
					continue
				}
				if structEmbedsCase(typeNode, content) {
					types[text(nameNode, content)] = true
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return types
}

func structEmbedsCase(structType *sitter.Node, content []byte) bool {
	fields := structType.ChildByFieldName("fields")
	if fields == nil {
		return false
	}
	for i := 0; i < int(fields.NamedChildCount()); i++ {
		field := fields.NamedChild(i)
		if field.Type() != "field_declaration" {
			continue
		}
		// An embedded field has no "name" child field; its "type" child
		// is the embedded type itself.
		if field.ChildByFieldName("name") != nil {
			continue
		}
		typeNode := field.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		t := text(typeNode, content)
		if t == "Case" || strings.HasSuffix(t, ".Case") {
			return true
		}
	}
	return false
}

// findCaseMethods returns Test*-prefixed methods whose receiver type is
// one of caseTypes (or a pointer to one).
func findCaseMethods(root *sitter.Node, content []byte, module, filePath string, caseTypes map[string]bool) []testcase.Method {
	var methods []testcase.Method

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "method_declaration" {
			nameNode := n.ChildByFieldName("name")
			receiverNode := n.ChildByFieldName("receiver")
			if nameNode != nil && receiverNode != nil {
				methodName := text(nameNode, content)
				receiverType := receiverTypeName(receiverNode, content)
				if strings.HasPrefix(methodName, "Test") && caseTypes[receiverType] {
					methods = append(methods, testcase.Method{
						Name:      methodName,
						Module:    module,
						ClassName: receiverType,
						FilePath:  filePath,
					})
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return methods
}

// receiverTypeName extracts the bare type name from a method receiver's
// parameter list, stripping a leading pointer star if present.
func receiverTypeName(receiver *sitter.Node, content []byte) string {
	if receiver.NamedChildCount() == 0 {
		return ""
	}
	param := receiver.NamedChild(0)
	typeNode := param.ChildByFieldName("type")
	if typeNode == nil {
		return ""
	}
	name := text(typeNode, content)
	return strings.TrimPrefix(name, "*")
}

// findStandaloneTestFuncs returns top-level Test*-prefixed functions that
// are not methods, the analogue of the original tool's module-level
// `test*` function discovery.
func findStandaloneTestFuncs(root *sitter.Node, content []byte, module, filePath string) []testcase.Method {
	var methods []testcase.Method

	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() != "function_declaration" {
			continue
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := text(nameNode, content)
		if strings.HasPrefix(name, "Test") {
			methods = append(methods, testcase.Method{
				Name:     name,
				Module:   module,
				FilePath: filePath,
			})
		}
	}
	return methods
}

// ModuleNameFromPath derives a dotted module name from a file path the
// way the original tool's discover_test_methods did: normalize
// separators to dots, strip the .go extension, drop a leading "./".
func ModuleNameFromPath(filePath string) string {
	p := filepath.ToSlash(filepath.Clean(filePath))
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, ".go")
	p = strings.ReplaceAll(p, "/", ".")
	return strings.TrimLeft(p, ".")
}
