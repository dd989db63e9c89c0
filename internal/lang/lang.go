// Package lang binds concrete tree-sitter grammars to the language-agnostic
// model in internal/code. Each adapter owns everything language-specific:
// node walking, kind classification, qualified names, erased descriptors and
// type-reference collection. Callers depend only on the Adapter contract;
// the concrete adapter is chosen once per file by extension.
package lang

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xonecas/codescope/internal/code"
)

// Adapter parses one concrete language into the structural model.
type Adapter interface {
	// Name is the language tag, e.g. "java".
	Name() string

	// Extensions lists the file extensions the adapter handles.
	Extensions() []string

	// Parse builds the structural model for one file. src is retained by the
	// returned File. path should be project-relative; it feeds qualified
	// names for languages without package declarations.
	Parse(path string, src []byte) (*code.File, error)
}

// adapters maps file extensions to adapters. Populated by init() functions
// in per-language files.
var adapters = map[string]Adapter{}

func register(a Adapter) {
	for _, ext := range a.Extensions() {
		adapters[ext] = a
	}
}

// ForPath returns the adapter for a file path, or nil if unsupported.
func ForPath(path string) Adapter {
	return adapters[strings.ToLower(filepath.Ext(path))]
}

// Supported reports whether a registered adapter handles path.
func Supported(path string) bool {
	return ForPath(path) != nil
}

// Names returns the registered language tags, sorted.
func Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, a := range adapters {
		if !seen[a.Name()] {
			seen[a.Name()] = true
			names = append(names, a.Name())
		}
	}
	sort.Strings(names)
	return names
}

// parseTree runs the tree-sitter parser over src. The caller must Close the
// returned tree after extraction.
func parseTree(lang *sitter.Language, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)
	return parser.ParseCtx(context.Background(), nil, src)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// collapseWhitespace replaces runs of whitespace with a single space and trims.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func nodeText(n *sitter.Node, src []byte) string {
	return n.Content(src)
}

func startLine(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1 // 1-indexed
}

func endLine(n *sitter.Node) int {
	return int(n.EndPoint().Row) + 1
}

// refSet accumulates type reference names, deduplicated in insertion order.
type refSet struct {
	names []string
	seen  map[string]bool
}

func newRefSet() *refSet {
	return &refSet{seen: make(map[string]bool)}
}

func (r *refSet) add(name string) {
	if name == "" || r.seen[name] {
		return
	}
	r.seen[name] = true
	r.names = append(r.names, name)
}

func (r *refSet) addAll(names []string) {
	for _, n := range names {
		r.add(n)
	}
}
