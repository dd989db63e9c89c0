package lang

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/xonecas/codescope/internal/code"
)

func init() {
	register(pythonAdapter{})
}

type pythonAdapter struct{}

func (pythonAdapter) Name() string { return "python" }

func (pythonAdapter) Extensions() []string { return []string{".py"} }

// Parse builds the structural model for one Python module.
func (pythonAdapter) Parse(path string, src []byte) (*code.File, error) {
	tree, err := parseTree(python.GetLanguage(), src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	f := &code.File{Path: path, Language: "python", Package: moduleName(path), Src: src}
	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "import_statement", "import_from_statement", "future_import_statement":
			f.HeaderEnd = int(child.EndByte())
		case "class_definition":
			pyClass(f, child, src, nil, code.NoClass, 0, f.Package)
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil && def.Type() == "class_definition" {
				pyClass(f, def, src, child, code.NoClass, 0, f.Package)
			}
		}
	}
	return f, nil
}

// moduleName derives a dotted module path from a project-relative file path,
// e.g. "pkg/models.py" -> "pkg.models", "pkg/__init__.py" -> "pkg".
func moduleName(path string) string {
	p := filepath.ToSlash(path)
	p = strings.TrimSuffix(p, filepath.Ext(p))
	p = strings.TrimSuffix(p, "/__init__")
	p = strings.Trim(p, "/.")
	return strings.ReplaceAll(p, "/", ".")
}

// pyClass extracts one class definition. wrapper is the decorated_definition
// node when the class is decorated, nil otherwise.
func pyClass(f *code.File, node *sitter.Node, src []byte, wrapper *sitter.Node, parent code.ClassID, depth int, prefix string) {
	var name string
	if n := node.ChildByFieldName("name"); n != nil {
		name = nodeText(n, src)
	}
	qualified := name
	if prefix != "" {
		qualified = prefix + "." + name
	}

	refs := newRefSet()
	var supers []string
	var metaclass string
	if sc := node.ChildByFieldName("superclasses"); sc != nil {
		for i := 0; i < int(sc.NamedChildCount()); i++ {
			arg := sc.NamedChild(i)
			switch arg.Type() {
			case "identifier":
				supers = append(supers, nodeText(arg, src))
			case "attribute":
				if a := arg.ChildByFieldName("attribute"); a != nil {
					supers = append(supers, nodeText(a, src))
				}
			case "subscript":
				// Generic[T], Sequence[Item] and friends.
				if v := arg.ChildByFieldName("value"); v != nil && v.Type() == "identifier" {
					supers = append(supers, nodeText(v, src))
				}
			case "keyword_argument":
				n, v := arg.ChildByFieldName("name"), arg.ChildByFieldName("value")
				if n != nil && v != nil && nodeText(n, src) == "metaclass" {
					metaclass = nodeText(v, src)
				}
			}
		}
		refs.addAll(pyIdents(sc, src))
	}

	id := code.ClassID(len(f.Classes))
	f.Classes = append(f.Classes, code.Class{
		Name:      name,
		Qualified: qualified,
		Kind:      pyKind(supers, metaclass, wrapper, src),
		Parent:    parent,
		Depth:     depth,
		StartByte: int(node.StartByte()),
		EndByte:   int(node.EndByte()),
		StartLine: startLine(node),
		EndLine:   endLine(node),
	})

	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			stmt := body.Child(i)
			def := stmt
			var decorated *sitter.Node
			if stmt.Type() == "decorated_definition" {
				def = stmt.ChildByFieldName("definition")
				if def == nil {
					continue
				}
				decorated = stmt
			}
			switch def.Type() {
			case "function_definition":
				pyMethod(f, def, src, id, refs)
			case "class_definition":
				pyClass(f, def, src, decorated, id, depth+1, qualified)
			case "expression_statement":
				// Annotated class attributes: "name: Type" or "name: Type = value".
				for j := 0; j < int(def.NamedChildCount()); j++ {
					if a := def.NamedChild(j); a.Type() == "assignment" {
						if t := a.ChildByFieldName("type"); t != nil {
							refs.addAll(pyIdents(t, src))
						}
					}
				}
			}
		}
	}

	f.Classes[id].Supers = supers
	f.Classes[id].Refs = refs.names
}

func pyKind(supers []string, metaclass string, wrapper *sitter.Node, src []byte) code.Kind {
	if wrapper != nil {
		for i := 0; i < int(wrapper.ChildCount()); i++ {
			d := wrapper.Child(i)
			if d.Type() == "decorator" && strings.Contains(nodeText(d, src), "dataclass") {
				return code.KindRecord
			}
		}
	}
	for _, s := range supers {
		switch s {
		case "Protocol":
			return code.KindInterface
		case "Enum", "IntEnum", "StrEnum", "Flag", "IntFlag":
			return code.KindEnum
		case "NamedTuple":
			return code.KindRecord
		case "ABC":
			return code.KindAbstractClass
		}
	}
	if metaclass == "ABCMeta" {
		return code.KindAbstractClass
	}
	return code.KindClass
}

func pyMethod(f *code.File, node *sitter.Node, src []byte, class code.ClassID, classRefs *refSet) {
	m := code.Method{
		Class:     class,
		StartByte: int(node.StartByte()),
		EndByte:   int(node.EndByte()),
		StartLine: startLine(node),
		EndLine:   endLine(node),
		BodyStart: -1,
		BodyEnd:   -1,
	}
	if n := node.ChildByFieldName("name"); n != nil {
		m.Name = nodeText(n, src)
	}
	m.Ctor = m.Name == "__init__"

	refs := newRefSet()
	var params []string
	var paramsText string
	if p := node.ChildByFieldName("parameters"); p != nil {
		paramsText = collapseWhitespace(nodeText(p, src))
		for i := 0; i < int(p.NamedChildCount()); i++ {
			par := p.NamedChild(i)
			var pname string
			switch par.Type() {
			case "identifier":
				pname = nodeText(par, src)
			case "typed_parameter":
				if n := par.NamedChild(0); n != nil {
					pname = nodeText(n, src)
				}
				if t := par.ChildByFieldName("type"); t != nil {
					refs.addAll(pyIdents(t, src))
					if classRefs != nil {
						classRefs.addAll(pyIdents(t, src))
					}
				}
			case "default_parameter", "typed_default_parameter":
				if n := par.ChildByFieldName("name"); n != nil {
					pname = nodeText(n, src)
				}
				if t := par.ChildByFieldName("type"); t != nil {
					refs.addAll(pyIdents(t, src))
					if classRefs != nil {
						classRefs.addAll(pyIdents(t, src))
					}
				}
			default:
				pname = collapseWhitespace(nodeText(par, src))
			}
			if i == 0 && (pname == "self" || pname == "cls") {
				continue
			}
			if pname != "" {
				params = append(params, pname)
			}
		}
	}

	sig := m.Name + paramsText
	if rt := node.ChildByFieldName("return_type"); rt != nil {
		sig += " -> " + collapseWhitespace(nodeText(rt, src))
		refs.addAll(pyIdents(rt, src))
		if classRefs != nil {
			classRefs.addAll(pyIdents(rt, src))
		}
	}
	m.Signature = sig
	m.Params = params
	// Python overrides shadow by name alone, so the descriptor carries no
	// parameter information.
	m.Desc = m.Name + "()"

	if body := node.ChildByFieldName("body"); body != nil {
		m.BodyStart = int(body.StartByte())
		m.BodyEnd = int(body.EndByte())
		refs.addAll(pyBodyRefs(body, src))
	}
	m.Refs = refs.names

	mid := code.MethodID(len(f.Methods))
	f.Methods = append(f.Methods, m)
	f.Classes[class].Methods = append(f.Classes[class].Methods, mid)
}

// pyIdents collects every identifier in a subtree, for annotation and
// superclass-list type references.
func pyIdents(node *sitter.Node, src []byte) []string {
	var out []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "identifier" {
			out = append(out, nodeText(n, src))
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return out
}

// pyBodyRefs collects candidate type names from a function body: callee
// names ("Bar()", "models.Bar()") and local annotation types. Names that do
// not resolve to project classes are dropped later by the discoverer.
func pyBodyRefs(body *sitter.Node, src []byte) []string {
	var out []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "call":
			if fn := n.ChildByFieldName("function"); fn != nil {
				switch fn.Type() {
				case "identifier":
					out = append(out, nodeText(fn, src))
				case "attribute":
					if a := fn.ChildByFieldName("attribute"); a != nil {
						out = append(out, nodeText(a, src))
					}
				}
			}
		case "type":
			out = append(out, pyIdents(n, src)...)
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(body)
	return out
}
