package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/xonecas/codescope/internal/code"
)

func init() {
	register(javaAdapter{})
}

type javaAdapter struct{}

func (javaAdapter) Name() string { return "java" }

func (javaAdapter) Extensions() []string { return []string{".java"} }

// Parse builds the structural model for one Java compilation unit.
func (javaAdapter) Parse(path string, src []byte) (*code.File, error) {
	tree, err := parseTree(java.GetLanguage(), src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	f := &code.File{Path: path, Language: "java", Src: src}
	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "package_declaration":
			if nc := child.NamedChild(0); nc != nil {
				f.Package = nodeText(nc, src)
			}
			f.HeaderEnd = int(child.EndByte())
		case "import_declaration":
			f.HeaderEnd = int(child.EndByte())
		default:
			if isJavaClassNode(child.Type()) {
				javaClass(f, child, src, code.NoClass, 0, f.Package)
			}
		}
	}
	return f, nil
}

func isJavaClassNode(t string) bool {
	switch t {
	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
		return true
	}
	return false
}

func javaClass(f *code.File, node *sitter.Node, src []byte, parent code.ClassID, depth int, prefix string) {
	var name string
	if n := node.ChildByFieldName("name"); n != nil {
		name = nodeText(n, src)
	}
	qualified := name
	if prefix != "" {
		qualified = prefix + "." + name
	}

	id := code.ClassID(len(f.Classes))
	f.Classes = append(f.Classes, code.Class{
		Name:      name,
		Qualified: qualified,
		Kind:      javaKind(node),
		Parent:    parent,
		Depth:     depth,
		StartByte: int(node.StartByte()),
		EndByte:   int(node.EndByte()),
		StartLine: startLine(node),
		EndLine:   endLine(node),
	})

	refs := newRefSet()
	var supers []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "superclass", "super_interfaces", "extends_interfaces":
			supers = append(supers, javaSuperTypes(child, src)...)
			refs.addAll(javaTypeIdents(child, src))
		case "formal_parameters": // record header components
			refs.addAll(javaTypeIdents(child, src))
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		javaMembers(f, body, src, id, depth, qualified, refs)
	}

	f.Classes[id].Supers = supers
	f.Classes[id].Refs = refs.names
}

// javaSuperTypes extracts the erased supertype names from a superclass,
// super_interfaces or extends_interfaces clause.
func javaSuperTypes(node *sitter.Node, src []byte) []string {
	var out []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		if c.Type() == "type_list" {
			for j := 0; j < int(c.NamedChildCount()); j++ {
				out = append(out, javaErasedType(c.NamedChild(j), src))
			}
			continue
		}
		out = append(out, javaErasedType(c, src))
	}
	return out
}

func javaMembers(f *code.File, body *sitter.Node, src []byte, id code.ClassID, depth int, qualified string, refs *refSet) {
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		switch member.Type() {
		case "method_declaration":
			javaMethod(f, member, src, id, false, refs)
		case "constructor_declaration", "compact_constructor_declaration":
			javaMethod(f, member, src, id, true, refs)
		case "field_declaration", "constant_declaration":
			if t := member.ChildByFieldName("type"); t != nil {
				refs.addAll(javaTypeIdents(t, src))
			}
		case "enum_body_declarations":
			javaMembers(f, member, src, id, depth, qualified, refs)
		default:
			if isJavaClassNode(member.Type()) {
				javaClass(f, member, src, id, depth+1, qualified)
			}
		}
	}
}

func javaMethod(f *code.File, node *sitter.Node, src []byte, class code.ClassID, ctor bool, classRefs *refSet) {
	m := code.Method{
		Class:     class,
		Ctor:      ctor,
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

	refs := newRefSet()
	var params []string
	paramsNode := node.ChildByFieldName("parameters")
	if paramsNode != nil {
		for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
			par := paramsNode.NamedChild(i)
			switch par.Type() {
			case "formal_parameter":
				if t := par.ChildByFieldName("type"); t != nil {
					params = append(params, javaErasedType(t, src))
				}
			case "spread_parameter":
				if t := par.NamedChild(0); t != nil {
					params = append(params, javaErasedType(t, src)+"...")
				}
			}
		}
		refs.addAll(javaTypeIdents(paramsNode, src))
	}
	retNode := node.ChildByFieldName("type")
	if retNode != nil {
		refs.addAll(javaTypeIdents(retNode, src))
	}

	m.Params = params
	m.Desc = m.Name + "(" + strings.Join(params, ",") + ")"

	sigEnd := int(node.EndByte())
	if body := node.ChildByFieldName("body"); body != nil {
		m.BodyStart = int(body.StartByte())
		m.BodyEnd = int(body.EndByte())
		sigEnd = m.BodyStart
		refs.addAll(javaTypeIdents(body, src))
	}
	sig := strings.TrimSpace(string(src[node.StartByte():sigEnd]))
	m.Signature = collapseWhitespace(strings.TrimSuffix(sig, ";"))
	m.Refs = refs.names

	// Signature-level types belong to the class API surface as well.
	if classRefs != nil {
		if paramsNode != nil {
			classRefs.addAll(javaTypeIdents(paramsNode, src))
		}
		if retNode != nil {
			classRefs.addAll(javaTypeIdents(retNode, src))
		}
	}

	mid := code.MethodID(len(f.Methods))
	f.Methods = append(f.Methods, m)
	f.Classes[class].Methods = append(f.Classes[class].Methods, mid)
}

func javaKind(node *sitter.Node) code.Kind {
	switch node.Type() {
	case "interface_declaration":
		return code.KindInterface
	case "enum_declaration":
		return code.KindEnum
	case "record_declaration":
		return code.KindRecord
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		mods := node.Child(i)
		if mods.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(mods.ChildCount()); j++ {
			if mods.Child(j).Type() == "abstract" {
				return code.KindAbstractClass
			}
		}
	}
	return code.KindClass
}

// javaErasedType returns a type name with generics stripped, e.g.
// "List<Bar>" -> "List", "int[]" -> "int[]".
func javaErasedType(node *sitter.Node, src []byte) string {
	switch node.Type() {
	case "type_identifier":
		return nodeText(node, src)
	case "generic_type":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			c := node.NamedChild(i)
			if c.Type() == "type_identifier" || c.Type() == "scoped_type_identifier" {
				return javaErasedType(c, src)
			}
		}
	case "scoped_type_identifier":
		t := nodeText(node, src)
		if i := strings.LastIndex(t, "."); i >= 0 {
			return t[i+1:]
		}
		return t
	case "array_type":
		if el := node.ChildByFieldName("element"); el != nil {
			return javaErasedType(el, src) + "[]"
		}
	}
	return collapseWhitespace(nodeText(node, src))
}

// javaTypeIdents collects every type_identifier in a subtree. Generic
// arguments contribute their own names, so "Map<Foo, Bar>" yields all three.
func javaTypeIdents(node *sitter.Node, src []byte) []string {
	var out []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "type_identifier" {
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
