package analyzer

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/openkraft/docsync/internal/domain"
)

// Java analyzes .java sources with tree-sitter. Spring MVC and JAX-RS
// routing annotations become endpoints.
type Java struct{}

func NewJava() *Java {
	return &Java{}
}

func (j *Java) Language() domain.Language { return domain.LanguageJava }

func (j *Java) Extensions() []string { return []string{".java"} }

func (j *Java) Analyze(ctx context.Context, path string, src []byte) (*domain.CodeStructure, error) {
	root, err := parseTree(ctx, java.GetLanguage(), domain.LanguageJava, path, src)
	if err != nil {
		return nil, err
	}

	cs := &domain.CodeStructure{
		Language: domain.LanguageJava,
		FilePath: path,
		Classes:  []domain.ClassInfo{},
	}
	for _, n := range namedChildren(root) {
		switch n.Type() {
		case "package_declaration":
			if id := childOfType(n, "scoped_identifier", "identifier"); id != nil {
				cs.Package = text(id, src)
			}
		case "import_declaration":
			imp := strings.TrimSpace(text(n, src))
			imp = strings.TrimPrefix(imp, "import")
			imp = strings.TrimSpace(strings.TrimSuffix(imp, ";"))
			cs.Imports = append(cs.Imports, strings.TrimSpace(strings.TrimPrefix(imp, "static ")))
		default:
			if javaTypeDecls[n.Type()] {
				j.collectClass(n, src, cs)
			}
		}
	}
	return cs, nil
}

var javaTypeDecls = map[string]bool{
	"class_declaration":     true,
	"interface_declaration": true,
	"enum_declaration":      true,
	"record_declaration":    true,
}

// collectClass appends n and its nested types to cs in declaration order.
func (j *Java) collectClass(n *sitter.Node, src []byte, cs *domain.CodeStructure) {
	cl := domain.ClassInfo{
		Name:      field(n, "name", src),
		Doc:       javadoc(n, src),
		Methods:   []domain.MethodInfo{},
		LineStart: line(n),
		LineEnd:   endLine(n),
	}
	cl.Modifiers, cl.Annotations = javaModifiers(childOfType(n, "modifiers"), src)
	if sc := n.ChildByFieldName("superclass"); sc != nil {
		for _, t := range namedChildren(sc) {
			cl.Superclasses = append(cl.Superclasses, text(t, src))
		}
	}
	ifaces := n.ChildByFieldName("interfaces")
	if ifaces == nil {
		ifaces = childOfType(n, "extends_interfaces")
	}
	if ifaces != nil {
		for _, t := range namedChildren(childOfType(ifaces, "type_list")) {
			cl.Superclasses = append(cl.Superclasses, text(t, src))
		}
	}

	isInterface := n.Type() == "interface_declaration"
	base, _ := javaClassRoute(cl.Annotations)
	cl.IsController = isJavaController(cl.Annotations)

	body := n.ChildByFieldName("body")
	members := namedChildren(body)
	if decls := childOfType(body, "enum_body_declarations"); decls != nil {
		members = append(members, namedChildren(decls)...)
	}

	var nested []*sitter.Node
	for _, m := range members {
		switch m.Type() {
		case "method_declaration", "constructor_declaration":
			mi := j.method(m, src, isInterface)
			if verb, route, ok := javaRoute(mi.Annotations); ok {
				mi.IsAPIEndpoint = true
				mi.HTTPMethod = verb
				mi.Path = domain.JoinPath(base, route)
				if mi.Path == "" {
					mi.Path = "/"
				}
				cl.IsController = true
			}
			cl.Methods = append(cl.Methods, mi)
		case "field_declaration", "constant_declaration":
			for _, d := range namedChildren(m) {
				if d.Type() == "variable_declarator" {
					cl.Fields = append(cl.Fields, field(d, "name", src))
				}
			}
		default:
			if javaTypeDecls[m.Type()] {
				nested = append(nested, m)
			}
		}
	}

	cs.Classes = append(cs.Classes, cl)
	for _, m := range nested {
		j.collectClass(m, src, cs)
	}
}

func (j *Java) method(n *sitter.Node, src []byte, inInterface bool) domain.MethodInfo {
	mi := domain.MethodInfo{
		Name:       field(n, "name", src),
		Doc:        javadoc(n, src),
		ReturnType: field(n, "type", src),
		Parameters: []domain.ParameterInfo{},
		LineStart:  line(n),
		LineEnd:    endLine(n),
	}
	mi.Modifiers, mi.Annotations = javaModifiers(childOfType(n, "modifiers"), src)
	if inInterface && !hasVisibility(mi.Modifiers) {
		mi.Modifiers = append(mi.Modifiers, "public")
	}
	if throws := childOfType(n, "throws"); throws != nil {
		for _, t := range namedChildren(throws) {
			mi.Exceptions = append(mi.Exceptions, text(t, src))
		}
	}
	for _, p := range namedChildren(n.ChildByFieldName("parameters")) {
		switch p.Type() {
		case "formal_parameter":
			_, anns := javaModifiers(childOfType(p, "modifiers"), src)
			typ := field(p, "type", src)
			mi.Parameters = append(mi.Parameters, domain.ParameterInfo{
				Name:     field(p, "name", src),
				Type:     typ,
				Required: javaRequired(typ, anns),
			})
		case "spread_parameter":
			var typ, name string
			for _, c := range namedChildren(p) {
				switch c.Type() {
				case "modifiers":
				case "variable_declarator":
					name = field(c, "name", src)
				default:
					if typ == "" {
						typ = text(c, src)
					}
				}
			}
			mi.Parameters = append(mi.Parameters, domain.ParameterInfo{Name: name, Type: typ + "..."})
		}
	}
	return mi
}

func javaModifiers(n *sitter.Node, src []byte) ([]string, []domain.AnnotationInfo) {
	if n == nil {
		return nil, nil
	}
	var mods []string
	var anns []domain.AnnotationInfo
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "marker_annotation", "annotation":
			anns = append(anns, javaAnnotation(c, src))
		case "line_comment", "block_comment", "comment":
		default:
			if !c.IsNamed() {
				mods = append(mods, text(c, src))
			}
		}
	}
	return mods, anns
}

func javaAnnotation(n *sitter.Node, src []byte) domain.AnnotationInfo {
	name := field(n, "name", src)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	a := domain.AnnotationInfo{Name: name}
	for _, c := range namedChildren(n.ChildByFieldName("arguments")) {
		if a.Args == nil {
			a.Args = make(map[string]string)
		}
		switch c.Type() {
		case "element_value_pair":
			a.Args[field(c, "key", src)] = annotationValue(c.ChildByFieldName("value"), src)
		case "line_comment", "block_comment", "comment":
		default:
			a.Args["value"] = annotationValue(c, src)
		}
	}
	return a
}

// annotationValue unquotes strings and flattens array initializers to a
// comma separated list.
func annotationValue(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "string_literal":
		return unquote(text(n, src))
	case "element_value_array_initializer":
		var parts []string
		for _, c := range namedChildren(n) {
			parts = append(parts, annotationValue(c, src))
		}
		return strings.Join(parts, ",")
	}
	return text(n, src)
}

func javadoc(n *sitter.Node, src []byte) string {
	prev := n.PrevNamedSibling()
	if prev == nil {
		return ""
	}
	if t := prev.Type(); t != "block_comment" && t != "comment" {
		return ""
	}
	raw := text(prev, src)
	if !strings.HasPrefix(raw, "/**") {
		return ""
	}
	return cleanDoc(raw)
}

func hasVisibility(mods []string) bool {
	for _, m := range mods {
		if m == "public" || m == "private" || m == "protected" {
			return true
		}
	}
	return false
}

func javaRequired(typ string, anns []domain.AnnotationInfo) bool {
	if strings.HasPrefix(typ, "Optional<") {
		return false
	}
	for _, a := range anns {
		switch a.Name {
		case "Nullable":
			return false
		case "RequestParam", "RequestHeader", "PathVariable":
			if v, ok := a.Arg("required"); ok && v == "false" {
				return false
			}
			if _, ok := a.Arg("defaultValue"); ok {
				return false
			}
		}
	}
	return true
}
