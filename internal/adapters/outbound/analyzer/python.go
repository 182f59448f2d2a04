package analyzer

import (
	"context"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/openkraft/docsync/internal/domain"
)

// Python analyzes .py sources with tree-sitter. Module-level functions are
// collected into a synthetic class named after the file. Flask and FastAPI
// route decorators become endpoints.
type Python struct{}

func NewPython() *Python {
	return &Python{}
}

func (p *Python) Language() domain.Language { return domain.LanguagePython }

func (p *Python) Extensions() []string { return []string{".py"} }

func (p *Python) Analyze(ctx context.Context, path string, src []byte) (*domain.CodeStructure, error) {
	root, err := parseTree(ctx, python.GetLanguage(), domain.LanguagePython, path, src)
	if err != nil {
		return nil, err
	}

	cs := &domain.CodeStructure{
		Language: domain.LanguagePython,
		FilePath: path,
		Classes:  []domain.ClassInfo{},
	}
	module := domain.ClassInfo{Name: moduleName(path), Module: true, Methods: []domain.MethodInfo{}}

	for _, n := range namedChildren(root) {
		def, decorators := undecorate(n)
		switch def.Type() {
		case "import_statement":
			for _, c := range namedChildren(def) {
				cs.Imports = append(cs.Imports, importName(c, src))
			}
		case "import_from_statement":
			cs.Imports = append(cs.Imports, field(def, "module_name", src))
		case "class_definition":
			p.collectClass(def, decorators, src, cs)
		case "function_definition":
			m := p.function(def, decorators, src, false)
			if module.LineStart == 0 {
				module.LineStart = m.LineStart
			}
			module.LineEnd = m.LineEnd
			module.IsController = module.IsController || m.IsAPIEndpoint
			module.Methods = append(module.Methods, m)
		}
	}
	if len(module.Methods) > 0 {
		module.Doc = docstring(root, src)
		cs.Classes = append(cs.Classes, module)
	}
	return cs, nil
}

// undecorate unwraps a decorated_definition into its definition and
// decorator nodes.
func undecorate(n *sitter.Node) (*sitter.Node, []*sitter.Node) {
	if n.Type() != "decorated_definition" {
		return n, nil
	}
	var decorators []*sitter.Node
	for _, c := range namedChildren(n) {
		if c.Type() == "decorator" {
			decorators = append(decorators, c)
		}
	}
	return n.ChildByFieldName("definition"), decorators
}

func importName(n *sitter.Node, src []byte) string {
	if n.Type() == "aliased_import" {
		return field(n, "name", src)
	}
	return text(n, src)
}

func (p *Python) collectClass(n *sitter.Node, decorators []*sitter.Node, src []byte, cs *domain.CodeStructure) {
	body := n.ChildByFieldName("body")
	cl := domain.ClassInfo{
		Name:        field(n, "name", src),
		Doc:         docstring(body, src),
		Methods:     []domain.MethodInfo{},
		Annotations: pyDecorators(decorators, src),
		LineStart:   line(n),
		LineEnd:     endLine(n),
	}
	if strings.HasPrefix(cl.Name, "_") {
		cl.Modifiers = []string{"private"}
	}
	for _, s := range namedChildren(n.ChildByFieldName("superclasses")) {
		if s.Type() != "keyword_argument" {
			cl.Superclasses = append(cl.Superclasses, text(s, src))
		}
	}

	var nested []struct {
		def        *sitter.Node
		decorators []*sitter.Node
	}
	for _, c := range namedChildren(body) {
		def, decs := undecorate(c)
		switch def.Type() {
		case "function_definition":
			m := p.function(def, decs, src, true)
			cl.IsController = cl.IsController || m.IsAPIEndpoint
			cl.Methods = append(cl.Methods, m)
		case "class_definition":
			nested = append(nested, struct {
				def        *sitter.Node
				decorators []*sitter.Node
			}{def, decs})
		case "expression_statement":
			if a := childOfType(def, "assignment"); a != nil {
				cl.Fields = append(cl.Fields, field(a, "left", src))
			}
		}
	}

	cs.Classes = append(cs.Classes, cl)
	for _, c := range nested {
		p.collectClass(c.def, c.decorators, src, cs)
	}
}

func (p *Python) function(n *sitter.Node, decorators []*sitter.Node, src []byte, method bool) domain.MethodInfo {
	mi := domain.MethodInfo{
		Name:        field(n, "name", src),
		Doc:         docstring(n.ChildByFieldName("body"), src),
		ReturnType:  field(n, "return_type", src),
		Parameters:  []domain.ParameterInfo{},
		Annotations: pyDecorators(decorators, src),
		LineStart:   line(n),
		LineEnd:     endLine(n),
	}
	if c := n.Child(0); c != nil && c.Type() == "async" {
		mi.Modifiers = append(mi.Modifiers, "async")
	}
	if strings.HasPrefix(mi.Name, "_") && !strings.HasSuffix(mi.Name, "__") {
		mi.Modifiers = append(mi.Modifiers, "private")
	}
	static := false
	for _, a := range mi.Annotations {
		switch a.Name {
		case "staticmethod":
			static = true
			mi.Modifiers = append(mi.Modifiers, "static")
		case "classmethod", "property", "abstractmethod":
			mi.Modifiers = append(mi.Modifiers, a.Name)
		}
	}

	for i, c := range namedChildren(n.ChildByFieldName("parameters")) {
		param, ok := pyParam(c, src)
		if !ok {
			continue
		}
		if i == 0 && method && !static && (param.Name == "self" || param.Name == "cls") {
			continue
		}
		mi.Parameters = append(mi.Parameters, param)
	}

	if verb, route, ok := pythonRoute(mi.Annotations); ok {
		mi.IsAPIEndpoint = true
		mi.HTTPMethod = verb
		mi.Path = route
	}
	return mi
}

func pyParam(n *sitter.Node, src []byte) (domain.ParameterInfo, bool) {
	switch n.Type() {
	case "identifier":
		return domain.ParameterInfo{Name: text(n, src), Required: true}, true
	case "list_splat_pattern", "dictionary_splat_pattern":
		return domain.ParameterInfo{Name: strings.TrimLeft(text(n, src), "*")}, true
	case "typed_parameter":
		typ := field(n, "type", src)
		first := n.NamedChild(0)
		if first == nil {
			return domain.ParameterInfo{}, false
		}
		splat := first.Type() != "identifier"
		return domain.ParameterInfo{
			Name:     strings.TrimLeft(text(first, src), "*"),
			Type:     typ,
			Required: !splat && !domain.IsOptionalType(typ),
		}, true
	case "default_parameter", "typed_default_parameter":
		return domain.ParameterInfo{
			Name:    field(n, "name", src),
			Type:    field(n, "type", src),
			Default: field(n, "value", src),
		}, true
	}
	return domain.ParameterInfo{}, false
}

func pyDecorators(decorators []*sitter.Node, src []byte) []domain.AnnotationInfo {
	var out []domain.AnnotationInfo
	for _, d := range decorators {
		expr := d.NamedChild(0)
		if expr == nil {
			continue
		}
		if expr.Type() != "call" {
			out = append(out, domain.AnnotationInfo{Name: text(expr, src)})
			continue
		}
		a := domain.AnnotationInfo{Name: field(expr, "function", src)}
		pos := 0
		for _, arg := range namedChildren(expr.ChildByFieldName("arguments")) {
			if a.Args == nil {
				a.Args = make(map[string]string)
			}
			if arg.Type() == "keyword_argument" {
				a.Args[field(arg, "name", src)] = pyValue(arg.ChildByFieldName("value"), src)
				continue
			}
			if arg.Type() == "comment" {
				continue
			}
			a.Args[strconv.Itoa(pos)] = pyValue(arg, src)
			pos++
		}
		out = append(out, a)
	}
	return out
}

// pyValue unquotes strings and flattens list and tuple literals.
func pyValue(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "string", "concatenated_string":
		return unquote(text(n, src))
	case "list", "tuple", "set":
		var parts []string
		for _, c := range namedChildren(n) {
			parts = append(parts, pyValue(c, src))
		}
		return strings.Join(parts, ",")
	}
	return text(n, src)
}

// docstring returns the leading string literal of a block or module.
func docstring(block *sitter.Node, src []byte) string {
	if block == nil || block.NamedChildCount() == 0 {
		return ""
	}
	first := block.NamedChild(0)
	if first.Type() != "expression_statement" {
		return ""
	}
	s := first.NamedChild(0)
	if s == nil || s.Type() != "string" {
		return ""
	}
	lines := strings.Split(unquote(text(s, src)), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
