package analyzer

import (
	"context"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"regexp"
	"strconv"
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

// Go analyzes .go sources using go/ast. Structs and interfaces are classes,
// methods attach to their receiver type and free functions land in a module
// class named after the file. swag "@Router" comments declare endpoints.
type Go struct{}

func NewGo() *Go {
	return &Go{}
}

func (g *Go) Language() domain.Language { return domain.LanguageGo }

func (g *Go) Extensions() []string { return []string{".go"} }

func (g *Go) Analyze(ctx context.Context, path string, src []byte) (*domain.CodeStructure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, path, src, goparser.ParseComments)
	if err != nil {
		return nil, &domain.ParseFailure{Path: path, Language: domain.LanguageGo, Err: err}
	}

	cs := &domain.CodeStructure{
		Language: domain.LanguageGo,
		FilePath: path,
		Package:  file.Name.Name,
		Classes:  []domain.ClassInfo{},
	}
	for _, imp := range file.Imports {
		cs.Imports = append(cs.Imports, strings.Trim(imp.Path.Value, `"`))
	}

	index := make(map[string]int)
	classFor := func(name string, pos, end token.Pos) *domain.ClassInfo {
		if i, ok := index[name]; ok {
			return &cs.Classes[i]
		}
		index[name] = len(cs.Classes)
		cs.Classes = append(cs.Classes, domain.ClassInfo{
			Name:      name,
			Modifiers: []string{visibility(name)},
			Methods:   []domain.MethodInfo{},
			LineStart: fset.Position(pos).Line,
			LineEnd:   fset.Position(end).Line,
		})
		return &cs.Classes[index[name]]
	}

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := gd.Doc
			if ts.Doc != nil {
				doc = ts.Doc
			}
			switch t := ts.Type.(type) {
			case *ast.StructType:
				cl := classFor(ts.Name.Name, ts.Pos(), ts.End())
				cl.Doc = doc.Text()
				for _, f := range t.Fields.List {
					for _, n := range f.Names {
						cl.Fields = append(cl.Fields, n.Name)
					}
				}
			case *ast.InterfaceType:
				cl := classFor(ts.Name.Name, ts.Pos(), ts.End())
				cl.Doc = doc.Text()
				cl.Modifiers = append(cl.Modifiers, "interface")
				for _, m := range t.Methods.List {
					ft, ok := m.Type.(*ast.FuncType)
					if !ok || len(m.Names) == 0 {
						continue
					}
					cl.Methods = append(cl.Methods, goMethod(fset, m.Names[0].Name, m.Doc, ft, m.Pos(), m.End()))
				}
			}
		}
	}

	var module *domain.ClassInfo
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		mi := goMethod(fset, fd.Name.Name, fd.Doc, fd.Type, fd.Pos(), fd.End())
		var cl *domain.ClassInfo
		if fd.Recv != nil && len(fd.Recv.List) > 0 {
			cl = classFor(receiverType(fd.Recv.List[0].Type), fd.Pos(), fd.End())
		} else {
			if module == nil {
				module = &domain.ClassInfo{Name: moduleName(path), Module: true, Methods: []domain.MethodInfo{}, LineStart: mi.LineStart}
			}
			cl = module
		}
		cl.IsController = cl.IsController || mi.IsAPIEndpoint
		if mi.LineEnd > cl.LineEnd {
			cl.LineEnd = mi.LineEnd
		}
		cl.Methods = append(cl.Methods, mi)
	}
	if module != nil {
		module.Doc = file.Doc.Text()
		cs.Classes = append(cs.Classes, *module)
	}
	return cs, nil
}

var swagRouterRe = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)

func goMethod(fset *token.FileSet, name string, doc *ast.CommentGroup, ft *ast.FuncType, pos, end token.Pos) domain.MethodInfo {
	mi := domain.MethodInfo{
		Name:       name,
		Doc:        doc.Text(),
		Modifiers:  []string{visibility(name)},
		Parameters: []domain.ParameterInfo{},
		LineStart:  fset.Position(pos).Line,
		LineEnd:    fset.Position(end).Line,
	}
	if ft.Params != nil {
		for _, f := range ft.Params.List {
			typ := types.ExprString(f.Type)
			_, variadic := f.Type.(*ast.Ellipsis)
			if len(f.Names) == 0 {
				// Unnamed parameters get positional names.
				name := "arg" + strconv.Itoa(len(mi.Parameters))
				mi.Parameters = append(mi.Parameters, domain.ParameterInfo{Name: name, Type: typ, Required: !variadic})
				continue
			}
			for _, n := range f.Names {
				mi.Parameters = append(mi.Parameters, domain.ParameterInfo{Name: n.Name, Type: typ, Required: !variadic})
			}
		}
	}
	if ft.Results != nil {
		var results []string
		for _, f := range ft.Results.List {
			typ := types.ExprString(f.Type)
			results = append(results, typ)
			for i := 1; i < len(f.Names); i++ {
				results = append(results, typ)
			}
		}
		mi.ReturnType = strings.Join(results, ", ")
		if len(results) > 1 {
			mi.ReturnType = "(" + mi.ReturnType + ")"
		}
	}
	if doc != nil {
		for _, c := range doc.List {
			if m := swagRouterRe.FindStringSubmatch(c.Text); m != nil {
				mi.Annotations = append(mi.Annotations, domain.AnnotationInfo{
					Name: "Router",
					Args: map[string]string{"path": m[1], "method": m[2]},
				})
				mi.IsAPIEndpoint = true
				mi.Path = m[1]
				mi.HTTPMethod = domain.NormalizeHTTPMethod(m[2])
			}
		}
	}
	return mi
}

func receiverType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverType(t.X)
	case *ast.IndexExpr:
		return receiverType(t.X)
	case *ast.IndexListExpr:
		return receiverType(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}

func visibility(name string) string {
	if ast.IsExported(name) {
		return "public"
	}
	return "private"
}
