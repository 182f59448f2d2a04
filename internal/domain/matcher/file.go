package matcher

import (
	"fmt"
	"strconv"

	"github.com/openkraft/docsync/internal/domain"
)

// MatchFile compares one code structure with the document that describes
// it. Methods pair by exact name first, then by normalized name. Among
// same-named documented methods the one whose parameters fit best is
// taken. An overload left without a section of its own shares the section
// of its namesake in the same class and its parameters are not compared.
// Documented methods and endpoints absent from the code are reported only
// when the code declares at least one of that kind; an extra section for a
// name the code does declare is not reported.
func MatchFile(code *domain.CodeStructure, doc *domain.DocStructure, opts Options) []domain.Discrepancy {
	out := []domain.Discrepancy{}
	if code == nil || doc == nil {
		return out
	}

	pool := make([]bool, len(doc.Methods))
	claim := func(m domain.MethodInfo, normalized bool) int {
		best, bestFit := -1, 0
		for i, md := range doc.Methods {
			if pool[i] {
				continue
			}
			if md.Name != m.Name && (!normalized || NormalizeName(md.Name) != NormalizeName(m.Name)) {
				continue
			}
			if fit := paramFit(m, md); best < 0 || fit > bestFit {
				best, bestFit = i, fit
			}
		}
		if best >= 0 {
			pool[best] = true
		}
		return best
	}

	type pending struct {
		class  string
		method domain.MethodInfo
	}
	var unmatched []pending
	codeMethods := 0

	for _, cl := range code.Classes {
		var rest []domain.MethodInfo
		documented := make(map[string]bool)
		for _, m := range cl.Methods {
			if opts.ignored(cl, m) {
				continue
			}
			codeMethods++
			if i := claim(m, false); i >= 0 {
				documented[m.Name] = true
				out = append(out, matchParams(code.FilePath, cl.Name, m, doc.Methods[i])...)
				continue
			}
			rest = append(rest, m)
		}
		for _, m := range rest {
			if documented[m.Name] {
				continue
			}
			if i := claim(m, true); i >= 0 {
				out = append(out, matchParams(code.FilePath, cl.Name, m, doc.Methods[i])...)
				continue
			}
			unmatched = append(unmatched, pending{class: cl.Name, method: m})
		}
	}

	for _, u := range unmatched {
		out = append(out, domain.Discrepancy{
			Kind:    domain.KindUndocumentedMethod,
			File:    code.FilePath,
			Class:   u.class,
			Method:  u.method.Name,
			Line:    u.method.LineStart,
			Message: fmt.Sprintf("method %s.%s is not documented", u.class, u.method.Name),
		})
	}

	if codeMethods > 0 {
		present := make(map[string]bool)
		for i, md := range doc.Methods {
			if pool[i] {
				present[md.Name] = true
			}
		}
		for i, md := range doc.Methods {
			if pool[i] || present[md.Name] {
				continue
			}
			out = append(out, domain.Discrepancy{
				Kind:    domain.KindMissingMethod,
				Method:  md.Name,
				Section: md.Section,
				Line:    md.Line,
				Message: fmt.Sprintf("documented method %s does not exist in the code", md.Name),
			})
		}
	}

	return append(out, matchEndpoints(code, doc)...)
}

// matchParams compares a matched method pair. Nothing is compared when the
// document does not list parameters.
func matchParams(file, class string, m domain.MethodInfo, md domain.MethodDoc) []domain.Discrepancy {
	var out []domain.Discrepancy
	if !md.ParamsDeclared {
		return out
	}
	used := make([]bool, len(m.Parameters))
	find := func(name string) int {
		for i, p := range m.Parameters {
			if !used[i] && p.Name == name {
				return i
			}
		}
		for i, p := range m.Parameters {
			if !used[i] && NormalizeName(p.Name) == NormalizeName(name) {
				return i
			}
		}
		return -1
	}

	for j, pd := range md.Parameters {
		i := find(pd.Name)
		if i < 0 && j < len(m.Parameters) && !used[j] && m.Parameters[j].Name == positional(j) {
			i = j
		}
		if i < 0 {
			out = append(out, domain.Discrepancy{
				Kind:    domain.KindParamMissingInCode,
				Class:   class,
				Method:  m.Name,
				Param:   pd.Name,
				Section: md.Section,
				Line:    pd.Line,
				Message: fmt.Sprintf("documented parameter %s of %s does not exist in the code", pd.Name, m.Name),
			})
			continue
		}
		used[i] = true
		p := m.Parameters[i]

		if pd.Type != "" && p.Type != "" && normType(pd.Type) != normType(p.Type) {
			out = append(out, domain.Discrepancy{
				Kind:     domain.KindParamTypeMismatch,
				File:     file,
				Class:    class,
				Method:   m.Name,
				Param:    p.Name,
				Expected: p.Type,
				Actual:   pd.Type,
				Section:  md.Section,
				Line:     pd.Line,
				Message:  fmt.Sprintf("parameter %s of %s is declared as %s but documented as %s", p.Name, m.Name, p.Type, pd.Type),
			})
		}
		if pd.Required != p.Required {
			out = append(out, domain.Discrepancy{
				Kind:     domain.KindParamRequiredMismatch,
				File:     file,
				Class:    class,
				Method:   m.Name,
				Param:    p.Name,
				Expected: requiredWord(p.Required),
				Actual:   requiredWord(pd.Required),
				Section:  md.Section,
				Line:     pd.Line,
				Message:  fmt.Sprintf("parameter %s of %s is %s in code but documented as %s", p.Name, m.Name, requiredWord(p.Required), requiredWord(pd.Required)),
			})
		}
	}

	for i, p := range m.Parameters {
		if used[i] {
			continue
		}
		out = append(out, domain.Discrepancy{
			Kind:    domain.KindUndocumentedParam,
			File:    file,
			Class:   class,
			Method:  m.Name,
			Param:   p.Name,
			Section: md.Section,
			Line:    md.Line,
			Message: fmt.Sprintf("parameter %s of %s is not documented", p.Name, m.Name),
		})
	}
	return out
}

// positional is the name analyzers give the i-th unnamed parameter.
func positional(i int) string {
	return "arg" + strconv.Itoa(i)
}

// paramFit scores how well a documented method describes m: two points
// per documented parameter found with a compatible type, one when only the
// name agrees, minus the difference in parameter counts.
func paramFit(m domain.MethodInfo, md domain.MethodDoc) int {
	if !md.ParamsDeclared {
		return 0
	}
	fit := 0
	for _, pd := range md.Parameters {
		for _, p := range m.Parameters {
			if NormalizeName(p.Name) != NormalizeName(pd.Name) {
				continue
			}
			if pd.Type == "" || p.Type == "" || normType(pd.Type) == normType(p.Type) {
				fit += 2
			} else {
				fit++
			}
			break
		}
	}
	diff := len(md.Parameters) - len(m.Parameters)
	if diff < 0 {
		diff = -diff
	}
	return fit - diff
}

func requiredWord(required bool) string {
	if required {
		return "required"
	}
	return "optional"
}

// matchEndpoints pairs endpoints by normalized path. A missing verb on either
// side matches any verb.
func matchEndpoints(code *domain.CodeStructure, doc *domain.DocStructure) []domain.Discrepancy {
	var out []domain.Discrepancy
	codeEps := code.Endpoints()
	used := make([]bool, len(doc.Endpoints))

	find := func(ep domain.Endpoint, sameMethod bool) int {
		path := domain.NormalizePath(ep.Path)
		method := domain.NormalizeHTTPMethod(ep.Method)
		for i, d := range doc.Endpoints {
			if used[i] || domain.NormalizePath(d.Path) != path {
				continue
			}
			dm := domain.NormalizeHTTPMethod(d.Method)
			if !sameMethod || dm == method || dm == "" || method == "" {
				return i
			}
		}
		return -1
	}

	var rest []domain.Endpoint
	for _, ep := range codeEps {
		if i := find(ep, true); i >= 0 {
			used[i] = true
			continue
		}
		rest = append(rest, ep)
	}
	for _, ep := range rest {
		if i := find(ep, false); i >= 0 {
			used[i] = true
			d := doc.Endpoints[i]
			out = append(out, domain.Discrepancy{
				Kind:     domain.KindEndpointMethodMismatch,
				File:     code.FilePath,
				Method:   ep.Owner,
				Expected: ep.Key(),
				Actual:   d.Key(),
				Section:  d.Owner,
				Line:     d.Line,
				Message:  fmt.Sprintf("endpoint %s is documented as %s", ep.Key(), d.Key()),
			})
			continue
		}
		out = append(out, domain.Discrepancy{
			Kind:     domain.KindUndocumentedEndpoint,
			File:     code.FilePath,
			Method:   ep.Owner,
			Expected: ep.Key(),
			Line:     ep.Line,
			Message:  fmt.Sprintf("endpoint %s (%s) is not documented", ep.Key(), ep.Owner),
		})
	}

	if len(codeEps) == 0 {
		return out
	}
	for i, d := range doc.Endpoints {
		if used[i] {
			continue
		}
		out = append(out, domain.Discrepancy{
			Kind:    domain.KindEndpointMissingInCode,
			Section: d.Owner,
			Line:    d.Line,
			Actual:  d.Key(),
			Message: fmt.Sprintf("documented endpoint %s does not exist in the code", d.Key()),
		})
	}
	return out
}
