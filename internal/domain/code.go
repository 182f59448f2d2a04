package domain

import "strings"

// Language tags a source file with the analyzer family that produced it.
type Language string

const (
	LanguageJava    Language = "java"
	LanguagePython  Language = "python"
	LanguageGo      Language = "go"
	LanguageUnknown Language = ""
)

// ParseLanguage maps a user supplied hint ("Java", "py", "golang") to a Language.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "java":
		return LanguageJava
	case "python", "py", "python3":
		return LanguagePython
	case "go", "golang":
		return LanguageGo
	default:
		return LanguageUnknown
	}
}

// CodeStructure is the language-neutral model of one source file.
type CodeStructure struct {
	Language Language    `json:"language"`
	FilePath string      `json:"file_path"`
	Package  string      `json:"package,omitempty"`
	Imports  []string    `json:"imports,omitempty"`
	Classes  []ClassInfo `json:"classes"`
}

// PrimaryClass returns the first declared class, falling back to the module
// class that holds free functions. Nil when the file declares nothing.
func (c *CodeStructure) PrimaryClass() *ClassInfo {
	for i := range c.Classes {
		if !c.Classes[i].Module {
			return &c.Classes[i]
		}
	}
	if len(c.Classes) > 0 {
		return &c.Classes[0]
	}
	return nil
}

// ClassNames lists every class name including module classes.
func (c *CodeStructure) ClassNames() []string {
	names := make([]string, 0, len(c.Classes))
	for _, cl := range c.Classes {
		names = append(names, cl.Name)
	}
	return names
}

// MethodCount counts methods across all classes.
func (c *CodeStructure) MethodCount() int {
	n := 0
	for _, cl := range c.Classes {
		n += len(cl.Methods)
	}
	return n
}

// Endpoints returns the HTTP endpoints declared anywhere in the file.
func (c *CodeStructure) Endpoints() []Endpoint {
	var out []Endpoint
	for _, cl := range c.Classes {
		for _, m := range cl.Methods {
			if m.IsAPIEndpoint {
				out = append(out, Endpoint{Method: m.HTTPMethod, Path: m.Path, Line: m.LineStart, Owner: m.Name})
			}
		}
	}
	return out
}

// ClassInfo describes a class, interface, struct or module scope.
// Module is true for the synthetic class holding package-level functions.
type ClassInfo struct {
	Name         string           `json:"name"`
	Doc          string           `json:"doc,omitempty"`
	Modifiers    []string         `json:"modifiers,omitempty"`
	Superclasses []string         `json:"superclasses,omitempty"`
	Methods      []MethodInfo     `json:"methods"`
	Fields       []string         `json:"fields,omitempty"`
	Annotations  []AnnotationInfo `json:"annotations,omitempty"`
	IsController bool             `json:"is_controller"`
	Module       bool             `json:"module,omitempty"`
	LineStart    int              `json:"line_start"`
	LineEnd      int              `json:"line_end"`
}

// MethodInfo describes one method or function.
type MethodInfo struct {
	Name          string           `json:"name"`
	Doc           string           `json:"doc,omitempty"`
	Modifiers     []string         `json:"modifiers,omitempty"`
	ReturnType    string           `json:"return_type,omitempty"`
	Parameters    []ParameterInfo  `json:"parameters"`
	Annotations   []AnnotationInfo `json:"annotations,omitempty"`
	Exceptions    []string         `json:"exceptions,omitempty"`
	IsAPIEndpoint bool             `json:"is_api_endpoint"`
	HTTPMethod    string           `json:"http_method,omitempty"`
	Path          string           `json:"path,omitempty"`
	LineStart     int              `json:"line_start"`
	LineEnd       int              `json:"line_end"`
}

// HasModifier reports whether the method carries the given modifier.
func (m MethodInfo) HasModifier(mod string) bool {
	for _, x := range m.Modifiers {
		if x == mod {
			return true
		}
	}
	return false
}

// ParameterInfo is a single declared parameter. Required is false when the
// declaration supplies a default or an optional type.
type ParameterInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Default  string `json:"default,omitempty"`
	Required bool   `json:"required"`
}

// AnnotationInfo normalizes Java annotations, Python decorators and Go
// comment directives.
type AnnotationInfo struct {
	Name string            `json:"name"`
	Args map[string]string `json:"args,omitempty"`
}

// Arg returns the first argument present under any of keys.
func (a AnnotationInfo) Arg(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := a.Args[k]; ok {
			return v, true
		}
	}
	return "", false
}

// IsOptionalType reports whether a declared type admits absence
// (Optional[T], T | None, Nullable, T?).
func IsOptionalType(t string) bool {
	t = strings.ReplaceAll(strings.TrimSpace(t), " ", "")
	switch {
	case t == "":
		return false
	case strings.HasPrefix(t, "Optional[") || strings.HasPrefix(t, "typing.Optional["):
		return true
	case strings.Contains(t, "|None") || strings.HasPrefix(t, "None|"):
		return true
	case strings.HasPrefix(t, "Nullable") || strings.HasSuffix(t, "?"):
		return true
	}
	return false
}
