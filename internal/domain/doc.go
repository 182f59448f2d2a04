package domain

// DocStructure is the parsed form of one documentation file.
type DocStructure struct {
	Title      string            `json:"title"`
	ClassName  string            `json:"class_name,omitempty"`
	Language   Language          `json:"language,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Sections   []Section         `json:"sections"`
	Blocks     []Block           `json:"blocks,omitempty"`
	Tables     []Table           `json:"tables,omitempty"`
	Lists      []ListItem        `json:"lists,omitempty"`
	Anchors    []string          `json:"anchors,omitempty"`
	Links      []Link            `json:"links,omitempty"`
	Methods    []MethodDoc       `json:"methods"`
	Endpoints  []Endpoint        `json:"endpoints,omitempty"`
	Lines      []string          `json:"-"`
}

// Section is one heading and the text under it. Body runs until the next
// heading of equal or shallower level; Own stops at the first nested heading.
// Parent is the index of the enclosing section or -1.
type Section struct {
	Title  string `json:"title"`
	Level  int    `json:"level"`
	Line   int    `json:"line"`
	Parent int    `json:"parent"`
	Body   string `json:"body"`
	Own    string `json:"-"`
}

// BlockKind distinguishes delimited blocks.
type BlockKind string

const (
	BlockListing BlockKind = "listing"
	BlockLiteral BlockKind = "literal"
	BlockExample BlockKind = "example"
	BlockPass    BlockKind = "passthrough"
	BlockSidebar BlockKind = "sidebar"
	BlockQuote   BlockKind = "quote"
	BlockFenced  BlockKind = "fenced"
	BlockComment BlockKind = "comment"
)

// Block is a delimited block. Language is set for source blocks.
type Block struct {
	Kind     BlockKind `json:"kind"`
	Language string    `json:"language,omitempty"`
	Line     int       `json:"line"`
	Section  string    `json:"section,omitempty"`
	Content  string    `json:"content"`
}

// IsCode reports whether the block holds source code.
func (b Block) IsCode() bool {
	return b.Language != "" || b.Kind == BlockListing || b.Kind == BlockFenced
}

// Table is a |=== delimited table.
type Table struct {
	Line    int        `json:"line"`
	Columns int        `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ListItem is one list entry. Marker keeps the raw bullet ("*", "-", ".", "1.").
type ListItem struct {
	Line    int    `json:"line"`
	Marker  string `json:"marker"`
	Depth   int    `json:"depth"`
	Ordered bool   `json:"ordered"`
	Text    string `json:"text"`
}

// LinkKind separates cross references from URLs.
type LinkKind string

const (
	LinkInternal LinkKind = "internal"
	LinkExternal LinkKind = "external"
)

// Link is a cross reference or URL found in prose.
type Link struct {
	Kind   LinkKind `json:"kind"`
	Target string   `json:"target"`
	Line   int      `json:"line"`
}

// MethodDoc is a method described by the documentation.
// ParamsDeclared is true when the section listed parameters explicitly.
type MethodDoc struct {
	Name           string     `json:"name"`
	Section        string     `json:"section"`
	Line           int        `json:"line"`
	Description    string     `json:"description,omitempty"`
	Parameters     []ParamDoc `json:"parameters,omitempty"`
	ParamsDeclared bool       `json:"params_declared"`
	Returns        string     `json:"returns,omitempty"`
	Exceptions     []string   `json:"exceptions,omitempty"`
}

// ParamDoc is a documented parameter.
type ParamDoc struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Line        int    `json:"line,omitempty"`
}

// SectionTitles lists headings in document order.
func (d *DocStructure) SectionTitles() []string {
	out := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		out = append(out, s.Title)
	}
	return out
}

// CodeBlocks returns blocks that hold source code.
func (d *DocStructure) CodeBlocks() []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.IsCode() {
			out = append(out, b)
		}
	}
	return out
}
