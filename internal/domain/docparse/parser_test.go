package docparse_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/docsync/internal/domain"
	"github.com/openkraft/docsync/internal/domain/docparse"
)

func parseFixture(t *testing.T, name string) *domain.DocStructure {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	doc, err := docparse.Default().Parse(string(data))
	require.NoError(t, err)
	return doc
}

func methodByName(t *testing.T, doc *domain.DocStructure, name string) domain.MethodDoc {
	t.Helper()
	for _, m := range doc.Methods {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("method %q not found in %v", name, doc.Methods)
	return domain.MethodDoc{}
}

func TestParse_RussianClassDocument(t *testing.T) {
	doc := parseFixture(t, "calculator.adoc")

	assert.Equal(t, "Класс Calculator", doc.Title)
	assert.Equal(t, "Calculator", doc.ClassName)
	assert.Equal(t, domain.LanguagePython, doc.Language)
	assert.Equal(t, "ru", doc.Attributes["lang"])
	assert.Contains(t, doc.Attributes, "toc")

	assert.Equal(t, []string{"Класс Calculator", "Методы", "Метод add", "Метод divide", "Примеры"}, doc.SectionTitles())
	assert.Equal(t, 1, doc.Sections[0].Level)
	assert.Equal(t, -1, doc.Sections[0].Parent)
	assert.Equal(t, 0, doc.Sections[1].Parent)
	assert.Equal(t, 1, doc.Sections[2].Parent)
	assert.Equal(t, 1, doc.Sections[3].Parent)

	require.Len(t, doc.Methods, 2)
	add := methodByName(t, doc, "add")
	assert.Equal(t, "Метод add", add.Section)
	assert.Equal(t, 9, add.Line)
	assert.Equal(t, "Складывает два числа.", add.Description)
	assert.True(t, add.ParamsDeclared)
	require.Len(t, add.Parameters, 2)
	assert.Equal(t, "a", add.Parameters[0].Name)
	assert.Equal(t, "int", add.Parameters[0].Type)
	assert.True(t, add.Parameters[0].Required)
	assert.Equal(t, 15, add.Parameters[0].Line)
	assert.Equal(t, "b", add.Parameters[1].Name)
	assert.Equal(t, "сумму аргументов", add.Returns)

	div := methodByName(t, doc, "divide")
	require.Len(t, div.Parameters, 3)
	assert.Equal(t, "c", div.Parameters[2].Name)
	assert.Empty(t, div.Parameters[2].Type)
	assert.False(t, div.Parameters[2].Required)
	assert.Equal(t, []string{"ZeroDivisionError"}, div.Exceptions)

	require.Len(t, doc.CodeBlocks(), 2)
	assert.Equal(t, "python", doc.CodeBlocks()[0].Language)
	assert.Equal(t, "Метод add", doc.CodeBlocks()[0].Section)
	assert.Contains(t, doc.CodeBlocks()[1].Content, "calc.add(1, 2)")

	assert.Contains(t, doc.Anchors, "_методы")
	require.Len(t, doc.Links, 2)
	assert.Equal(t, domain.Link{Kind: domain.LinkInternal, Target: "_методы", Line: 46}, doc.Links[0])
	assert.Equal(t, domain.LinkExternal, doc.Links[1].Kind)
	assert.Equal(t, "https://example.com/docs/calculator", doc.Links[1].Target)
	assert.Empty(t, doc.Endpoints)
}

func TestParse_ControllerDocument(t *testing.T) {
	doc := parseFixture(t, "user_controller.adoc")

	assert.Equal(t, "UserController", doc.ClassName)
	assert.Equal(t, domain.LanguageUnknown, doc.Language)
	assert.Len(t, doc.Sections, 5)

	require.Len(t, doc.Methods, 2)
	get := methodByName(t, doc, "getUser")
	assert.Equal(t, "Returns a user by id.", get.Description)
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, domain.ParamDoc{Name: "id", Type: "Long", Description: "user identifier", Required: true, Line: 14}, get.Parameters[0])

	create := methodByName(t, doc, "createUser")
	assert.True(t, create.ParamsDeclared)
	require.Len(t, create.Parameters, 2)
	assert.Equal(t, "id", create.Parameters[0].Name)
	assert.Equal(t, "Long", create.Parameters[0].Type)
	assert.Equal(t, "name", create.Parameters[1].Name)
	assert.Equal(t, "String", create.Parameters[1].Type)

	require.Len(t, doc.Tables, 1)
	assert.Equal(t, 3, doc.Tables[0].Columns)
	assert.Equal(t, [][]string{
		{"Name", "Type", "Description"},
		{"id", "Long", "identifier"},
		{"name", "String", "display name"},
	}, doc.Tables[0].Rows)

	require.Len(t, doc.Endpoints, 2)
	assert.Equal(t, "GET /users/{}", doc.Endpoints[0].Key())
	assert.Equal(t, "getUser", doc.Endpoints[0].Owner)
	assert.Equal(t, "POST /users", doc.Endpoints[1].Key())

	assert.Contains(t, doc.Anchors, "methods")
	var targets []string
	for _, l := range doc.Links {
		targets = append(targets, l.Target)
	}
	assert.Equal(t, []string{"methods", "missing-anchor"}, targets)
}

func TestParse_SectionCountMatchesHeadings(t *testing.T) {
	for n := 0; n <= 12; n++ {
		var b strings.Builder
		for i := 0; i < n; i++ {
			level := 1 + i%4
			fmt.Fprintf(&b, "%s Heading %d\n\nSome text for %d.\n\n", strings.Repeat("=", level), i, i)
		}
		doc, err := docparse.Default().Parse(b.String())
		require.NoError(t, err)
		assert.Len(t, doc.Sections, n, "headings=%d", n)
	}
}

func TestParse_HeadingsInsideBlocksAreContent(t *testing.T) {
	src := "= Title\n\n----\n== not a heading\n----\n\n....\n=== nor this\n....\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)

	assert.Len(t, doc.Sections, 1)
	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, domain.BlockListing, doc.Blocks[0].Kind)
	assert.Equal(t, "== not a heading", doc.Blocks[0].Content)
	assert.Equal(t, domain.BlockLiteral, doc.Blocks[1].Kind)
}

func TestParse_CommentBlocksAreDropped(t *testing.T) {
	src := "= Title\n\n////\n== hidden\n////\n\n// a line comment\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)
	assert.Len(t, doc.Sections, 1)
	assert.Empty(t, doc.Blocks)
}

func TestParse_FencedBlockLanguage(t *testing.T) {
	src := "= Service\n\n```java\npublic class Service {}\n```\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)

	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, domain.BlockFenced, doc.Blocks[0].Kind)
	assert.Equal(t, "java", doc.Blocks[0].Language)
	assert.True(t, doc.Blocks[0].IsCode())
	assert.Equal(t, domain.LanguageJava, doc.Language)
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"header without space", "= Title\n\n==Broken\n", 3},
		{"header too deep", "= Title\n\n======= Seven\n", 3},
		{"unterminated listing", "= Title\n\n----\ncode\n", 3},
		{"unterminated fence", "= Title\n\n```go\nfunc x() {}\n", 3},
		{"unterminated table", "= Title\n\n|===\n|a |b\n", 3},
		{"row with extra cells", "= Title\n\n|===\n|a |b\n|c |d |e\n|===\n", 5},
		{"row with missing cells", "= Title\n\n|===\n|a |b\n|c\n|===\n", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := docparse.Default().Parse(tt.src)
			require.Error(t, err)
			var syn *domain.SyntaxError
			require.True(t, errors.As(err, &syn), "got %T", err)
			assert.Equal(t, tt.line, syn.Line)
			assert.NotEmpty(t, syn.Reason)
		})
	}
}

func TestParse_TableColumnsFromAttribute(t *testing.T) {
	src := "= T\n\n[cols=\"1,2\"]\n|===\n|a\n|b\n|c |d\n|===\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, 2, doc.Tables[0].Columns)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, doc.Tables[0].Rows)
}

func TestParse_EscapedPipeStaysInCell(t *testing.T) {
	src := "= T\n\n|===\n|a \\| b |c\n|===\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, [][]string{{"a | b", "c"}}, doc.Tables[0].Rows)
}

func TestParse_Lists(t *testing.T) {
	src := "= T\n\n* one\n** nested\n. first\n. second\n- dash\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)

	require.Len(t, doc.Lists, 5)
	assert.Equal(t, 1, doc.Lists[0].Depth)
	assert.Equal(t, 2, doc.Lists[1].Depth)
	assert.True(t, doc.Lists[2].Ordered)
	assert.Equal(t, "second", doc.Lists[3].Text)
	assert.False(t, doc.Lists[4].Ordered)
}

func TestParse_ClassNameSources(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"class keyword in title", "= Documentation for class OrderService\n", "OrderService"},
		{"identifier title", "= payment_gateway\n", "payment_gateway"},
		{"generic title ignored", "= README\n\nNothing here.\n", ""},
		{"introduction mention", "= Orders overview\n\nThe class `OrderRepository` stores orders.\n", "OrderRepository"},
		{"code block declaration", "= Orders guide\n\n[source,java]\n----\npublic class OrderMapper {\n}\n----\n", "OrderMapper"},
		{"go struct", "= Storage notes\n\n[source,go]\n----\ntype BlobStore struct {\n}\n----\n", "BlobStore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := docparse.Default().Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.ClassName)
		})
	}
}

func TestParse_JavadocStyleTags(t *testing.T) {
	src := `= PaymentService

== Methods

=== charge

Charges a card.

@param amount the amount in cents
@param currency optional currency code
@return the receipt
@throws PaymentException when declined
`
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)

	m := methodByName(t, doc, "charge")
	assert.Equal(t, "Charges a card.", m.Description)
	require.Len(t, m.Parameters, 2)
	assert.Equal(t, "amount", m.Parameters[0].Name)
	assert.True(t, m.Parameters[0].Required)
	assert.False(t, m.Parameters[1].Required)
	assert.Equal(t, "the receipt", m.Returns)
	assert.Equal(t, []string{"PaymentException"}, m.Exceptions)
}

func TestParse_SignatureFromCodeBlock(t *testing.T) {
	src := "= Class Repo\n\n== Methods\n\n=== save\n\nStores an entity.\n\n" +
		"[source,python]\n----\ndef save(self, entity: Entity, flush: bool = False) -> None:\n    pass\n----\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)

	m := methodByName(t, doc, "save")
	assert.True(t, m.ParamsDeclared)
	require.Len(t, m.Parameters, 2)
	assert.Equal(t, domain.ParamDoc{Name: "entity", Type: "Entity", Required: true}, m.Parameters[0])
	assert.Equal(t, "flush", m.Parameters[1].Name)
	assert.False(t, m.Parameters[1].Required)
}

func TestParse_NoContainerUsesAllSubsections(t *testing.T) {
	src := "= Class Cache\n\n== get(key)\n\nReads a key.\n\n== Usage\n\nCall get.\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)

	require.Len(t, doc.Methods, 1)
	assert.Equal(t, "get", doc.Methods[0].Name)
	require.Len(t, doc.Methods[0].Parameters, 1)
	assert.Equal(t, "key", doc.Methods[0].Parameters[0].Name)
}

func TestParse_EndpointFromPathAndMethodLines(t *testing.T) {
	src := "= Orders API\n\n== Endpoints\n\n=== List orders\n\nMethod: GET\nPath: /orders\n\n=== Delete order\n\n`DELETE /orders/:id`\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)

	require.Len(t, doc.Endpoints, 2)
	assert.Equal(t, "GET /orders", doc.Endpoints[0].Key())
	assert.Equal(t, "DELETE /orders/{}", doc.Endpoints[1].Key())
}

func TestParse_EmptyInput(t *testing.T) {
	doc, err := docparse.Default().Parse("")
	require.NoError(t, err)
	assert.Empty(t, doc.Sections)
	assert.Empty(t, doc.Methods)
	assert.Equal(t, "", doc.Title)
}

func TestNew_InvalidPattern(t *testing.T) {
	cfg := domain.DefaultParsingConfig()
	cfg.MethodPatterns = append(cfg.MethodPatterns, domain.MethodPattern{Name: "bad", Pattern: "(", Target: domain.TargetTitle})
	_, err := docparse.New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestSectionID(t *testing.T) {
	assert.Equal(t, "_getting_started", docparse.SectionID("Getting Started"))
	assert.Equal(t, "_методы_класса", docparse.SectionID("Методы класса"))
}

func TestParse_SiblingSectionsKeepOverloads(t *testing.T) {
	src := "= Class Calculator\n\n== Methods\n\n=== add(int a, int b)\n\nAdds ints.\n\n=== add(double a, double b)\n\nAdds doubles.\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)

	require.Len(t, doc.Methods, 2)
	assert.Equal(t, "add", doc.Methods[0].Name)
	assert.Equal(t, "add", doc.Methods[1].Name)
	assert.Equal(t, "add(int a, int b)", doc.Methods[0].Section)
	assert.Equal(t, "add(double a, double b)", doc.Methods[1].Section)
}

func TestParse_NestedRepeatOfMethodNameIsNotANewMethod(t *testing.T) {
	src := "= Class Cache\n\n== Methods\n\n=== get(key)\n\nReads a key.\n\n==== get(key)\n\nSame call, shown again.\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)

	require.Len(t, doc.Methods, 1)
	assert.Equal(t, "get(key)", doc.Methods[0].Section)
}

func TestParse_BareLowercaseHeadingNeedsContainerOrSignature(t *testing.T) {
	src := "= Class Cache\n\n== get(key)\n\nReads a key.\n\n== limitations\n\nNot thread safe.\n\n== retries\n\nThree attempts.\n"
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)

	require.Len(t, doc.Methods, 1)
	assert.Equal(t, "get", doc.Methods[0].Name)

	withContainer := "= Class Cache\n\n== Methods\n\n=== retries\n\nSets the retry count.\n"
	doc, err = docparse.Default().Parse(withContainer)
	require.NoError(t, err)
	require.Len(t, doc.Methods, 1)
	assert.Equal(t, "retries", doc.Methods[0].Name)
}
