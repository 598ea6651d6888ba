package extract

import (
	"bytes"
	"go/ast"
	"go/parser"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "gopkg.in/check.v1"

	"github.com/snapcore/go-pofile"
)

func Test(t *testing.T) {
	TestingT(t)
}

var _ = Suite(extractSuite{})

type extractSuite struct{}

func (extractSuite) TestStringConstant(c *C) {
	for _, test := range []struct {
		code, expected string
	}{
		{`"Hello world"`, "Hello world"},
		{"`Hello world`", "Hello world"},
		{"\"Hello \" + `world`", "Hello world"},
		{`"Line 1\nLine 2"`, "Line 1\nLine 2"},
		{"`Line 1\\nLine 1`", "Line 1\\nLine 1"},
		{`("Hello")`, "Hello"},
		{`("a"+"b")+("c"+"d")`, "abcd"},
	} {
		comment := Commentf("expression: %s", test.code)
		expr, err := parser.ParseExpr(test.code)
		c.Assert(err, IsNil, comment)
		result, err := stringConstant(expr)
		if !c.Check(err, IsNil, comment) {
			continue
		}
		c.Check(result, Equals, test.expected, comment)
	}

	for _, code := range []string{
		"1",
		"'x'",
		"`xyz`+2",
		`"a"-"b"`,
		`("a"+"b")+("c"+42)`,
	} {
		expr, err := parser.ParseExpr(code)
		c.Assert(err, IsNil)
		result, err := stringConstant(expr)
		c.Check(err, NotNil, Commentf("expression %s evaluated to %q", code, result))
	}
}

func (extractSuite) TestParseKeyword(c *C) {
	for _, test := range []struct {
		spec string
		kw   Keyword
	}{
		{"Gettext", Keyword{"Gettext", "", 0, -1, -1}},
		{"NGettext:1,2", Keyword{"NGettext", "", 0, 1, -1}},
		{"PGettext:1c,2", Keyword{"PGettext", "", 1, -1, 0}},
		{"PGettext:2,1c", Keyword{"PGettext", "", 1, -1, 0}},
		{"NPGettext:1c,2,3", Keyword{"NPGettext", "", 1, 2, 0}},
		{"NPGettext:2,1c,3", Keyword{"NPGettext", "", 1, 2, 0}},
		{"i18n.G", Keyword{"G", "i18n", 0, -1, -1}},
		{"i18n.NG:1,2", Keyword{"NG", "i18n", 0, 1, -1}},
	} {
		comment := Commentf("keyword spec: %s", test.spec)
		kw, err := ParseKeyword(test.spec)
		if !c.Check(err, IsNil, comment) {
			continue
		}
		c.Check(*kw, Equals, test.kw, comment)
	}

	for _, spec := range []string{
		"foo:1,2,3",
		"bar:1c,2,3,4",
		"foo:bar",
		"foo:50x,2",
		"foo:c",
		"foo:0",
		"a.b.c",
		"i18n.",
		"",
	} {
		kw, err := ParseKeyword(spec)
		c.Check(err, NotNil, Commentf("spec %q evaluated to %#v", spec, kw))
	}
}

func (extractSuite) TestKeywordMatch(c *C) {
	for _, test := range []struct {
		spec string
		code string
		ok   bool
	}{
		{"Gettext", "Gettext()", true},
		{"Gettext", "foo.Gettext()", true},
		{"Gettext", "foo.bar.Gettext()", true},
		{"Gettext", "NotGettext()", false},
		{"Gettext", "fns[0]()", false},
		{"i18n.G", "G()", false},
		{"i18n.G", "i18n.G()", true},
		{"i18n.G", "foo.i18n.G()", false},
	} {
		comment := Commentf("spec: %s, expr: %s", test.spec, test.code)
		kw, err := ParseKeyword(test.spec)
		c.Assert(err, IsNil, comment)
		expr, err := parser.ParseExpr(test.code)
		c.Assert(err, IsNil, comment)

		c.Check(kw.Match(expr.(*ast.CallExpr)), Equals, test.ok, comment)
	}
}

func (extractSuite) TestKeywordExtract(c *C) {
	for _, test := range []struct {
		spec  string
		code  string
		ok    bool
		entry pofile.Entry
	}{
		{"Gettext", `Gettext("foo\tbar")`, true, pofile.Entry{Msgid: "foo\tbar"}},
		{"Gettext", `Gettext(foo())`, false, pofile.Entry{}},
		{"NGettext:1,2", `NGettext("foo", "bar", n)`, true, pofile.Entry{Msgid: "foo", MsgidPlural: "bar"}},
		{"NGettext:1,2", `NGettext(foo(), "bar", n)`, false, pofile.Entry{}},
		{"NGettext:1,2", `NGettext("foo", bar(), n)`, false, pofile.Entry{}},
		{"PGettext:1c,2", `PGettext("foo", "bar")`, true, pofile.Entry{Msgid: "bar", MsgContext: "foo"}},
		{"NPGettext:1c,2,3", `NPGettext("foo", "bar", "baz", n)`, true, pofile.Entry{Msgid: "bar", MsgidPlural: "baz", MsgContext: "foo"}},
		{"NPGettext:1c,2,3", `NPGettext(foo(), "bar", "baz", n)`, false, pofile.Entry{}},
		{"NPGettext:1c,2,3", `NPGettext("foo", "bar", baz(), n)`, false, pofile.Entry{}},

		// out of bounds argument index
		{"Gettext:1", `Gettext()`, false, pofile.Entry{}},
		{"NGettext:1,2", `NGettext("foo")`, false, pofile.Entry{}},
		{"PGettext:1,2c", `PGettext("foo")`, false, pofile.Entry{}},
	} {
		comment := Commentf("spec: %s, expr: %s", test.spec, test.code)
		kw, err := ParseKeyword(test.spec)
		c.Assert(err, IsNil, comment)
		expr, err := parser.ParseExpr(test.code)
		c.Assert(err, IsNil, comment)

		entry, err := kw.Extract(expr.(*ast.CallExpr))
		c.Check(err == nil, Equals, test.ok, comment)
		c.Check(entry, DeepEquals, test.entry, comment)
	}
}

const fooContent = `package main

func foo() {
	println(Gettext("msg"))
	println(PGettext("context1", "msg"))
	// Not a translator comment
	println(NGettext("single %d", "plural %d", 0))
	println(Gettext(""))
}
`

const barContent = `package main

func bar() {
	// TRANS: bar
	println(PGettext("context2", "msg"))
	// TRANSLATORS: xyz
	println(Gettext("msg"))
}
`

func (extractSuite) TestExtractorParseStream(c *C) {
	var e Extractor
	e.AddDefaultKeywords()
	e.CommentTags = append(e.CommentTags, "TRANSLATORS:", "TRANS:")
	c.Assert(e.parseStream("foo.go", strings.NewReader(fooContent)), IsNil)
	c.Assert(e.parseStream("bar.go", strings.NewReader(barContent)), IsNil)
	c.Check(e.Len(), Equals, 4)

	cat := e.Catalog("")
	c.Check(cat.Header, Equals, "")
	c.Check(cat.Entries, DeepEquals, []pofile.Entry{
		{
			Msgid:             "msg",
			ExtractedComments: []string{"TRANSLATORS: xyz"},
			References:        []string{"foo.go:4 bar.go:7"},
		},
		{
			MsgContext: "context1",
			Msgid:      "msg",
			References: []string{"foo.go:5"},
		},
		{
			Msgid:       "single %d",
			MsgidPlural: "plural %d",
			References:  []string{"foo.go:7"},
			Flags:       []string{"c-format"},
		},
		{
			MsgContext:        "context2",
			Msgid:             "msg",
			ExtractedComments: []string{"TRANS: bar"},
			References:        []string{"bar.go:5"},
		},
	})
}

func (extractSuite) TestExtractorEmptyTagKeepsAllComments(c *C) {
	e := Extractor{CommentTags: []string{""}, NoLocation: true}
	e.AddDefaultKeywords()
	c.Assert(e.parseStream("foo.go", strings.NewReader(fooContent)), IsNil)

	cat := e.Catalog("")
	c.Assert(cat.Entries, HasLen, 3)
	c.Check(cat.Entries[2].ExtractedComments, DeepEquals, []string{"Not a translator comment"})
	c.Check(cat.Entries[2].References, IsNil)
}

func (extractSuite) TestExtractorSortOutput(c *C) {
	e := Extractor{SortOutput: true}
	e.AddDefaultKeywords()
	c.Assert(e.parseStream("foo.go", strings.NewReader(fooContent)), IsNil)
	c.Assert(e.parseStream("bar.go", strings.NewReader(barContent)), IsNil)

	cat := e.Catalog("")
	var keys []string
	for _, entry := range cat.Entries {
		keys = append(keys, entry.Key())
	}
	c.Check(keys, DeepEquals, []string{"msg", "context1\x04msg", "context2\x04msg", "single %d"})
	c.Check(cat.Entries[0].References, DeepEquals, []string{"bar.go:7 foo.go:4"})
}

func (extractSuite) TestExtractorWrapsReferences(c *C) {
	var e Extractor
	e.AddDefaultKeywords()
	long := strings.Repeat("x", 70)
	c.Assert(e.parseStream(long+".go", strings.NewReader(barContent)), IsNil)
	c.Assert(e.parseStream("y.go", strings.NewReader(barContent)), IsNil)

	cat := e.Catalog("")
	c.Check(cat.Entries[1].References, DeepEquals, []string{long + ".go:7", "y.go:7"})
}

func (extractSuite) TestExtractorTemplateRoundTrip(c *C) {
	var e Extractor
	e.AddDefaultKeywords()
	c.Assert(e.parseStream("foo.go", strings.NewReader(fooContent)), IsNil)
	cat := e.Catalog("Messages of foo")

	var buf bytes.Buffer
	c.Assert(pofile.WriteTemplate(&buf, cat), IsNil)

	parsed := pofile.Parse(buf.String())
	c.Check(parsed.Header, Equals, "Messages of foo")
	c.Assert(parsed.Entries, HasLen, 3)
	// msgstr[N] lines read back as empty plural translations
	c.Check(parsed.Entries[2].MsgstrPlural, DeepEquals, []string{"", ""})
	parsed.Entries[2].MsgstrPlural = nil
	c.Check(parsed.Entries, DeepEquals, cat.Entries)
}

func (extractSuite) TestParseFileDirectories(c *C) {
	dir := c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "foo.go"), []byte(fooContent), 0644), IsNil)

	e := Extractor{Directories: []string{c.MkDir(), dir}}
	e.AddDefaultKeywords()
	c.Assert(e.ParseFile("foo.go"), IsNil)
	c.Check(e.Len(), Equals, 3)

	c.Check(e.ParseFile("missing.go"), NotNil)
}
