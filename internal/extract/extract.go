// Package extract collects translatable messages from Go source files
// into a catalog that can be written as a POT template.
package extract

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/snapcore/go-pofile"
)

var (
	ErrNotString  = errors.New("not a string constant")
	ErrBadKeyword = errors.New("bad keyword")
	ErrOutOfRange = errors.New("argument index out of range")
)

// maxReferenceWidth bounds the length of one "#:" line.
const maxReferenceWidth = 75

// DefaultKeywords name the gettext style functions looked for when no
// keyword is given.
var DefaultKeywords = []string{
	"Gettext:1",
	"NGettext:1,2",
	"PGettext:1c,2",
	"NPGettext:1c,2,3",
}

// stringConstant evaluates a string literal, possibly built by
// concatenating other string literals.
func stringConstant(expr ast.Expr) (string, error) {
	switch val := expr.(type) {
	case *ast.BasicLit:
		if val.Kind != token.STRING {
			return "", ErrNotString
		}
		return strconv.Unquote(val.Value)
	case *ast.BinaryExpr:
		if val.Op != token.ADD {
			return "", ErrNotString
		}
		left, err := stringConstant(val.X)
		if err != nil {
			return "", err
		}
		right, err := stringConstant(val.Y)
		if err != nil {
			return "", err
		}
		return left + right, nil
	case *ast.ParenExpr:
		return stringConstant(val.X)
	}
	return "", ErrNotString
}

// Keyword describes a function whose calls carry translatable strings and
// which of its arguments hold the msgid, msgid_plural and msgctxt. Indexes
// are zero based, -1 when absent.
type Keyword struct {
	name, pkg                      string
	msgid, msgidPlural, msgContext int
}

// ParseKeyword parses a keyword spec of the form [PKG.]FUNC[:ARG,...]
// where each ARG is a one based argument number. The first plain number is
// the msgid, the second the msgid_plural, and one suffixed with "c" the
// msgctxt.
func ParseKeyword(spec string) (*Keyword, error) {
	function, argList, hasArgs := strings.Cut(spec, ":")
	var args []string
	if hasArgs {
		args = strings.Split(argList, ",")
	}

	k := &Keyword{
		name:        function,
		msgid:       0,
		msgidPlural: -1,
		msgContext:  -1,
	}
	if pkg, name, ok := strings.Cut(function, "."); ok {
		if strings.Contains(name, ".") {
			return nil, ErrBadKeyword
		}
		k.pkg, k.name = pkg, name
	}
	if k.name == "" {
		return nil, ErrBadKeyword
	}

	processed := 0
	for _, arg := range args {
		if ctx := strings.TrimSuffix(arg, "c"); ctx != arg {
			val, err := strconv.Atoi(ctx)
			if err != nil {
				return nil, err
			}
			k.msgContext = val - 1
			continue
		}

		val, err := strconv.Atoi(arg)
		if err != nil {
			return nil, err
		}
		switch processed {
		case 0:
			k.msgid = val - 1
		case 1:
			k.msgidPlural = val - 1
		default:
			return nil, ErrBadKeyword
		}
		processed++
	}
	if k.msgid < 0 {
		return nil, ErrOutOfRange
	}

	return k, nil
}

// Match reports whether call is a call of the keyword function.
func (k *Keyword) Match(call *ast.CallExpr) bool {
	var pkg, name string

	switch e := call.Fun.(type) {
	case *ast.Ident:
		name = e.Name
	case *ast.SelectorExpr:
		name = e.Sel.Name
		if ident, ok := e.X.(*ast.Ident); ok {
			pkg = ident.Name
		}
	default:
		return false
	}

	if name != k.name {
		return false
	}
	return k.pkg == "" || k.pkg == pkg
}

func (k *Keyword) argument(call *ast.CallExpr, idx int) (string, error) {
	if idx >= len(call.Args) {
		return "", ErrOutOfRange
	}
	return stringConstant(call.Args[idx])
}

// Extract returns the entry described by the arguments of call. Only the
// message fields of the entry are set.
func (k *Keyword) Extract(call *ast.CallExpr) (e pofile.Entry, err error) {
	if e.Msgid, err = k.argument(call, k.msgid); err != nil {
		return pofile.Entry{}, err
	}
	if k.msgidPlural >= 0 {
		if e.MsgidPlural, err = k.argument(call, k.msgidPlural); err != nil {
			return pofile.Entry{}, err
		}
	}
	if k.msgContext >= 0 {
		if e.MsgContext, err = k.argument(call, k.msgContext); err != nil {
			return pofile.Entry{}, err
		}
	}
	return e, nil
}

type location struct {
	file     string
	line     int
	comments []string
}

// message is an extracted entry with every place it was found at.
type message struct {
	entry pofile.Entry
	locs  []location
}

// Extractor gathers messages over any number of source files.
type Extractor struct {
	Keywords []*Keyword
	// CommentTags selects the comment blocks directly preceding a keyword
	// call that are kept as extracted comments: those starting with one
	// of the tags. An empty tag keeps every block.
	CommentTags []string
	Directories []string
	SortOutput  bool
	NoLocation  bool

	messages []*message
	byKey    map[string]*message
}

// AddDefaultKeywords adds the keywords of DefaultKeywords.
func (e *Extractor) AddDefaultKeywords() {
	for _, spec := range DefaultKeywords {
		kw, err := ParseKeyword(spec)
		if err != nil {
			panic(err)
		}
		e.Keywords = append(e.Keywords, kw)
	}
}

// Len returns the number of distinct messages found so far.
func (e *Extractor) Len() int {
	return len(e.messages)
}

func commentGroupLines(cg *ast.CommentGroup) []string {
	var lines []string
	for _, comment := range cg.List {
		for _, line := range strings.Split(comment.Text, "\n") {
			line = strings.TrimPrefix(line, "//")
			line = strings.TrimPrefix(line, "/*")
			line = strings.TrimSuffix(line, "*/")
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

type visitor struct {
	*Extractor

	fset *token.FileSet
	file *ast.File
}

func (v *visitor) commentsBefore(pos token.Position) []string {
	if len(v.CommentTags) == 0 {
		return nil
	}
	for i := len(v.file.Comments) - 1; i >= 0; i-- {
		cg := v.file.Comments[i]
		if v.fset.Position(cg.End()).Line+1 != pos.Line {
			continue
		}
		lines := commentGroupLines(cg)
		if len(lines) == 0 {
			return nil
		}
		for _, tag := range v.CommentTags {
			if strings.HasPrefix(lines[0], tag) {
				return lines
			}
		}
		return nil
	}
	return nil
}

func (v *visitor) Visit(node ast.Node) ast.Visitor {
	call, ok := node.(*ast.CallExpr)
	if !ok {
		return v
	}

	for _, k := range v.Keywords {
		if !k.Match(call) {
			continue
		}
		entry, err := k.Extract(call)
		if err != nil {
			break
		}
		pos := v.fset.Position(node.Pos())
		v.add(entry, location{
			file:     pos.Filename,
			line:     pos.Line,
			comments: v.commentsBefore(pos),
		})
		break
	}
	return v
}

// add records entry found at loc. An empty msgid would read back as the
// metadata entry, so it is skipped.
func (e *Extractor) add(entry pofile.Entry, loc location) {
	if entry.Msgid == "" {
		return
	}
	if e.byKey == nil {
		e.byKey = make(map[string]*message)
	}
	key := entry.Key()
	msg := e.byKey[key]
	if msg == nil {
		msg = &message{entry: entry}
		e.byKey[key] = msg
		e.messages = append(e.messages, msg)
	} else if msg.entry.MsgidPlural == "" {
		msg.entry.MsgidPlural = entry.MsgidPlural
	}
	msg.locs = append(msg.locs, loc)
}

func (e *Extractor) openFile(filename string) (f *os.File, err error) {
	if len(e.Directories) == 0 || filepath.IsAbs(filename) {
		return os.Open(filename)
	}
	for _, dir := range e.Directories {
		f, err = os.Open(filepath.Join(dir, filename))
		if !os.IsNotExist(err) {
			break
		}
	}
	return f, err
}

func (e *Extractor) parseStream(filename string, r io.Reader) (err error) {
	var v visitor
	v.Extractor = e
	v.fset = token.NewFileSet()
	v.file, err = parser.ParseFile(v.fset, filename, r, parser.ParseComments)
	if err != nil {
		return err
	}
	ast.Walk(&v, v.file)
	return nil
}

// ParseFile extracts the messages of the Go source file filename, looked
// up in Directories when relative.
func (e *Extractor) ParseFile(filename string) error {
	f, err := e.openFile(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return e.parseStream(filename, f)
}

// Catalog returns the messages found so far, in order of first appearance
// or sorted by msgid when SortOutput is set. A message using a printf verb
// is flagged c-format.
func (e *Extractor) Catalog(header string) *pofile.Catalog {
	cat := &pofile.Catalog{
		Header:  header,
		Entries: make([]pofile.Entry, 0, len(e.messages)),
	}
	for _, msg := range e.messages {
		entry := msg.entry
		locs := append([]location(nil), msg.locs...)
		if e.SortOutput {
			sort.SliceStable(locs, func(i, j int) bool {
				return locs[i].file < locs[j].file || locs[i].file == locs[j].file && locs[i].line < locs[j].line
			})
		}

		var positions string
		for _, loc := range locs {
			entry.ExtractedComments = append(entry.ExtractedComments, loc.comments...)
			if e.NoLocation {
				continue
			}
			pos := fmt.Sprintf("%s:%d", loc.file, loc.line)
			if positions != "" && len(positions)+len(pos)+1 > maxReferenceWidth {
				entry.References = append(entry.References, positions)
				positions = ""
			}
			if positions != "" {
				positions += " "
			}
			positions += pos
		}
		if positions != "" {
			entry.References = append(entry.References, positions)
		}
		// FIXME: too simplistic, should check if the call is used as a
		// format argument.
		if strings.Contains(entry.Msgid, "%") {
			entry.Flags = append(entry.Flags, "c-format")
		}
		cat.Entries = append(cat.Entries, entry)
	}

	if e.SortOutput {
		sort.SliceStable(cat.Entries, func(i, j int) bool {
			a, b := &cat.Entries[i], &cat.Entries[j]
			if a.Msgid != b.Msgid {
				return a.Msgid < b.Msgid
			}
			return a.MsgContext < b.MsgContext
		})
	}
	return cat
}
