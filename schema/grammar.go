package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/retrofmt/gamerec/errs"
	"github.com/retrofmt/gamerec/format"
)

// Statement is the parsed form of one plain-grammar line: either a
// byte-order statement (Order non-zero) or a variable statement (Field
// non-nil).
type Statement struct {
	Order byte
	Field *Field
}

// fieldLine is the participle grammar for one plain-grammar line.
type fieldLine struct {
	Order *string    `parser:"  @ByteOrder"`
	Decl  *fieldDecl `parser:"| @@"`
}

// fieldDecl is a variable declaration: TYPE NAME or TYPE[COUNT] NAME.
// The count binds to the type, never to the name.
type fieldDecl struct {
	Type  string  `parser:"@Ident"`
	Count *string `parser:"@Count?"`
	Name  string  `parser:"@Ident"`
}

var fieldLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "ByteOrder", Pattern: `[@=<>!]`},
	{Name: "Count", Pattern: `\[\d+\]`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var fieldParser = participle.MustBuild[fieldLine](
	participle.Lexer(fieldLexer),
	participle.Elide("Whitespace", "Comment"),
)

// ParseFieldLine parses one non-empty plain-grammar line into a Statement.
// The line must not span multiple lines; comments are ignored.
//
// Returns:
//   - *Statement: Parsed byte-order or variable statement
//   - error: errs.ErrLexical for unrecognized tokens, errs.ErrSyntax for
//     token sequences matching no grammar rule
func ParseFieldLine(line string) (*Statement, error) {
	parsed, err := fieldParser.ParseString("", line)
	if err != nil {
		return nil, classifyParseError(err, line)
	}

	if parsed.Order != nil {
		return &Statement{Order: (*parsed.Order)[0]}, nil
	}

	decl := parsed.Decl
	field := &Field{Name: decl.Name}

	tag, elementary := format.KeywordTag(decl.Type)
	if !elementary {
		// User-defined type: stored as opaque bytes, decoded by a
		// transform registered under the type keyword.
		tag = format.TagBytes
		field.CustomType = decl.Type
	}

	if decl.Count != nil {
		count := strings.TrimSuffix(strings.TrimPrefix(*decl.Count, "["), "]")
		field.SizeAndType = count + string(tag)
	} else {
		field.SizeAndType = string(tag)
	}

	return &Statement{Field: field}, nil
}

// classifyParseError maps participle errors onto the layout error taxonomy:
// lexer failures are lexical errors, everything else is a syntax error.
func classifyParseError(err error, line string) error {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return fmt.Errorf("%w: %s in %q", errs.ErrLexical, lexErr.Message(), line)
	}

	var parseErr participle.Error
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s in %q", errs.ErrSyntax, parseErr.Message(), line)
	}

	return fmt.Errorf("%w: %v in %q", errs.ErrSyntax, err, line)
}

// splitComment splits a source line into its statement text and trailing
// comment. The comment is returned without the leading '#', trimmed; both
// halves are whitespace-trimmed.
func splitComment(line string) (stmt, comment string) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return strings.TrimSpace(line[:i]), strings.TrimSpace(strings.TrimPrefix(line[i:], "#"))
	}

	return strings.TrimSpace(line), ""
}
