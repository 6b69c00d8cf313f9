package schema

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/retrofmt/gamerec/binpack"
	"github.com/retrofmt/gamerec/errs"
	"github.com/retrofmt/gamerec/format"
)

// eofSentinel marks the end-of-record statement in the offset grammar.
const eofSentinel = "EOF"

// OffsetStatement is one parsed offset-grammar line: a byte position and
// the unparsed remainder of the declaration. The remainder is opaque at
// this stage; it is handed to the plain field grammar during lowering.
// Decl equal to "EOF" marks the end of the record.
type OffsetStatement struct {
	Offset  uint64
	Decl    string
	Comment string
	Line    int
}

// IsEOF reports whether the statement is the end-of-record sentinel.
func (s OffsetStatement) IsEOF() bool {
	return s.Decl == eofSentinel
}

// OffsetLine is the parsed form of one offset-grammar line: either a
// byte-order statement (Order non-zero) or an offset statement.
type OffsetLine struct {
	Order byte
	Stmt  *OffsetStatement
}

type offsetLine struct {
	Order *string     `parser:"  @ByteOrder"`
	Stmt  *offsetStmt `parser:"| @@"`
}

type offsetStmt struct {
	Offset string `parser:"@Offset"`
	Decl   string `parser:"@Rest"`
}

var offsetLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Offset", Pattern: `0[xX][0-9A-Fa-f]+`},
	{Name: "ByteOrder", Pattern: `[@=<>!]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Rest", Pattern: `[^#\n]+`},
})

var offsetParser = participle.MustBuild[offsetLine](
	participle.Lexer(offsetLexer),
	participle.Elide("Whitespace", "Comment"),
)

// ParseOffsetLine parses one non-empty offset-grammar line. The remainder
// after the offset is not parsed here; it is forwarded verbatim, minus the
// trailing comment, to the field grammar during lowering.
func ParseOffsetLine(line string) (*OffsetLine, error) {
	stmt, comment := splitComment(line)

	parsed, err := offsetParser.ParseString("", stmt)
	if err != nil {
		return nil, classifyParseError(err, stmt)
	}

	if parsed.Order != nil {
		return &OffsetLine{Order: (*parsed.Order)[0]}, nil
	}

	offset, err := strconv.ParseUint(parsed.Stmt.Offset, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errs.ErrBadOffset, parsed.Stmt.Offset)
	}

	return &OffsetLine{Stmt: &OffsetStatement{
		Offset:  offset,
		Decl:    strings.TrimSpace(parsed.Stmt.Decl),
		Comment: comment,
	}}, nil
}

// loweredLine is one emitted plain-grammar line with its alignment columns.
type loweredLine struct {
	typ     string // TYPE or TYPE[COUNT], count reattached without spaces
	name    string
	comment string // byte-range comment, plus any user comment
}

// LowerOffsets rewrites offset-grammar text into equivalent plain-grammar
// text.
//
// Statements are sorted by ascending offset (stable, so source order breaks
// ties), gaps between declared fields are filled with synthetic
// "unknown[N] unk{i}" fields, and every emitted line is annotated with its
// byte range. Processing stops at the EOF sentinel; without one the record
// ends at the last declared field.
//
// Overlapping declarations are rejected: a statement whose offset lies
// inside the previous field's span, and an EOF offset before the last
// field's end, both fail with errs.ErrFieldOverlap.
//
// Returns:
//   - string: Plain-grammar source, byte order preserved, columns aligned
//   - error: Grammar, offset, or overlap errors annotated with line numbers
func LowerOffsets(source string) (string, error) {
	order := format.OrderLittle
	var statements []OffsetStatement

	for i, line := range strings.Split(source, "\n") {
		if stmt, _ := splitComment(line); stmt == "" {
			continue
		}

		parsed, err := ParseOffsetLine(line)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", i+1, err)
		}

		if parsed.Order != 0 {
			order = parsed.Order
			continue
		}

		parsed.Stmt.Line = i + 1
		statements = append(statements, *parsed.Stmt)
	}

	if len(statements) == 0 {
		return "", errs.ErrEmptyLayout
	}

	slices.SortStableFunc(statements, func(a, b OffsetStatement) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		default:
			return 0
		}
	})

	// Width of the widest offset, for uniform byte-range comments.
	offsetWidth := len(strconv.FormatUint(statements[len(statements)-1].Offset, 16))

	var (
		position uint64
		unknowns int
		lines    []loweredLine
	)

	for _, stmt := range statements {
		if stmt.Offset > position {
			unknowns++
			lines = append(lines, loweredLine{
				typ:     fmt.Sprintf("unknown[%d]", stmt.Offset-position),
				name:    fmt.Sprintf("unk%d", unknowns),
				comment: byteRange(position, stmt.Offset-1, offsetWidth),
			})
			position = stmt.Offset
		} else if stmt.Offset < position {
			return "", fmt.Errorf("line %d: %w: offset 0x%x lies inside the previous field (ends at 0x%x)",
				stmt.Line, errs.ErrFieldOverlap, stmt.Offset, position-1)
		}

		if stmt.IsEOF() {
			break
		}

		parsed, err := ParseFieldLine(stmt.Decl)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", stmt.Line, err)
		}
		if parsed.Field == nil {
			return "", fmt.Errorf("line %d: %w: byte-order marker after offset", stmt.Line, errs.ErrSyntax)
		}

		size, err := binpack.CalcSize(parsed.Field.SizeAndType)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", stmt.Line, err)
		}

		comment := byteRange(position, position+uint64(size)-1, offsetWidth)
		if stmt.Comment != "" {
			comment += ": " + stmt.Comment
		}

		tokens := strings.Fields(stmt.Decl)
		lines = append(lines, loweredLine{
			typ:     strings.Join(tokens[:len(tokens)-1], ""),
			name:    tokens[len(tokens)-1],
			comment: comment,
		})
		position += uint64(size)
	}

	maxTyp, maxName := 0, 0
	for _, l := range lines {
		maxTyp = max(maxTyp, len(l.typ))
		maxName = max(maxName, len(l.name))
	}

	var sb strings.Builder
	sb.WriteByte(order)
	sb.WriteByte('\n')
	for _, l := range lines {
		fmt.Fprintf(&sb, "%-*s %-*s %s\n", maxTyp, l.typ, maxName, l.name, l.comment)
	}

	return sb.String(), nil
}

// byteRange formats an inclusive byte range comment like "# 0x04-0x13".
func byteRange(start, end uint64, width int) string {
	return fmt.Sprintf("# 0x%0*x-0x%0*x", width, start, width, end)
}

// CompileOffsets compiles offset-grammar layout text into a Layout by
// lowering it to plain-grammar text and compiling that. Both grammars
// therefore share one packing implementation and produce identical
// layouts for equivalent declarations.
func CompileOffsets(source string) (*Layout, error) {
	lowered, err := LowerOffsets(source)
	if err != nil {
		return nil, err
	}

	return Compile(lowered)
}
