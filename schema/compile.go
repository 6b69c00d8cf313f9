package schema

import (
	"fmt"
	"strings"

	"github.com/retrofmt/gamerec/format"
)

// Compile compiles plain-grammar layout text into a Layout.
//
// Lines are processed in order: blank and comment-only lines are skipped,
// byte-order statements update the layout's byte order (little-endian when
// none is given), and variable statements append fields in source order.
// Compilation aborts on the first bad line; there are no partial layouts.
//
// Returns:
//   - *Layout: Compiled layout
//   - error: Grammar errors annotated with the line number, or layout
//     validation errors (duplicate names, empty layout)
func Compile(source string) (*Layout, error) {
	order := format.OrderLittle
	var fields []Field

	for i, line := range strings.Split(source, "\n") {
		stmt, comment := splitComment(line)
		if stmt == "" {
			continue
		}

		parsed, err := ParseFieldLine(stmt)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		if parsed.Order != 0 {
			order = parsed.Order
			continue
		}

		field := *parsed.Field
		field.Comment = comment
		fields = append(fields, field)
	}

	return FromFields(order, fields)
}
