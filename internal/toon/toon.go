// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// opportunity listings.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/cleanupreducer/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode renders the opportunities of one translation unit in TOON format.
func Encode(file, reduction string, ops []model.Opportunity) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("file: %s", encodeValue(file)))
	parts = append(parts, fmt.Sprintf("reduction: %s", encodeValue(reduction)))

	rows := make([][]string, 0, len(ops))
	for i := range ops {
		op := &ops[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", op.Index),
			op.Function,
			fmt.Sprintf("%d", op.Position),
			collapseWhitespace(op.Parameter),
			fmt.Sprintf("%d", op.Decls),
			fmt.Sprintf("%d", op.Calls),
		})
	}
	parts = append(parts, formatTabular("opportunities",
		[]string{"index", "function", "position", "parameter", "decls", "calls"}, rows))

	return strings.Join(parts, "\n")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
