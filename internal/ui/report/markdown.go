package report

import (
	"fmt"
	"strings"

	"symtab/internal/engine/scope"
)

// Markdown renders tables as markdown sections, one table per section with
// a row per binding.
func Markdown(p *Printer, tables []*scope.Table) string {
	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("### %s\n\n", p.Label(t)))
		b.WriteString(fmt.Sprintf("- id: %d\n", t.ID()))
		b.WriteString(fmt.Sprintf("- label: %s\n", t.Label()))
		b.WriteString(fmt.Sprintf("- bindings: %d\n\n", t.Len()))

		dump := t.Dump()
		if len(dump) == 0 {
			b.WriteString("_empty_\n")
			continue
		}
		b.WriteString("| Bucket | Index | Name | Type |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, bucket := range dump {
			for j, sym := range bucket.Symbols {
				b.WriteString(fmt.Sprintf("| %d | %d | `%s` | %s |\n", bucket.Index, j, escapeCell(sym.Name), escapeCell(sym.Type)))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
