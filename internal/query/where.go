package query

import (
	"fmt"
	"strings"
)

// Where accumulates SQL predicates joined by AND together with their
// positional arguments ($1, $2, ...).
type Where struct {
	conds []string
	args  []any
}

func (w *Where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *Where) Eq(column string, value any) *Where {
	w.conds = append(w.conds, fmt.Sprintf("%s = %s", column, w.arg(value)))
	return w
}

// HasElement matches rows whose array column contains value.
func (w *Where) HasElement(arrayColumn, value string) *Where {
	w.conds = append(w.conds, fmt.Sprintf("%s = ANY(%s)", w.arg(value), arrayColumn))
	return w
}

// SearchAny is a case-insensitive substring match ORed across text columns
// and the elements of array columns.
func (w *Where) SearchAny(term string, textColumns, arrayColumns []string) *Where {
	placeholder := w.arg("%" + escapeLike(term) + "%")
	ors := make([]string, 0, len(textColumns)+len(arrayColumns))
	for _, col := range textColumns {
		ors = append(ors, fmt.Sprintf("%s ILIKE %s", col, placeholder))
	}
	for _, col := range arrayColumns {
		ors = append(ors, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS elem WHERE elem ILIKE %s)", col, placeholder))
	}
	w.conds = append(w.conds, "("+strings.Join(ors, " OR ")+")")
	return w
}

// SQL renders "WHERE ..." or an empty string when there are no predicates.
func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func (w *Where) Args() []any {
	return w.args
}

// NextArg is the placeholder number the caller should use for the first
// argument appended after the WHERE args (LIMIT/OFFSET).
func (w *Where) NextArg() int {
	return len(w.args) + 1
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
