package repository

import (
	"strings"
)

// likePattern turns a free-text query into a LIKE pattern with wildcards
// escaped. Used with ESCAPE '\'.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// where accumulates AND-ed conditions and their args.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// cursor applies the keyset condition for p on column col and returns the
// ORDER BY / LIMIT tail.
func (w *where) cursor(col string, p Page) string {
	dir := "ASC"
	if p.Descending {
		dir = "DESC"
	}
	if p.LastID > 0 {
		if p.Descending {
			w.add(col+" < ?", p.LastID)
		} else {
			w.add(col+" > ?", p.LastID)
		}
	}
	tail := " ORDER BY " + col + " " + dir
	if p.Size > 0 {
		tail += " LIMIT ?"
	}
	return tail
}

// limitArgs appends the LIMIT argument when the page is bounded.
func (w *where) limitArgs(p Page) []any {
	if p.Size > 0 {
		return append(w.args, p.Size)
	}
	return w.args
}
