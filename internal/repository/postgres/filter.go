package postgres

import (
	"strconv"
	"strings"

	"docvault/internal/repository"
)

// whereBuilder assembles a parameterized WHERE clause from independently
// optional conditions. Conditions are AND-combined; placeholders are
// numbered in the order arguments are claimed, so the builder's args slice
// lines up with the final SQL.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) placeholder(arg any) string {
	b.args = append(b.args, arg)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *whereBuilder) add(cond string) {
	b.conds = append(b.conds, cond)
}

// clause renders the assembled conditions as a WHERE fragment (leading
// space included), or an empty string when nothing was added.
func (b *whereBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// buildDocumentWhere translates a DocumentFilter into SQL. The visibility
// scope always comes first: admins get no scope clause, everyone else is
// restricted to public rows plus their own. Keyword and tag conditions are
// substring matches, case-insensitive for the keyword; tags OR across the
// requested labels, mirroring the flat comma-separated storage shape.
func buildDocumentWhere(f repository.DocumentFilter) *whereBuilder {
	b := &whereBuilder{}

	if !f.Viewer.IsAdmin() {
		b.add("(d.is_public OR d.upload_user_id = " + b.placeholder(f.Viewer.ID) + ")")
	}

	if f.Keyword != "" {
		pattern := "%" + f.Keyword + "%"
		if f.MatchDescription {
			b.add("(d.title ILIKE " + b.placeholder(pattern) +
				" OR d.description ILIKE " + b.placeholder(pattern) + ")")
		} else {
			b.add("d.title ILIKE " + b.placeholder(pattern))
		}
	}

	if len(f.Tags) > 0 {
		tagConds := make([]string, 0, len(f.Tags))
		for _, tag := range f.Tags {
			tagConds = append(tagConds, "d.tags ILIKE "+b.placeholder("%"+tag+"%"))
		}
		b.add("(" + strings.Join(tagConds, " OR ") + ")")
	}

	return b
}
