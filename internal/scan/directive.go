package scan

import (
	"go/ast"
	"strings"

	"jsonerr/internal/source"
)

const (
	unitDirective = "//jsonerr:unit"
	caseDirective = "//jsonerr:case"
)

type directive struct {
	span source.Span // весь комментарий
	args source.Span // всё после имени директивы
}

// findDirective returns the first matching directive of the comment group;
// later ones are reported and ignored.
// Directives must follow Go conventions: no space after "//".
func (s *scanner) findDirective(doc *ast.CommentGroup, prefix string) (directive, bool) {
	if doc == nil {
		return directive{}, false
	}
	var (
		found directive
		ok    bool
	)
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, prefix) {
			continue
		}
		rest := c.Text[len(prefix):]
		if rest != "" && !strings.ContainsAny(rest[:1], " \t(") {
			// //jsonerr:cases и подобное — не наша директива
			continue
		}
		start := s.offset(c.Slash)
		end := start + len(c.Text)
		if ok {
			s.warnDuplicateDirective(found.span, source.SpanOf(s.id, start, end), prefix)
			continue
		}
		found = directive{
			span: source.SpanOf(s.id, start, end),
			args: source.SpanOf(s.id, start+len(prefix), end),
		}
		ok = true
	}
	return found, ok
}
