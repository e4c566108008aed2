package attr

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"jsonerr/internal/diag"
	"jsonerr/internal/source"
	"jsonerr/internal/token"
)

// Disposition says whether a case is shown to the requester.
type Disposition uint8

const (
	// Request cases are client-facing: status, code and hint reach the wire.
	Request Disposition = iota + 1
	// Internal cases are server faults; the requester only sees the internal code.
	Internal
)

func (d Disposition) String() string {
	switch d {
	case Request:
		return "request"
	case Internal:
		return "internal"
	}
	return "unknown"
}

// Status is a validated HTTP status. Symbol keeps the net/http constant name
// when the directive used one.
type Status struct {
	Value  int
	Symbol string
}

func (s Status) String() string {
	if s.Symbol != "" {
		return "http." + s.Symbol
	}
	return strconv.Itoa(s.Value)
}

// Set is the parsed form of one `jsonerr:case` directive.
// Status, Code, Hint and Description are only meaningful for Request.
// An empty Hint or Description means "not set".
type Set struct {
	Disposition Disposition
	Status      Status
	Code        string
	Hint        string
	Description string
	Span        source.Span
}

// Message texts. Tests and docs match on them.
const (
	MsgBadDisposition      = "The first attribute is required and should be either `request` or `internal`"
	MsgBadAssignment       = "Assignments should be in form of `var = value`."
	MsgNotAssignment       = "Only assignments are allowed to be used in error attributes."
	MsgUnknown             = "Unknown attribute defined"
	MsgStatusType          = "status should be either a number or a path (http.StatusNotFound)"
	MsgCodeType            = "code should be a string literal"
	MsgHintType            = "hint should be a string literal"
	MsgDescriptionType     = "description should be a string literal"
	MsgMissingStatusOrCode = "Both `status` and `code` should be defined."
	MsgMissingAttribute    = "All variants should have a `jsonerr:case` attribute"
)

type caseParser struct {
	rep       *diag.CountingReporter
	set       Set
	seen      map[string]source.Span
	hasStatus bool
	hasCode   bool

	// статус или код был, но неверного типа
	wrongStatusOrCode bool
}

// ParseCase parses the arguments of one `jsonerr:case` directive located at span.
// It returns nil when anything was reported for the case.
func ParseCase(file *source.File, span source.Span, rep diag.Reporter, opts Options) *Set {
	counter := &diag.CountingReporter{Next: rep}
	list := ParseArgs(file, span, counter)
	if list == nil {
		return nil
	}

	if len(list.Elems) == 0 {
		diag.ReportError(counter, diag.AtrBadDisposition, list.Span(), MsgBadDisposition).Emit()
		return nil
	}
	first, ok := list.Elems[0].(*PathExpr)
	var disposition Disposition
	if ok {
		switch first.Ident() {
		case "request":
			disposition = Request
		case "internal":
			disposition = Internal
		}
	}
	if disposition == 0 {
		diag.ReportError(counter, diag.AtrBadDisposition, list.Elems[0].Span(), MsgBadDisposition).Emit()
		return nil
	}

	if disposition == Internal {
		// остальные элементы не читаются
		return &Set{Disposition: Internal, Span: list.Span()}
	}

	p := &caseParser{
		rep:  counter,
		set:  Set{Disposition: Request, Span: list.Span()},
		seen: make(map[string]source.Span, 4),
	}
	for _, elem := range list.Elems[1:] {
		assign, ok := elem.(*AssignExpr)
		if !ok {
			diag.ReportError(counter, diag.AtrNotAssignment, elem.Span(), MsgNotAssignment).Emit()
			continue
		}
		lhs, ok := assign.LHS.(*PathExpr)
		if !ok || lhs.Ident() == "" {
			diag.ReportError(counter, diag.AtrBadAssignment, assign.LHS.Span(), MsgBadAssignment).Emit()
			return nil
		}
		p.assign(lhs, assign.RHS)
	}

	if !p.hasStatus || !p.hasCode {
		if !p.wrongStatusOrCode || opts.ReportMissingAfterTypeError {
			b := diag.ReportError(counter, diag.AtrMissingStatusOrCode, list.Span(), MsgMissingStatusOrCode)
			switch {
			case !p.hasStatus && !p.hasCode:
			case !p.hasStatus:
				b.WithNote(list.Span(), "add `status = <code>`")
			default:
				b.WithNote(list.Span(), "add `code = \"<error-code>\"`")
			}
			b.Emit()
		}
		return nil
	}
	if counter.Errors > 0 {
		return nil
	}
	return &p.set
}

func (p *caseParser) assign(lhs *PathExpr, rhs Expr) {
	key := lhs.Ident()
	switch key {
	case "status", "code", "hint", "description":
	default:
		diag.ReportError(p.rep, diag.AtrUnknown, lhs.Span(), MsgUnknown).
			WithNote(lhs.Span(), "known attributes are status, code, hint and description").
			Emit()
		return
	}

	if first, dup := p.seen[key]; dup {
		diag.ReportError(p.rep, diag.AtrDuplicate, lhs.Span(),
			fmt.Sprintf("attribute `%s` is already defined", key)).
			WithNote(first, "first defined here").
			Emit()
		return
	}
	p.seen[key] = lhs.Span()

	switch key {
	case "status":
		if st, ok := p.status(rhs); ok {
			p.set.Status = st
			p.hasStatus = true
		} else {
			p.wrongStatusOrCode = true
		}
	case "code":
		s, ok := p.str(rhs, diag.AtrCodeType, MsgCodeType)
		if ok && s == "" {
			diag.ReportError(p.rep, diag.AtrCodeType, rhs.Span(), "code should not be empty").Emit()
			ok = false
		}
		if ok {
			p.set.Code = s
			p.hasCode = true
		} else {
			p.wrongStatusOrCode = true
		}
	case "hint":
		if s, ok := p.str(rhs, diag.AtrHintType, MsgHintType); ok {
			p.set.Hint = s
		}
	case "description":
		if s, ok := p.str(rhs, diag.AtrDescriptionType, MsgDescriptionType); ok {
			p.set.Description = s
		}
	}
}

func (p *caseParser) status(rhs Expr) (Status, bool) {
	switch v := rhs.(type) {
	case *LitExpr:
		if v.Tok.Kind != token.IntLit {
			break
		}
		n, err := parseStatusLiteral(v.Tok.Text)
		if err != nil || n < MinStatus || n > MaxStatus {
			diag.ReportError(p.rep, diag.AtrStatusType, rhs.Span(),
				fmt.Sprintf("status %s is out of range %d..%d", v.Tok.Text, MinStatus, MaxStatus)).Emit()
			return Status{}, false
		}
		return Status{Value: n}, true
	case *PathExpr:
		name, n, ok := LookupStatus(v.Segments)
		if ok {
			return Status{Value: n, Symbol: name}, true
		}
		b := diag.ReportError(p.rep, diag.AtrStatusType, rhs.Span(),
			fmt.Sprintf("unknown status constant `%s`", v.String()))
		if s := suggestStatus(v.Segments[len(v.Segments)-1]); s != "" {
			b.WithNote(rhs.Span(), "did you mean `http."+s+"`?")
		}
		b.Emit()
		return Status{}, false
	}
	diag.ReportError(p.rep, diag.AtrStatusType, rhs.Span(), MsgStatusType).
		WithNote(rhs.Span(), "found "+describe(rhs)).
		Emit()
	return Status{}, false
}

func parseStatusLiteral(text string) (int, error) {
	u, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[int](u)
}

func (p *caseParser) str(rhs Expr, code diag.Code, msg string) (string, bool) {
	if lit, ok := rhs.(*LitExpr); ok && lit.Tok.Kind == token.StringLit {
		s, err := unquote(lit.Tok.Text)
		if err == nil {
			return s, true
		}
	}
	diag.ReportError(p.rep, code, rhs.Span(), msg).
		WithNote(rhs.Span(), "found "+describe(rhs)).
		Emit()
	return "", false
}

// unquote decodes a Go string literal and normalises it to NFC so that
// visually equal codes compare equal.
func unquote(text string) (string, error) {
	s, err := strconv.Unquote(text)
	if err != nil {
		return "", err
	}
	return norm.NFC.String(strings.TrimSpace(s)), nil
}
