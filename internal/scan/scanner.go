package scan

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	goscanner "go/scanner"
	gotoken "go/token"
	"go/types"

	"jsonerr/internal/diag"
	"jsonerr/internal/lexer"
	"jsonerr/internal/source"
	"jsonerr/internal/token"
)

type scanner struct {
	file *source.File
	id   source.FileID
	fset *gotoken.FileSet
	rep  diag.Reporter
	out  *File
	// имена юнитов и кейсов файла, для коллизий
	names map[string]source.Span
	// все type-объявления файла, включая алиасы
	declared map[string]ast.Expr
}

// Scan parses one Go file of fs and extracts its jsonerr units.
// It returns nil when the Go source itself does not parse; the parser
// errors are reported as SYN2100.
func Scan(fs *source.FileSet, id source.FileID, rep diag.Reporter) *File {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	f := fs.Get(id)
	s := &scanner{
		file:  f,
		id:    id,
		fset:  gotoken.NewFileSet(),
		rep:   rep,
		out:   &File{ID: id, Path: f.Path},
		names:    make(map[string]source.Span),
		declared: make(map[string]ast.Expr),
	}

	astFile, err := parser.ParseFile(s.fset, f.Path, f.Content, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		s.reportGoErrors(err)
		return nil
	}
	s.out.Package = astFile.Name.Name
	s.collectTypes(astFile)

	for _, decl := range astFile.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			s.genDecl(d)
		case *ast.FuncDecl:
			if dir, ok := s.findDirective(d.Doc, unitDirective); ok {
				diag.ReportError(s.rep, diag.DclUnitNotType, dir.span,
					"jsonerr:unit must annotate a type declaration, not a function").Emit()
			}
		}
	}
	return s.out
}

func (s *scanner) genDecl(d *ast.GenDecl) {
	dir, isUnit := s.findDirective(d.Doc, unitDirective)
	if d.Tok != gotoken.TYPE {
		if isUnit {
			diag.ReportError(s.rep, diag.DclUnitNotType, dir.span,
				fmt.Sprintf("jsonerr:unit must annotate a type declaration, not %s", d.Tok)).Emit()
		}
		return
	}
	if !isUnit {
		s.strayCases(d)
		return
	}

	unit, ok := s.unitHeader(dir)
	if !ok {
		return
	}
	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		doc := ts.Doc
		if !d.Lparen.IsValid() {
			// `type X struct{}` без скобок: обе директивы в одном комментарии
			doc = d.Doc
		}
		if c, ok := s.caseSpec(ts, doc); ok {
			unit.Cases = append(unit.Cases, c)
		}
	}
	if len(d.Specs) == 0 {
		diag.ReportWarning(s.rep, diag.DclEmptyUnit, dir.span,
			fmt.Sprintf("unit %s declares no cases", unit.Name)).Emit()
	}
	s.out.Units = append(s.out.Units, unit)
}

// unitHeader reads `<Name>` and the optional argument list after jsonerr:unit.
func (s *scanner) unitHeader(dir directive) (Unit, bool) {
	lx := lexer.NewRange(s.file, dir.args, lexer.Options{})
	name := lx.Next()
	if name.Kind != token.Ident {
		diag.ReportError(s.rep, diag.DclUnitMissingName, dir.span,
			"jsonerr:unit requires a unit name, e.g. `//jsonerr:unit AppErrors`").Emit()
		return Unit{}, false
	}
	if !s.claim(name.Text, name.Span, "unit") {
		return Unit{}, false
	}
	args := source.Span{File: s.id, Start: name.Span.End, End: dir.args.End}
	if next := lx.Peek(); next.Kind == token.EOF {
		args = args.Head()
	}
	return Unit{Name: name.Text, Directive: dir.span, Args: args}, true
}

func (s *scanner) caseSpec(ts *ast.TypeSpec, doc *ast.CommentGroup) (Case, bool) {
	c := Case{
		Name:     ts.Name.Name,
		NameSpan: s.span(ts.Name.Pos(), ts.Name.End()),
	}
	if dir, ok := s.findDirective(doc, caseDirective); ok {
		c.Annotation = dir.args
		c.HasAnnotation = true
	}
	if !s.claim(c.Name, c.NameSpan, "case") {
		return Case{}, false
	}

	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		diag.ReportError(s.rep, diag.DclTypeParams, c.NameSpan,
			fmt.Sprintf("case %s cannot have type parameters", c.Name)).Emit()
		return Case{}, false
	}
	if ts.Assign.IsValid() {
		diag.ReportError(s.rep, diag.DclUnsupportedCase, c.NameSpan,
			fmt.Sprintf("case %s cannot be a type alias", c.Name)).Emit()
		return Case{}, false
	}

	switch t := ts.Type.(type) {
	case *ast.StructType:
		n := t.Fields.NumFields()
		switch {
		case n == 0:
			c.Naive = true
		case n == 1:
			field := t.Fields.List[0]
			c.Payload = Payload{Kind: PayloadField, Field: fieldName(field), Type: types.ExprString(field.Type)}
		default:
			diag.ReportError(s.rep, diag.DclTooManyFields, s.span(t.Pos(), t.End()),
				fmt.Sprintf("case %s has %d fields; a case carries at most one payload value", c.Name, n)).
				WithNote(c.NameSpan, "wrap the values in one struct type").
				Emit()
			return Case{}, false
		}
	default:
		if what, bad := s.unsupportedUnderlying(ts.Type); bad {
			diag.ReportError(s.rep, diag.DclUnsupportedCase, c.NameSpan,
				fmt.Sprintf("case %s must be a struct or a defined non-pointer type; %s is %s",
					c.Name, types.ExprString(ts.Type), what)).Emit()
			return Case{}, false
		}
		c.Payload = Payload{Kind: PayloadSelf, Type: types.ExprString(ts.Type)}
	}
	return c, true
}

func (s *scanner) collectTypes(f *ast.File) {
	for _, decl := range f.Decls {
		d, ok := decl.(*ast.GenDecl)
		if !ok || d.Tok != gotoken.TYPE {
			continue
		}
		for _, spec := range d.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok {
				s.declared[ts.Name.Name] = ts.Type
			}
		}
	}
}

// unsupportedUnderlying follows expr through the type declarations of the file
// and reports whether it ends in an interface or pointer type. Such a type
// cannot have methods. Types from other packages are not resolved.
func (s *scanner) unsupportedUnderlying(expr ast.Expr) (string, bool) {
	seen := make(map[string]bool)
	for {
		switch t := expr.(type) {
		case *ast.ParenExpr:
			expr = t.X
		case *ast.InterfaceType:
			return "an interface type", true
		case *ast.StarExpr:
			return "a pointer type", true
		case *ast.Ident:
			def, ok := s.declared[t.Name]
			if !ok {
				if t.Name == "error" || t.Name == "any" {
					return "an interface type", true
				}
				return "", false
			}
			if seen[t.Name] {
				return "", false
			}
			seen[t.Name] = true
			expr = def
		default:
			return "", false
		}
	}
}

// strayCases warns about jsonerr:case directives outside any unit.
func (s *scanner) strayCases(d *ast.GenDecl) {
	docs := []*ast.CommentGroup{d.Doc}
	for _, spec := range d.Specs {
		if ts, ok := spec.(*ast.TypeSpec); ok {
			docs = append(docs, ts.Doc)
		}
	}
	for _, doc := range docs {
		if dir, ok := s.findDirective(doc, caseDirective); ok {
			diag.ReportWarning(s.rep, diag.DclCaseOutsideUnit, dir.span,
				"jsonerr:case is ignored outside of a jsonerr:unit type group").Emit()
		}
	}
}

func (s *scanner) claim(name string, sp source.Span, what string) bool {
	if first, dup := s.names[name]; dup {
		diag.ReportError(s.rep, diag.DclDuplicateUnit, sp,
			fmt.Sprintf("%s name %s is already used in this file", what, name)).
			WithNote(first, "first used here").
			Emit()
		return false
	}
	s.names[name] = sp
	return true
}

func (s *scanner) warnDuplicateDirective(first, dup source.Span, prefix string) {
	diag.ReportWarning(s.rep, diag.AtrDuplicate, dup,
		fmt.Sprintf("only the first %s directive is used", prefix[2:])).
		WithNote(first, "this one is used").
		Emit()
}

func (s *scanner) reportGoErrors(err error) {
	var list goscanner.ErrorList
	if !errors.As(err, &list) {
		diag.ReportError(s.rep, diag.SynGoSource, source.Span{File: s.id}, err.Error()).Emit()
		return
	}
	for _, e := range list {
		off := s.lineColOffset(e.Pos.Line, e.Pos.Column)
		diag.ReportError(s.rep, diag.SynGoSource, source.SpanOf(s.id, off, off), e.Msg).Emit()
	}
}

func (s *scanner) offset(pos gotoken.Pos) int {
	return s.fset.Position(pos).Offset
}

func (s *scanner) span(from, to gotoken.Pos) source.Span {
	return source.SpanOf(s.id, s.offset(from), s.offset(to))
}

// lineColOffset converts a 1-based go/scanner position back to a byte offset.
func (s *scanner) lineColOffset(line, col int) int {
	if line <= 1 {
		return max(col-1, 0)
	}
	if line-2 >= len(s.file.LineIdx) {
		return len(s.file.Content)
	}
	return min(int(s.file.LineIdx[line-2])+col, len(s.file.Content))
}

func fieldName(f *ast.Field) string {
	if len(f.Names) > 0 {
		return f.Names[0].Name
	}
	// встроенное поле: имя — это имя типа без пакета и звёздочки
	t := f.Type
	if star, ok := t.(*ast.StarExpr); ok {
		t = star.X
	}
	switch v := t.(type) {
	case *ast.Ident:
		return v.Name
	case *ast.SelectorExpr:
		return v.Sel.Name
	case *ast.IndexExpr:
		return types.ExprString(v.X)
	}
	return types.ExprString(t)
}
