package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"jsonerr/internal/diag"
	"jsonerr/internal/source"
)

type palette struct {
	err, warn, info, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, p)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n... and %d more error(s) not shown\n", n)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	if !fs.Has(d.Primary.File) {
		fmt.Fprintf(w, "jsonerr: %s %s: %s\n",
			p.severity(d.Severity).Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	file := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(file, fs, opts.PathMode), start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)
	writeSnippet(w, file, fs, d.Primary, opts, p)

	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		if !fs.Has(note.Span.File) {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), note.Msg)
			continue
		}
		nf := fs.Get(note.Span.File)
		ns, _ := fs.Resolve(note.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
			p.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, note.Msg)
		writeSnippet(w, nf, fs, note.Span, PrettyOpts{Width: opts.Width, Color: opts.Color}, p)
	}
}

func writeSnippet(w io.Writer, file *source.File, fs *source.FileSet, span source.Span, opts PrettyOpts, p palette) {
	start, end := fs.Resolve(span)
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		line := file.GetLine(ln)
		if ln != start.Line && strings.TrimSpace(line) == "" {
			continue
		}
		if ln > start.Line && ln > uint32(len(file.LineIdx)+1) {
			break
		}
		shown := line
		if opts.Width > 0 {
			shown = runewidth.Truncate(line, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), shown)
		if ln != start.Line {
			continue
		}
		from := int(start.Col) - 1
		to := len(line)
		if end.Line == start.Line {
			to = int(end.Col) - 1
		}
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", gutterWidth, ""),
			caretPadding(line, from),
			p.caret.Sprint(underline(line, from, to)),
		)
	}
}

// caretPadding повторяет табы строки, чтобы ^ встал под нужный символ.
func caretPadding(line string, upto int) string {
	upto = min(max(upto, 0), len(line))
	var b strings.Builder
	for _, r := range line[:upto] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(line string, from, to int) string {
	from = min(max(from, 0), len(line))
	to = min(max(to, from), len(line))
	width := runewidth.StringWidth(line[from:to])
	if width <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", width-1)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}
