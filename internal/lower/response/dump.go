package response

import (
	"fmt"
	"io"
	"strconv"
)

// Dump writes a readable listing of t, one rule per line.
func Dump(w io.Writer, t *Table) error {
	if _, err := fmt.Fprintf(w, "unit %s\n", t.Unit); err != nil {
		return err
	}
	for _, r := range t.Rules {
		if _, err := fmt.Fprintf(w, "  %s\n", r.String()); err != nil {
			return err
		}
	}
	return nil
}

func (r Rule) String() string {
	content := "null"
	if !r.Naive {
		content = r.Payload
	}
	if r.Internal {
		log := "nolog"
		if r.Log {
			log = "log " + strconv.Quote(r.Record)
		}
		return fmt.Sprintf("%s -> internal %d %q (%s, content=null)", r.Case, r.Status, r.Code, log)
	}
	status := strconv.Itoa(r.Status)
	if r.StatusSymbol != "" {
		status += " (http." + r.StatusSymbol + ")"
	}
	return fmt.Sprintf("%s -> request %s %q hint=%q content=%s", r.Case, status, r.Code, r.Hint, content)
}
