package attr

import "testing"

func TestLookupStatus(t *testing.T) {
	tests := []struct {
		path []string
		name string
		code int
		ok   bool
	}{
		{[]string{"http", "StatusNotFound"}, "StatusNotFound", 404, true},
		{[]string{"StatusConflict"}, "StatusConflict", 409, true},
		{[]string{"http", "StatusTeapot"}, "StatusTeapot", 418, true},
		{[]string{"nethttp", "StatusNotFound"}, "", 0, false},
		{[]string{"http", "StatusNope"}, "StatusNope", 0, false},
		{[]string{"a", "b", "c"}, "", 0, false},
	}
	for _, tt := range tests {
		name, code, ok := LookupStatus(tt.path)
		if name != tt.name || code != tt.code || ok != tt.ok {
			t.Errorf("LookupStatus(%v) = %q, %d, %v; want %q, %d, %v",
				tt.path, name, code, ok, tt.name, tt.code, tt.ok)
		}
	}
}

func TestStatusName(t *testing.T) {
	if name, ok := StatusName(500); !ok || name != "StatusInternalServerError" {
		t.Fatalf("StatusName(500) = %q, %v", name, ok)
	}
	if _, ok := StatusName(499); ok {
		t.Fatalf("499 has no net/http constant")
	}
	if got := suggestStatus("StatusNotfound"); got != "StatusNotFound" {
		t.Fatalf("suggestStatus = %q", got)
	}
}
