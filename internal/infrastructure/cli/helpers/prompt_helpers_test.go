package helpers

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirmAction(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		assumeYes bool
		want      bool
	}{
		{name: "assume yes", input: "", assumeYes: true, want: true},
		{name: "yes", input: "yes\n", want: true},
		{name: "short yes", input: "Y\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty defaults to no", input: "\n", want: false},
		{name: "closed input", input: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmAction(strings.NewReader(tt.input), &out, "Clear history?", tt.assumeYes)
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			if !tt.assumeYes && !strings.Contains(out.String(), "Clear history? [y/N]") {
				t.Fatalf("prompt not printed: %q", out.String())
			}
		})
	}
}

func TestPrintWarnings(t *testing.T) {
	var out bytes.Buffer
	PrintWarnings(&out, []string{"first", "  ", "second "})
	want := "Warning: first\nWarning: second\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}
