package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBookPatchApply(t *testing.T) {
	base := Book{ID: 3, Title: "Dune", Author: "Herbert", Year: IntPtr(1965), Read: false}
	title := ""
	read := true

	tests := []struct {
		name  string
		patch BookPatch
		want  Book
	}{
		{"empty patch", BookPatch{}, base},
		{"year only", BookPatch{YearSet: true, Year: IntPtr(1999)},
			Book{ID: 3, Title: "Dune", Author: "Herbert", Year: IntPtr(1999)}},
		{"year cleared", BookPatch{YearSet: true},
			Book{ID: 3, Title: "Dune", Author: "Herbert"}},
		{"empty title accepted", BookPatch{Title: &title, Read: &read},
			Book{ID: 3, Title: "", Author: "Herbert", Year: IntPtr(1965), Read: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base
			got.Year = IntPtr(*base.Year)
			tt.patch.Apply(&got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBookPatchApplyCopiesYear(t *testing.T) {
	year := 2001
	b := Book{ID: 1}
	BookPatch{YearSet: true, Year: &year}.Apply(&b)
	year = 1900

	if b.Year == nil || *b.Year != 2001 {
		t.Fatalf("stored year changed with caller's variable: %v", b.Year)
	}
}

func TestBookString(t *testing.T) {
	b := Book{ID: 1, Title: "1984", Author: "Orwell", Year: IntPtr(1949)}
	if got, want := b.String(), `#1 "1984" by Orwell (1949)`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	b.Year = nil
	if got, want := b.String(), `#1 "1984" by Orwell (?)`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
