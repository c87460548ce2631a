package persona

import "testing"

func TestCatalogOrder(t *testing.T) {
	want := []ID{Sourdough, Brioche, WholeWheat, Pumpernickel, Ciabatta, Focaccia, Rye, Naan}
	got := IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, got[i], want[i])
		}
		if want[i].Order() != i {
			t.Errorf("%q.Order() = %d, want %d", want[i], want[i].Order(), i)
		}
	}
}

func TestCatalogEntriesComplete(t *testing.T) {
	for _, p := range All() {
		if p.Name == "" || p.FullName == "" || p.Approach == "" || p.Description == "" || p.Emoji == "" {
			t.Errorf("persona %q has empty display fields: %+v", p.ID, p)
		}
	}
}

func TestDefaultIsValid(t *testing.T) {
	if !Default.Valid() {
		t.Fatalf("Default %q is not in the catalog", Default)
	}
	if ID("baguette").Valid() {
		t.Error("unknown id reported valid")
	}
	if ID("baguette").Order() != -1 {
		t.Error("unknown id should have order -1")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{"rye", Rye},
		{"Dr. Rye", Rye},
		{"whole wheat", WholeWheat},
		{"Dr. Whole Wheat", WholeWheat},
		{"NAAN", Naan},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := Parse("baguette"); err == nil {
		t.Error("Parse(baguette) should fail")
	}
}

func TestMustLookupPanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLookup did not panic")
		}
	}()
	MustLookup("baguette")
}
