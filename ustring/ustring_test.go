package ustring

import "testing"

func TestFromStringAndString(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"ascii", "hello"},
		{"unicode", "héllo wörld"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromString(tt.in)
			if s.Len() != len([]rune(tt.in)) {
				t.Errorf("Len() = %d, want %d", s.Len(), len([]rune(tt.in)))
			}
			if got := s.String(); got != tt.in {
				t.Errorf("String() = %q, want %q", got, tt.in)
			}
		})
	}
}

func TestStringAugmentRendersEscape(t *testing.T) {
	s := String{Augment}
	got := s.String()
	want := "\\U+200000"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEqual(t *testing.T) {
	a := FromString("abc")
	b := FromString("abc")
	c := FromString("abd")
	if !a.Equal(b) {
		t.Error("expected equal strings to compare equal")
	}
	if a.Equal(c) {
		t.Error("expected different strings to compare unequal")
	}
	if a.Equal(FromString("ab")) {
		t.Error("expected different-length strings to compare unequal")
	}
}

func TestConcat(t *testing.T) {
	a := FromString("foo")
	b := FromString("bar")
	got := a.Concat(b)
	if got.String() != "foobar" {
		t.Errorf("Concat() = %q, want %q", got.String(), "foobar")
	}
	// Concat must not mutate either operand.
	if a.String() != "foo" || b.String() != "bar" {
		t.Error("Concat mutated an operand")
	}
}

func TestClone(t *testing.T) {
	a := FromString("abc")
	b := a.Clone()
	b[0] = 'z'
	if a[0] == 'z' {
		t.Error("Clone shares backing array with original")
	}
}

func TestResolveEscape(t *testing.T) {
	tests := []struct {
		in   rune
		want rune
	}{
		{'n', 0x0A},
		{'t', 0x09},
		{'r', 0x0D},
		{'a', 0x07},
		{'b', 0x08},
		{'v', 0x0B},
		{'f', 0x0C},
		{'\\', '\\'},
		{'\'', '\''},
		{'z', 'z'},
	}
	for _, tt := range tests {
		if got := ResolveEscape(tt.in); got != tt.want {
			t.Errorf("ResolveEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint64
		wantErr bool
	}{
		{"zero", "0", 0, false},
		{"small", "42", 42, false},
		{"leading zeros", "007", 7, false},
		{"empty", "", 0, true},
		{"non-digit", "12a", 0, true},
		{"overflow", "99999999999999999999", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(FromString(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecimal(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDecimal(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint64
		wantErr bool
	}{
		{"lower", "ff", 255, false},
		{"upper", "FF", 255, false},
		{"mixed", "1A2b", 0x1A2B, false},
		{"codepoint", "10FFFF", 0x10FFFF, false},
		{"invalid digit", "1g", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(FromString(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHex(%q) = %#x, want %#x", tt.in, got, tt.want)
			}
		})
	}
}
