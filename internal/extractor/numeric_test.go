package extractor

import "testing"

func TestParseFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$1,500,000", 1500000, true},
		{"450 m²", 450, true},
		{"3.5", 3.5, true},
		{"Rp 7,357,500,000", 7357500000, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"inf", 0, false},
		{"-inf", 0, false},
		{"NaN", 0, false},
		{"many", 0, false},
	}
	for _, c := range cases {
		got := parseFloat(c.in)
		if c.ok {
			if got == nil {
				t.Errorf("parseFloat(%q): got nil, want %v", c.in, c.want)
			} else if *got != c.want {
				t.Errorf("parseFloat(%q): got %v, want %v", c.in, *got, c.want)
			}
		} else if got != nil {
			t.Errorf("parseFloat(%q): got %v, want nil", c.in, *got)
		}
	}
}

func TestParseIntTruncates(t *testing.T) {
	got := parseInt("3.9 bathrooms")
	if got == nil || *got != 3 {
		t.Fatalf("parseInt: got %v, want 3", got)
	}
}

func TestParseIntAbsent(t *testing.T) {
	if got := parseInt("unknown"); got != nil {
		t.Errorf("parseInt: got %v, want nil", *got)
	}
}

func TestDigitsOnly(t *testing.T) {
	if got := digitsOnly("Rp 25.000.000"); got != "25000000" {
		t.Errorf("digitsOnly: got %q, want %q", got, "25000000")
	}
	if got := digitsOnly("no digits"); got != "" {
		t.Errorf("digitsOnly: got %q, want empty", got)
	}
}
