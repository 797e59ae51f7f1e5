package roll

import (
	"errors"
	"testing"
)

func TestParseKey_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  Key
	}{
		{"123.456-1-2", Key{"123.456", "1", "2"}},
		{"186.000-0001-001", Key{"186.000", "0001", "001"}},
		{"1-2-3", Key{"1", "2", "3"}},
		{".-..-...", Key{".", "..", "..."}},
		{"0-0-0", Key{"0", "0", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKey(tt.input)
			if err != nil {
				t.Fatalf("ParseKey(%q) error = %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("ParseKey(%q) = %#v, want %#v", tt.input, got, tt.want)
			}

			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestParseKey_Malformed(t *testing.T) {
	tests := []struct {
		input  string
		reason string
		offset int
	}{
		{"", "empty input", 0},
		{"123-1", "missing component", 5},
		{"123", "missing component", 3},
		{"1-2-", "missing component", 4},
		{"123--1", "empty component", 4},
		{"-1-2", "empty component", 0},
		{"1-2-3-4", "unexpected trailing input", 5},
		{"12a-1-1", "unexpected 'a'", 2},
		{"a-1-1", "expected digit or '.', found 'a'", 0},
		{" 1-2-3", "expected digit or '.', found ' '", 0},
		{"1-2-3 ", "unexpected ' '", 5},
		{"1_2_3", "unexpected '_'", 1},
		{"1-2-\t", `expected digit or '.', found '\t'`, 4},
		{"\u0661-2-3", "expected digit or '.', found '\u0661'", 0},
		{"1\u00a0-2-3", `unexpected '\u00a0'`, 1},
		{"1-\xff-3", "expected digit or '.', found invalid UTF-8", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseKey(tt.input)
			if err == nil {
				t.Fatalf("ParseKey(%q) succeeded, want error", tt.input)
			}

			if !errors.Is(err, ErrMalformedKeyCode) {
				t.Errorf("error %v is not ErrMalformedKeyCode", err)
			}

			var syn *SyntaxError
			if !errors.As(err, &syn) {
				t.Fatalf("error %v does not wrap *SyntaxError", err)
			}

			if syn.Input != tt.input {
				t.Errorf("Input = %q, want %q", syn.Input, tt.input)
			}

			if syn.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", syn.Reason, tt.reason)
			}

			if syn.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", syn.Offset, tt.offset)
			}
		})
	}
}

func TestKey_Compare(t *testing.T) {
	tests := []struct {
		a, b Key
		want int
	}{
		{Key{"1", "1", "1"}, Key{"1", "1", "1"}, 0},
		{Key{"1", "1", "1"}, Key{"2", "1", "1"}, -1},
		{Key{"1", "2", "1"}, Key{"1", "10", "1"}, 1},
		{Key{"1", "1", "2"}, Key{"1", "1", "1"}, 1},
		{Key{"001", "1", "1"}, Key{"1", "1", "1"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"_"+tt.b.String(), func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKey_Text(t *testing.T) {
	var k Key
	if !k.IsZero() {
		t.Error("zero Key should report IsZero")
	}

	if err := k.UnmarshalText([]byte("12.3-4-5")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}

	if want := (Key{"12.3", "4", "5"}); k != want {
		t.Errorf("UnmarshalText() = %#v, want %#v", k, want)
	}

	text, err := k.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}

	if string(text) != "12.3-4-5" {
		t.Errorf("MarshalText() = %q", text)
	}

	if err := k.UnmarshalText([]byte("12.3/4/5")); !errors.Is(err, ErrMalformedKeyCode) {
		t.Errorf("UnmarshalText(invalid) error = %v, want ErrMalformedKeyCode", err)
	}

	if want := (Key{"12.3", "4", "5"}); k != want {
		t.Errorf("failed UnmarshalText modified key: %#v", k)
	}
}
