package roll

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCompileQuery_Invalid(t *testing.T) {
	for _, src := range []string{"1 +", "section", "unknown == 1"} {
		t.Run(src, func(t *testing.T) {
			if _, err := CompileQuery(src); !errors.Is(err, ErrInvalidQuery) {
				t.Errorf("CompileQuery(%q) error = %v, want ErrInvalidQuery", src, err)
			}
		})
	}
}

func TestTable_Select(t *testing.T) {
	table := mustBuild(t, roll(
		band("123-1-1"), "Line A", "Line B",
		band("123-2-1"), "Line C",
		band("456-1-1"), "MAIN ST",
		band("456-1-2"),
	))

	tests := []struct {
		src  string
		want []string
	}{
		{`section == "123"`, []string{"123-1-1", "123-2-1"}},
		{`lines > 1`, []string{"123-1-1"}},
		{`lines == 0`, []string{"456-1-2"}},
		{`text contains "MAIN"`, []string{"456-1-1"}},
		{`key startsWith "456" && lot == "1"`, []string{"456-1-1"}},
		{`line >= 4 && block == "1"`, []string{"456-1-1", "456-1-2"}},
		{`false`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			q, err := CompileQuery(tt.src)
			if err != nil {
				t.Fatalf("CompileQuery() error = %v", err)
			}

			if q.String() != tt.src {
				t.Errorf("String() = %q", q.String())
			}

			sel, err := table.Select(q)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}

			var got []string
			for _, e := range sel {
				got = append(got, e.Key.String())
			}

			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Select() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	all, err := table.Select(nil)
	if err != nil || len(all) != table.Len() {
		t.Errorf("Select(nil) = %d entries, %v", len(all), err)
	}
}

func TestQuery_RuntimeError(t *testing.T) {
	table := mustBuild(t, roll(band("1-1-1"), "not a number"))

	q, err := CompileQuery(`int(text) > 0`)
	if err != nil {
		t.Fatalf("CompileQuery() error = %v", err)
	}

	if _, err := table.Select(q); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("Select() error = %v, want ErrInvalidQuery", err)
	}
}

func TestTable_Filter(t *testing.T) {
	table := mustBuild(t, sampleRoll(30))

	q, err := CompileQuery(`block == "3"`)
	if err != nil {
		t.Fatalf("CompileQuery() error = %v", err)
	}

	sub, err := table.Filter(q)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}

	sel, _ := table.Select(q)
	if diff := cmp.Diff(sel, sub.Entries()); diff != "" {
		t.Errorf("Filter() mismatch (-select +filter):\n%s", diff)
	}

	if same, _ := table.Filter(nil); same != table {
		t.Error("Filter(nil) should return the table itself")
	}
}
