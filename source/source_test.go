package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/rollseg/roll"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"roll.txt", Text},
		{"roll", Text},
		{"ROLL.HTML", HTML},
		{"dir.html/roll.htm", HTML},
		{"roll.xhtml", HTML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.name); got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}

	for name := range Formats() {
		f, ok := ParseFormat(strings.ToUpper(name))
		if !ok || f.String() != name {
			t.Errorf("ParseFormat(%q) = %v, %v", name, f, ok)
		}
	}

	if _, ok := ParseFormat("auto"); ok {
		t.Error("ParseFormat(auto) should report false")
	}

	if got := Format(9).String(); got != "Format(9)" {
		t.Errorf("String() = %q", got)
	}
}

func TestSearchPath(t *testing.T) {
	sep := string(os.PathListSeparator)

	t.Setenv(PathEnv(), strings.Join([]string{"/env/a", "", "/env/b"}, sep))

	got := SearchPath("/flag", "/other", "/flag")
	want := []string{"/flag", "/other", "/env/a", "/env/b"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchPath() mismatch (-want +got):\n%s", diff)
	}

	t.Setenv(PathEnv(), "")

	if got := SearchPath(); len(got) != 0 {
		t.Errorf("SearchPath() = %v, want empty", got)
	}
}

func TestResolve(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	name := "town.txt"
	if err := os.WriteFile(filepath.Join(dirB, name), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(name, []string{dirA, dirB})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if want := filepath.Join(dirB, name); got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}

	for _, name := range []string{Stdin, filepath.Join(dirA, "missing.txt")} {
		if got, err := Resolve(name, nil); err != nil || got != name {
			t.Errorf("Resolve(%q) = %q, %v", name, got, err)
		}
	}

	_, err = Resolve("missing.txt", []string{dirA, dirB})
	if !errors.Is(err, roll.ErrReadInput) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Resolve(missing) error = %v", err)
	}

	// Directories are not rolls.
	if _, err := Resolve(filepath.Base(dirA), []string{filepath.Dir(dirA)}); err == nil {
		t.Error("Resolve() accepted a directory")
	}
}

func TestRead_Text(t *testing.T) {
	text, err := Read(context.Background(), strings.NewReader("\uFEFFline 1\r\nline 2\n"), Text)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if text != "line 1\r\nline 2\n" {
		t.Errorf("Read() = %q", text)
	}
}

func TestRead_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Read(ctx, strings.NewReader("x"), Text); !errors.Is(err, context.Canceled) {
		t.Errorf("Read() error = %v, want context.Canceled", err)
	}
}

func TestRead_HTML(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "pre",
			html: "<html><body><p>ignored</p><pre>*** 1-1-1 ***\n  SMITH\n</pre></body></html>",
			want: "*** 1-1-1 ***\n  SMITH\n",
		},
		{
			name: "breaks",
			html: "<html><head><title>roll</title><style>p{}</style></head><body>\n" +
				"*** 1-1-1 ***<br/>\nSMITH&#160;JOHN<br/>\n<br/>\n<b>123</b> MAIN ST<br/>\n</body></html>",
			want: "*** 1-1-1 ***\nSMITH JOHN\n\n123 MAIN ST\n",
		},
		{
			name: "paragraphs",
			html: "<body><div><p>*** 2-2-2 ***</p>\n<p>  OWNER</p><p>ACRES 1.0</p></div></body>",
			want: "*** 2-2-2 ***\nOWNER\nACRES 1.0\n",
		},
		{
			name: "empty",
			html: "<html><body>\n</body></html>",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(context.Background(), strings.NewReader(tt.html), HTML)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Read() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	html := "<body><pre>" + strings.Repeat("*", 40) + " 9-9-9 " + strings.Repeat("*", 40) +
		"\nOWNER</pre></body>"
	if err := os.WriteFile(filepath.Join(dir, "roll.html"), []byte(html), 0o600); err != nil {
		t.Fatal(err)
	}

	text, err := Load(context.Background(), "roll.html", HTML, []string{dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	table, err := roll.Build(context.Background(), text)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	e, err := table.Lookup("9-9-9")
	if err != nil || e.Text != "OWNER" {
		t.Errorf("Lookup() = %+v, %v", e, err)
	}

	if _, err := Load(context.Background(), "nope.txt", Text, []string{dir}); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v", err)
	}
}
