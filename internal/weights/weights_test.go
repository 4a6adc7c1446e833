package weights

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestLoad_MissingFileCreatesUniform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.csv")
	s := NewFileStore(path, nil)

	v, err := s.Load(3)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(v) != 3 {
		t.Fatalf("len = %d, want 3", len(v))
	}
	for i, w := range v {
		if w != 1.0 {
			t.Errorf("v[%d] = %v, want 1", i, w)
		}
	}
	if got := readFile(t, path); got != "1\n1\n1\n" {
		t.Errorf("file = %q, want three ones", got)
	}
}

func TestLoad_LengthMismatchResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.csv")
	if err := os.WriteFile(path, []byte("0.25\n0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path, nil)

	v, err := s.Load(3)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Vector{1, 1, 1}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("v[%d] = %v, want %v", i, v[i], want[i])
		}
	}
	if got := readFile(t, path); got != "1\n1\n1\n" {
		t.Errorf("file = %q, want rewritten uniform weights", got)
	}
}

func TestLoad_CorruptValuesReset(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a number", "1\nabc\n1\n"},
		{"negative", "1\n-0.5\n1\n"},
		{"nan", "1\nNaN\n1\n"},
		{"inf", "1\n+Inf\n1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "weights.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			v, err := NewFileStore(path, nil).Load(3)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			for i, w := range v {
				if w != 1 {
					t.Errorf("v[%d] = %v, want 1", i, w)
				}
			}
		})
	}
}

func TestLoad_KeepsValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.csv")
	if err := os.WriteFile(path, []byte("1.0\n0.5\n\n0.125\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := NewFileStore(path, nil).Load(3)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Vector{1, 0.5, 0.125}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("v[%d] = %v, want %v", i, v[i], want[i])
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "weights.csv")
	s := NewFileStore(path, nil)

	in := Vector{1, 0.5, 0.1, 1e-9, 0, 0.30000000000000004, math.SmallestNonzeroFloat64}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := s.Load(len(in))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the weight file, found %d entries", len(entries))
	}
}

func TestSave_FileIsWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "weights.csv")
	if err := NewFileStore(path, nil).Save(Vector{1, 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := st.Mode().Perm(); got != 0o644 {
		t.Errorf("mode = %v, want 0644", got)
	}
}

func TestSave_UnwritableDirIsStorageError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(filepath.Join(blocker, "weights.csv"), nil)

	err := s.Save(Vector{1})
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError, got %v", err)
	}
}

func TestWrite_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Vector{1, 0.5, 0.25}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "1\n0.5\n0.25\n" {
		t.Errorf("Write = %q", got)
	}
}

func TestParse_ReportsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("1\n2\nx\n"))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected line 3 error, got %v", err)
	}
}

func TestVectorValid(t *testing.T) {
	if !(Vector{0, 1, 2}).Valid() {
		t.Error("expected valid")
	}
	if (Vector{1, -1}).Valid() {
		t.Error("expected invalid for negative weight")
	}
	if (Vector{math.Inf(1)}).Valid() {
		t.Error("expected invalid for +Inf")
	}
}
