package weights

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Vector holds one sampling weight per question, in pool order.
type Vector []float64

// Uniform returns a vector of n ones.
func Uniform(n int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = 1.0
	}
	return v
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Valid reports whether every weight is finite and non-negative.
func (v Vector) Valid() bool {
	for _, w := range v {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return false
		}
	}
	return true
}

// StorageError reports an unrecoverable weight file I/O failure.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("weights %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Parse reads one float per line. Blank lines are skipped.
func Parse(r io.Reader) (Vector, error) {
	var v Vector
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		w, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		v = append(v, w)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

// Write serializes v as one shortest round-trip decimal per line.
func Write(w io.Writer, v Vector) error {
	bw := bufio.NewWriter(w)
	for _, x := range v {
		if _, err := bw.WriteString(strconv.FormatFloat(x, 'g', -1, 64)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FileStore persists the weight vector as a flat text file.
type FileStore struct {
	path string
	log  *zap.Logger
}

// NewFileStore creates a store for the weight file at path.
func NewFileStore(path string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{path: path, log: log.Named("weights")}
}

// Path returns the weight file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the weight vector for a pool of poolSize questions. A missing,
// corrupt or mismatched file is replaced with uniform weights.
func (s *FileStore) Load(poolSize int) (Vector, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Warn("weight file not found, creating uniform weights",
				zap.String("path", s.path), zap.Int("questions", poolSize))
			return s.Reset(poolSize)
		}
		return nil, &StorageError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	v, err := Parse(f)
	if err != nil {
		s.log.Warn("weight file unreadable, recreating uniform weights",
			zap.String("path", s.path), zap.Error(err))
		return s.Reset(poolSize)
	}
	if len(v) != poolSize {
		s.log.Warn("weight count does not match question count, recreating uniform weights",
			zap.String("path", s.path), zap.Int("weights", len(v)), zap.Int("questions", poolSize))
		return s.Reset(poolSize)
	}
	if !v.Valid() {
		s.log.Warn("weight file has negative or non-finite values, recreating uniform weights",
			zap.String("path", s.path))
		return s.Reset(poolSize)
	}
	return v, nil
}

// Reset writes and returns uniform weights for poolSize questions.
func (s *FileStore) Reset(poolSize int) (Vector, error) {
	v := Uniform(poolSize)
	if err := s.Save(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Save replaces the weight file. The vector is written to a temp file in
// the same directory and renamed over the target.
func (s *FileStore) Save(v []float64) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &StorageError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".weights-*")
	if err != nil {
		return &StorageError{Op: "create", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(op string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: op, Path: s.path, Err: err}
	}

	if err := tmp.Chmod(0o644); err != nil {
		return fail("chmod", err)
	}

	if err := Write(tmp, v); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "close", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "rename", Path: s.path, Err: err}
	}
	s.log.Debug("weights saved", zap.String("path", s.path), zap.Int("count", len(v)))
	return nil
}
