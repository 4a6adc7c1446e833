package pool

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the pool format major version this build reads.
const SupportedMajor = "v1"

var (
	// ErrInvalidPool is returned when a pool document fails validation.
	ErrInvalidPool = errors.New("invalid question pool")

	// ErrUnsupportedVersion is returned for envelopes with an unreadable version.
	ErrUnsupportedVersion = errors.New("unsupported question pool version")
)

// Format identifies the on-disk encoding of a pool file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unrecognised question pool extension %q", filepath.Ext(path))
	}
}

// Load reads, validates and decodes the pool at path.
func Load(path string, log *zap.Logger) (*Pool, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question pool: %w", err)
	}
	p, err := Parse(data, format, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse validates and decodes a pool document.
func Parse(data []byte, format Format, log *zap.Logger) (*Pool, error) {
	if log == nil {
		log = zap.NewNop()
	}

	doc, err := genericDocument(data, format)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var raw rawPool
	switch doc.(type) {
	case []any:
		err = decodeTyped(data, format, &raw.Questions)
	default:
		err = decodeTyped(data, format, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("decode question pool: %w", err)
	}

	if raw.Version != "" {
		if !semver.IsValid(raw.Version) || semver.Major(raw.Version) != SupportedMajor {
			return nil, fmt.Errorf("%w: %q (want %s.x.y)", ErrUnsupportedVersion, raw.Version, SupportedMajor)
		}
	}

	p := &Pool{Version: raw.Version, Questions: make([]Question, 0, len(raw.Questions))}
	for i, rq := range raw.Questions {
		q, err := rq.toQuestion()
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrInvalidPool, i, err)
		}
		if rq.CorrectAnswersCount != nil && *rq.CorrectAnswersCount != q.CorrectCount {
			log.Warn("correct answer count does not match options, using derived count",
				zap.Int("question", i),
				zap.Int("declared", *rq.CorrectAnswersCount),
				zap.Int("derived", q.CorrectCount),
			)
		}
		p.Questions = append(p.Questions, q)
	}
	return p, nil
}

// genericDocument decodes data into plain JSON values for schema validation.
func genericDocument(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPool, err)
		}
		return doc, nil
	case FormatYAML:
		var y any
		if err := yaml.Unmarshal(data, &y); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPool, err)
		}
		// Normalise YAML scalars to the value types the validator expects.
		b, err := json.Marshal(stringKeys(y))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPool, err)
		}
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPool, err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unknown pool format %q", format)
	}
}

// stringKeys rewrites mappings with non-string keys (answers labelled 50:
// or true:) into string-keyed maps so they survive JSON encoding. Keys are
// spelled as YAML would print them.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = stringKeys(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = stringKeys(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = stringKeys(e)
		}
		return t
	}
	return v
}

func decodeTyped(data []byte, format Format, v any) error {
	if format == FormatYAML {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// toQuestion converts a raw record, preferring the option list when both
// shapes are present.
func (rq rawQuestion) toQuestion() (Question, error) {
	q := Question{Prompt: strings.TrimSpace(rq.Q)}
	if q.Prompt == "" {
		return q, errors.New("empty prompt")
	}
	if rq.Img != nil {
		q.Image = strings.TrimSpace(*rq.Img)
	}
	if rq.Video != nil {
		q.Video = strings.TrimSpace(*rq.Video)
	}

	if len(rq.Options) > 0 {
		for j, ro := range rq.Options {
			if ro.Text == "" && ro.Image == "" {
				return q, fmt.Errorf("option %d has neither text nor image", j)
			}
			opt := Option{Text: ro.Text, Image: ro.Image, Correct: bool(ro.Correct)}
			if opt.Image != "" {
				opt.Text = ""
			}
			q.Options = append(q.Options, opt)
		}
	} else {
		for _, a := range rq.Answers {
			opt := Option{Correct: a.Correct}
			if IsImageRef(a.Label) {
				opt.Image = strings.TrimSpace(a.Label)
			} else {
				opt.Text = a.Label
			}
			q.Options = append(q.Options, opt)
		}
	}
	if len(q.Options) == 0 {
		return q, errors.New("no answer options")
	}

	q.CorrectCount = len(q.CorrectIndexes())
	return q, nil
}
