package pool

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// rawPool is the versioned envelope shape.
type rawPool struct {
	Version   string        `json:"version" yaml:"version"`
	Questions []rawQuestion `json:"questions" yaml:"questions"`
}

// rawQuestion mirrors one question record as stored on disk. Older pools
// keep the answers in an object keyed by label; newer ones use an option list.
type rawQuestion struct {
	Q                   string      `json:"q" yaml:"q"`
	CorrectAnswersCount *int        `json:"correct_answers_count" yaml:"correct_answers_count"`
	Img                 *string     `json:"img" yaml:"img"`
	Video               *string     `json:"video" yaml:"video"`
	Answers             answerList  `json:"answers" yaml:"answers"`
	Options             []rawOption `json:"options" yaml:"options"`
}

type rawOption struct {
	Text    string `json:"text" yaml:"text"`
	Image   string `json:"image" yaml:"image"`
	Correct flag   `json:"correct" yaml:"correct"`
}

// answerEntry is one label/correctness pair from a legacy answers object.
type answerEntry struct {
	Label   string
	Correct bool
}

// answerList decodes an answers object preserving key order.
type answerList []answerEntry

func (a *answerList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("answers: expected object, got %v", tok)
	}

	var out answerList
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("answers: unexpected key %v", keyTok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("answers[%q]: %w", label, err)
		}
		correct, err := truthy(v)
		if err != nil {
			return fmt.Errorf("answers[%q]: %w", label, err)
		}
		out = append(out, answerEntry{Label: label, Correct: correct})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

func (a *answerList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("answers: expected mapping at line %d", node.Line)
	}
	var out answerList
	for i := 0; i+1 < len(node.Content); i += 2 {
		label := node.Content[i].Value
		var v any
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("answers[%q]: %w", label, err)
		}
		correct, err := truthy(v)
		if err != nil {
			return fmt.Errorf("answers[%q]: %w", label, err)
		}
		out = append(out, answerEntry{Label: label, Correct: correct})
	}
	*a = out
	return nil
}

// flag is a correctness marker written either as a boolean or as 0/1.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	b, err := truthy(v)
	if err != nil {
		return err
	}
	*f = flag(b)
	return nil
}

func (f *flag) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	b, err := truthy(v)
	if err != nil {
		return err
	}
	*f = flag(b)
	return nil
}

// truthy interprets a decoded correctness value.
func truthy(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return false, err
		}
		return n != 0, nil
	case float64:
		return x != 0, nil
	case int:
		return x != 0, nil
	case int64:
		return x != 0, nil
	case uint64:
		return x != 0, nil
	default:
		return false, fmt.Errorf("expected boolean or number, got %T", v)
	}
}
