package pool

import (
	"fmt"
	"path/filepath"
	"strings"
)

// imageExtensions lists the label suffixes treated as image references.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// IsImageRef reports whether an answer label names an image file.
func IsImageRef(label string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(strings.TrimSpace(label)))]
}

// Option is a single answer option. Exactly one of Text or Image is set.
type Option struct {
	Text    string
	Image   string
	Correct bool
}

// IsImage reports whether the option is rendered as an image.
func (o Option) IsImage() bool {
	return o.Image != ""
}

// Question is an immutable quiz question loaded from the pool file.
type Question struct {
	Prompt       string
	Image        string
	Video        string
	Options      []Option
	CorrectCount int
}

// CorrectIndexes returns the canonical indexes of the correct options.
func (q *Question) CorrectIndexes() []int {
	var idx []int
	for i, o := range q.Options {
		if o.Correct {
			idx = append(idx, i)
		}
	}
	return idx
}

// OptionLabel returns the display label for the option at canonical index i.
// Image options use a placeholder instead of the image path.
func (q *Question) OptionLabel(i int) string {
	o := q.Options[i]
	if o.IsImage() {
		return fmt.Sprintf("Answer %d (Image)", i+1)
	}
	return o.Text
}

// CorrectLabels returns the display labels of all correct options in
// canonical order.
func (q *Question) CorrectLabels() []string {
	var labels []string
	for _, i := range q.CorrectIndexes() {
		labels = append(labels, q.OptionLabel(i))
	}
	return labels
}

// Pool is the ordered question set. Question positions are the weight
// vector indexes and must stay stable across runs.
type Pool struct {
	Version   string
	Questions []Question
}

// Len returns the number of questions.
func (p *Pool) Len() int {
	return len(p.Questions)
}

// Videos returns the distinct video references in pool order.
func (p *Pool) Videos() []string {
	seen := make(map[string]bool)
	var refs []string
	for _, q := range p.Questions {
		if q.Video == "" || seen[q.Video] {
			continue
		}
		seen[q.Video] = true
		refs = append(refs, q.Video)
	}
	return refs
}
