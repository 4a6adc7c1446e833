package quiz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drivequiz/internal/pool"
)

// abcQuestion has options a, b, c with a and c correct.
func abcQuestion() *pool.Question {
	return &pool.Question{
		Prompt: "Pick a and c",
		Options: []pool.Option{
			{Text: "a", Correct: true},
			{Text: "b", Correct: false},
			{Text: "c", Correct: true},
		},
		CorrectCount: 2,
	}
}

func TestGrade_ExactSetMatch(t *testing.T) {
	q := abcQuestion()
	identity := []int{0, 1, 2}

	tests := []struct {
		name       string
		selections []bool
		want       bool
	}{
		{"a and c", []bool{true, false, true}, true},
		{"only a", []bool{true, false, false}, false},
		{"a b c", []bool{true, true, true}, false},
		{"nothing", []bool{false, false, false}, false},
		{"only b", []bool{false, true, false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Grade(q, identity, tt.selections)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrade_UsesDisplayOrder(t *testing.T) {
	q := abcQuestion()
	// Displayed as c, b, a.
	order := []int{2, 1, 0}

	got, err := Grade(q, order, []bool{true, false, true})
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Grade(q, order, []bool{false, true, true})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestGrade_IsPure(t *testing.T) {
	q := abcQuestion()
	order := []int{1, 2, 0}
	sel := []bool{false, true, true}
	first, err := Grade(q, order, sel)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := Grade(q, order, sel)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
	assert.Equal(t, []bool{false, true, true}, sel, "selections must not be modified")
}

func TestGrade_SelectionCountMismatch(t *testing.T) {
	_, err := Grade(abcQuestion(), []int{0, 1, 2}, []bool{true})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "selections", ve.Field)
}

func TestParseCertainty(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"0.5", 0.5, false},
		{" 1 ", 1, false},
		{"1.0", 1, false},
		{"1e-3", 0.001, false},
		{"abc", 0, true},
		{"", 0, true},
		{"0", 0, true},
		{"-0.2", 0, true},
		{"1.01", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCertainty(tt.in)
			if tt.wantErr {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
				assert.Equal(t, "certainty", ve.Field)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestCorrectLabels_ImagePlaceholder(t *testing.T) {
	q := &pool.Question{Options: []pool.Option{
		{Text: "Stop", Correct: true},
		{Image: "signs/yield.png", Correct: false},
		{Image: "signs/stop.png", Correct: true},
	}}
	assert.Equal(t, []string{"Stop", "Answer 3 (Image)"}, q.CorrectLabels())
}
