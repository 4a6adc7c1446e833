package cmd

import (
	"strings"
	"testing"

	"github.com/abhisek/drivequiz/internal/pool"
	"github.com/abhisek/drivequiz/internal/store"
)

func TestHardestQuestions(t *testing.T) {
	stats := map[int]*store.QuestionStat{
		0: {QuestionIndex: 0, Attempts: 4, Correct: 4},
		1: {QuestionIndex: 1, Attempts: 2, Correct: 0},
		2: {QuestionIndex: 2, Attempts: 5, Correct: 0},
		3: {QuestionIndex: 3, Attempts: 3, Correct: 1},
		9: {QuestionIndex: 9, Attempts: 1, Correct: 0}, // no longer in the pool
	}

	got := hardestQuestions(stats, 4, 3)
	want := []int{2, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("got %d questions, want %d", len(got), len(want))
	}
	for i, idx := range want {
		if got[i].QuestionIndex != idx {
			t.Errorf("position %d = question %d, want %d", i, got[i].QuestionIndex, idx)
		}
	}
}

func TestDescribePool(t *testing.T) {
	p := &pool.Pool{Version: "v1.0.0", Questions: []pool.Question{
		{Prompt: "a", Image: "a.png", Video: "https://x/v.mp4", Options: []pool.Option{{Text: "x"}, {Image: "y.png", Correct: true}}},
		{Prompt: "b", Video: "https://x/v.mp4", Options: []pool.Option{{Text: "z", Correct: true}}},
	}}
	got := describePool(p)
	for _, want := range []string{"v1.0.0", "2 questions", "3 options (1 image)", "1 images", "1 videos"} {
		if !strings.Contains(got, want) {
			t.Errorf("describePool = %q, missing %q", got, want)
		}
	}
}
