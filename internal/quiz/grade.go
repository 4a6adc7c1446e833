package quiz

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/drivequiz/internal/pool"
)

// ParseCertainty parses free-text certainty. Valid values lie in (0, 1].
func ParseCertainty(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, &ValidationError{Field: "certainty", Message: "enter a number between 0 and 1"}
	}
	c, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(c) {
		return 0, &ValidationError{Field: "certainty", Input: text, Message: "not a number"}
	}
	if c <= 0 || c > 1 {
		return 0, &ValidationError{Field: "certainty", Input: text, Message: "must be greater than 0 and at most 1"}
	}
	return c, nil
}

// Grade reports whether selections exactly match the correct option set.
// order maps displayed position to canonical option index; selections are
// in displayed order.
func Grade(q *pool.Question, order []int, selections []bool) (bool, error) {
	if len(order) != len(q.Options) {
		return false, &ValidationError{
			Field:   "selections",
			Message: fmt.Sprintf("display order has %d entries for %d options", len(order), len(q.Options)),
		}
	}
	if len(selections) != len(q.Options) {
		return false, &ValidationError{
			Field:   "selections",
			Message: fmt.Sprintf("got %d selections for %d options", len(selections), len(q.Options)),
		}
	}
	correct := true
	for pos, selected := range selections {
		i := order[pos]
		if i < 0 || i >= len(q.Options) {
			return false, &ValidationError{Field: "selections", Message: fmt.Sprintf("display order refers to option %d", i)}
		}
		if selected != q.Options[i].Correct {
			correct = false
		}
	}
	return correct, nil
}
