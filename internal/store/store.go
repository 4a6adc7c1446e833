package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	eventAnswer  = "answer"
	eventSession = "session"
)

// event is the on-disk line format shared by all event types. Every line
// carries a sequence number so events keep a single global order.
type event struct {
	Sequence  int64     `json:"seq"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"ts"`
	SessionID string    `json:"session_id"`

	QuestionIndex *int     `json:"question,omitempty"`
	Prompt        string   `json:"prompt,omitempty"`
	Correct       *bool    `json:"correct,omitempty"`
	Certainty     *float64 `json:"certainty,omitempty"`
	WeightBefore  *float64 `json:"weight_before,omitempty"`
	WeightAfter   *float64 `json:"weight_after,omitempty"`

	Action          string `json:"action,omitempty"`
	Questions       int    `json:"questions,omitempty"`
	Solved          int    `json:"solved,omitempty"`
	SolvedCorrectly int    `json:"solved_correctly,omitempty"`
	DurationSecs    int    `json:"duration_secs,omitempty"`
}

// Store is an append-only JSON-lines history file.
type Store struct {
	mu   sync.Mutex
	path string
	next int64
	now  func() time.Time
}

var (
	_ EventRepo = (*Store)(nil)
	_ QueryRepo = (*Store)(nil)
)

// Open prepares the history file at path, creating its directory. The
// sequence counter resumes after the last stored event.
func Open(path string) (*Store, error) {
	if err := EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	s := &Store{path: path, next: 1, now: time.Now}

	events, err := s.readAll()
	if err != nil {
		return nil, err
	}
	if n := len(events); n > 0 {
		s.next = events[n-1].Sequence + 1
	}
	return s, nil
}

// Path returns the history file location.
func (s *Store) Path() string {
	return s.path
}

// Close is a no-op; every append opens and closes the file.
func (s *Store) Close() error {
	return nil
}

// Truncate removes all stored events.
func (s *Store) Truncate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("truncate history: %w", err)
	}
	s.next = 1
	return nil
}

func (s *Store) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	idx := data.QuestionIndex
	correct := data.Correct
	certainty := data.Certainty
	before := data.WeightBefore
	after := data.WeightAfter
	return s.append(ctx, event{
		Type:          eventAnswer,
		SessionID:     data.SessionID,
		QuestionIndex: &idx,
		Prompt:        data.Prompt,
		Correct:       &correct,
		Certainty:     &certainty,
		WeightBefore:  &before,
		WeightAfter:   &after,
	})
}

func (s *Store) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return s.append(ctx, event{
		Type:            eventSession,
		SessionID:       data.SessionID,
		Action:          data.Action,
		Questions:       data.Questions,
		Solved:          data.Solved,
		SolvedCorrectly: data.SolvedCorrectly,
		DurationSecs:    data.DurationSecs,
	})
}

func (s *Store) append(ctx context.Context, e event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e.Sequence = s.next
	e.Timestamp = s.now().UTC()

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("append %s event: %w", e.Type, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	s.next++
	return nil
}

// readAll loads every event. Unparseable lines are skipped so a torn final
// write never hides the rest of the history.
func (s *Store) readAll() ([]event, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	var events []event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var e event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Sequence < events[j].Sequence })
	return events, nil
}

// matches applies the sequence and time bounds of opts.
func (o QueryOpts) matches(e event) bool {
	if e.Sequence <= o.After {
		return false
	}
	if o.Before > 0 && e.Sequence >= o.Before {
		return false
	}
	if !o.From.IsZero() && e.Timestamp.Before(o.From) {
		return false
	}
	if !o.To.IsZero() && e.Timestamp.After(o.To) {
		return false
	}
	return true
}

// QueryAnswers returns answer events, most recent first.
func (s *Store) QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerRecord, error) {
	events, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var out []AnswerRecord
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.Type != eventAnswer || !opts.matches(e) || e.QuestionIndex == nil {
			continue
		}
		out = append(out, AnswerRecord{
			Sequence:  e.Sequence,
			Timestamp: e.Timestamp,
			AnswerEventData: AnswerEventData{
				SessionID:     e.SessionID,
				QuestionIndex: *e.QuestionIndex,
				Prompt:        e.Prompt,
				Correct:       deref(e.Correct),
				Certainty:     deref(e.Certainty),
				WeightBefore:  deref(e.WeightBefore),
				WeightAfter:   deref(e.WeightAfter),
			},
		})
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

// QuerySessionSummaries returns finished sessions, most recent first.
func (s *Store) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	events, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var out []SessionSummaryRecord
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.Type != eventSession || e.Action != "end" || !opts.matches(e) {
			continue
		}
		out = append(out, SessionSummaryRecord{
			Sequence:        e.Sequence,
			Timestamp:       e.Timestamp,
			SessionID:       e.SessionID,
			Solved:          e.Solved,
			SolvedCorrectly: e.SolvedCorrectly,
			DurationSecs:    e.DurationSecs,
		})
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

// QuestionStats aggregates all answer events by question index.
func (s *Store) QuestionStats(ctx context.Context) (map[int]*QuestionStat, error) {
	answers, err := s.QueryAnswers(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}
	stats := make(map[int]*QuestionStat)
	for _, a := range answers {
		st, ok := stats[a.QuestionIndex]
		if !ok {
			st = &QuestionStat{QuestionIndex: a.QuestionIndex}
			stats[a.QuestionIndex] = st
		}
		st.Attempts++
		if a.Correct {
			st.Correct++
		}
		if a.Timestamp.After(st.LastAnswered) {
			st.LastAnswered = a.Timestamp
		}
	}
	return stats, nil
}

func (s *Store) snapshot(ctx context.Context) ([]event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
