package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results, most recent first (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before (0 = no bound)
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// AnswerEventData captures one graded answer.
type AnswerEventData struct {
	SessionID     string
	QuestionIndex int
	Prompt        string
	Correct       bool
	Certainty     float64
	WeightBefore  float64
	WeightAfter   float64
}

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID       string
	Action          string // "start" or "end"
	Questions       int
	Solved          int
	SolvedCorrectly int
	DurationSecs    int
}

// AnswerRecord is a stored answer event.
type AnswerRecord struct {
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// SessionSummaryRecord is a finished session read back from history.
type SessionSummaryRecord struct {
	Sequence        int64
	Timestamp       time.Time
	SessionID       string
	Solved          int
	SolvedCorrectly int
	DurationSecs    int
}

// QuestionStat aggregates answers for one question index.
type QuestionStat struct {
	QuestionIndex int
	Attempts      int
	Correct       int
	LastAnswered  time.Time
}

// Accuracy returns the fraction of correct attempts.
func (q QuestionStat) Accuracy() float64 {
	if q.Attempts == 0 {
		return 0
	}
	return float64(q.Correct) / float64(q.Attempts)
}

// EventRepo provides append access to quiz events.
type EventRepo interface {
	// AppendAnswerEvent records a graded answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
}

// QueryRepo reads events back for statistics.
type QueryRepo interface {
	QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerRecord, error)
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)
	QuestionStats(ctx context.Context) (map[int]*QuestionStat, error)
}
