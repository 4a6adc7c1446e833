package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/drivequiz/internal/pool"
	"github.com/abhisek/drivequiz/internal/store"
)

// Phase is the lifecycle state of the current question.
type Phase int

const (
	PhaseIdle      Phase = iota // No question shown yet
	PhaseDisplayed              // Question shown, awaiting submit
	PhaseSubmitted              // Submit received, grading in progress
	PhaseGraded                 // Result available, awaiting Next
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDisplayed:
		return "displayed"
	case PhaseSubmitted:
		return "submitted"
	case PhaseGraded:
		return "graded"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Counters tracks answers in the current run.
type Counters struct {
	Solved          int
	SolvedCorrectly int
}

// Accuracy returns the fraction answered correctly.
func (c Counters) Accuracy() float64 {
	if c.Solved == 0 {
		return 0
	}
	return float64(c.SolvedCorrectly) / float64(c.Solved)
}

// WeightSaver persists the weight vector.
type WeightSaver interface {
	Save(weights []float64) error
}

// Presentation is one showing of a question with its options shuffled.
// Order[k] is the canonical index of the option displayed at position k.
type Presentation struct {
	Index    int
	Question *pool.Question
	Order    []int
}

// Options returns the question's options in displayed order.
func (p *Presentation) Options() []pool.Option {
	opts := make([]pool.Option, len(p.Order))
	for k, i := range p.Order {
		opts[k] = p.Question.Options[i]
	}
	return opts
}

// Result is the outcome of grading one submission.
type Result struct {
	Index         int
	Correct       bool
	CorrectLabels []string
	Certainty     float64
	WeightBefore  float64
	WeightAfter   float64
	Counters      Counters
}

// Options configures a new Engine.
type Options struct {
	Pool      *pool.Pool
	Weights   []float64
	Store     WeightSaver
	Events    store.EventRepo // optional
	Rand      *rand.Rand      // optional
	Logger    *zap.Logger     // optional
	SessionID string          // optional; a UUID is generated when empty
	Now       func() time.Time
}

// Engine owns the question pool, the weight vector and the session
// counters. It is not safe for concurrent use.
type Engine struct {
	pool      *pool.Pool
	weights   []float64
	store     WeightSaver
	events    store.EventRepo
	selector  *Selector
	log       *zap.Logger
	now       func() time.Time
	sessionID string
	startedAt time.Time

	phase    Phase
	current  *Presentation
	counters Counters
}

// NewEngine validates opts and starts a session.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Pool == nil || opts.Pool.Len() == 0 {
		return nil, &ConfigurationError{Message: "question pool is empty"}
	}
	if opts.Store == nil {
		return nil, &ConfigurationError{Message: "no weight store"}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	e := &Engine{
		pool:      opts.Pool,
		weights:   append([]float64(nil), opts.Weights...),
		store:     opts.Store,
		events:    opts.Events,
		selector:  NewSelector(opts.Rand),
		log:       log.Named("quiz").With(zap.String("session", sessionID)),
		now:       now,
		sessionID: sessionID,
	}
	e.startedAt = e.now()

	if len(e.weights) != e.pool.Len() {
		e.log.Warn("weight count does not match question count, resetting",
			zap.Int("weights", len(e.weights)), zap.Int("questions", e.pool.Len()))
		e.resetWeights()
	}

	e.appendSession(store.SessionEventData{
		SessionID: sessionID,
		Action:    "start",
		Questions: e.pool.Len(),
	})
	return e, nil
}

// SessionID returns the identifier of this run.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Phase returns the lifecycle state of the current question.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Current returns the displayed question, or nil before the first Next.
func (e *Engine) Current() *Presentation {
	return e.current
}

// Counters returns the run's answer counters.
func (e *Engine) Counters() Counters {
	return e.counters
}

// Weights returns a copy of the weight vector.
func (e *Engine) Weights() []float64 {
	return append([]float64(nil), e.weights...)
}

// Pool returns the question pool.
func (e *Engine) Pool() *pool.Pool {
	return e.pool
}

// Next draws the next question and shuffles its options. It may be called
// while a question is displayed, which skips it without grading.
func (e *Engine) Next() (*Presentation, error) {
	if e.phase == PhaseSubmitted {
		return nil, errors.New("grading in progress")
	}

	idx, err := e.selector.Select(e.weights)
	if errors.Is(err, ErrAllWeightsZero) {
		e.log.Warn("every question weight reached zero, resetting to uniform weights")
		e.resetWeights()
		idx, err = e.selector.Select(e.weights)
	}
	if err != nil {
		return nil, err
	}

	q := &e.pool.Questions[idx]
	e.current = &Presentation{
		Index:    idx,
		Question: q,
		Order:    e.selector.Shuffle(len(q.Options)),
	}
	e.phase = PhaseDisplayed
	e.log.Debug("question displayed", zap.Int("question", idx), zap.Float64("weight", e.weights[idx]))
	return e.current, nil
}

// Submit grades the displayed question. selections are in displayed order.
//
// Invalid certainty or selections return a *ValidationError and leave the
// question submittable with no state changed. A correct answer multiplies
// the question's weight by the certainty and persists the vector; if
// persisting fails, Submit returns the Result together with the error.
func (e *Engine) Submit(selections []bool, certaintyText string) (*Result, error) {
	switch e.phase {
	case PhaseIdle:
		return nil, ErrNotDisplayed
	case PhaseSubmitted, PhaseGraded:
		return nil, ErrAlreadySubmitted
	}
	e.phase = PhaseSubmitted

	p := e.current
	certainty, err := ParseCertainty(certaintyText)
	if err != nil {
		e.phase = PhaseDisplayed
		return nil, err
	}
	correct, err := Grade(p.Question, p.Order, selections)
	if err != nil {
		e.phase = PhaseDisplayed
		return nil, err
	}

	res := &Result{
		Index:         p.Index,
		Correct:       correct,
		CorrectLabels: p.Question.CorrectLabels(),
		Certainty:     certainty,
		WeightBefore:  e.weights[p.Index],
	}

	var saveErr error
	e.counters.Solved++
	if correct {
		e.counters.SolvedCorrectly++
		e.weights[p.Index] *= certainty
		if err := e.store.Save(e.weights); err != nil {
			e.log.Error("failed to persist weights", zap.Error(err))
			saveErr = fmt.Errorf("persist weights: %w", err)
		}
	}
	res.WeightAfter = e.weights[p.Index]
	res.Counters = e.counters
	e.phase = PhaseGraded

	e.log.Info("answer graded",
		zap.Int("question", p.Index),
		zap.Bool("correct", correct),
		zap.Float64("certainty", certainty),
		zap.Float64("weight", res.WeightAfter),
		zap.String("tally", fmt.Sprintf("%d/%d", e.counters.SolvedCorrectly, e.counters.Solved)),
	)

	if e.events != nil {
		err := e.events.AppendAnswerEvent(context.Background(), store.AnswerEventData{
			SessionID:     e.sessionID,
			QuestionIndex: p.Index,
			Prompt:        p.Question.Prompt,
			Correct:       correct,
			Certainty:     certainty,
			WeightBefore:  res.WeightBefore,
			WeightAfter:   res.WeightAfter,
		})
		if err != nil {
			e.log.Warn("failed to record answer event", zap.Error(err))
		}
	}

	return res, saveErr
}

// Summary describes the run so far.
type Summary struct {
	SessionID string
	Duration  time.Duration
	Counters
}

// Summary returns the run's totals.
func (e *Engine) Summary() Summary {
	return Summary{
		SessionID: e.sessionID,
		Duration:  e.now().Sub(e.startedAt),
		Counters:  e.counters,
	}
}

// Close records the end of the session.
func (e *Engine) Close() error {
	sum := e.Summary()
	e.appendSession(store.SessionEventData{
		SessionID:       e.sessionID,
		Action:          "end",
		Questions:       e.pool.Len(),
		Solved:          sum.Solved,
		SolvedCorrectly: sum.SolvedCorrectly,
		DurationSecs:    int(sum.Duration.Seconds()),
	})
	return nil
}

// resetWeights replaces the vector with uniform weights and persists it.
// A persistence failure is logged; the in-memory reset still applies.
func (e *Engine) resetWeights() {
	e.weights = make([]float64, e.pool.Len())
	for i := range e.weights {
		e.weights[i] = 1.0
	}
	if err := e.store.Save(e.weights); err != nil {
		e.log.Error("failed to persist reset weights", zap.Error(err))
	}
}

func (e *Engine) appendSession(data store.SessionEventData) {
	if e.events == nil {
		return
	}
	if err := e.events.AppendSessionEvent(context.Background(), data); err != nil {
		e.log.Warn("failed to record session event", zap.String("action", data.Action), zap.Error(err))
	}
}
