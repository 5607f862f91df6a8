package sentiment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/manamitra/companion/backend/internal/analysis/intent"
	"github.com/manamitra/companion/backend/internal/metrics"
	"github.com/manamitra/companion/backend/internal/model/profile"
	sentimentmodel "github.com/manamitra/companion/backend/internal/model/sentiment"
	"github.com/manamitra/companion/backend/internal/store"
)

var (
	ErrInsufficientData   = errors.New("insufficient conversation data")
	ErrScoringUnavailable = errors.New("scoring unavailable")
	ErrProfileUnavailable = errors.New("user profile unavailable")
	ErrUserRequired       = errors.New("user id is required")
)

// DefaultScorerTimeout bounds one external scorer call.
const DefaultScorerTimeout = 30 * time.Second

// State describes where an evaluation's record came from.
type State string

const (
	StateFresh            State = "fresh"
	StateCached           State = "cached"
	StateInsufficientData State = "insufficient_data"
)

// Evaluation is the outcome of one Evaluate call.
type Evaluation struct {
	State          State                  `json:"state"`
	Record         *sentimentmodel.Record `json:"record,omitempty"`
	Presentation   *Presentation          `json:"presentation,omitempty"`
	CrisisDetected bool                   `json:"crisisDetected"`
	CrisisSignals  []string               `json:"crisisSignals,omitempty"`
}

// Publisher receives every freshly persisted record.
type Publisher interface {
	Publish(record sentimentmodel.Record)
}

// Options tunes an Engine. Zero values fall back to defaults.
type Options struct {
	HistoryTurns  int
	ScorerTimeout time.Duration
	Publisher     Publisher
	Metrics       *metrics.SentimentMetrics
	Logger        *zap.Logger
	Clock         func() time.Time
}

// Engine decides between reusing the latest sentiment record and asking the
// external scorer for a new one.
type Engine struct {
	conversations store.ConversationStore
	sentiments    store.SentimentStore
	profiles      profile.Source
	scorer        Scorer

	historyTurns int
	timeout      time.Duration
	publisher    Publisher
	metrics      *metrics.SentimentMetrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewEngine wires the engine to its collaborators.
func NewEngine(conversations store.ConversationStore, sentiments store.SentimentStore, profiles profile.Source, scorer Scorer, opts Options) *Engine {
	e := &Engine{
		conversations: conversations,
		sentiments:    sentiments,
		profiles:      profiles,
		scorer:        scorer,
		historyTurns:  opts.HistoryTurns,
		timeout:       opts.ScorerTimeout,
		publisher:     opts.Publisher,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		now:           opts.Clock,
	}
	if e.historyTurns < 1 {
		e.historyTurns = DefaultHistoryTurns
	}
	if e.timeout <= 0 {
		e.timeout = DefaultScorerTimeout
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Evaluate returns the user's current sentiment, calling the scorer at most once
// per distinct excerpt. With no scorable history it returns ErrInsufficientData
// together with an evaluation in the insufficient_data state.
func (e *Engine) Evaluate(ctx context.Context, userID string) (Evaluation, error) {
	if userID == "" {
		return Evaluation{}, ErrUserRequired
	}

	turns, err := e.conversations.ListTurns(ctx, userID)
	if err != nil {
		return Evaluation{}, fmt.Errorf("load conversation history: %w", err)
	}
	excerpt := AssembleExcerpt(turns, e.historyTurns)

	latest, found, err := e.sentiments.LatestRecord(ctx, userID)
	if err != nil {
		return Evaluation{}, fmt.Errorf("load latest sentiment: %w", err)
	}
	var latestPtr *sentimentmodel.Record
	if found {
		latestPtr = &latest
	}

	decision := Decide(excerpt, latestPtr)
	e.metrics.ObserveDecision(decision.String())

	switch decision {
	case DecideInsufficientData:
		return Evaluation{State: StateInsufficientData}, ErrInsufficientData
	case DecideReuse:
		e.logger.Debug("reusing cached sentiment", zap.String("user_id", userID), zap.String("record_id", latest.ID))
		return e.evaluation(StateCached, latest), nil
	}

	record, err := e.score(ctx, userID, excerpt, latestPtr)
	if err != nil {
		return Evaluation{}, err
	}
	return e.evaluation(StateFresh, record), nil
}

func (e *Engine) score(ctx context.Context, userID, excerpt string, latest *sentimentmodel.Record) (sentimentmodel.Record, error) {
	p, err := e.profiles.Load(ctx)
	if err != nil {
		return sentimentmodel.Record{}, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	raw, err := e.scorer.Evaluate(callCtx, p, excerpt)
	elapsed := time.Since(started).Seconds()
	if err != nil {
		e.metrics.ObserveScorer(metrics.ScorerUnavailable, elapsed)
		e.logger.Warn("sentiment scorer failed", zap.String("user_id", userID), zap.Error(err))
		return sentimentmodel.Record{}, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}

	result, degraded := Normalize(raw)
	outcome := metrics.ScorerSuccess
	if degraded {
		outcome = metrics.ScorerDegraded
		e.logger.Warn("sentiment scorer output not parseable, storing degraded record", zap.String("user_id", userID))
	}
	e.metrics.ObserveScorer(outcome, elapsed)

	record := sentimentmodel.Record{
		UserID:      userID,
		SourceText:  excerpt,
		Score:       result.Score,
		Level:       result.Level,
		Methodology: result.Methodology,
		Degraded:    degraded,
		CreatedAt:   e.timestamp(latest),
	}
	record, err = e.sentiments.AppendRecord(ctx, record)
	if err != nil {
		return sentimentmodel.Record{}, fmt.Errorf("persist sentiment: %w", err)
	}

	e.logger.Info("stored sentiment record",
		zap.String("user_id", userID),
		zap.String("record_id", record.ID),
		zap.String("level", record.Level),
		zap.String("score", string(record.Score)),
		zap.Bool("degraded", degraded))

	if e.publisher != nil {
		e.publisher.Publish(record)
	}
	return record, nil
}

// timestamp never moves backwards relative to the user's latest record.
func (e *Engine) timestamp(latest *sentimentmodel.Record) time.Time {
	now := e.now().UTC()
	if latest != nil && now.Before(latest.CreatedAt) {
		return latest.CreatedAt
	}
	return now
}

func (e *Engine) evaluation(state State, record sentimentmodel.Record) Evaluation {
	presentation := Present(record)
	signals := intent.DetectCrisis(record.SourceText)
	return Evaluation{
		State:          state,
		Record:         &record,
		Presentation:   &presentation,
		CrisisDetected: len(signals) > 0,
		CrisisSignals:  signals,
	}
}

// TrendPoint is one numeric sample of the sentiment trend.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// History lists every stored record and the numeric trend derived from them.
type History struct {
	Records []sentimentmodel.Record `json:"records"`
	Trend   []TrendPoint            `json:"trend"`
}

// History returns records newest first and the trend oldest first. Records whose
// score is not numeric are listed but left out of the trend.
func (e *Engine) History(ctx context.Context, userID string) (History, error) {
	if userID == "" {
		return History{}, ErrUserRequired
	}

	records, err := e.sentiments.ListRecords(ctx, userID)
	if err != nil {
		return History{}, fmt.Errorf("load sentiment history: %w", err)
	}

	trend := make([]TrendPoint, 0, len(records))
	for _, record := range records {
		if val, ok := record.Score.Numeric(); ok {
			trend = append(trend, TrendPoint{Timestamp: record.CreatedAt, Score: val})
		}
	}
	sort.SliceStable(trend, func(i, j int) bool {
		return trend[i].Timestamp.Before(trend[j].Timestamp)
	})

	newestFirst := make([]sentimentmodel.Record, len(records))
	for i, record := range records {
		newestFirst[len(records)-1-i] = record
	}

	return History{Records: newestFirst, Trend: trend}, nil
}
