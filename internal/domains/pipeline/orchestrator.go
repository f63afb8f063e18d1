package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/voxrelay/internal/constants/prompts"
	"github.com/xpanvictor/voxrelay/internal/domains/cache"
	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/internal/types"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
	"github.com/xpanvictor/voxrelay/pkg/assistant"
	"github.com/xpanvictor/voxrelay/pkg/io/stt"
	"github.com/xpanvictor/voxrelay/pkg/io/tts"
)

type Outcome string

const (
	OutcomeComputed Outcome = "computed"
	OutcomeCacheHit Outcome = "cache_hit"
	OutcomeFallback Outcome = "fallback"
)

// ProfileResolver supplies the personalization for a session's prompt.
type ProfileResolver interface {
	ResolveProfile(ctx context.Context, sessionKey string) (types.Profile, error)
}

type Options struct {
	Deadline         time.Duration
	ModelTimeout     time.Duration
	FallbackTimeout  time.Duration
	Language         string
	Temperature      float64
	MaxTokens        int
	HistoryWindow    int
	CacheKeyMaxRunes int
	FallbackPhrase   string
}

func DefaultOptions() Options {
	return Options{
		Deadline:         15 * time.Second,
		ModelTimeout:     10 * time.Second,
		FallbackTimeout:  10 * time.Second,
		Language:         "es",
		Temperature:      0.3,
		MaxTokens:        100,
		HistoryWindow:    session.DefaultWindow,
		CacheKeyMaxRunes: cache.DefaultMaxUtteranceRunes,
		FallbackPhrase:   DefaultFallbackPhrase,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Deadline <= 0 {
		o.Deadline = d.Deadline
	}
	if o.ModelTimeout <= 0 {
		o.ModelTimeout = d.ModelTimeout
	}
	if o.FallbackTimeout <= 0 {
		o.FallbackTimeout = d.FallbackTimeout
	}
	if o.Language == "" {
		o.Language = d.Language
	}
	if o.HistoryWindow <= 0 {
		o.HistoryWindow = d.HistoryWindow
	}
	if o.FallbackPhrase == "" {
		o.FallbackPhrase = d.FallbackPhrase
	}
	return o
}

type Deps struct {
	Recognizer  stt.Recognizer
	Model       assistant.Assistant
	Synthesizer tts.Synthesizer
	Sessions    session.SessionService
	Cache       cache.ResponseCache
	Profiles    ProfileResolver
}

// Result is the audio handed back to the device. Audio is empty only when
// Process also returns ErrFallbackUnavailable.
type Result struct {
	RequestID   string
	Audio       []byte
	ContentType string
	Outcome     Outcome
	FailureKind FailureKind
	Transcript  string
	Reply       string
	Trail       []string
	Elapsed     time.Duration
}

type Orchestrator struct {
	deps     Deps
	opts     Options
	fallback *fallbackAudio
	counters *Counters
	logger   *Logger.Logger
}

func New(deps Deps, opts Options, logger *Logger.Logger) *Orchestrator {
	opts = opts.withDefaults()
	return &Orchestrator{
		deps: deps,
		opts: opts,
		fallback: &fallbackAudio{
			synth:    deps.Synthesizer,
			phrase:   opts.FallbackPhrase,
			language: opts.Language,
			timeout:  opts.FallbackTimeout,
		},
		counters: newCounters(),
		logger:   logger,
	}
}

// Warmup synthesizes the fallback phrase ahead of the first turn.
func (o *Orchestrator) Warmup(ctx context.Context) error {
	_, err := o.fallback.get(ctx)
	if err != nil {
		o.logger.Warnf("fallback warmup failed, will retry on demand: %v", err)
		return err
	}
	o.logger.Infof("fallback audio ready")
	return nil
}

func (o *Orchestrator) Stats() Snapshot {
	return o.counters.Snapshot()
}

type turnOutput struct {
	res *Result
	err error
}

// Process runs one turn under the outer deadline. Every processing failure,
// timeouts included, yields the fallback audio with a nil error; the only
// errors returned are a blank session key and ErrFallbackUnavailable.
func (o *Orchestrator) Process(ctx context.Context, sessionKey string, payload []byte) (*Result, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return nil, session.ErrEmptySessionKey
	}

	start := time.Now()
	requestID := uuid.NewString()
	log := o.logger.With("request_id", requestID, "session", sessionKey)
	o.counters.turns.Add(1)

	turnCtx, cancel := context.WithTimeout(ctx, o.opts.Deadline)
	defer cancel()

	state := newTurnState()
	done := make(chan turnOutput, 1)
	go func() {
		res, err := o.run(turnCtx, state, log, sessionKey, payload)
		done <- turnOutput{res: res, err: err}
	}()

	var out turnOutput
	select {
	case out = <-done:
	case <-turnCtx.Done():
		select {
		case out = <-done:
		default:
			out.err = turnCtx.Err()
		}
	}

	if out.err == nil {
		out.res.RequestID = requestID
		out.res.Trail = state.snapshot()
		out.res.Elapsed = time.Since(start)
		log.Infow("turn completed", "outcome", out.res.Outcome, "elapsed", out.res.Elapsed)
		return out.res, nil
	}

	kind := classify(turnCtx, out.err)
	state.fallback()
	o.counters.failed(kind)
	log.Errorw("turn failed", "kind", kind, "state", state.current(), "error", out.err)

	res := &Result{
		RequestID:   requestID,
		ContentType: o.deps.Synthesizer.Format(),
		Outcome:     OutcomeFallback,
		FailureKind: kind,
		Trail:       state.snapshot(),
	}
	audio, err := o.fallback.get(ctx)
	res.Elapsed = time.Since(start)
	if err != nil {
		log.Errorw("fallback audio unavailable", "error", err)
		return res, err
	}
	res.Audio = audio
	return res, nil
}

// run does the work of one turn. It keeps the session lock until it
// returns, even after the caller has given up on it.
func (o *Orchestrator) run(
	ctx context.Context,
	state *turnState,
	log *Logger.Logger,
	sessionKey string,
	payload []byte,
) (*Result, error) {
	state.fire(evTranscribe)
	transcript, err := o.deps.Recognizer.Transcribe(ctx, payload, o.opts.Language)
	if err != nil {
		return nil, stageErr(StageTranscribe, KindRecognitionFailure, err)
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, stageErr(StageTranscribe, KindRecognitionFailure, stt.ErrEmptyTranscript)
	}

	unlock, err := o.deps.Sessions.Lock(ctx, sessionKey)
	if err != nil {
		return nil, stageErr(StageLock, KindDeadlineExceeded, err)
	}
	defer unlock()

	state.fire(evCheckCache)
	key := cache.NewKey(sessionKey, transcript, o.opts.CacheKeyMaxRunes)
	audio, hit, err := o.deps.Cache.Get(ctx, key)
	if err != nil {
		log.Warnw("cache read failed, computing", "error", err)
	}
	if hit && err == nil {
		state.fire(evHit)
		o.counters.cacheHits.Add(1)
		state.fire(evFinish)
		return &Result{
			Audio:       audio,
			ContentType: o.deps.Synthesizer.Format(),
			Outcome:     OutcomeCacheHit,
			Transcript:  transcript,
		}, nil
	}

	state.fire(evCompute)
	profile, err := o.deps.Profiles.ResolveProfile(ctx, sessionKey)
	if err != nil {
		return nil, stageErr(StageProfile, KindStorageFailure, err)
	}
	history, err := o.deps.Sessions.LoadHistory(ctx, sessionKey)
	if err != nil {
		return nil, stageErr(StageHistory, KindStorageFailure, err)
	}

	history = session.RefreshSystemPrompt(history, prompts.BuildMessage(profile))
	history = append(history, types.UserMessage(transcript))
	history = session.Truncate(history, o.opts.HistoryWindow)

	reply, err := o.complete(ctx, history)
	if err != nil {
		return nil, err
	}

	history = append(history, types.AssistantMessage(reply))
	history = session.Truncate(history, o.opts.HistoryWindow)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := o.deps.Sessions.SaveHistory(ctx, sessionKey, history); err != nil {
		o.counters.historyErrors.Add(1)
		log.Warnw("history not persisted for this turn", "kind", KindStorageFailure, "error", err)
	}

	state.fire(evSynthesize)
	audio, err = o.deps.Synthesizer.Synthesize(ctx, reply, o.opts.Language)
	if err != nil {
		return nil, stageErr(StageSynthesize, KindSynthesisFailure, err)
	}

	// the caller may already have answered with the fallback
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	state.fire(evWriteCache)
	if err := o.deps.Cache.Put(ctx, key, audio); err != nil {
		o.counters.cacheErrors.Add(1)
		log.Warnw("response not cached", "kind", KindStorageFailure, "error", err)
	}
	o.counters.computed.Add(1)
	state.fire(evFinish)

	return &Result{
		Audio:       audio,
		ContentType: o.deps.Synthesizer.Format(),
		Outcome:     OutcomeComputed,
		Transcript:  transcript,
		Reply:       reply,
	}, nil
}

// complete calls the model under its own sub-deadline.
func (o *Orchestrator) complete(ctx context.Context, history []types.Message) (string, error) {
	mctx, cancel := context.WithTimeout(ctx, o.opts.ModelTimeout)
	defer cancel()

	input := assistant.NewAssistantInput(types.ToAssistantMessages(history), o.opts.Temperature, o.opts.MaxTokens)
	input.Timeout = o.opts.ModelTimeout
	out, err := o.deps.Model.ProcessPrompt(mctx, input)
	if err == nil {
		return out.Response.Content, nil
	}
	if ctx.Err() == nil && (errors.Is(mctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)) {
		return "", stageErr(StageModel, KindModelTimeout, err)
	}
	return "", stageErr(StageModel, KindModelFailure, err)
}
