package advisor

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/agri-advisor/internal/fusion"
	"github.com/danielpatrickdp/agri-advisor/internal/generation"
	"github.com/danielpatrickdp/agri-advisor/internal/insights"
	"github.com/danielpatrickdp/agri-advisor/internal/knowledge"
	"github.com/danielpatrickdp/agri-advisor/internal/profile"
	"github.com/danielpatrickdp/agri-advisor/internal/prompt"
	"github.com/danielpatrickdp/agri-advisor/internal/shaper"
	"github.com/danielpatrickdp/agri-advisor/internal/weather"
)

// #region types
// Request is one question from a chat or UI caller.
type Request struct {
	Query      string `json:"query"`
	Language   string `json:"language"`
	ProfileRef *int64 `json:"profile_ref,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
}

// Response is the outcome of Answer. On failure Text holds the per-language apology.
type Response struct {
	Success          bool                `json:"success"`
	Text             string              `json:"text"`
	HTML             string              `json:"html,omitempty"`
	Confidence       float64             `json:"confidence"`
	Error            string              `json:"error,omitempty"`
	ErrorKind        string              `json:"error_kind,omitempty"`
	Elapsed          time.Duration       `json:"elapsed"`
	SessionID        string              `json:"session_id"`
	LanguageVerified bool                `json:"language_verified"`
	RepairAttempted  bool                `json:"repair_attempted"`
	ContextUsed      *fusion.ContextUsed `json:"context_used,omitempty"`
	MissingData      []string            `json:"missing_data,omitempty"`
	Stats            *shaper.Stats       `json:"stats,omitempty"`
}

// KindInvalidInput marks requests rejected before any external call.
const KindInvalidInput = "invalid_input"

// ErrEmptyQuery is returned for blank questions.
var ErrEmptyQuery = errors.New("empty query")

// Deps are the external handles the advisor talks to. Weather and DB may be nil.
type Deps struct {
	Knowledge knowledge.Source
	Profiles  profile.Store
	Generator generation.Generator
	Weather   weather.Provider
	DB        *sql.DB
}

// Options tunes one advisor instance.
type Options struct {
	Response          prompt.Options
	Policy            profile.Policy
	Limits            profile.Limits
	Knowledge         knowledge.Config
	LookupTimeout     time.Duration
	GenerationTimeout time.Duration
}

// DefaultOptions returns the standard limits and answer format.
func DefaultOptions() Options {
	return Options{
		Response:          prompt.DefaultOptions(),
		Policy:            profile.PolicyRequireProfile,
		Limits:            profile.DefaultLimits(),
		Knowledge:         knowledge.DefaultConfig(),
		LookupTimeout:     5 * time.Second,
		GenerationTimeout: generation.DefaultTimeout,
	}
}

// #endregion types

// #region advisor
// Advisor answers farming questions grounded in the asker's profile and curated knowledge.
type Advisor struct {
	scorer  *knowledge.Scorer
	lookup  *profile.Lookup
	gen     *generation.Bounded
	shaper  *shaper.Shaper
	weather weather.Provider
	db      *sql.DB
	opts    Options
	log     *zap.Logger
}

// New wires an Advisor. Language repair goes through the same bounded generator.
func New(deps Deps, opts Options, log *zap.Logger) *Advisor {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = DefaultOptions().LookupTimeout
	}
	gen := generation.NewBounded(deps.Generator, opts.GenerationTimeout)
	return &Advisor{
		scorer:  knowledge.NewScorer(deps.Knowledge, opts.Knowledge, log),
		lookup:  profile.NewLookup(deps.Profiles, opts.Policy, opts.Limits, log),
		gen:     gen,
		shaper:  shaper.New(generation.NewTranslator(gen), log),
		weather: deps.Weather,
		db:      deps.DB,
		opts:    opts,
		log:     log,
	}
}

// #endregion advisor

// #region answer
// Answer runs the full pipeline for one question. It never returns an error:
// failures are reported in the Response with the apology text.
func (a *Advisor) Answer(ctx context.Context, req Request) Response {
	start := time.Now()
	lang := prompt.Normalize(req.Language)
	session := req.SessionID
	if session == "" {
		session = uuid.NewString()
	}

	if strings.TrimSpace(req.Query) == "" {
		a.log.Info("[ADVISOR] rejected empty query", zap.String("session", session))
		return Response{
			Text:      prompt.Apology(lang),
			Error:     ErrEmptyQuery.Error(),
			ErrorKind: KindInvalidInput,
			Elapsed:   time.Since(start),
			SessionID: session,
		}
	}

	kres, pres := a.gather(ctx, req.Query, req.ProfileRef)
	snap := a.currentWeather(ctx, pres)
	bundle := analyze(pres.Measurement, snap)
	ac := fusion.Fuse(fusion.Inputs{
		Profile:   &pres,
		Knowledge: &kres,
		Analysis:  bundle,
		Weather:   snap,
		SessionID: session,
	})

	opts := a.opts.Response
	opts.Language = lang
	composed := prompt.Compose(req.Query, ac, opts)

	used := ac.ContextUsed
	resp := Response{
		SessionID:   session,
		ContextUsed: &used,
		MissingData: missingData(bundle, pres, kres),
	}

	res, err := a.gen.Generate(ctx, generation.Request{Prompt: composed, Language: lang})
	if err != nil {
		resp.Text = prompt.Apology(lang)
		resp.Error = err.Error()
		resp.ErrorKind = string(generation.KindOf(err))
		resp.Elapsed = time.Since(start)
		a.log.Warn("[ADVISOR] generation failed",
			zap.String("session", session),
			zap.String("kind", resp.ErrorKind),
			zap.Duration("elapsed", resp.Elapsed),
			zap.Error(err))
		a.record(req, pres, kres, resp)
		return resp
	}

	final := a.shaper.Finalize(ctx, res.Text, shaper.Config{
		MaxWords: opts.MaxWords,
		Markdown: opts.Markdown,
		Emojis:   opts.Emojis,
		Language: lang,
	}, ac.Confidence)

	resp.Success = true
	resp.Text = final.Text
	resp.HTML = final.HTML
	resp.Confidence = final.Confidence
	resp.LanguageVerified = final.LanguageVerified
	resp.RepairAttempted = final.RepairAttempted
	resp.Stats = &final.Stats
	resp.Elapsed = time.Since(start)

	a.log.Info("[ADVISOR] answered",
		zap.String("session", session),
		zap.String("language", lang),
		zap.Float64("confidence", resp.Confidence),
		zap.Bool("language_verified", resp.LanguageVerified),
		zap.Stringer("context", used),
		zap.Duration("elapsed", resp.Elapsed))
	a.record(req, pres, kres, resp)
	return resp
}

// Insights runs the inference engine directly.
func (a *Advisor) Insights(soil insights.SoilMeasurement, cond insights.Conditions) insights.Analysis {
	return insights.Infer(soil, cond)
}

// #endregion answer

// #region stages
// gather runs knowledge scoring and profile lookup concurrently under the lookup timeout.
func (a *Advisor) gather(ctx context.Context, query string, ref *int64) (knowledge.Result, profile.Result) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.LookupTimeout)
	defer cancel()

	var (
		kres knowledge.Result
		pres profile.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		kres = a.scorer.Score(gctx, query)
		return nil
	})
	g.Go(func() error {
		pres = a.lookup.Resolve(gctx, ref, query)
		return nil
	})
	_ = g.Wait()
	return kres, pres
}

// analyze infers from the latest soil measurement. Temperature falls back to
// the weather snapshot; bands still missing become NaN so the dependent slices
// are reported missing.
func analyze(m *insights.SoilMeasurement, snap *weather.Snapshot) *insights.Analysis {
	if m == nil {
		return nil
	}
	cond := m.Conditions()
	if math.IsNaN(cond.Temperature) && snap != nil {
		cond.Temperature = snap.Temperature
	}
	a := insights.Infer(*m, cond)
	return &a
}

func (a *Advisor) currentWeather(ctx context.Context, pres profile.Result) *weather.Snapshot {
	farm := pres.PrimaryFarm()
	if a.weather == nil || farm == nil || !farm.HasCoordinates() {
		return nil
	}
	snap, err := a.weather.Current(ctx, *farm.Latitude, *farm.Longitude)
	if err != nil {
		a.log.Warn("[ADVISOR] weather unavailable", zap.Int64("farm", farm.ID), zap.Error(err))
		return nil
	}
	return snap
}

func missingData(bundle *insights.Analysis, pres profile.Result, kres knowledge.Result) []string {
	var out []string
	if bundle != nil {
		out = append(out, bundle.MissingData...)
	}
	out = append(out, pres.Gaps...)
	for _, cat := range knowledge.Categories {
		if err, ok := kres.Failed[cat]; ok {
			out = append(out, string(cat)+": "+err.Error())
		}
	}
	return out
}

// #endregion stages
