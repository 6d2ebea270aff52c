package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/agri-advisor/internal/advisor"
	"github.com/danielpatrickdp/agri-advisor/internal/config"
	"github.com/danielpatrickdp/agri-advisor/internal/generation"
	"github.com/danielpatrickdp/agri-advisor/internal/logging"
	"github.com/danielpatrickdp/agri-advisor/internal/prompt"
	"github.com/danielpatrickdp/agri-advisor/internal/store"
	"github.com/danielpatrickdp/agri-advisor/internal/weather"
)

// #region env
// env holds everything a command needs. Generator is nil for commands that
// never generate text.
type env struct {
	cfg       config.Config
	log       *zap.Logger
	store     *store.Store
	generator generation.Generator
	closers   []func() error
}

// opener builds an env from the global flags. Tests swap it for one backed by
// a temporary store and a scripted generator.
type opener func(c *cli.Context, withGenerator bool) (*env, error)

// openEnv loads .env, the YAML config, the logger, the store and optionally
// the configured generation backend.
func openEnv(c *cli.Context, withGenerator bool) (*env, error) {
	if err := godotenv.Load(c.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if db := c.String("db"); db != "" {
		cfg.DBPath = db
	}
	log, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	e := &env{cfg: cfg, log: log, store: st, closers: []func() error{st.Close}}

	if withGenerator {
		gen, closeGen, err := newGenerator(c.Context, cfg.Generation)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.generator = gen
		if closeGen != nil {
			e.closers = append(e.closers, closeGen)
		}
	}
	return e, nil
}

// newGenerator connects the configured backend.
func newGenerator(ctx context.Context, g config.Generation) (generation.Generator, func() error, error) {
	switch g.Backend {
	case config.BackendGemini:
		client, err := generation.NewGeminiClient(ctx, g.APIKey, g.Model)
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	default:
		client, err := generation.NewGRPCClient(g.Addr)
		if err != nil {
			return nil, nil, fmt.Errorf("connect generation service at %s: %w", g.Addr, err)
		}
		return client, client.Close, nil
	}
}

// advisor wires an Advisor from the env's config and dependencies.
func (e *env) advisor() *advisor.Advisor {
	opts := advisor.DefaultOptions()
	opts.Response = prompt.Options{
		Language:     e.cfg.Response.Language,
		MaxWords:     e.cfg.Response.MaxWords,
		Markdown:     e.cfg.Response.Markdown,
		Emojis:       e.cfg.Response.Emojis,
		Style:        e.cfg.Response.Style,
		ExcerptChars: e.cfg.Knowledge.ExcerptChars,
	}
	opts.Policy = e.cfg.Profile.Policy
	opts.Knowledge = e.cfg.Knowledge
	opts.GenerationTimeout = e.cfg.Generation.Timeout

	return advisor.New(advisor.Deps{
		Knowledge: e.store,
		Profiles:  e.store,
		Generator: e.generator,
		Weather:   weather.NewCache(weather.NewStatic(), e.cfg.Weather.CacheTTL),
		DB:        e.store.DB(),
	}, opts, e.log)
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.log.Warn("[CLI] close failed", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}

// #endregion env
