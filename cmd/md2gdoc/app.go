package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	md2gdoc "github.com/alnah/go-md2gdoc"
	"github.com/alnah/go-md2gdoc/internal/config"
	"github.com/alnah/go-md2gdoc/internal/hints"
	"github.com/alnah/go-md2gdoc/internal/imageproxy"
	"github.com/alnah/go-md2gdoc/internal/logging"
	"github.com/alnah/go-md2gdoc/internal/rehost"
)

// app holds what every command needs once flags, environment and config
// file have been merged.
type app struct {
	cfg     *config.Config
	env     *Environment
	envCfg  *envConfig
	logger  *slog.Logger
	service DocumentService
	sqlite  *rehost.SQLiteStore
	closers []func() error
}

// setup loads configuration with precedence flags > env > config file >
// defaults, and builds the logger.
func setup(common commonFlags, env *Environment) (*app, error) {
	warnUnknownEnvVars(env.Stderr, env.Environ())
	ec := loadEnvConfig(env.Getenv)

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = ec.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyEnvConfig(ec, cfg)
	mergeCommonFlags(common, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: env.Stderr,
	})
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, env: env, envCfg: ec, logger: logger}, nil
}

// mergeCommonFlags applies logging flags. --verbose and --quiet are
// shorthands for the debug and error levels.
func mergeCommonFlags(f commonFlags, cfg *config.Config) {
	switch {
	case f.verbose:
		cfg.Log.Level = "debug"
	case f.quiet:
		cfg.Log.Level = "error"
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
}

// close releases stores opened by the app.
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// documentService connects once; token falls back to MD2GDOC_ACCESS_TOKEN.
func (a *app) documentService(ctx context.Context, token string) (DocumentService, error) {
	if a.service != nil {
		return a.service, nil
	}
	if token == "" {
		token = a.envCfg.AccessToken
	}
	svc, err := a.env.NewService(ctx, token, a.logger)
	if err != nil {
		return nil, err
	}
	a.service = svc
	return svc, nil
}

// imageStore opens the configured store. A nil Store with a nil error means
// validated URLs are passed to the document service unchanged.
func (a *app) imageStore(ctx context.Context, token string) (rehost.Store, error) {
	switch strings.ToLower(a.cfg.Images.Store.Kind) {
	case config.StoreDrive:
		svc, err := a.documentService(ctx, token)
		if err != nil {
			return nil, err
		}
		return rehost.NewDriveStore(svc), nil
	case config.StoreSQLite:
		if a.sqlite == nil {
			s, err := rehost.OpenSQLite(ctx, a.cfg.Images.Store.Path, a.cfg.Images.Store.BaseURL)
			if err != nil {
				return nil, err
			}
			a.sqlite = s
			a.closers = append(a.closers, s.Close)
		}
		return a.sqlite, nil
	}
	return nil, nil
}

// compiler builds a Compiler from the merged config. dialect overrides
// compile.dialect when non-empty.
func (a *app) compiler(ctx context.Context, src sourceFlags, token string) (*md2gdoc.Compiler, error) {
	dialect := a.cfg.Compile.Dialect
	if src.dialect != "" {
		dialect = src.dialect
	}

	opts := []md2gdoc.Option{
		md2gdoc.WithDialect(md2gdoc.Dialect(dialect)),
		md2gdoc.WithMaxImages(a.cfg.Images.MaxImages),
		md2gdoc.WithLogger(a.logger),
		md2gdoc.WithHeaderDateFormat(a.cfg.Header.DateFormat),
		md2gdoc.WithHeaderFontSize(a.cfg.Header.FontSize),
		md2gdoc.WithClock(a.env.Now),
	}

	if a.cfg.Images.Enabled && !src.noImages {
		store, err := a.imageStore(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("image store: %w%s", err, hints.ForImageStore(strings.ToLower(a.cfg.Images.Store.Kind)))
		}
		resolver := imageproxy.New(imageproxy.Config{
			Timeout:   a.cfg.Images.Timeout,
			MaxBytes:  a.cfg.Images.MaxBytes,
			UserAgent: a.cfg.Images.UserAgent,
		}, store, imageproxy.WithLogger(a.logger))
		opts = append(opts, md2gdoc.WithImageResolver(resolver))
	}

	return md2gdoc.NewCompiler(opts...)
}

// publisher builds a Publisher. suffix overrides publish.titleSuffix when
// suffixSet is true.
func (a *app) publisher(ctx context.Context, c *md2gdoc.Compiler, token, suffix string, suffixSet bool) (*md2gdoc.Publisher, error) {
	svc, err := a.documentService(ctx, token)
	if err != nil {
		return nil, err
	}
	if !suffixSet {
		suffix = a.cfg.Publish.TitleSuffix
	}
	return md2gdoc.NewPublisher(c, svc,
		md2gdoc.WithTitleSuffix(suffix),
		md2gdoc.WithPublishLogger(a.logger)), nil
}
