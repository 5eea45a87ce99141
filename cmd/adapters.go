package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/eykd/adsheet-go/internal/config"
	"github.com/eykd/adsheet-go/internal/detect"
	"github.com/eykd/adsheet-go/internal/domain"
	"github.com/eykd/adsheet-go/internal/engine"
	"github.com/eykd/adsheet-go/internal/lock"
	"github.com/eykd/adsheet-go/internal/mismatch"
	"github.com/eykd/adsheet-go/internal/review"
	"github.com/eykd/adsheet-go/internal/rulestore"
	"github.com/eykd/adsheet-go/internal/server"
	"github.com/eykd/adsheet-go/internal/tabular"
)

// Service is what the commands need from the layers below.
type Service interface {
	Validate(ctx context.Context, req ValidateRequest) (*ValidateOutcome, error)
	Detect(ctx context.Context, path string) (*DetectOutcome, error)
	Platforms(ctx context.Context) ([]string, error)
	Review(ctx context.Context, req ReviewRequest) (*ReviewOutcome, error)
	Lint(ctx context.Context) ([]rulestore.LintResult, error)
	Serve(ctx context.Context, addr string) error
}

// exportLock guards one export target against concurrent writers.
type exportLock interface {
	TryLock(ctx context.Context) error
	Unlock() error
}

// appService wires the rule store, engine, detector and file formats.
type appService struct {
	fs       afero.Fs
	store    *rulestore.Store
	engine   *engine.Engine
	detector *mismatch.Detector
	log      zerolog.Logger
	newLock  func(target string) exportLock
}

// NewService builds the production Service from resolved settings.
func NewService(fs afero.Fs, cfg config.Config, log zerolog.Logger) (Service, error) {
	opts := []rulestore.Option{
		rulestore.WithLogger(log),
		rulestore.WithCacheSize(cfg.CacheSize),
	}
	if cfg.RulesDir != "" {
		opts = append(opts, rulestore.WithDir(fs, cfg.RulesDir))
	}
	store, err := rulestore.New(opts...)
	if err != nil {
		return nil, err
	}

	eng := engine.NewEngine(store, engine.Options{
		CapsRatio:      cfg.CapsRatio,
		MaxEmoji:       cfg.MaxEmoji,
		MaxPunctuation: cfg.MaxPunctuation,
		Logger:         log,
	})
	det := mismatch.NewDetector(mismatch.Options{
		Confidence: cfg.Mismatch.Confidence,
		Workers:    cfg.Mismatch.Workers,
		Logger:     log,
	})

	return &appService{
		fs:       fs,
		store:    store,
		engine:   eng,
		detector: det,
		log:      log,
		newLock:  func(target string) exportLock { return lock.NewForTarget(target) },
	}, nil
}

func (a *appService) Validate(ctx context.Context, req ValidateRequest) (*ValidateOutcome, error) {
	table, err := tabular.Read(a.fs, req.Path)
	if err != nil {
		return nil, err
	}
	result, verified, err := a.engine.Validate(ctx, table, req.Platform, req.Fix)
	if err != nil {
		return nil, err
	}

	out := &ValidateOutcome{Result: result}
	if req.Mismatch {
		flags, err := a.detector.Detect(ctx, table)
		if err != nil {
			return nil, err
		}
		out.Flags = flags
	}
	if req.Out != "" {
		written, err := a.export(ctx, req.Out, verified)
		if err != nil {
			return nil, err
		}
		out.Written = written
	}
	return out, nil
}

func (a *appService) Detect(_ context.Context, path string) (*DetectOutcome, error) {
	table, err := tabular.Read(a.fs, path)
	if err != nil {
		return nil, err
	}
	return &DetectOutcome{
		Platform: detect.Detect(table.Columns),
		Headers:  table.Columns,
		Scores:   detect.Scores(table.Columns),
	}, nil
}

func (a *appService) Platforms(_ context.Context) ([]string, error) {
	return a.store.Platforms()
}

func (a *appService) Review(ctx context.Context, req ReviewRequest) (*ReviewOutcome, error) {
	decisions, err := a.readDecisions(req.Decisions)
	if err != nil {
		return nil, err
	}
	table, err := tabular.Read(a.fs, req.Path)
	if err != nil {
		return nil, err
	}
	result, verified, err := a.engine.Validate(ctx, table, req.Platform, req.Fix)
	if err != nil {
		return nil, err
	}

	s := review.NewSession(result, verified)
	if err := review.ApplyDecisions(s, decisions); err != nil {
		return nil, &ContextError{Op: "applying decisions", Path: req.Decisions, Err: err}
	}
	introduced, err := s.Recheck(func(row int, column string, t domain.Table) ([]domain.Issue, error) {
		return a.engine.RevalidateCell(result.Platform, row, column, t)
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug().
		Int("decisions", len(decisions)).
		Int("introduced", len(introduced)).
		Int("handled", s.Handled()).
		Ints("deleted_rows", s.DeletedRows()).
		Msg("review applied")

	written, err := a.export(ctx, req.Out, s.Export())
	if err != nil {
		return nil, err
	}
	return &ReviewOutcome{
		Platform:    result.Platform,
		Handled:     s.Handled(),
		Pending:     s.Pending(),
		Introduced:  introduced,
		DeletedRows: s.DeletedRows(),
		Written:     written,
	}, nil
}

func (a *appService) readDecisions(path string) ([]review.Decision, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return nil, &ContextError{Op: "reading decisions", Path: path, Err: err}
	}
	defer f.Close()
	ds, err := review.ParseDecisions(f)
	if err != nil {
		return nil, &ContextError{Op: "reading decisions", Path: path, Err: err}
	}
	return ds, nil
}

func (a *appService) Lint(_ context.Context) ([]rulestore.LintResult, error) {
	return a.store.LintAll()
}

func (a *appService) Serve(ctx context.Context, addr string) error {
	return server.New(a.engine, a.detector, a.store, a.log).ListenAndServe(ctx, addr)
}

// export writes t to path while holding the path's export lock.
func (a *appService) export(ctx context.Context, path string, t domain.Table) (*WrittenFile, error) {
	if _, err := tabular.FormatOf(path); err != nil {
		return nil, err
	}
	l := a.newLock(path)
	if err := l.TryLock(ctx); err != nil {
		return nil, &ContextError{Op: "locking", Path: path, Err: err}
	}
	defer func() {
		if err := l.Unlock(); err != nil {
			a.log.Warn().Err(err).Str("path", path).Msg("releasing export lock")
		}
	}()

	if err := tabular.Write(a.fs, path, t); err != nil {
		return nil, err
	}
	info, err := a.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", path, err)
	}
	a.log.Debug().Str("path", path).Int("rows", t.Len()).Int64("bytes", info.Size()).Msg("exported table")
	return &WrittenFile{Path: path, Rows: t.Len(), Bytes: info.Size()}, nil
}
