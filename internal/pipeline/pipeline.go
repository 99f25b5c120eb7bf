// Package pipeline runs one scan, fetch and report cycle.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/sonar-reporter/internal/scanner"
	"github.com/scan-io-git/sonar-reporter/internal/sonar"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/config"
)

type Stage int

const (
	StageConfiguring Stage = iota
	StageScanning
	StageReporting
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageConfiguring:
		return "configuring"
	case StageScanning:
		return "scanning"
	case StageReporting:
		return "reporting"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Scanner runs the external analysis for a project.
type Scanner interface {
	Scan(ctx context.Context, cfg config.RunConfig) (scanner.Outcome, error)
}

// ReportWriter persists fetched measures and returns the artifact path.
type ReportWriter interface {
	Write(username, projectKey string, catalog []string, measures sonar.Measures) (string, error)
}

// StageError is returned when a run fails. Stage is where it failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result describes a finished run.
type Result struct {
	RunID      uuid.UUID
	Stage      Stage
	// FailedAt is the stage that failed. It is only meaningful when Stage is StageFailed.
	FailedAt   Stage
	ReportPath string
	Scan       scanner.Outcome
	Duration   time.Duration
}

type Pipeline struct {
	cfg     config.RunConfig
	scanner Scanner
	fetcher sonar.MeasuresFetcher
	writer  ReportWriter
	catalog []string
	runID   uuid.UUID
	logger  hclog.Logger
	stage   Stage
}

type Options struct {
	Config  config.RunConfig
	Scanner Scanner
	Fetcher sonar.MeasuresFetcher
	Writer  ReportWriter
	Catalog []string
	// RunID identifies the run in logs. A new one is generated when it is uuid.Nil.
	RunID  uuid.UUID
	Logger hclog.Logger
}

func New(opts Options) *Pipeline {
	runID := opts.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Pipeline{
		cfg:     opts.Config,
		scanner: opts.Scanner,
		fetcher: opts.Fetcher,
		writer:  opts.Writer,
		catalog: opts.Catalog,
		runID:   runID,
		logger:  logger.With("runID", runID.String()),
		stage:   StageConfiguring,
	}
}

// Stage returns the current stage.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

func (p *Pipeline) RunID() uuid.UUID {
	return p.runID
}

func (p *Pipeline) advance(next Stage) {
	p.logger.Debug("stage transition", "from", p.stage.String(), "to", next.String())
	p.stage = next
}

func (p *Pipeline) fail(result *Result, err error) error {
	failedAt := p.stage
	p.logger.Error("run failed", "stage", failedAt.String(), "error", err)
	p.advance(StageFailed)
	result.Stage = StageFailed
	result.FailedAt = failedAt
	return &StageError{Stage: failedAt, Err: err}
}

// Run executes the stages in order. It must be called once; stages are never retried.
func (p *Pipeline) Run(ctx context.Context) (result Result, err error) {
	start := time.Now()
	result = Result{RunID: p.runID, Stage: p.stage}
	defer func() {
		result.Duration = time.Since(start)
	}()

	if p.stage != StageConfiguring {
		return result, fmt.Errorf("pipeline already ran, stage is %s", p.stage)
	}
	if err := p.cfg.Validate(); err != nil {
		return result, p.fail(&result, err)
	}

	p.advance(StageScanning)
	outcome, err := p.scanner.Scan(ctx, p.cfg)
	result.Scan = outcome
	if err != nil {
		return result, p.fail(&result, err)
	}

	p.advance(StageReporting)
	measures, err := p.fetcher.FetchMeasures(ctx, p.cfg.ProjectKey, p.catalog)
	if err != nil {
		return result, p.fail(&result, err)
	}
	path, err := p.writer.Write(p.cfg.Username, p.cfg.ProjectKey, p.catalog, measures)
	if err != nil {
		return result, p.fail(&result, fmt.Errorf("failed to save report: %w", err))
	}
	result.ReportPath = path

	p.advance(StageDone)
	result.Stage = StageDone
	p.logger.Info("run finished", "report", path, "metrics", len(p.catalog), "returned", len(measures))
	return result, nil
}
