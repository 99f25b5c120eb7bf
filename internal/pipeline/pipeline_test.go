package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/sonar-reporter/internal/scanner"
	"github.com/scan-io-git/sonar-reporter/internal/sonar"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/config"
	errs "github.com/scan-io-git/sonar-reporter/pkg/shared/errors"
)

type fakeScanner struct {
	outcome scanner.Outcome
	err     error
	calls   int
}

func (f *fakeScanner) Scan(ctx context.Context, cfg config.RunConfig) (scanner.Outcome, error) {
	f.calls++
	return f.outcome, f.err
}

type fakeFetcher struct {
	measures sonar.Measures
	err      error
	calls    int
	key      string
	metrics  []string
}

func (f *fakeFetcher) FetchMeasures(ctx context.Context, projectKey string, metricKeys []string) (sonar.Measures, error) {
	f.calls++
	f.key = projectKey
	f.metrics = metricKeys
	return f.measures, f.err
}

type fakeWriter struct {
	path     string
	err      error
	calls    int
	username string
	measures sonar.Measures
}

func (f *fakeWriter) Write(username, projectKey string, catalog []string, measures sonar.Measures) (string, error) {
	f.calls++
	f.username = username
	f.measures = measures
	return f.path, f.err
}

func validConfig() config.RunConfig {
	return config.RunConfig{
		ServerURL:   "http://x:9000",
		Token:       "T",
		ScannerPath: "/opt/sonar-scanner",
		ProjectKey:  "demo",
		ProjectDir:  "/proj",
		OutputDir:   "/out",
		Username:    "alice",
	}
}

func newPipeline(cfg config.RunConfig, s Scanner, f sonar.MeasuresFetcher, w ReportWriter) *Pipeline {
	return New(Options{
		Config:  cfg,
		Scanner: s,
		Fetcher: f,
		Writer:  w,
		Catalog: []string{"bugs", "coverage"},
		Logger:  hclog.NewNullLogger(),
	})
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "configuring", StageConfiguring.String())
	assert.Equal(t, "scanning", StageScanning.String())
	assert.Equal(t, "reporting", StageReporting.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "failed", StageFailed.String())
	assert.Equal(t, "stage(42)", Stage(42).String())
}

func TestRunSuccess(t *testing.T) {
	s := &fakeScanner{}
	f := &fakeFetcher{measures: sonar.Measures{"bugs": "3"}}
	w := &fakeWriter{path: "/out/sonar_analyzer_results/demo_20240301_141502.csv"}
	p := newPipeline(validConfig(), s, f, w)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StageDone, result.Stage)
	assert.Equal(t, StageDone, p.Stage())
	assert.Equal(t, w.path, result.ReportPath)
	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Equal(t, "demo", f.key)
	assert.Equal(t, []string{"bugs", "coverage"}, f.metrics)
	assert.Equal(t, "alice", w.username)
	assert.Equal(t, sonar.Measures{"bugs": "3"}, w.measures)
}

func TestRunKeepsProvidedRunID(t *testing.T) {
	id := uuid.New()
	p := New(Options{
		Config:  validConfig(),
		Scanner: &fakeScanner{},
		Fetcher: &fakeFetcher{},
		Writer:  &fakeWriter{},
		RunID:   id,
	})

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, result.RunID)
	assert.Equal(t, id, p.RunID())
}

func TestRunInvalidConfig(t *testing.T) {
	s := &fakeScanner{}
	cfg := validConfig()
	cfg.Token = ""
	p := newPipeline(cfg, s, &fakeFetcher{}, &fakeWriter{})

	result, err := p.Run(context.Background())

	var cfgErr *errs.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, StageFailed, result.Stage)
	assert.Equal(t, StageConfiguring, result.FailedAt)
	assert.Zero(t, s.calls)
}

func TestRunScanFailureSkipsReporting(t *testing.T) {
	s := &fakeScanner{
		outcome: scanner.Outcome{ExitCode: 2, Stderr: "ERROR"},
		err:     &errs.ScanExecutionError{ExitCode: 2, Stderr: "ERROR"},
	}
	f := &fakeFetcher{}
	w := &fakeWriter{}
	p := newPipeline(validConfig(), s, f, w)

	result, err := p.Run(context.Background())

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageScanning, stageErr.Stage)
	assert.Contains(t, err.Error(), "scanning failed")

	var execErr *errs.ScanExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 2, execErr.ExitCode)

	assert.Equal(t, StageFailed, result.Stage)
	assert.Equal(t, "ERROR", result.Scan.Stderr)
	assert.Zero(t, f.calls, "no measures request after a failed scan")
	assert.Zero(t, w.calls, "no report after a failed scan")
}

func TestRunFetchFailureWritesNothing(t *testing.T) {
	f := &fakeFetcher{err: &errs.APIRequestError{URL: "http://x:9000/api/measures/component", StatusCode: 401}}
	w := &fakeWriter{}
	p := newPipeline(validConfig(), &fakeScanner{}, f, w)

	result, err := p.Run(context.Background())

	var apiErr *errs.APIRequestError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, StageReporting, result.FailedAt)
	assert.Zero(t, w.calls)
	assert.Empty(t, result.ReportPath)
}

func TestRunWriteFailure(t *testing.T) {
	w := &fakeWriter{err: errors.New("disk full")}
	p := newPipeline(validConfig(), &fakeScanner{}, &fakeFetcher{}, w)

	result, err := p.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, StageReporting, result.FailedAt)
}

func TestRunOnlyOnce(t *testing.T) {
	s := &fakeScanner{}
	p := newPipeline(validConfig(), s, &fakeFetcher{}, &fakeWriter{})

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, s.calls)
}
