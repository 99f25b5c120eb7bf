// Package sonar is a client for the analysis server measures API.
package sonar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/sonar-reporter/internal/metrics"
	errs "github.com/scan-io-git/sonar-reporter/pkg/shared/errors"
)

// MeasuresPath is the component measures endpoint.
const MeasuresPath = "/api/measures/component"

// maxErrorBody bounds how much of an unexpected response body ends up in an error.
const maxErrorBody = 512

// Measures maps a metric key to the value reported by the server, verbatim.
type Measures map[string]string

// MeasuresFetcher retrieves measures for a project.
type MeasuresFetcher interface {
	FetchMeasures(ctx context.Context, projectKey string, metricKeys []string) (Measures, error)
}

type Measure struct {
	Metric string  `json:"metric"`
	Value  *string `json:"value"`
}

type Component struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Qualifier string    `json:"qualifier"`
	Measures  []Measure `json:"measures"`
}

type MeasuresResponse struct {
	Component Component `json:"component"`
}

type apiError struct {
	Msg string `json:"msg"`
}

type apiErrors struct {
	Errors []apiError `json:"errors"`
}

type Client struct {
	httpc  *resty.Client
	url    string
	logger hclog.Logger
}

// New configures httpc for the server at url, authenticating with token as the basic-auth username.
func New(httpc *resty.Client, url string, token string, logger hclog.Logger) *Client {
	if httpc == nil {
		httpc = resty.New()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	url = strings.TrimRight(url, "/")
	httpc.SetBaseURL(url)
	httpc.SetBasicAuth(token, "")

	return &Client{
		httpc:  httpc,
		url:    url,
		logger: logger,
	}
}

// FetchMeasures requests metricKeys for the component projectKey.
// Measures without a value, such as period-only measures, are left out of the result.
func (c *Client) FetchMeasures(ctx context.Context, projectKey string, metricKeys []string) (Measures, error) {
	endpoint := c.url + MeasuresPath

	c.logger.Info("fetching measures", "projectKey", projectKey, "metrics", len(metricKeys))
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"component":  projectKey,
			"metricKeys": metrics.Query(metricKeys),
		}).
		Get(MeasuresPath)
	if err != nil {
		return nil, &errs.APIRequestError{URL: endpoint, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &errs.APIRequestError{
			URL:        endpoint,
			StatusCode: resp.StatusCode(),
			Body:       errorBody(resp.Body()),
		}
	}

	var r MeasuresResponse
	if err := json.Unmarshal(resp.Body(), &r); err != nil {
		return nil, &errs.APIRequestError{
			URL:        endpoint,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("failed to decode measures response: %w", err),
		}
	}

	measures := make(Measures, len(r.Component.Measures))
	for _, m := range r.Component.Measures {
		if m.Value == nil {
			continue
		}
		measures[m.Metric] = *m.Value
	}
	c.logger.Debug("measures received", "projectKey", projectKey, "returned", len(measures))
	return measures, nil
}

// errorBody extracts server error messages, falling back to a truncated raw body.
func errorBody(body []byte) string {
	var e apiErrors
	if err := json.Unmarshal(body, &e); err == nil && len(e.Errors) > 0 {
		msgs := make([]string, 0, len(e.Errors))
		for _, m := range e.Errors {
			msgs = append(msgs, m.Msg)
		}
		return strings.Join(msgs, "; ")
	}

	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
