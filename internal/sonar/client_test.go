package sonar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/scan-io-git/sonar-reporter/pkg/shared/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(resty.New(), server.URL+"/", "T", hclog.NewNullLogger())
}

func TestFetchMeasuresRequest(t *testing.T) {
	var (
		gotPath  string
		gotQuery map[string]string
		gotUser  string
		gotPass  string
		gotAuth  bool
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"component":  r.URL.Query().Get("component"),
			"metricKeys": r.URL.Query().Get("metricKeys"),
		}
		gotUser, gotPass, gotAuth = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"component":{"key":"demo","measures":[{"metric":"bugs","value":"3"}]}}`))
	})

	measures, err := client.FetchMeasures(context.Background(), "demo", []string{"bugs", "coverage"})
	require.NoError(t, err)

	assert.Equal(t, MeasuresPath, gotPath)
	assert.Equal(t, map[string]string{"component": "demo", "metricKeys": "bugs,coverage"}, gotQuery)
	assert.True(t, gotAuth)
	assert.Equal(t, "T", gotUser)
	assert.Equal(t, "", gotPass)
	assert.Equal(t, Measures{"bugs": "3"}, measures)
}

func TestFetchMeasuresValuesVerbatim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"component":{"measures":[
			{"metric":"coverage","value":"87.50"},
			{"metric":"sqale_rating","value":"1.0","bestValue":true},
			{"metric":"alert_status","value":"OK"},
			{"metric":"new_bugs","period":{"index":1,"value":"0"}}
		]}}`))
	})

	measures, err := client.FetchMeasures(context.Background(), "demo", []string{"coverage", "sqale_rating", "alert_status", "new_bugs"})
	require.NoError(t, err)

	assert.Equal(t, Measures{
		"coverage":     "87.50",
		"sqale_rating": "1.0",
		"alert_status": "OK",
	}, measures, "period-only measures have no value and are treated as absent")
}

func TestFetchMeasuresHTTPErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantBody string
	}{
		{
			name:     "Unauthorized",
			status:   http.StatusUnauthorized,
			body:     "",
			wantBody: "",
		},
		{
			name:     "Unknown component with server messages",
			status:   http.StatusNotFound,
			body:     `{"errors":[{"msg":"Component key 'demo' not found"}]}`,
			wantBody: "Component key 'demo' not found",
		},
		{
			name:     "Gateway error page",
			status:   http.StatusBadGateway,
			body:     "<html>bad gateway</html>",
			wantBody: "<html>bad gateway</html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.FetchMeasures(context.Background(), "demo", []string{"bugs"})

			var apiErr *errs.APIRequestError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantBody, apiErr.Body)
			assert.True(t, strings.HasSuffix(apiErr.URL, MeasuresPath))
		})
	}
}

func TestFetchMeasuresMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"component":`))
	})

	_, err := client.FetchMeasures(context.Background(), "demo", []string{"bugs"})

	var apiErr *errs.APIRequestError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "decode")
}

func TestFetchMeasuresTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(resty.New(), url, "T", hclog.NewNullLogger())
	_, err := client.FetchMeasures(context.Background(), "demo", []string{"bugs"})

	var apiErr *errs.APIRequestError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Error(t, apiErr.Err)
}

func TestErrorBodyTruncates(t *testing.T) {
	body := strings.Repeat("x", maxErrorBody+100)

	got := errorBody([]byte(body))
	assert.Len(t, got, maxErrorBody+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}
