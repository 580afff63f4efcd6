package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorObserveQuery(t *testing.T) {
	c := NewCollector()

	c.ObserveQuery("Ethereum", KindNative, 20*time.Millisecond, nil)
	c.ObserveQuery("Ethereum", KindToken, 30*time.Millisecond, errors.New("execution reverted"))
	c.ObserveQuery("Ethereum", KindToken, 10*time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.queries.WithLabelValues("Ethereum", KindNative, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.queries.WithLabelValues("Ethereum", KindToken, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.queries.WithLabelValues("Ethereum", KindToken, "ok")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.queryDuration))
}

func TestCollectorMarkReportWritten(t *testing.T) {
	c := NewCollector()
	at := time.Unix(1760000000, 0)

	c.MarkReportWritten(3, at)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.rows))
	assert.Equal(t, 1760000000.0, testutil.ToFloat64(c.lastSuccess))
}

func TestCollectorPush(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewCollector()
	c.MarkReportWritten(2, time.Now())
	require.NoError(t, c.Push(srv.URL, "balance_exporter"))

	assert.Equal(t, "/metrics/job/balance_exporter", gotPath)
	assert.True(t, strings.Contains(gotBody, "report_rows"), "pushed body should carry the report_rows metric")
}

func TestCollectorPushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewCollector().Push(srv.URL, "balance_exporter")
	assert.Error(t, err)
}
