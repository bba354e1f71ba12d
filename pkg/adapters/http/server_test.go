package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/aretw0/bubblefx/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu    sync.Mutex
	state *domain.State
}

func newFakeSession() *fakeSession {
	s := domain.NewState("sess-1")
	s.Status = domain.StatusActive
	s.History = []domain.Stage{domain.StageAwaitBackCamera}
	return &fakeSession{state: s}
}

func (f *fakeSession) State() *domain.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Clone()
}

func (f *fakeSession) update(fn func(*domain.State)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.state)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	rr := get(t, NewServer(newFakeSession()).Handler(), "/health")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	rr := get(t, NewServer(newFakeSession(), WithVersion("1.0.0\n")).Handler(), "/info")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "bubblefx", resp["app"])
	assert.Equal(t, "1.0.0", resp["version"])
}

func TestGetState(t *testing.T) {
	rr := get(t, NewServer(newFakeSession()).Handler(), "/state")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got domain.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, domain.StageAwaitBackCamera, got.Stage)
	assert.Contains(t, rr.Body.String(), `"stage":"await_back_camera"`)
}

func TestGetGraph(t *testing.T) {
	rr := get(t, NewServer(newFakeSession()).Handler(), "/graph")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "graph TD")
	assert.Contains(t, rr.Body.String(), "class await_back_camera current;")
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	m.Pulses.Inc()

	rr := get(t, NewServer(newFakeSession(), WithGatherer(reg)).Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "bubblefx_grid_pulses_total 1")

	rr = get(t, NewServer(newFakeSession()).Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rr.Code, "not mounted without a gatherer")
}

func TestSubscribeEvents(t *testing.T) {
	session := newFakeSession()
	s := NewServer(session)
	s.Publish() // baseline, nobody listening yet

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?watch=stage", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	sc := bufio.NewScanner(resp.Body)
	next := func() string {
		for sc.Scan() {
			if data, ok := strings.CutPrefix(sc.Text(), "data: "); ok {
				return data
			}
		}
		return ""
	}

	assert.Equal(t, "connected", next())
	assert.Contains(t, next(), `"stage":"await_back_camera"`)

	// Filtered out: only the pulse count changes.
	session.update(func(st *domain.State) { st.Pulses = 1 })
	s.Publish()

	session.update(func(st *domain.State) {
		st.Stage = domain.StageCalibrate
		st.History = append(st.History, domain.StageCalibrate)
	})
	s.Publish()

	msg := next()
	assert.Contains(t, msg, `"stage":"calibrate"`)
	assert.Contains(t, msg, `"entered":["calibrate"]`)
	assert.NotContains(t, msg, "pulses")
}

func TestSubscribeEvents_ChangeBeforePublish(t *testing.T) {
	session := newFakeSession()
	s := NewServer(session)
	s.Publish()

	// The stage changes but the hook has not published it yet.
	session.update(func(st *domain.State) {
		st.Stage = domain.StageCalibrate
		st.History = append(st.History, domain.StageCalibrate)
	})

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	sc := bufio.NewScanner(resp.Body)
	next := func() string {
		for sc.Scan() {
			if data, ok := strings.CutPrefix(sc.Text(), "data: "); ok {
				return data
			}
		}
		return ""
	}

	assert.Equal(t, "connected", next())
	baseline := next()
	assert.Contains(t, baseline, `"stage":"await_back_camera"`)
	assert.NotContains(t, baseline, "calibrate")

	s.Publish()
	msg := next()
	assert.Contains(t, msg, `"entered":["calibrate"]`)
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, unsubscribe := sm.Subscribe("a")
	assert.Equal(t, 1, sm.Subscribers("a"))

	sm.Broadcast("a", "hello")
	sm.Broadcast("b", "nobody")
	assert.Equal(t, "hello", <-ch)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, sm.Subscribers("a"))
	_, open := <-ch
	assert.False(t, open)
}
