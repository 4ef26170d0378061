package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/daymark/internal/classify"
	"github.com/blackwell-systems/daymark/internal/journal"
	"github.com/blackwell-systems/daymark/internal/store/sqlite"
)

type stubClassifier struct {
	emotion    string
	confidence float64
	err        error
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (classify.Result, error) {
	if s.err != nil {
		return classify.Result{}, s.err
	}
	return classify.Result{EmotionType: s.emotion, Confidence: s.confidence}, nil
}

func newTestServer(t *testing.T, classifier classify.Classifier) *httptest.Server {
	t.Helper()
	store, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	deriver := journal.NewDeriver(store, classifier)
	srv := New(Config{
		Addr:        ":0",
		Service:     journal.NewService(store, store, deriver),
		Obs:         store,
		Deriver:     deriver,
		DefaultUser: "local",
	})

	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postEntry(t *testing.T, ts *httptest.Server, date, content string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(entryRequest{Date: date, Content: content})
	resp, err := http.Post(ts.URL+"/api/entries", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &stubClassifier{emotion: "joy"})
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestSaveEntry_ReturnsDerivedEmotion(t *testing.T) {
	ts := newTestServer(t, &stubClassifier{emotion: "joy", confidence: 90})

	resp := postEntry(t, ts, "2026-08-24", "a very good monday")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[entryResponse](t, resp)
	require.NotZero(t, got.Entry.ID)
	require.False(t, got.Degraded)
	require.NotNil(t, got.Emotion)
	require.Equal(t, "joy", got.Emotion.EmotionType)
	require.InDelta(t, 0.9, got.Emotion.Intensity, 1e-9)
}

func TestSaveEntry_DegradedWhenClassifierDown(t *testing.T) {
	ts := newTestServer(t, &stubClassifier{err: errors.New("gateway down")})

	resp := postEntry(t, ts, "2026-08-24", "saved anyway")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[entryResponse](t, resp)
	require.True(t, got.Degraded)
	require.Nil(t, got.Emotion)
	require.NotZero(t, got.Entry.ID)
}

func TestSaveEntry_ValidationError(t *testing.T) {
	ts := newTestServer(t, &stubClassifier{emotion: "joy"})

	resp := postEntry(t, ts, "2026-08-24", "   ")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postEntry(t, ts, "not-a-date", "content")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGetEntry_NotFound(t *testing.T) {
	ts := newTestServer(t, &stubClassifier{emotion: "joy"})

	resp, err := http.Get(ts.URL + "/api/entries/999")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestEntryOwnership_ForbiddenDelete(t *testing.T) {
	ts := newTestServer(t, &stubClassifier{emotion: "joy", confidence: 50})

	resp := postEntry(t, ts, "2026-08-24", "mine")
	saved := decode[entryResponse](t, resp)

	req, _ := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/api/entries/%d", ts.URL, saved.Entry.ID), nil)
	req.Header.Set("X-User-ID", "someone-else")
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, del.StatusCode)
	del.Body.Close()
}

func TestDeleteEntry(t *testing.T) {
	ts := newTestServer(t, &stubClassifier{emotion: "joy", confidence: 50})

	resp := postEntry(t, ts, "2026-08-24", "short lived")
	saved := decode[entryResponse](t, resp)

	req, _ := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/api/entries/%d", ts.URL, saved.Entry.ID), nil)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, del.StatusCode)
	del.Body.Close()

	get, err := http.Get(fmt.Sprintf("%s/api/entries/%d", ts.URL, saved.Entry.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, get.StatusCode)
	get.Body.Close()
}

func TestWeekView_AggregatesAndNarrates(t *testing.T) {
	ts := newTestServer(t, &stubClassifier{emotion: "joy", confidence: 80})

	for _, date := range []string{"2026-08-24", "2026-08-25", "2026-08-26"} {
		resp := postEntry(t, ts, date, "entry for "+date)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/weeks/2026-08-26")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[weekResponse](t, resp)
	require.Equal(t, "2026-08-24", got.WeekStart)
	require.Equal(t, "2026-08-30", got.WeekEnd)
	require.Len(t, got.Distribution, 1)
	require.Equal(t, "joy", got.Distribution[0].EmotionType)
	require.InDelta(t, 100, got.Distribution[0].Percentage, 1e-9)
	require.Equal(t, "This is your first week of entries.", got.Insight.Trend)
	require.Equal(t, "You mostly felt 'joy' this week.", got.Insight.Dominant)
}

func TestWeekView_EmptyWeek(t *testing.T) {
	ts := newTestServer(t, &stubClassifier{emotion: "joy"})

	resp, err := http.Get(ts.URL + "/api/weeks/2026-08-26")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[weekResponse](t, resp)
	require.Empty(t, got.Distribution)
	require.Equal(t, "No emotion records this week.", got.Insight.Dominant)
}

func TestAnalyzeWeek_AllFailedIsBadGateway(t *testing.T) {
	classifier := &stubClassifier{emotion: "joy", confidence: 70}
	ts := newTestServer(t, classifier)

	resp := postEntry(t, ts, "2026-08-24", "one entry")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	classifier.err = errors.New("gateway down")
	analyze, err := http.Post(ts.URL+"/api/weeks/2026-08-24/analyze", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, analyze.StatusCode)
	analyze.Body.Close()
}

func TestAnalyzeWeek_RefreshesObservations(t *testing.T) {
	classifier := &stubClassifier{emotion: "joy", confidence: 70}
	ts := newTestServer(t, classifier)

	resp := postEntry(t, ts, "2026-08-24", "one entry")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	classifier.emotion = "calm"
	analyze, err := http.Post(ts.URL+"/api/weeks/2026-08-24/analyze", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, analyze.StatusCode)

	got := decode[weekResponse](t, analyze)
	require.Len(t, got.Distribution, 1)
	require.Equal(t, "calm", got.Distribution[0].EmotionType)
}

func TestUsersAreIsolated(t *testing.T) {
	ts := newTestServer(t, &stubClassifier{emotion: "joy", confidence: 60})

	body, _ := json.Marshal(entryRequest{Date: "2026-08-24", Content: "alice's day"})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/entries", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "alice")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The default user sees an empty list.
	list, err := http.Get(ts.URL + "/api/entries?from=2026-08-24&to=2026-08-24")
	require.NoError(t, err)
	entries := decode[[]journal.Entry](t, list)
	require.Empty(t, entries)
}
