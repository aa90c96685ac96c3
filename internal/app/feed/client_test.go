package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, zerolog.Nop())
}

func TestFetchCourseSections(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/browse/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "CMPT", q.Get("subject[]"))
		assert.Equal(t, "276", q.Get("number[]"))
		assert.Equal(t, "1257", q.Get("semester[]"))
		assert.Equal(t, "yes", q.Get("tabledata"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": [][]string{
				{"Fall 2025", `<a href="/browse/info/2025fa-cmpt-276-d1">CMPT 276 D100</a>`, "Intro SE", "96/100", "Alice", "Burnaby"},
				{"Fall 2025", `<a href="/browse/info/2025fa-cmpt-276-d2">CMPT 276 D200</a>`, "Intro SE", "115 (+31)/100", "Bob", "Surrey"},
			},
		})
	})

	res, err := client.FetchCourseSections(context.Background(), "cmpt", "276", 1257)
	require.NoError(t, err)
	assert.Equal(t, "CMPT", res.Dept)
	assert.Equal(t, "276", res.CourseNumber)
	assert.Equal(t, "Intro SE", res.Title)
	assert.Equal(t, 2025, res.Year)
	assert.Equal(t, semester.Fall, res.Term)
	require.Len(t, res.Offerings, 2)
	assert.Equal(t, "D200", res.Offerings[1].Section)
	assert.Equal(t, 146, res.Offerings[1].Enrolled)

	enrolled, capacity := res.Totals()
	assert.Equal(t, 242, enrolled)
	assert.Equal(t, 200, capacity)
}

func TestFetchCourseSections_UpstreamFailureIsEmpty(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		},
	}

	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, h)
			res, err := client.FetchCourseSections(context.Background(), "CMPT", "276", 1257)
			require.NoError(t, err)
			assert.Empty(t, res.Offerings)
			assert.NotNil(t, res.Offerings)
			assert.Equal(t, 1257, res.SemesterCode)
		})
	}
}

func TestFetchCourseSections_Unreachable(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond}, zerolog.Nop())
	res, err := client.FetchCourseSections(context.Background(), "CMPT", "276", 1257)
	require.NoError(t, err)
	assert.Empty(t, res.Offerings)
}

func TestFetchCourseSections_InvalidSemester(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := client.FetchCourseSections(context.Background(), "CMPT", "276", 1256)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSemesterCode)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestFetchCourseSections_CancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": [][]string{}})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := client.FetchCourseSections(ctx, "CMPT", "276", 1257)
	require.NoError(t, err)
	assert.Empty(t, res.Offerings)
}
