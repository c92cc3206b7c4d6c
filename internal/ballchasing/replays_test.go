package ballchasing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListGroupReplaysFollowsCursor(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var (
		mu   sync.Mutex
		hits []string
	)
	mux.HandleFunc("/replays", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.String())
		mu.Unlock()

		switch r.URL.Query().Get("after") {
		case "":
			fmt.Fprintf(w, `{"list":[{"id":"r1"},{"id":"r2"}],"next":"%s/replays?count=200&group=g1&after=r2"}`, srv.URL)
		case "r2":
			fmt.Fprint(w, `{"list":[{"id":"r3"}]}`)
		default:
			http.Error(w, "unexpected cursor", http.StatusBadRequest)
		}
	})

	client := NewClient(ClientConfig{BaseURL: srv.URL, Token: "t"})
	ids, err := client.ListGroupReplays(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids, "IDs keep listing order across pages")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, hits, 2, "no page may be fetched after the one without next")

	first, err := url.Parse(hits[0])
	require.NoError(t, err)
	assert.Equal(t, "g1", first.Query().Get("group"))
	assert.Equal(t, "200", first.Query().Get("count"))

	second, err := url.Parse(hits[1])
	require.NoError(t, err)
	assert.Equal(t, "r2", second.Query().Get("after"), "second request must follow the cursor URL verbatim")
}

func TestListGroupReplaysKeepsDuplicates(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/replays", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("after") == "" {
			fmt.Fprintf(w, `{"list":[{"id":"r1"},{"id":"r2"}],"next":"%s/replays?after=r2"}`, srv.URL)
			return
		}
		fmt.Fprint(w, `{"list":[{"id":"r2"}]}`)
	})

	client := NewClient(ClientConfig{BaseURL: srv.URL, Token: "t"})
	ids, err := client.ListGroupReplays(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r2"}, ids, "listing is not deduplicated")
}

func TestListGroupReplaysEmptyGroup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"list":[]}`)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Token: "t"})
	ids, err := client.ListGroupReplays(context.Background(), "empty-group")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListGroupReplaysAbortsOnStatusError(t *testing.T) {
	handler := &countingHandler{status: http.StatusUnauthorized, body: "bad token"}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:      srv.URL,
		Token:        "t",
		MaxAttempts:  3,
		RetryBackoff: time.Millisecond,
	})

	ids, err := client.ListGroupReplays(context.Background(), "g1")
	require.Error(t, err)
	assert.Nil(t, ids, "a failed enumeration returns no partial list")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, 1, handler.requestCount())
}

func TestListGroupReplaysRejectsMalformedPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"list": [`)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Token: "t"})
	_, err := client.ListGroupReplays(context.Background(), "g1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse replay list")
}

func TestGetReplayReturnsVerbatimPayload(t *testing.T) {
	payload := "{\n  \"id\": \"r9\",\n  \"title\": \"scrim \\u2122\",\n  \"unknown_field\": [1, 2, 3]\n}"
	var (
		mu      sync.Mutex
		gotPath string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath = r.URL.Path
		mu.Unlock()
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Token: "t"})
	raw, err := client.GetReplay(context.Background(), "r9")
	require.NoError(t, err)
	assert.Equal(t, payload, string(raw), "detail bytes must come back untouched")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/replays/r9", gotPath)
}

func TestParseReplay(t *testing.T) {
	raw := []byte(`{
		"id": "r1",
		"created": "2024-05-01T12:00:00+02:00",
		"title": "ranked doubles",
		"blue": {"players": [{"name": "alice", "stats": {"core": {"goals": 2}}}]},
		"orange": {"players": [{"name": "bob", "stats": {"core": {"goals": 1}}}]}
	}`)

	replay, err := ParseReplay(raw)
	require.NoError(t, err)
	assert.Equal(t, "r1", replay.ID)
	assert.Equal(t, "2024-05-01T12:00:00+02:00", replay.Created)
	require.Len(t, replay.Blue.Players, 1)
	require.NotNil(t, replay.Blue.Players[0].Stats)
	require.NotNil(t, replay.Blue.Players[0].Stats.Core)
	assert.Equal(t, 2, replay.Blue.Players[0].Stats.Core.Goals)
	assert.Nil(t, replay.Blue.Players[0].Stats.Boost, "absent stat blocks decode to nil")

	_, err = ParseReplay([]byte("not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse replay")
}
