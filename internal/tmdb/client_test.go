package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"streamhaven/internal/observability/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("test")
	os.Exit(m.Run())
}

func TestGetSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(Page{Page: 1})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-token")
	var out Page
	require.NoError(t, c.Get(context.Background(), "/trending/movie/day", &out))
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, 1, out.Page)
}

func TestGetRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token")
	var out Page
	err := c.Get(context.Background(), "/trending/movie/day", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestTypedEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/42":
			assert.Equal(t, "recommendations", r.URL.Query().Get("append_to_response"))
			_ = json.NewEncoder(w).Encode(Item{ID: 42, Title: "A Movie"})
		case "/tv/7/season/2":
			_ = json.NewEncoder(w).Encode(SeasonDetail{SeasonNumber: 2, Episodes: []Episode{{EpisodeNumber: 1}}})
		case "/search/multi":
			assert.Equal(t, "dune", r.URL.Query().Get("query"))
			_ = json.NewEncoder(w).Encode(Page{Results: []Item{{ID: 1}}})
		case "/configuration/languages":
			_ = json.NewEncoder(w).Encode([]Language{{ISO6391: "en", EnglishName: "English"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "token")
	ctx := context.Background()

	movie, err := c.MovieDetail(ctx, 42, true)
	require.NoError(t, err)
	assert.Equal(t, "A Movie", movie.Title)

	season, err := c.TVSeason(ctx, 7, 2)
	require.NoError(t, err)
	assert.Len(t, season.Episodes, 1)

	page, err := c.SearchMulti(ctx, "dune", 1)
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)

	langs, err := c.Languages(ctx)
	require.NoError(t, err)
	require.Len(t, langs, 1)
	assert.Equal(t, "en", langs[0].ISO6391)
}
