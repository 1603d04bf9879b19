package impl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"streamhaven/internal/domain"
	"streamhaven/internal/tmdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryMediaStore struct {
	mu      sync.Mutex
	rows    map[int]*domain.Media
	deleted []int
}

func newMemoryMediaStore() *memoryMediaStore {
	return &memoryMediaStore{rows: make(map[int]*domain.Media)}
}

func (m *memoryMediaStore) Upsert(ctx context.Context, media *domain.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *media
	m.rows[media.ID] = &cp
	return nil
}

func (m *memoryMediaStore) DeleteNotIn(ctx context.Context, keep []int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keepSet := make(map[int]bool, len(keep))
	for _, id := range keep {
		keepSet[id] = true
	}
	var removed int64
	for id := range m.rows {
		if !keepSet[id] {
			delete(m.rows, id)
			m.deleted = append(m.deleted, id)
			removed++
		}
	}
	return removed, nil
}

type memoryGenreStore struct {
	mu   sync.Mutex
	rows map[int]string
}

func newMemoryGenreStore() *memoryGenreStore {
	return &memoryGenreStore{rows: make(map[int]string)}
}

func (g *memoryGenreStore) Upsert(ctx context.Context, genres []domain.Genre) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, genre := range genres {
		g.rows[genre.TMDBID] = genre.Name
	}
	return nil
}

type memorySyncState struct {
	state domain.SyncState
}

func (s *memorySyncState) Get(ctx context.Context) (*domain.SyncState, error) {
	cp := s.state
	return &cp, nil
}

func (s *memorySyncState) MarkGenreSync(ctx context.Context, at time.Time) error {
	s.state.LastGenreSync = &at
	return nil
}

func (s *memorySyncState) MarkTrendingSync(ctx context.Context, at time.Time) error {
	s.state.LastTrendingSync = &at
	return nil
}

// fakeUpstream serves the handful of catalog endpoints the sync job hits.
type fakeUpstream struct {
	trendingMovies []tmdb.Item
	trendingTV     []tmdb.Item
	failDetails    bool
}

func (f *fakeUpstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		write := func(v any) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(v)
		}
		path := r.URL.Path
		switch {
		case path == "/genre/movie/list":
			write(tmdb.GenreList{Genres: []tmdb.Genre{{ID: 1, Name: "Action"}, {ID: 2, Name: "Drama"}}})
		case path == "/genre/tv/list":
			write(tmdb.GenreList{Genres: []tmdb.Genre{{ID: 2, Name: "Drama"}, {ID: 3, Name: "Comedy"}}})
		case path == "/trending/movie/day":
			write(tmdb.Page{Results: f.trendingMovies})
		case path == "/trending/tv/day":
			write(tmdb.Page{Results: f.trendingTV})
		case strings.HasPrefix(path, "/movie/") || strings.HasPrefix(path, "/tv/"):
			if f.failDetails {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			id, _ := strconv.Atoi(strings.TrimPrefix(strings.TrimPrefix(path, "/movie/"), "/tv/"))
			item := tmdb.Item{ID: id, Title: "Detail", Runtime: 100}
			if strings.HasPrefix(path, "/tv/") {
				item.Title = ""
				item.Name = "Detail"
				item.Seasons = []tmdb.Season{{SeasonNumber: 1, EpisodeCount: 10}}
			}
			write(item)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestSyncService(f *fakeUpstream) (*SyncServiceImpl, *memoryMediaStore, *memoryGenreStore, *memorySyncState, *httptest.Server) {
	srv := httptest.NewServer(f.handler())
	media := newMemoryMediaStore()
	genres := newMemoryGenreStore()
	state := &memorySyncState{}
	svc := &SyncServiceImpl{
		media:  media,
		genres: genres,
		state:  state,
		client: tmdb.New(srv.URL, "test-token"),
	}
	return svc, media, genres, state, srv
}

func TestSyncGenresMergesBothCatalogs(t *testing.T) {
	svc, _, genres, state, srv := newTestSyncService(&fakeUpstream{})
	defer srv.Close()

	count, err := svc.SyncGenres(context.Background())
	require.NoError(t, err)

	// Drama appears in both lists but is written once.
	assert.Equal(t, 3, count)
	assert.Equal(t, map[int]string{1: "Action", 2: "Drama", 3: "Comedy"}, genres.rows)
	assert.NotNil(t, state.state.LastGenreSync)
}

func TestSyncTrendingReplacesCache(t *testing.T) {
	f := &fakeUpstream{
		trendingMovies: []tmdb.Item{{ID: 10}, {ID: 11}},
		trendingTV:     []tmdb.Item{{ID: 20}},
	}
	svc, media, _, state, srv := newTestSyncService(f)
	defer srv.Close()

	// A title that fell out of trending gets removed.
	require.NoError(t, media.Upsert(context.Background(), &domain.Media{ID: 999, MediaType: domain.MediaTypeMovie}))

	count, err := svc.SyncTrending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.NotContains(t, media.rows, 999)
	require.Contains(t, media.rows, 10)
	require.Contains(t, media.rows, 20)
	assert.Equal(t, domain.MediaTypeMovie, media.rows[10].MediaType)
	assert.Equal(t, domain.MediaTypeSeries, media.rows[20].MediaType)
	assert.Equal(t, "Detail", media.rows[20].Title)
	assert.Len(t, media.rows[20].Seasons, 1)
	assert.NotNil(t, state.state.LastTrendingSync)
}

func TestSyncTrendingTwiceLeavesCacheUnchanged(t *testing.T) {
	f := &fakeUpstream{
		trendingMovies: []tmdb.Item{{ID: 10}, {ID: 11}},
		trendingTV:     []tmdb.Item{{ID: 20}},
	}
	svc, media, _, _, srv := newTestSyncService(f)
	defer srv.Close()

	count, err := svc.SyncTrending(context.Background())
	require.NoError(t, err)

	first := make(map[int]domain.Media, len(media.rows))
	for id, row := range media.rows {
		cp := *row
		cp.UpdatedAt = time.Time{}
		first[id] = cp
	}

	// Unchanged upstream: a second run rewrites the same rows and deletes
	// nothing.
	countAgain, err := svc.SyncTrending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, count, countAgain)
	assert.Empty(t, media.deleted)

	require.Len(t, media.rows, len(first))
	for id, row := range media.rows {
		cp := *row
		cp.UpdatedAt = time.Time{}
		assert.Equal(t, first[id], cp)
	}
}

func TestSyncTrendingAbortsOnDetailFailure(t *testing.T) {
	f := &fakeUpstream{
		trendingMovies: []tmdb.Item{{ID: 10}},
		failDetails:    true,
	}
	svc, media, _, state, srv := newTestSyncService(f)
	defer srv.Close()

	_, err := svc.SyncTrending(context.Background())
	require.Error(t, err)
	assert.Empty(t, media.rows)
	assert.Nil(t, state.state.LastTrendingSync)
}

func TestSyncIfStaleSkipsFreshState(t *testing.T) {
	f := &fakeUpstream{trendingMovies: []tmdb.Item{{ID: 10}}}
	svc, media, genres, state, srv := newTestSyncService(f)
	defer srv.Close()

	now := time.Now().UTC()
	state.state.LastGenreSync = &now
	state.state.LastTrendingSync = &now

	svc.SyncIfStale(context.Background())
	assert.Empty(t, media.rows)
	assert.Empty(t, genres.rows)
}

func TestSyncIfStaleRunsWhenOld(t *testing.T) {
	f := &fakeUpstream{trendingMovies: []tmdb.Item{{ID: 10}}}
	svc, media, genres, state, srv := newTestSyncService(f)
	defer srv.Close()

	old := time.Now().UTC().Add(-48 * time.Hour)
	state.state.LastGenreSync = &old
	state.state.LastTrendingSync = &old

	svc.SyncIfStale(context.Background())
	assert.NotEmpty(t, media.rows)
	assert.NotEmpty(t, genres.rows)
}
