package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"streamhaven/internal/domain"
	"streamhaven/internal/observability/metrics"
	"streamhaven/internal/store"
	"streamhaven/internal/tmdb"

	"golang.org/x/sync/errgroup"
)

// syncStaleAfter gates the opportunistic re-sync; explicit admin-triggered
// syncs bypass it.
const syncStaleAfter = 24 * time.Hour

// detailFetchConcurrency caps parallel upstream detail requests during a
// trending sync.
const detailFetchConcurrency = 8

type syncMediaStore interface {
	Upsert(ctx context.Context, media *domain.Media) error
	DeleteNotIn(ctx context.Context, keep []int) (int64, error)
}

type syncGenreStore interface {
	Upsert(ctx context.Context, genres []domain.Genre) error
}

type syncStateStore interface {
	Get(ctx context.Context) (*domain.SyncState, error)
	MarkGenreSync(ctx context.Context, at time.Time) error
	MarkTrendingSync(ctx context.Context, at time.Time) error
}

type SyncServiceImpl struct {
	media  syncMediaStore
	genres syncGenreStore
	state  syncStateStore
	client *tmdb.Client

	mu sync.Mutex // one sync at a time
}

func NewSyncServiceImpl(st *store.Store, client *tmdb.Client) *SyncServiceImpl {
	return &SyncServiceImpl{
		media:  st.Media(),
		genres: st.Genres(),
		state:  st.Sync(),
		client: client,
	}
}

// SyncGenres refreshes the genre lookup table from both upstream catalogs.
// Returns how many genres were written.
func (s *SyncServiceImpl) SyncGenres(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var movieGenres, tvGenres *tmdb.GenreList
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movieGenres, err = s.client.MovieGenres(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tvGenres, err = s.client.TVGenres(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.SyncRunsTotal.WithLabelValues("genres", "failure").Inc()
		return 0, err
	}

	seen := make(map[int]bool)
	genres := make([]domain.Genre, 0, len(movieGenres.Genres)+len(tvGenres.Genres))
	for _, g := range append(movieGenres.Genres, tvGenres.Genres...) {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		genres = append(genres, domain.Genre{TMDBID: g.ID, Name: g.Name})
	}

	if err := s.genres.Upsert(ctx, genres); err != nil {
		metrics.SyncRunsTotal.WithLabelValues("genres", "failure").Inc()
		return 0, err
	}
	if err := s.state.MarkGenreSync(ctx, time.Now().UTC()); err != nil {
		return 0, err
	}

	metrics.SyncRunsTotal.WithLabelValues("genres", "success").Inc()
	slog.Info("genre sync complete", "count", len(genres))
	return len(genres), nil
}

// SyncTrending replaces the trending cache with the current upstream set:
// entries that fell out of trending are deleted, the rest are refetched in
// full detail and upserted. Any upstream failure aborts the run before the
// cache is touched further.
func (s *SyncServiceImpl) SyncTrending(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var moviePage, tvPage *tmdb.Page
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		moviePage, err = s.client.TrendingMovies(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tvPage, err = s.client.TrendingTV(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.SyncRunsTotal.WithLabelValues("trending", "failure").Inc()
		return 0, err
	}

	keep := make([]int, 0, len(moviePage.Results)+len(tvPage.Results))
	for _, item := range moviePage.Results {
		keep = append(keep, item.ID)
	}
	for _, item := range tvPage.Results {
		keep = append(keep, item.ID)
	}

	removed, err := s.media.DeleteNotIn(ctx, keep)
	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues("trending", "failure").Inc()
		return 0, err
	}

	now := time.Now().UTC()
	fetched := make([]*domain.Media, 0, len(keep))
	var fmu sync.Mutex

	fg, fctx := errgroup.WithContext(ctx)
	fg.SetLimit(detailFetchConcurrency)
	for _, item := range moviePage.Results {
		item := item
		fg.Go(func() error {
			detail, err := s.client.MovieDetail(fctx, item.ID, false)
			if err != nil {
				return err
			}
			row := mediaFromDetail(detail, domain.MediaTypeMovie, now)
			fmu.Lock()
			fetched = append(fetched, row)
			fmu.Unlock()
			return nil
		})
	}
	for _, item := range tvPage.Results {
		item := item
		fg.Go(func() error {
			detail, err := s.client.TVDetail(fctx, item.ID, false)
			if err != nil {
				return err
			}
			row := mediaFromDetail(detail, domain.MediaTypeSeries, now)
			fmu.Lock()
			fetched = append(fetched, row)
			fmu.Unlock()
			return nil
		})
	}
	if err := fg.Wait(); err != nil {
		metrics.SyncRunsTotal.WithLabelValues("trending", "failure").Inc()
		return 0, err
	}

	for _, row := range fetched {
		if err := s.media.Upsert(ctx, row); err != nil {
			metrics.SyncRunsTotal.WithLabelValues("trending", "failure").Inc()
			return 0, err
		}
	}

	if err := s.state.MarkTrendingSync(ctx, now); err != nil {
		return 0, err
	}

	metrics.SyncRunsTotal.WithLabelValues("trending", "success").Inc()
	slog.Info("trending sync complete", "upserted", len(fetched), "removed", removed)
	return len(fetched), nil
}

func mediaFromDetail(item *tmdb.Item, typeTag string, now time.Time) *domain.Media {
	title := item.Title
	if title == "" {
		title = item.Name
	}
	release := item.ReleaseDate
	if release == "" {
		release = item.FirstAirDate
	}

	genres := make([]domain.GenreRef, len(item.Genres))
	for i, g := range item.Genres {
		genres[i] = domain.GenreRef{ID: g.ID, Name: g.Name}
	}

	row := &domain.Media{
		ID:           item.ID,
		MediaType:    typeTag,
		Title:        title,
		Overview:     item.Overview,
		PosterPath:   item.PosterPath,
		BackdropPath: item.BackdropPath,
		VoteAverage:  item.VoteAverage,
		VoteCount:    item.VoteCount,
		ReleaseDate:  release,
		Runtime:      item.Runtime,
		Genres:       genres,
		UpdatedAt:    now,
	}
	for _, s := range item.Seasons {
		row.Seasons = append(row.Seasons, domain.Season{
			SeasonNumber: s.SeasonNumber,
			Name:         s.Name,
			EpisodeCount: s.EpisodeCount,
			PosterPath:   s.PosterPath,
		})
	}
	return row
}

// SyncIfStale runs each sync whose last completed run is older than the
// staleness window. The two kinds fail independently.
func (s *SyncServiceImpl) SyncIfStale(ctx context.Context) {
	state, err := s.state.Get(ctx)
	if err != nil {
		slog.Error("sync state read failed", "error", err)
		return
	}
	now := time.Now().UTC()

	if state.LastGenreSync == nil || now.Sub(*state.LastGenreSync) > syncStaleAfter {
		if _, err := s.SyncGenres(ctx); err != nil {
			slog.Error("genre sync failed", "error", err)
		}
	}
	if state.LastTrendingSync == nil || now.Sub(*state.LastTrendingSync) > syncStaleAfter {
		if _, err := s.SyncTrending(ctx); err != nil {
			slog.Error("trending sync failed", "error", err)
		}
	}
}
