package impl

import (
	"strings"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
	"streamhaven/internal/tmdb"
)

const (
	posterSize   = "w500"
	backdropSize = "w1280"

	// Shown whenever upstream has no artwork for a title.
	placeholderImage = "https://upload.wikimedia.org/wikipedia/commons/6/65/No-Image-Placeholder.svg"
)

// imageURL turns an upstream image path into an absolute URL at the given
// size. Empty paths resolve to the placeholder, already-absolute URLs pass
// through untouched.
func imageURL(base, size, path string) string {
	if path == "" {
		return placeholderImage
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return base + "/" + size + path
}

func mediaTypeTag(upstream string) string {
	if upstream == "tv" {
		return domain.MediaTypeSeries
	}
	return domain.MediaTypeMovie
}

// formatItem normalizes one upstream record: movie/tv naming differences are
// collapsed, images become absolute URLs, genre ids resolve to names through
// the lookup when the payload carries ids only. Recommendations recurse one
// level, matching what upstream embeds.
func formatItem(item tmdb.Item, typeTag, imageBase string, genreNames map[int]string) dto.FormattedItem {
	if typeTag == "" {
		typeTag = mediaTypeTag(item.MediaType)
	}

	title := item.Title
	if title == "" {
		title = item.Name
	}
	release := item.ReleaseDate
	if release == "" {
		release = item.FirstAirDate
	}

	genres := make([]domain.GenreRef, 0, len(item.Genres)+len(item.GenreIDs))
	for _, g := range item.Genres {
		genres = append(genres, domain.GenreRef{ID: g.ID, Name: g.Name})
	}
	if len(genres) == 0 {
		for _, id := range item.GenreIDs {
			if name, ok := genreNames[id]; ok {
				genres = append(genres, domain.GenreRef{ID: id, Name: name})
			}
		}
	}

	out := dto.FormattedItem{
		ID:           item.ID,
		Title:        title,
		Overview:     item.Overview,
		MediaType:    typeTag,
		PosterPath:   imageURL(imageBase, posterSize, item.PosterPath),
		BackdropPath: imageURL(imageBase, backdropSize, item.BackdropPath),
		VoteAverage:  item.VoteAverage,
		VoteCount:    item.VoteCount,
		Popularity:   item.Popularity,
		ReleaseDate:  release,
		Runtime:      item.Runtime,
		Genres:       genres,
	}

	for _, s := range item.Seasons {
		out.Seasons = append(out.Seasons, dto.FormattedSeason{
			SeasonNumber: s.SeasonNumber,
			Name:         s.Name,
			EpisodeCount: s.EpisodeCount,
			PosterPath:   imageURL(imageBase, posterSize, s.PosterPath),
		})
	}

	if item.Recommendations != nil {
		for _, rec := range item.Recommendations.Results {
			out.Recommendations = append(out.Recommendations, formatItem(rec, "", imageBase, genreNames))
		}
	}

	return out
}

// formatPage drops person results that multi-search mixes in.
func formatPage(page *tmdb.Page, typeTag, imageBase string, genreNames map[int]string) *dto.FormattedPage {
	out := &dto.FormattedPage{
		Page:         page.Page,
		TotalPages:   page.TotalPages,
		TotalResults: page.TotalResults,
		Results:      make([]dto.FormattedItem, 0, len(page.Results)),
	}
	for _, item := range page.Results {
		if item.MediaType == "person" {
			continue
		}
		out.Results = append(out.Results, formatItem(item, typeTag, imageBase, genreNames))
	}
	return out
}

func formatEpisodes(episodes []tmdb.Episode, imageBase string) []dto.EpisodeItem {
	out := make([]dto.EpisodeItem, len(episodes))
	for i, e := range episodes {
		out[i] = dto.EpisodeItem{
			EpisodeNumber: e.EpisodeNumber,
			Name:          e.Name,
			Overview:      e.Overview,
			StillPath:     imageURL(imageBase, posterSize, e.StillPath),
			AirDate:       e.AirDate,
		}
	}
	return out
}

// formatMedia maps a cached trending row to the same display shape the
// upstream pass-through routes use.
func formatMedia(m domain.Media, imageBase string) domain.Media {
	m.PosterPath = imageURL(imageBase, posterSize, m.PosterPath)
	m.BackdropPath = imageURL(imageBase, backdropSize, m.BackdropPath)
	for i := range m.Seasons {
		m.Seasons[i].PosterPath = imageURL(imageBase, posterSize, m.Seasons[i].PosterPath)
	}
	return m
}
