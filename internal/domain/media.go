package domain

import "time"

const (
	MediaTypeMovie  = "MV"
	MediaTypeSeries = "SR"
)

type GenreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Season struct {
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
	PosterPath   string `json:"poster_path,omitempty"`
}

// Media is one locally cached trending title. ID is the upstream catalog id,
// shared between movies and series; the sync job owns this table.
type Media struct {
	ID           int        `gorm:"primaryKey" json:"id"`
	MediaType    string     `gorm:"not null;index" json:"media_type"`
	Title        string     `gorm:"not null" json:"title"`
	Overview     string     `gorm:"default:''" json:"overview"`
	PosterPath   string     `gorm:"default:''" json:"poster_path"`
	BackdropPath string     `gorm:"default:''" json:"backdrop_path"`
	VoteAverage  float64    `gorm:"default:0" json:"vote_average"`
	VoteCount    int        `gorm:"default:0" json:"vote_count"`
	ReleaseDate  string     `gorm:"default:''" json:"release_date"`
	Runtime      int        `json:"runtime,omitempty"`
	Genres       []GenreRef `gorm:"serializer:json" json:"genres"`
	Seasons      []Season   `gorm:"serializer:json" json:"seasons,omitempty"`
	UpdatedAt    time.Time  `gorm:"not null" json:"-"`
}

func (Media) TableName() string { return "media" }

type Genre struct {
	TMDBID int    `gorm:"primaryKey;column:tmdb_id" json:"id"`
	Name   string `gorm:"not null" json:"name"`
}

func (Genre) TableName() string { return "genres" }

// SyncState is a single-row table recording when each sync last completed.
// It replaces process-global timestamps so the 24h gate survives restarts.
type SyncState struct {
	ID               int `gorm:"primaryKey"`
	LastGenreSync    *time.Time
	LastTrendingSync *time.Time
}

func (SyncState) TableName() string { return "sync_state" }
