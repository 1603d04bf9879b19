package http

import (
	"net/http"
	"strconv"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"

	"github.com/go-chi/chi/v5"
)

func queryInt(r *http.Request, key, def string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		v = def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func (h *Handler) handleTrending(w http.ResponseWriter, r *http.Request) {
	result, err := h.media.Trending(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TrendingResponse{
		Response: dto.OK("Trending fetched"),
		Result:   *result,
	})
}

// handleDetail serves /media/{type}/{id}. For series an optional season query
// parameter adds that season's episodes to the payload.
func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid media id")
		return
	}
	mediaType := chi.URLParam(r, "type")
	if mediaType != domain.MediaTypeMovie && mediaType != domain.MediaTypeSeries {
		badRequest(w, "invalid media type")
		return
	}
	season := queryInt(r, "season", "0")

	result, err := h.media.Detail(r.Context(), id, mediaType, season)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DetailResponse{
		Response: dto.OK("Detail fetched"),
		Result:   result,
	})
}

func (h *Handler) handleDefaultLists(mediaType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lists, err := h.media.DefaultLists(r.Context(), mediaType)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.ListsResponse{
			Response: dto.OK("Lists fetched"),
			Result:   lists,
		})
	}
}

func (h *Handler) handleCategoryPage(mediaType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := chi.URLParam(r, "category")
		page := queryInt(r, "page", "1")

		result, err := h.media.CategoryPage(r.Context(), mediaType, category, page)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.PageResponse{
			Response: dto.OK("Page fetched"),
			Result:   result,
		})
	}
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		badRequest(w, "missing query")
		return
	}
	result, err := h.media.Search(r.Context(), query, queryInt(r, "page", "1"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PageResponse{
		Response: dto.OK("Search complete"),
		Result:   result,
	})
}

func (h *Handler) handleKeywords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		badRequest(w, "missing query")
		return
	}
	keywords, err := h.media.Keywords(r.Context(), query)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.KeywordsResponse{Condition: true, Keywords: keywords})
}

func (h *Handler) handleGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.media.Genres(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.GenresResponse{Condition: true, Genres: genres})
}

func (h *Handler) handleLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.media.Languages(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LanguagesResponse{Condition: true, Languages: languages})
}

func (h *Handler) handleDiscover(w http.ResponseWriter, r *http.Request) {
	var req dto.DiscoverRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	result, err := h.media.Discover(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PageResponse{
		Response: dto.OK("Discover complete"),
		Result:   result,
	})
}
