package movie

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ayush/movie-collection/backend/internal/logging"
	"github.com/ayush/movie-collection/backend/internal/pagination"
	"github.com/ayush/movie-collection/backend/internal/response"
)

// Searcher is the catalog lookup the handler needs.
type Searcher interface {
	Search(ctx context.Context, term string, page int) (*SearchResult, error)
}

// Handler serves catalog searches.
type Handler struct {
	catalog       Searcher
	defaultSearch string
}

func NewHandler(catalog Searcher, defaultSearch string) *Handler {
	return &Handler{catalog: catalog, defaultSearch: defaultSearch}
}

// Search proxies one page of the catalog. The catalog pages are fixed at
// CatalogPageSize entries, so the requested [skip, end) window is served from
// the one or more catalog pages it overlaps.
// @Summary Search the movie catalog
// @Description Without search the configured default term is used.
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param take query int false "Page size (alias pageSize)" default(10)
// @Param search query string false "Title search term"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /movie [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.Parse(r.URL.Query())
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid page or size values")
		return
	}
	term := p.Search
	msg := fmt.Sprintf("Search results for '%s' retrieved successfully", term)
	if term == "" {
		term = h.defaultSearch
		msg = "Default movies retrieved successfully"
	}

	res, err := window(r.Context(), h.catalog, term, p)
	if err != nil {
		var upstream *UpstreamError
		switch {
		case errors.Is(err, ErrNoResults):
			response.Fail(w, http.StatusInternalServerError, "Movies not found.")
		case errors.As(err, &upstream) && upstream.Message != "":
			logging.FromRequest(r).Error().Err(err).Msg("catalog search")
			response.Fail(w, http.StatusInternalServerError, upstream.Message)
		default:
			logging.FromRequest(r).Error().Err(err).Msg("catalog search")
			response.Fail(w, http.StatusInternalServerError, "Failed to retrieve movies.")
		}
		return
	}

	response.OK(w, http.StatusOK, msg, pagination.NewPage(res.Items, pagination.CollectionInfo(p, res.Total)))
}

// maxFetchPages bounds the upstream calls one request may make.
const maxFetchPages = 10

// window fetches the catalog pages overlapping p and slices out at most
// p.Take entries. A window starting past the last result yields
// ErrNoResults, as the catalog does for an out of range page.
func window(ctx context.Context, catalog Searcher, term string, p pagination.Params) (*SearchResult, error) {
	skip, end := p.Skip(), p.End()
	first := skip/CatalogPageSize + 1
	last := min((end-1)/CatalogPageSize+1, first+maxFetchPages-1)

	var (
		items []Entry
		total int64
	)
	for page := first; page <= last; page++ {
		res, err := catalog.Search(ctx, term, int(page))
		if err != nil {
			if page > first && errors.Is(err, ErrNoResults) {
				break
			}
			return nil, err
		}
		total = res.Total
		items = append(items, res.Items...)
		if page >= pagination.TotalPages(total, CatalogPageSize) || len(res.Items) < CatalogPageSize {
			break
		}
	}

	offset := int(skip - (first-1)*CatalogPageSize)
	if offset >= len(items) {
		return &SearchResult{Items: []Entry{}, Total: total}, nil
	}
	items = items[offset:]
	if len(items) > p.Take {
		items = items[:p.Take]
	}
	return &SearchResult{Items: items, Total: total}, nil
}
