// Package pagination parses the page/take/search query contract shared by
// every list endpoint and builds the matching document-store query parts.
package pagination

import (
	"errors"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage = 1
	DefaultTake = 10
)

// ErrInvalidParams is returned when page or take is not a positive integer.
var ErrInvalidParams = errors.New("invalid page or size values")

// Params is a parsed page request.
type Params struct {
	Page   int
	Take   int
	Search string
}

// Parse reads page, take (or its alias pageSize) and search from q.
func Parse(q url.Values) (Params, error) {
	p := Params{Page: DefaultPage, Take: DefaultTake, Search: strings.TrimSpace(q.Get("search"))}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Params{}, ErrInvalidParams
		}
		p.Page = n
	}

	take := q.Get("take")
	if take == "" {
		take = q.Get("pageSize")
	}
	if take != "" {
		n, err := strconv.Atoi(take)
		if err != nil || n < 1 {
			return Params{}, ErrInvalidParams
		}
		p.Take = n
	}
	// page*take bounds every offset derived from p, including End.
	if p.Page > math.MaxInt/p.Take {
		return Params{}, ErrInvalidParams
	}
	return p, nil
}

// Skip is the number of matching documents before the requested page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Take)
}

// End is the exclusive upper offset of the requested page.
func (p Params) End() int64 {
	return int64(p.Page) * int64(p.Take)
}

// FindOptions applies skip, limit and sort for p.
func (p Params) FindOptions(sort bson.D) *options.FindOptions {
	opts := options.Find().SetSkip(p.Skip()).SetLimit(int64(p.Take))
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	return opts
}

// Pattern turns a search term into a literal substring regex pattern.
func Pattern(search string) string {
	return regexp.QuoteMeta(search)
}

// Filter adds a case-insensitive substring match of search over fields to
// base. An empty search leaves base untouched.
func Filter(base bson.M, search string, fields ...string) bson.M {
	out := bson.M{}
	for k, v := range base {
		out[k] = v
	}
	if search == "" || len(fields) == 0 {
		return out
	}

	re := primitive.Regex{Pattern: Pattern(search), Options: "i"}
	if len(fields) == 1 {
		out[fields[0]] = re
		return out
	}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	out["$or"] = or
	return out
}

// TotalPages is ceil(total / take).
func TotalPages(total int64, take int) int64 {
	if take < 1 || total <= 0 {
		return 0
	}
	t := int64(take)
	pages := total / t
	if total%t != 0 {
		pages++
	}
	return pages
}

// PageInfo describes where a page sits in the full matching set. Exactly one
// of TotalCollections and TotalDocuments is set.
type PageInfo struct {
	CurrentPage      int    `json:"currentPage"`
	PageSize         int    `json:"pageSize"`
	TotalPages       int64  `json:"totalPages"`
	TotalCollections *int64 `json:"totalCollections,omitempty"`
	TotalDocuments   *int64 `json:"totalDocuments,omitempty"`
}

// CollectionInfo reports total under totalCollections.
func CollectionInfo(p Params, total int64) PageInfo {
	return PageInfo{
		CurrentPage:      p.Page,
		PageSize:         p.Take,
		TotalPages:       TotalPages(total, p.Take),
		TotalCollections: &total,
	}
}

// DocumentInfo reports total under totalDocuments.
func DocumentInfo(p Params, total int64) PageInfo {
	return PageInfo{
		CurrentPage:    p.Page,
		PageSize:       p.Take,
		TotalPages:     TotalPages(total, p.Take),
		TotalDocuments: &total,
	}
}

// Page is the data of a list response.
type Page[T any] struct {
	Items    []T      `json:"items"`
	PageInfo PageInfo `json:"pageInfo"`
}

// NewPage never returns nil Items so empty pages encode as [].
func NewPage[T any](items []T, info PageInfo) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, PageInfo: info}
}
