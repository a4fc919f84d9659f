package catalog

import (
	"strings"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/db"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
)

// Filter narrows a catalog listing. Zero values disable a predicate.
type Filter struct {
	Query          string
	Type           enums.MediaType
	Genre          string
	ReleasedBefore *time.Time
	// ReviewedSince restricts the review join to reviews on or after the cutoff,
	// so aggregates only count that window.
	ReviewedSince *time.Time
	HasBackdrop   bool
	MinReviews    int
}

type ordering string

const (
	orderRecent   ordering = "recent"
	orderRating   ordering = "rating"
	orderTitle    ordering = "title"
	orderTrending ordering = "trending"
	orderFeatured ordering = "featured"
)

var orderClauses = map[ordering]string{
	orderRecent:   "(m.release_date IS NULL), m.release_date DESC, m.id DESC",
	orderRating:   "avg_rating DESC, review_count DESC, m.id DESC",
	orderTitle:    "m.title ASC, m.id ASC",
	orderTrending: "review_count DESC, avg_rating DESC, m.id DESC",
	orderFeatured: "avg_rating DESC, (m.release_date IS NULL), m.release_date DESC, m.id DESC",
}

func orderingFor(sort enums.CatalogSort) ordering {
	switch sort {
	case enums.CatalogSortRating:
		return orderRating
	case enums.CatalogSortTitle:
		return orderTitle
	default:
		return orderRecent
	}
}

// ListQuery is one catalog listing request.
type ListQuery struct {
	Filter Filter
	Order  ordering
	Limit  int
}

type predicate func(f Filter) (string, []any, bool)

// predicateOrder fixes clause order so bind arguments line up.
var predicateOrder = []string{"q", "type", "genre", "released_before", "has_backdrop"}

var predicates = map[string]predicate{
	"q": func(f Filter) (string, []any, bool) {
		q := strings.TrimSpace(f.Query)
		if q == "" {
			return "", nil, false
		}
		pattern := db.ContainsPattern(q)
		return `(LOWER(m.title) LIKE ? ESCAPE '\' OR LOWER(m.synopsis) LIKE ? ESCAPE '\')`, []any{pattern, pattern}, true
	},
	"type": func(f Filter) (string, []any, bool) {
		if f.Type == "" {
			return "", nil, false
		}
		return "m.media_type = ?", []any{string(f.Type)}, true
	},
	"genre": func(f Filter) (string, []any, bool) {
		genre := strings.TrimSpace(f.Genre)
		if genre == "" {
			return "", nil, false
		}
		return `EXISTS (SELECT 1 FROM media_genre mg JOIN genre g ON g.id = mg.genre_id WHERE mg.media_id = m.id AND g.name = ?)`, []any{genre}, true
	},
	"released_before": func(f Filter) (string, []any, bool) {
		if f.ReleasedBefore == nil {
			return "", nil, false
		}
		return "m.release_date <= ?", []any{f.ReleasedBefore.UTC()}, true
	},
	"has_backdrop": func(f Filter) (string, []any, bool) {
		if !f.HasBackdrop {
			return "", nil, false
		}
		return `EXISTS (SELECT 1 FROM mediaimage bi WHERE bi.media_id = m.id AND bi.image_type = ?)`, []any{string(enums.ImageTypeBackdrop)}, true
	},
}

const listSelect = `SELECT m.id, m.title, m.synopsis, m.media_type, m.release_date, m.duration_minutes,
  CAST(COALESCE(AVG(r.rating), 0) AS DOUBLE PRECISION) AS avg_rating,
  COUNT(r.id) AS review_count,
  (SELECT img.url FROM mediaimage img WHERE img.media_id = m.id AND img.image_type = ? ORDER BY img.sort_order, img.id LIMIT 1) AS poster_url
FROM media m
LEFT JOIN review r ON r.media_id = m.id`

// build renders the listing SQL and its bind arguments.
func (q ListQuery) build() (string, []any) {
	var sb strings.Builder
	args := []any{string(enums.ImageTypePoster)}

	sb.WriteString(listSelect)
	if q.Filter.ReviewedSince != nil {
		sb.WriteString(" AND r.review_date >= ?")
		args = append(args, q.Filter.ReviewedSince.UTC())
	}

	var clauses []string
	for _, name := range predicateOrder {
		clause, clauseArgs, ok := predicates[name](q.Filter)
		if !ok {
			continue
		}
		clauses = append(clauses, clause)
		args = append(args, clauseArgs...)
	}
	if len(clauses) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}

	sb.WriteString("\nGROUP BY m.id, m.title, m.synopsis, m.media_type, m.release_date, m.duration_minutes")
	if q.Filter.MinReviews > 0 {
		sb.WriteString("\nHAVING COUNT(r.id) >= ?")
		args = append(args, q.Filter.MinReviews)
	}

	order, ok := orderClauses[q.Order]
	if !ok {
		order = orderClauses[orderRecent]
	}
	sb.WriteString("\nORDER BY ")
	sb.WriteString(order)

	if q.Limit > 0 {
		sb.WriteString("\nLIMIT ?")
		args = append(args, q.Limit)
	}
	return sb.String(), args
}
