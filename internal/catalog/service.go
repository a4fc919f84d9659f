package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/angelmondragon/sirene-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/metrics"
)

const (
	SearchLimit      = 50
	BrowseLimit      = 50
	QuickSearchLimit = 20
	RailLimit        = 10
	FeaturedLimit    = 5

	// MinQuickSearchLen is the shortest query the quick search answers.
	MinQuickSearchLen = 2
	trendingWindow    = 30 * 24 * time.Hour
)

// Service answers the read-only catalog endpoints.
type Service interface {
	Home(ctx context.Context, loggedIn bool) (*HomePage, error)
	SearchPage(ctx context.Context, params SearchParams) (*SearchPage, error)
	BrowsePage(ctx context.Context) (*BrowsePage, error)
	Browse(ctx context.Context, params BrowseParams) ([]MediaSummary, error)
	Trending(ctx context.Context) ([]MediaSummary, error)
	TopRated(ctx context.Context) ([]MediaSummary, error)
	Recent(ctx context.Context) ([]MediaSummary, error)
	Featured(ctx context.Context) ([]MediaSummary, error)
	ByType(ctx context.Context, slug string) ([]MediaSummary, error)
	QuickSearch(ctx context.Context, q string) ([]QuickSearchResult, error)
	Genres(ctx context.Context) ([]string, error)
}

type repository interface {
	List(ctx context.Context, q ListQuery) ([]MediaRow, error)
	GenresFor(ctx context.Context, mediaIDs []int64) (map[int64][]string, error)
	GenreNames(ctx context.Context) ([]string, error)
}

// ServiceParams bundles the catalog service dependencies.
type ServiceParams struct {
	Repo    repository
	Metrics *metrics.QueryMetrics
	Now     func() time.Time
}

type service struct {
	repo    repository
	metrics *metrics.QueryMetrics
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, metrics: params.Metrics, now: now}, nil
}

func (s *service) Home(ctx context.Context, loggedIn bool) (*HomePage, error) {
	page := &HomePage{
		LoggedIn: loggedIn,
		Featured: []MediaSummary{},
		Trending: []MediaSummary{},
		TopRated: []MediaSummary{},
		Recent:   []MediaSummary{},
	}
	// the rails are only filled for signed-in visitors
	if !loggedIn {
		return page, nil
	}

	var err error
	if page.Featured, err = s.Featured(ctx); err != nil {
		return nil, err
	}
	if page.Trending, err = s.Trending(ctx); err != nil {
		return nil, err
	}
	if page.TopRated, err = s.TopRated(ctx); err != nil {
		return nil, err
	}
	if page.Recent, err = s.Recent(ctx); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *service) SearchPage(ctx context.Context, params SearchParams) (*SearchPage, error) {
	genres, err := s.Genres(ctx)
	if err != nil {
		return nil, err
	}
	page := &SearchPage{
		Results:       []MediaSummary{},
		Query:         strings.TrimSpace(params.Query),
		Genres:        genres,
		SelectedType:  strings.TrimSpace(params.Type),
		SelectedGenre: strings.TrimSpace(params.Genre),
	}

	filter := Filter{Query: page.Query, Genre: page.SelectedGenre}
	if page.SelectedType != "" {
		mediaType, err := enums.ParseMediaType(page.SelectedType)
		if err != nil {
			return page, nil
		}
		filter.Type = mediaType
	}

	page.Results, err = s.list(ctx, "search", ListQuery{Filter: filter, Order: orderRecent, Limit: SearchLimit})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *service) BrowsePage(ctx context.Context) (*BrowsePage, error) {
	genres, err := s.Genres(ctx)
	if err != nil {
		return nil, err
	}
	types := make([]TypeOption, 0, len(enums.MediaTypes()))
	for _, t := range enums.MediaTypes() {
		types = append(types, TypeOption{Value: t, Slug: t.Slug()})
	}
	return &BrowsePage{Genres: genres, Types: types, Sorts: enums.CatalogSorts()}, nil
}

func (s *service) Browse(ctx context.Context, params BrowseParams) ([]MediaSummary, error) {
	filter := Filter{Genre: params.Genre}
	if t := strings.TrimSpace(params.Type); t != "" {
		mediaType, err := enums.ParseMediaType(t)
		if err != nil {
			return []MediaSummary{}, nil
		}
		filter.Type = mediaType
	}
	order := orderingFor(enums.ParseCatalogSort(params.Sort))
	return s.list(ctx, "browse", ListQuery{Filter: filter, Order: order, Limit: BrowseLimit})
}

func (s *service) Trending(ctx context.Context) ([]MediaSummary, error) {
	since := s.now().UTC().Add(-trendingWindow)
	return s.list(ctx, "trending", ListQuery{
		Filter: Filter{ReviewedSince: &since, MinReviews: 1},
		Order:  orderTrending,
		Limit:  RailLimit,
	})
}

func (s *service) TopRated(ctx context.Context) ([]MediaSummary, error) {
	return s.list(ctx, "top_rated", ListQuery{
		Filter: Filter{MinReviews: 1},
		Order:  orderRating,
		Limit:  RailLimit,
	})
}

func (s *service) Recent(ctx context.Context) ([]MediaSummary, error) {
	today := s.today()
	return s.list(ctx, "recent", ListQuery{
		Filter: Filter{ReleasedBefore: &today},
		Order:  orderRecent,
		Limit:  RailLimit,
	})
}

func (s *service) Featured(ctx context.Context) ([]MediaSummary, error) {
	return s.list(ctx, "featured", ListQuery{
		Filter: Filter{HasBackdrop: true},
		Order:  orderFeatured,
		Limit:  FeaturedLimit,
	})
}

func (s *service) ByType(ctx context.Context, slug string) ([]MediaSummary, error) {
	mediaType, ok := enums.MediaTypeFromSlug(slug)
	if !ok {
		return []MediaSummary{}, nil
	}
	return s.list(ctx, "by_type", ListQuery{
		Filter: Filter{Type: mediaType},
		Order:  orderRecent,
		Limit:  RailLimit,
	})
}

func (s *service) QuickSearch(ctx context.Context, q string) ([]QuickSearchResult, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinQuickSearchLen {
		return []QuickSearchResult{}, nil
	}
	summaries, err := s.list(ctx, "quick_search", ListQuery{
		Filter: Filter{Query: q},
		Order:  orderRecent,
		Limit:  QuickSearchLimit,
	})
	if err != nil {
		return nil, err
	}
	return toQuickResults(summaries), nil
}

func (s *service) Genres(ctx context.Context) ([]string, error) {
	names, err := s.repo.GenreNames(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list genres")
	}
	return names, nil
}

func (s *service) list(ctx context.Context, name string, q ListQuery) ([]MediaSummary, error) {
	start := time.Now()
	rows, err := s.repo.List(ctx, q)
	s.metrics.Observe(name, time.Since(start), len(rows), err)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list "+name)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	genres, err := s.repo.GenresFor(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load genres")
	}
	return toSummaries(rows, genres), nil
}

func (s *service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
