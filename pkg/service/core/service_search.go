package core

import (
	"context"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/invalidation"
	"github.com/datamesh/mesh-console/pkg/service"
)

var _ service.SearchService = &searchService{}

type searchService struct {
	searchAPI   service.SearchAPI
	generations *invalidation.Generations
	metrics     *Metrics
}

// Search expands the matches of the search service into suggestions. A
// response to a generation older than one already answered for the session
// is marked stale and carries no suggestions. The query text is gated and
// forwarded exactly as typed.
func (s *searchService) Search(ctx context.Context, user *service.User, query service.SearchQuery) (*service.SearchResult, error) {
	const op errs.Op = "searchService.Search"

	text := query.Text

	result := &service.SearchResult{
		Query:       text,
		Generation:  query.Generation,
		Suggestions: []service.Suggestion{},
	}

	if service.SearchQueryTooShort(text) {
		// Clearing the box still counts as the newest keystroke
		s.generations.Observe(query.SessionKey, query.Generation)
		s.metrics.Searches.WithLabelValues(SearchOutcomeShort).Inc()

		return result, nil
	}

	matches, err := s.searchAPI.Search(ctx, user.IDToken, text)
	if err != nil {
		s.metrics.Searches.WithLabelValues(SearchOutcomeFailed).Inc()

		return nil, errs.E(op, err)
	}

	if !s.generations.Observe(query.SessionKey, query.Generation) {
		s.metrics.Searches.WithLabelValues(SearchOutcomeStale).Inc()

		result.Stale = true

		return result, nil
	}

	s.metrics.Searches.WithLabelValues(SearchOutcomeOK).Inc()

	result.Suggestions = service.ExpandSearchMatches(text, matches)

	return result, nil
}

func (s *searchService) Select(_ context.Context, value string) (*service.SearchSelection, error) {
	const op errs.Op = "searchService.Select"

	payload, err := service.DecodeSuggestionPayload(value)
	if err != nil {
		return nil, errs.E(errs.InvalidRequest, op, errs.Parameter("value"), err)
	}

	return &service.SearchSelection{
		Payload:  payload,
		Location: payload.Location(),
	}, nil
}

func NewSearchService(searchAPI service.SearchAPI, generations *invalidation.Generations, metrics *Metrics) *searchService {
	return &searchService{
		searchAPI:   searchAPI,
		generations: generations,
		metrics:     metrics,
	}
}
