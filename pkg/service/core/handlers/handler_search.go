package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
)

type SearchHandler struct {
	searchService service.SearchService
}

func (h *SearchHandler) Search(ctx context.Context, r *http.Request, _ any) (*service.SearchResult, error) {
	const op errs.Op = "SearchHandler.Search"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	query := service.SearchQuery{
		Text:       r.URL.Query().Get("q"),
		SessionKey: user.SessionToken,
	}

	if gen := r.URL.Query().Get("gen"); gen != "" {
		g, err := strconv.ParseUint(gen, 10, 64)
		if err != nil {
			return nil, errs.E(errs.InvalidRequest, op, errs.Parameter("gen"), fmt.Errorf("parsing generation: %w", err))
		}

		query.Generation = g
	}

	result, err := h.searchService.Search(ctx, user, query)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return result, nil
}

func (h *SearchHandler) Select(ctx context.Context, r *http.Request, _ any) (*transport.Redirect, error) {
	const op errs.Op = "SearchHandler.Select"

	selection, err := h.searchService.Select(ctx, r.URL.Query().Get("value"))
	if err != nil {
		return nil, errs.E(op, err)
	}

	return transport.NewRedirectWithBody(selection.Location, selection, r), nil
}

func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}
