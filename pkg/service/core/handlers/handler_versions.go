package handlers

import (
	"context"
	"net/http"

	"github.com/datamesh/mesh-console/pkg/invalidation"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/go-chi/chi"
)

// VersionsHandler exposes the refetch versions, a page holding a resource
// refetches it when the version moves.
type VersionsHandler struct {
	tracker *invalidation.Tracker
}

func (h *VersionsHandler) GetDatabaseVersion(ctx context.Context, _ *http.Request, _ any) (*service.ResourceVersion, error) {
	return h.version(service.DatabaseResource(chi.URLParamFromCtx(ctx, "dbname"))), nil
}

func (h *VersionsHandler) GetTableVersion(ctx context.Context, _ *http.Request, _ any) (*service.ResourceVersion, error) {
	return h.version(service.TableResource(
		chi.URLParamFromCtx(ctx, "dbname"),
		chi.URLParamFromCtx(ctx, "tablename"),
	)), nil
}

func (h *VersionsHandler) version(resource service.Resource) *service.ResourceVersion {
	return &service.ResourceVersion{
		Resource: resource,
		Version:  h.tracker.Version(resource.Key()),
	}
}

func NewVersionsHandler(tracker *invalidation.Tracker) *VersionsHandler {
	return &VersionsHandler{
		tracker: tracker,
	}
}
