package http

import (
	"context"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/meshapi"
	"github.com/datamesh/mesh-console/pkg/service"
)

var _ service.EventAPI = &eventAPI{}

type eventAPI struct {
	fetcher meshapi.Fetcher
}

func (a *eventAPI) GetEvent(ctx context.Context) (*service.Event, error) {
	const op errs.Op = "eventAPI.GetEvent"

	event, err := a.fetcher.Event(ctx)
	if err != nil {
		return nil, errs.E(errs.IO, op, err)
	}

	return &service.Event{
		EventHash: event.EventHash,
	}, nil
}

func NewEventAPI(fetcher meshapi.Fetcher) *eventAPI {
	return &eventAPI{
		fetcher: fetcher,
	}
}
