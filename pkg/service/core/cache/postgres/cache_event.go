package postgres

import (
	"context"

	"github.com/datamesh/mesh-console/pkg/cache"
	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
)

const eventCacheKey = "event:details"

var _ service.EventAPI = &eventCache{}

type eventCache struct {
	api   service.EventAPI
	cache cache.Cacher
}

func (c *eventCache) GetEvent(ctx context.Context) (*service.Event, error) {
	const op errs.Op = "eventCache.GetEvent"

	event := &service.Event{}

	valid := c.cache.Get(ctx, eventCacheKey, event)
	if valid {
		return event, nil
	}

	event, err := c.api.GetEvent(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	c.cache.Set(ctx, eventCacheKey, event)

	return event, nil
}

func NewEventCache(api service.EventAPI, cache cache.Cacher) *eventCache {
	return &eventCache{
		api:   api,
		cache: cache,
	}
}
