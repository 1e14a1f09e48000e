package http

import (
	"context"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/meshapi"
	"github.com/datamesh/mesh-console/pkg/service"
)

var _ service.SearchAPI = &searchAPI{}

type searchAPI struct {
	fetcher meshapi.Fetcher
}

func (a *searchAPI) Search(ctx context.Context, idToken, query string) ([]service.SearchMatch, error) {
	const op errs.Op = "searchAPI.Search"

	results, err := a.fetcher.Search(ctx, idToken, query)
	if err != nil {
		return nil, errs.E(errs.IO, op, err)
	}

	matches := make([]service.SearchMatch, len(results))
	for i, r := range results {
		matches[i] = service.SearchMatch{
			TableInformation: service.TableInformation{
				DatabaseName: r.TableInformation.DatabaseName,
				TableName:    r.TableInformation.TableName,
				ColumnNames:  r.TableInformation.ColumnNames,
			},
		}
	}

	return matches, nil
}

func NewSearchAPI(fetcher meshapi.Fetcher) *searchAPI {
	return &searchAPI{
		fetcher: fetcher,
	}
}
