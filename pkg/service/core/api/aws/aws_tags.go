package aws

import (
	"context"
	"errors"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/lf"
	"github.com/datamesh/mesh-console/pkg/service"
)

var _ service.TagAPI = &tagAPI{}

type tagAPI struct {
	ops lf.Operations
}

func (a *tagAPI) GetResourceTags(ctx context.Context, resource service.Resource) (*service.ResourceTags, error) {
	const op errs.Op = "tagAPI.GetResourceTags"

	var (
		raw *lf.ResourceTags
		err error
	)

	switch resource.Type {
	case service.ResourceTypeDatabase:
		raw, err = a.ops.GetDatabaseTags(ctx, resource.DatabaseName)
	case service.ResourceTypeTable:
		raw, err = a.ops.GetTableTags(ctx, resource.DatabaseName, resource.TableName)
	default:
		return nil, errs.E(errs.InvalidRequest, op, errs.Parameter("type"), errs.Str("unknown resource type"))
	}

	if err != nil {
		return nil, tagError(op, err)
	}

	tags := &service.ResourceTags{
		Resource: toTags(raw.Tags),
		Columns:  make([]service.ColumnTag, len(raw.Columns)),
	}

	for i, c := range raw.Columns {
		tags.Columns[i] = service.ColumnTag{
			Name: c.Name,
			Tags: toTags(c.Tags),
		}
	}

	return tags, nil
}

func (a *tagAPI) SetResourceTag(ctx context.Context, resource service.Resource, tag service.LFTag) error {
	const op errs.Op = "tagAPI.SetResourceTag"

	t := lf.Tag{
		Key:    tag.Key,
		Values: tag.Values,
	}

	var err error

	switch resource.Type {
	case service.ResourceTypeDatabase:
		err = a.ops.AddDatabaseTag(ctx, resource.DatabaseName, t)
	case service.ResourceTypeTable:
		err = a.ops.AddTableTag(ctx, resource.DatabaseName, resource.TableName, t)
	default:
		return errs.E(errs.InvalidRequest, op, errs.Parameter("type"), errs.Str("unknown resource type"))
	}

	if err != nil {
		return tagError(op, err)
	}

	return nil
}

func tagError(op errs.Op, err error) error {
	if errors.Is(err, lf.ErrNotExist) {
		return errs.E(errs.NotExist, op, err)
	}

	return errs.E(errs.IO, op, err)
}

func toTags(raw []lf.Tag) []service.LFTag {
	tags := make([]service.LFTag, len(raw))
	for i, t := range raw {
		tags[i] = service.LFTag{
			Key:    t.Key,
			Values: t.Values,
		}
	}

	return tags
}

func NewTagAPI(ops lf.Operations) *tagAPI {
	return &tagAPI{
		ops: ops,
	}
}
