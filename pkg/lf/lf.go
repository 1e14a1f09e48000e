// Package lf wraps the Lake Formation tag operations used by the console.
package lf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lakeformation"
	"github.com/aws/aws-sdk-go-v2/service/lakeformation/types"
	"github.com/rs/zerolog"
)

var _ Operations = &Client{}

type Operations interface {
	GetDatabaseTags(ctx context.Context, databaseName string) (*ResourceTags, error)
	GetTableTags(ctx context.Context, databaseName, tableName string) (*ResourceTags, error)
	AddDatabaseTag(ctx context.Context, databaseName string, tag Tag) error
	AddTableTag(ctx context.Context, databaseName, tableName string, tag Tag) error
}

// API is the subset of the Lake Formation client in use.
type API interface {
	GetResourceLFTags(ctx context.Context, params *lakeformation.GetResourceLFTagsInput, optFns ...func(*lakeformation.Options)) (*lakeformation.GetResourceLFTagsOutput, error)
	AddLFTagsToResource(ctx context.Context, params *lakeformation.AddLFTagsToResourceInput, optFns ...func(*lakeformation.Options)) (*lakeformation.AddLFTagsToResourceOutput, error)
}

var ErrNotExist = errors.New("not exists")

type Client struct {
	api API
	log zerolog.Logger
}

type Tag struct {
	Key    string
	Values []string
}

type ColumnTags struct {
	Name string
	Tags []Tag
}

type ResourceTags struct {
	Tags    []Tag
	Columns []ColumnTags
}

func (c *Client) GetDatabaseTags(ctx context.Context, databaseName string) (*ResourceTags, error) {
	return c.getTags(ctx, databaseResource(databaseName))
}

func (c *Client) GetTableTags(ctx context.Context, databaseName, tableName string) (*ResourceTags, error) {
	return c.getTags(ctx, tableResource(databaseName, tableName))
}

func (c *Client) getTags(ctx context.Context, resource *types.Resource) (*ResourceTags, error) {
	out, err := c.api.GetResourceLFTags(ctx, &lakeformation.GetResourceLFTagsInput{
		Resource:           resource,
		ShowAssignedLFTags: aws.Bool(true),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotExist
		}

		return nil, fmt.Errorf("getting tags for %s: %w", resourceName(resource), err)
	}

	tags := &ResourceTags{
		Tags: toTags(out.LFTagOnDatabase),
	}

	if resource.Table != nil {
		tags.Tags = toTags(out.LFTagsOnTable)
	}

	for _, col := range out.LFTagsOnColumns {
		tags.Columns = append(tags.Columns, ColumnTags{
			Name: aws.ToString(col.Name),
			Tags: toTags(col.LFTags),
		})
	}

	return tags, nil
}

func (c *Client) AddDatabaseTag(ctx context.Context, databaseName string, tag Tag) error {
	return c.addTag(ctx, databaseResource(databaseName), tag)
}

func (c *Client) AddTableTag(ctx context.Context, databaseName, tableName string, tag Tag) error {
	return c.addTag(ctx, tableResource(databaseName, tableName), tag)
}

// addTag assigns the tag to the resource. Lake Formation replaces the values
// of an already assigned key.
func (c *Client) addTag(ctx context.Context, resource *types.Resource, tag Tag) error {
	out, err := c.api.AddLFTagsToResource(ctx, &lakeformation.AddLFTagsToResourceInput{
		Resource: resource,
		LFTags: []types.LFTagPair{
			{
				TagKey:    aws.String(tag.Key),
				TagValues: tag.Values,
			},
		},
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotExist
		}

		return fmt.Errorf("adding tag %s to %s: %w", tag.Key, resourceName(resource), err)
	}

	if len(out.Failures) > 0 {
		return fmt.Errorf("adding tag %s to %s: %w", tag.Key, resourceName(resource), failuresError(out.Failures))
	}

	c.log.Info().
		Str("resource", resourceName(resource)).
		Str("tag", tag.Key).
		Strs("values", tag.Values).
		Msg("added tag to resource")

	return nil
}

func failuresError(failures []types.LFTagError) error {
	msgs := make([]string, 0, len(failures))

	for _, f := range failures {
		if f.Error == nil {
			continue
		}

		msgs = append(msgs, fmt.Sprintf("%s: %s", aws.ToString(f.Error.ErrorCode), aws.ToString(f.Error.ErrorMessage)))
	}

	return errors.New(strings.Join(msgs, "; "))
}

func isNotFound(err error) bool {
	var nf *types.EntityNotFoundException

	return errors.As(err, &nf)
}

func databaseResource(databaseName string) *types.Resource {
	return &types.Resource{
		Database: &types.DatabaseResource{
			Name: aws.String(databaseName),
		},
	}
}

func tableResource(databaseName, tableName string) *types.Resource {
	return &types.Resource{
		Table: &types.TableResource{
			DatabaseName: aws.String(databaseName),
			Name:         aws.String(tableName),
		},
	}
}

func resourceName(r *types.Resource) string {
	if r.Table != nil {
		return aws.ToString(r.Table.DatabaseName) + "." + aws.ToString(r.Table.Name)
	}

	if r.Database != nil {
		return aws.ToString(r.Database.Name)
	}

	return ""
}

func toTags(pairs []types.LFTagPair) []Tag {
	tags := make([]Tag, 0, len(pairs))

	for _, p := range pairs {
		tags = append(tags, Tag{
			Key:    aws.ToString(p.TagKey),
			Values: p.TagValues,
		})
	}

	return tags
}

func New(api API, log zerolog.Logger) *Client {
	return &Client{
		api: api,
		log: log,
	}
}

func NewFromConfig(cfg aws.Config, endpoint string, log zerolog.Logger) *Client {
	return New(lakeformation.NewFromConfig(cfg, func(o *lakeformation.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), log)
}
