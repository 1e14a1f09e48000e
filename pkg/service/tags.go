package service

import (
	"context"
	"fmt"
)

type ResourceType string

const (
	ResourceTypeDatabase ResourceType = "database"
	ResourceTypeTable    ResourceType = "table"
)

// Resource identifies a catalog object, a database when TableName is empty.
type Resource struct {
	Type         ResourceType `json:"type"`
	DatabaseName string       `json:"databaseName"`
	TableName    string       `json:"tableName,omitempty"`
}

func DatabaseResource(databaseName string) Resource {
	return Resource{
		Type:         ResourceTypeDatabase,
		DatabaseName: databaseName,
	}
}

func TableResource(databaseName, tableName string) Resource {
	return Resource{
		Type:         ResourceTypeTable,
		DatabaseName: databaseName,
		TableName:    tableName,
	}
}

// Key is the invalidation key of the resource.
func (r Resource) Key() string {
	if r.Type == ResourceTypeTable {
		return fmt.Sprintf("table/%s/%s", r.DatabaseName, r.TableName)
	}

	return fmt.Sprintf("database/%s", r.DatabaseName)
}

type TagAPI interface {
	GetResourceTags(ctx context.Context, resource Resource) (*ResourceTags, error)
	// SetResourceTag assigns the tag to the resource, replacing the values
	// of any tag with the same key.
	SetResourceTag(ctx context.Context, resource Resource, tag LFTag) error
}

type LFTag struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

type ResourceTags struct {
	Resource []LFTag     `json:"resource"`
	Columns  []ColumnTag `json:"columns"`
}

type ColumnTag struct {
	Name string  `json:"name"`
	Tags []LFTag `json:"tags"`
}

// Value returns the values of the tag with the given key.
func (t *ResourceTags) Value(key string) ([]string, bool) {
	if t == nil {
		return nil, false
	}

	for _, tag := range t.Resource {
		if tag.Key == key {
			return tag.Values, true
		}
	}

	return nil, false
}

// ColumnTags returns the tags attached to a single column.
func (t *ResourceTags) ColumnTags(column string) []LFTag {
	if t == nil {
		return nil
	}

	for _, c := range t.Columns {
		if c.Name == column {
			return c.Tags
		}
	}

	return nil
}

// ResourceVersion is the refetch version of a resource, it changes once per
// completed PII toggle.
type ResourceVersion struct {
	Resource Resource `json:"resource"`
	Version  uint64   `json:"version"`
}
