// Package glue wraps the parts of the Glue Data Catalog API the console
// reads from and writes to.
package glue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/rs/zerolog"
)

var _ Operations = &Client{}

type Operations interface {
	GetDatabases(ctx context.Context) ([]*Database, error)
	GetDatabase(ctx context.Context, name string) (*Database, error)
	GetTables(ctx context.Context, databaseName string) ([]*Table, error)
	GetTable(ctx context.Context, databaseName, tableName string) (*Table, error)
	UpdateDatabaseParameters(ctx context.Context, name string, params map[string]string) error
	UpdateTableParameters(ctx context.Context, databaseName, tableName string, params map[string]string) error
}

// API is the subset of the Glue client in use.
type API interface {
	GetDatabases(ctx context.Context, params *glue.GetDatabasesInput, optFns ...func(*glue.Options)) (*glue.GetDatabasesOutput, error)
	GetDatabase(ctx context.Context, params *glue.GetDatabaseInput, optFns ...func(*glue.Options)) (*glue.GetDatabaseOutput, error)
	GetTables(ctx context.Context, params *glue.GetTablesInput, optFns ...func(*glue.Options)) (*glue.GetTablesOutput, error)
	GetTable(ctx context.Context, params *glue.GetTableInput, optFns ...func(*glue.Options)) (*glue.GetTableOutput, error)
	UpdateDatabase(ctx context.Context, params *glue.UpdateDatabaseInput, optFns ...func(*glue.Options)) (*glue.UpdateDatabaseOutput, error)
	UpdateTable(ctx context.Context, params *glue.UpdateTableInput, optFns ...func(*glue.Options)) (*glue.UpdateTableOutput, error)
}

var ErrNotExist = errors.New("not exists")

type Client struct {
	api API
	log zerolog.Logger
}

type Database struct {
	Name        string
	Description string
	LocationURI string
	Parameters  map[string]string
	CreateTime  time.Time
}

type Table struct {
	DatabaseName string
	Name         string
	Description  string
	Location     string
	TableType    string
	Columns      []*Column
	Parameters   map[string]string
	CreateTime   time.Time
}

type Column struct {
	Name    string
	Type    string
	Comment string
}

func (c *Client) GetDatabases(ctx context.Context) ([]*Database, error) {
	var databases []*Database

	p := glue.NewGetDatabasesPaginator(c.api, &glue.GetDatabasesInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing databases: %w", err)
		}

		for i := range page.DatabaseList {
			databases = append(databases, toDatabase(&page.DatabaseList[i]))
		}
	}

	return databases, nil
}

func (c *Client) GetDatabase(ctx context.Context, name string) (*Database, error) {
	raw, err := c.getDatabase(ctx, name)
	if err != nil {
		return nil, err
	}

	return toDatabase(raw), nil
}

func (c *Client) getDatabase(ctx context.Context, name string) (*types.Database, error) {
	out, err := c.api.GetDatabase(ctx, &glue.GetDatabaseInput{
		Name: aws.String(name),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotExist
		}

		return nil, fmt.Errorf("getting database %s: %w", name, err)
	}

	if out.Database == nil {
		return nil, ErrNotExist
	}

	return out.Database, nil
}

func (c *Client) GetTables(ctx context.Context, databaseName string) ([]*Table, error) {
	var tables []*Table

	p := glue.NewGetTablesPaginator(c.api, &glue.GetTablesInput{
		DatabaseName: aws.String(databaseName),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrNotExist
			}

			return nil, fmt.Errorf("listing tables in %s: %w", databaseName, err)
		}

		for i := range page.TableList {
			tables = append(tables, toTable(&page.TableList[i]))
		}
	}

	return tables, nil
}

func (c *Client) GetTable(ctx context.Context, databaseName, tableName string) (*Table, error) {
	raw, err := c.getTable(ctx, databaseName, tableName)
	if err != nil {
		return nil, err
	}

	return toTable(raw), nil
}

func (c *Client) getTable(ctx context.Context, databaseName, tableName string) (*types.Table, error) {
	out, err := c.api.GetTable(ctx, &glue.GetTableInput{
		DatabaseName: aws.String(databaseName),
		Name:         aws.String(tableName),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotExist
		}

		return nil, fmt.Errorf("getting table %s.%s: %w", databaseName, tableName, err)
	}

	if out.Table == nil {
		return nil, ErrNotExist
	}

	return out.Table, nil
}

// UpdateDatabaseParameters reads the database and writes it back with params
// merged into its parameter map.
func (c *Client) UpdateDatabaseParameters(ctx context.Context, name string, params map[string]string) error {
	db, err := c.getDatabase(ctx, name)
	if err != nil {
		return err
	}

	merged := mergeParameters(db.Parameters, params)

	_, err = c.api.UpdateDatabase(ctx, &glue.UpdateDatabaseInput{
		Name: aws.String(name),
		DatabaseInput: &types.DatabaseInput{
			Name:                          db.Name,
			Description:                   db.Description,
			LocationUri:                   db.LocationUri,
			Parameters:                    merged,
			CreateTableDefaultPermissions: db.CreateTableDefaultPermissions,
			TargetDatabase:                db.TargetDatabase,
		},
	})
	if err != nil {
		return fmt.Errorf("updating database %s: %w", name, err)
	}

	c.log.Info().Str("database", name).Fields(toFields(params)).Msg("updated database parameters")

	return nil
}

// UpdateTableParameters reads the table and writes it back with params merged
// into its parameter map, keeping the storage descriptor and partitioning.
func (c *Client) UpdateTableParameters(ctx context.Context, databaseName, tableName string, params map[string]string) error {
	t, err := c.getTable(ctx, databaseName, tableName)
	if err != nil {
		return err
	}

	merged := mergeParameters(t.Parameters, params)

	_, err = c.api.UpdateTable(ctx, &glue.UpdateTableInput{
		DatabaseName: aws.String(databaseName),
		TableInput: &types.TableInput{
			Name:              t.Name,
			Description:       t.Description,
			Owner:             t.Owner,
			Parameters:        merged,
			PartitionKeys:     t.PartitionKeys,
			Retention:         t.Retention,
			StorageDescriptor: t.StorageDescriptor,
			TableType:         t.TableType,
			TargetTable:       t.TargetTable,
			ViewExpandedText:  t.ViewExpandedText,
			ViewOriginalText:  t.ViewOriginalText,
		},
	})
	if err != nil {
		return fmt.Errorf("updating table %s.%s: %w", databaseName, tableName, err)
	}

	c.log.Info().Str("database", databaseName).Str("table", tableName).Fields(toFields(params)).Msg("updated table parameters")

	return nil
}

func mergeParameters(current, updates map[string]string) map[string]string {
	merged := make(map[string]string, len(current)+len(updates))

	for k, v := range current {
		merged[k] = v
	}

	for k, v := range updates {
		merged[k] = v
	}

	return merged
}

func toFields(params map[string]string) map[string]interface{} {
	fields := make(map[string]interface{}, len(params))
	for k, v := range params {
		fields[k] = v
	}

	return fields
}

func isNotFound(err error) bool {
	var nf *types.EntityNotFoundException

	return errors.As(err, &nf)
}

func toDatabase(db *types.Database) *Database {
	return &Database{
		Name:        aws.ToString(db.Name),
		Description: aws.ToString(db.Description),
		LocationURI: aws.ToString(db.LocationUri),
		Parameters:  db.Parameters,
		CreateTime:  aws.ToTime(db.CreateTime),
	}
}

func toTable(t *types.Table) *Table {
	table := &Table{
		DatabaseName: aws.ToString(t.DatabaseName),
		Name:         aws.ToString(t.Name),
		Description:  aws.ToString(t.Description),
		TableType:    aws.ToString(t.TableType),
		Parameters:   t.Parameters,
		CreateTime:   aws.ToTime(t.CreateTime),
	}

	if t.StorageDescriptor != nil {
		table.Location = aws.ToString(t.StorageDescriptor.Location)

		for _, c := range t.StorageDescriptor.Columns {
			table.Columns = append(table.Columns, toColumn(c))
		}
	}

	for _, c := range t.PartitionKeys {
		table.Columns = append(table.Columns, toColumn(c))
	}

	return table
}

func toColumn(c types.Column) *Column {
	return &Column{
		Name:    aws.ToString(c.Name),
		Type:    aws.ToString(c.Type),
		Comment: aws.ToString(c.Comment),
	}
}

func New(api API, log zerolog.Logger) *Client {
	return &Client{
		api: api,
		log: log,
	}
}

// NewFromConfig creates a client backed by the Glue service, endpoint
// overrides the service endpoint when set.
func NewFromConfig(cfg aws.Config, endpoint string, log zerolog.Logger) *Client {
	return New(glue.NewFromConfig(cfg, func(o *glue.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), log)
}
