package aws

import (
	"context"
	"errors"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/glue"
	"github.com/datamesh/mesh-console/pkg/service"
)

var _ service.CatalogAPI = &catalogAPI{}

type catalogAPI struct {
	ops glue.Operations
}

func (a *catalogAPI) GetDatabases(ctx context.Context) ([]*service.Database, error) {
	const op errs.Op = "catalogAPI.GetDatabases"

	raw, err := a.ops.GetDatabases(ctx)
	if err != nil {
		return nil, errs.E(errs.IO, op, err)
	}

	databases := make([]*service.Database, len(raw))
	for i, db := range raw {
		databases[i] = toDatabase(db)
	}

	return databases, nil
}

func (a *catalogAPI) GetDatabase(ctx context.Context, name string) (*service.Database, error) {
	const op errs.Op = "catalogAPI.GetDatabase"

	db, err := a.ops.GetDatabase(ctx, name)
	if err != nil {
		return nil, catalogError(op, "dbname", err)
	}

	return toDatabase(db), nil
}

func (a *catalogAPI) GetTables(ctx context.Context, databaseName string) ([]*service.Table, error) {
	const op errs.Op = "catalogAPI.GetTables"

	raw, err := a.ops.GetTables(ctx, databaseName)
	if err != nil {
		return nil, catalogError(op, "dbname", err)
	}

	tables := make([]*service.Table, len(raw))
	for i, t := range raw {
		tables[i] = toTable(t)
	}

	return tables, nil
}

func (a *catalogAPI) GetTable(ctx context.Context, databaseName, tableName string) (*service.Table, error) {
	const op errs.Op = "catalogAPI.GetTable"

	t, err := a.ops.GetTable(ctx, databaseName, tableName)
	if err != nil {
		return nil, catalogError(op, "tablename", err)
	}

	return toTable(t), nil
}

func (a *catalogAPI) UpdateDatabaseParameters(ctx context.Context, name string, params map[string]string) error {
	const op errs.Op = "catalogAPI.UpdateDatabaseParameters"

	err := a.ops.UpdateDatabaseParameters(ctx, name, params)
	if err != nil {
		return catalogError(op, "dbname", err)
	}

	return nil
}

func (a *catalogAPI) UpdateTableParameters(ctx context.Context, databaseName, tableName string, params map[string]string) error {
	const op errs.Op = "catalogAPI.UpdateTableParameters"

	err := a.ops.UpdateTableParameters(ctx, databaseName, tableName, params)
	if err != nil {
		return catalogError(op, "tablename", err)
	}

	return nil
}

func catalogError(op errs.Op, param string, err error) error {
	if errors.Is(err, glue.ErrNotExist) {
		return errs.E(errs.NotExist, op, errs.Parameter(param), err)
	}

	return errs.E(errs.IO, op, err)
}

func toDatabase(db *glue.Database) *service.Database {
	return &service.Database{
		Name:        db.Name,
		Description: db.Description,
		LocationURI: db.LocationURI,
		Parameters:  db.Parameters,
		CreateTime:  db.CreateTime,
	}
}

func toTable(t *glue.Table) *service.Table {
	columns := make([]service.Column, len(t.Columns))
	for i, c := range t.Columns {
		columns[i] = service.Column{
			Name:    c.Name,
			Type:    c.Type,
			Comment: c.Comment,
		}
	}

	return &service.Table{
		DatabaseName: t.DatabaseName,
		Name:         t.Name,
		Description:  t.Description,
		Location:     t.Location,
		Columns:      columns,
		Parameters:   t.Parameters,
		CreateTime:   t.CreateTime,
	}
}

func NewCatalogAPI(ops glue.Operations) *catalogAPI {
	return &catalogAPI{
		ops: ops,
	}
}
