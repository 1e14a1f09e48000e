package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/datamesh/mesh-console/pkg/database"
	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

var _ service.DataProductStorage = &dataProductStorage{}

type dataProductStorage struct {
	db *database.Repo
}

const dataProductColumns = `id, slug, domain_id, name, description, database_name, table_name, location, created_by, execution_arn, created`

func (s *dataProductStorage) CreateDataProduct(ctx context.Context, dp *service.DataProduct) error {
	const op errs.Op = "dataProductStorage.CreateDataProduct"

	err := s.db.GetDB().QueryRowContext(ctx, `INSERT INTO data_product (id, slug, domain_id, name, description, database_name, table_name, location, created_by, execution_arn)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created`,
		dp.ID,
		dp.Slug,
		dp.DomainID,
		dp.Name,
		dp.Description,
		dp.DatabaseName,
		dp.TableName,
		dp.Location,
		dp.CreatedBy,
		dp.ExecutionARN,
	).Scan(&dp.Created)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return errs.E(errs.Exist, op, errs.Parameter("slug"), err)
		}

		return errs.E(errs.Database, op, err)
	}

	return nil
}

func (s *dataProductStorage) GetDataProduct(ctx context.Context, slug string) (*service.DataProduct, error) {
	const op errs.Op = "dataProductStorage.GetDataProduct"

	row := &dataProductRow{}

	err := s.db.GetDB().QueryRowContext(ctx, `SELECT `+dataProductColumns+` FROM data_product WHERE slug = $1`, slug).
		Scan(row.fields()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.NotExist, op, errs.Parameter("dataProduct"), err)
		}

		return nil, errs.E(errs.Database, op, err)
	}

	dp, err := From(row)
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	return dp, nil
}

func (s *dataProductStorage) GetDataProductsForDomain(ctx context.Context, domainID string) ([]*service.DataProduct, error) {
	const op errs.Op = "dataProductStorage.GetDataProductsForDomain"

	rows, err := s.db.GetDB().QueryContext(ctx, `SELECT `+dataProductColumns+` FROM data_product WHERE domain_id = $1 ORDER BY created DESC`, domainID)
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}
	defer rows.Close()

	products := []*service.DataProduct{}

	for rows.Next() {
		row := &dataProductRow{}

		err := rows.Scan(row.fields()...)
		if err != nil {
			return nil, errs.E(errs.Database, op, err)
		}

		dp, err := From(row)
		if err != nil {
			return nil, errs.E(errs.Internal, op, err)
		}

		products = append(products, dp)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	return products, nil
}

func (s *dataProductStorage) SetExecutionARN(ctx context.Context, id, executionARN string) error {
	const op errs.Op = "dataProductStorage.SetExecutionARN"

	res, err := s.db.GetDB().ExecContext(ctx, `UPDATE data_product SET execution_arn = $2 WHERE id = $1`, id, executionARN)
	if err != nil {
		return errs.E(errs.Database, op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errs.E(errs.Database, op, err)
	}

	if n == 0 {
		return errs.E(errs.NotExist, op, errs.Parameter("id"), errs.Str("data product not found"))
	}

	return nil
}

type dataProductRow struct {
	ID           string
	Slug         string
	DomainID     string
	Name         string
	Description  string
	DatabaseName string
	TableName    string
	Location     string
	CreatedBy    string
	ExecutionARN string
	Created      time.Time
}

func (r *dataProductRow) fields() []any {
	return []any{
		&r.ID,
		&r.Slug,
		&r.DomainID,
		&r.Name,
		&r.Description,
		&r.DatabaseName,
		&r.TableName,
		&r.Location,
		&r.CreatedBy,
		&r.ExecutionARN,
		&r.Created,
	}
}

func (r *dataProductRow) To() (*service.DataProduct, error) {
	return &service.DataProduct{
		ID:           r.ID,
		Slug:         r.Slug,
		DomainID:     r.DomainID,
		Name:         r.Name,
		Description:  r.Description,
		DatabaseName: r.DatabaseName,
		TableName:    r.TableName,
		Location:     r.Location,
		CreatedBy:    r.CreatedBy,
		ExecutionARN: r.ExecutionARN,
		Created:      r.Created,
	}, nil
}

func NewDataProductStorage(db *database.Repo) *dataProductStorage {
	return &dataProductStorage{
		db: db,
	}
}
