package core

import (
	"context"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/invalidation"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/rs/zerolog"
)

var _ service.CatalogService = &catalogService{}

type catalogService struct {
	catalogAPI service.CatalogAPI
	tagAPI     service.TagAPI
	tracker    *invalidation.Tracker
	metrics    *Metrics
	log        zerolog.Logger
}

// GetDataDomains lists every database in the catalog. A catalog that cannot
// be listed leaves the page empty.
func (s *catalogService) GetDataDomains(ctx context.Context, user *service.User) (*service.DataDomains, error) {
	const op errs.Op = "catalogService.GetDataDomains"

	databases, err := s.catalogAPI.GetDatabases(ctx)
	if err != nil {
		s.sectionFailed(op, err)

		return &service.DataDomains{Databases: []*service.DatabaseSummary{}}, nil
	}

	domains := &service.DataDomains{
		Databases: make([]*service.DatabaseSummary, len(databases)),
	}

	for i, db := range databases {
		domains.Databases[i] = &service.DatabaseSummary{
			Name:          db.Name,
			Description:   db.Description,
			LocationURI:   db.LocationURI,
			AccessMode:    service.DisplayParameter(db.Parameters, service.ParamAccessMode),
			DataOwner:     service.DisplayParameter(db.Parameters, service.ParamDataOwner),
			DataOwnerName: service.DisplayParameter(db.Parameters, service.ParamDataOwnerName),
			Owner:         user.OwnsDomain(db.Parameters[service.ParamDataOwner]),
			Link:          service.TablesPath(db.Name),
		}
	}

	return domains, nil
}

// GetDatabaseTables loads the two sections of the table listing separately,
// a section that fails to load is logged and left empty. Only a database
// that does not exist is an error.
func (s *catalogService) GetDatabaseTables(ctx context.Context, user *service.User, databaseName string) (*service.DatabaseTables, error) {
	const op errs.Op = "catalogService.GetDatabaseTables"

	result := &service.DatabaseTables{
		Tables: []*service.TableSummary{},
	}

	details, err := s.GetDatabaseDetails(ctx, user, databaseName)
	if err != nil {
		if errs.KindIs(errs.NotExist, err) {
			return nil, errs.E(op, err)
		}

		s.sectionFailed(op, err)
	}

	result.Database = details

	if details != nil && details.Owner {
		result.RegisterProductLink = service.ProductRegistrationPath(details.DomainID)
	}

	tables, err := s.catalogAPI.GetTables(ctx, databaseName)
	if err != nil {
		s.sectionFailed(op, err)

		return result, nil
	}

	for _, t := range tables {
		result.Tables = append(result.Tables, &service.TableSummary{
			Name:              t.Name,
			Description:       t.Description,
			Location:          t.Location,
			AccessMode:        service.DisplayParameter(t.Parameters, service.ParamAccessMode),
			RequestAccessLink: service.RequestAccessPath(databaseName, t.Name),
		})
	}

	return result, nil
}

func (s *catalogService) GetDatabaseDetails(ctx context.Context, user *service.User, databaseName string) (*service.DatabaseDetails, error) {
	const op errs.Op = "catalogService.GetDatabaseDetails"

	db, err := s.catalogAPI.GetDatabase(ctx, databaseName)
	if err != nil {
		return nil, errs.E(op, err)
	}

	resource := service.DatabaseResource(databaseName)
	tags := s.resourceTags(ctx, op, resource)

	params := db.Parameters
	owner := user.OwnsDomain(params[service.ParamDataOwner])

	return &service.DatabaseDetails{
		Name:                db.Name,
		Description:         db.Description,
		LocationURI:         db.LocationURI,
		AccessMode:          service.DisplayParameter(params, service.ParamAccessMode),
		EffectiveAccessMode: service.EffectiveAccessMode(params),
		DataOwner:           service.DisplayParameter(params, service.ParamDataOwner),
		DataOwnerName:       service.DisplayParameter(params, service.ParamDataOwnerName),
		DomainID:            params[service.ParamDataOwner],
		Owner:               owner,
		Tags:                tags.Resource,
		Approval:            service.DispatchAccessApproval(params, tags.Resource, owner),
		Version:             s.tracker.Version(resource.Key()),
	}, nil
}

// GetTableDetails loads the request access page of a table. Only a table that
// does not exist is an error, any other catalog failure leaves the page empty.
func (s *catalogService) GetTableDetails(ctx context.Context, user *service.User, databaseName, tableName string) (*service.TableDetails, error) {
	const op errs.Op = "catalogService.GetTableDetails"

	resource := service.TableResource(databaseName, tableName)

	table, err := s.catalogAPI.GetTable(ctx, databaseName, tableName)
	if err != nil {
		if errs.KindIs(errs.NotExist, err) {
			return nil, errs.E(op, err)
		}

		s.sectionFailed(op, err)

		return &service.TableDetails{
			DatabaseName:  databaseName,
			Name:          tableName,
			Columns:       []service.ColumnDetails{},
			AccessMode:    service.NotAvailable,
			DataOwner:     service.NotAvailable,
			DataOwnerName: service.NotAvailable,
			Version:       s.tracker.Version(resource.Key()),
		}, nil
	}

	db, err := s.GetDatabaseDetails(ctx, user, databaseName)
	if err != nil {
		s.sectionFailed(op, err)
	}

	tags := s.resourceTags(ctx, op, resource)

	params := table.Parameters

	dataOwner, ok := params[service.ParamDataOwner]
	if !ok && db != nil {
		dataOwner = db.DomainID
	}

	dataOwnerName := service.DisplayParameter(params, service.ParamDataOwnerName)
	if _, ok := params[service.ParamDataOwnerName]; !ok && db != nil {
		dataOwnerName = db.DataOwnerName
	}

	owner := user.OwnsDomain(dataOwner)

	// The name based toggle is bound to the resolved owner, which may be
	// inherited from the database.
	approvalParams := make(map[string]string, len(params)+1)
	for k, v := range params {
		approvalParams[k] = v
	}
	if dataOwner != "" {
		approvalParams[service.ParamDataOwner] = dataOwner
	}

	columns := make([]service.ColumnDetails, len(table.Columns))
	for i, c := range table.Columns {
		columns[i] = service.ColumnDetails{
			Name:    c.Name,
			Type:    c.Type,
			Comment: c.Comment,
			Tags:    tags.ColumnTags(c.Name),
		}
	}

	return &service.TableDetails{
		Database:         db,
		DatabaseName:     databaseName,
		Name:             table.Name,
		Description:      table.Description,
		Location:         table.Location,
		Columns:          columns,
		AccessMode:       tableAccessMode(params, db),
		DataOwner:        displayValue(dataOwner),
		DataOwnerName:    dataOwnerName,
		Owner:            owner,
		Tags:             tags.Resource,
		Approval:         service.DispatchAccessApproval(approvalParams, tags.Resource, owner),
		CanRequestAccess: !owner,
		Version:          s.tracker.Version(resource.Key()),
	}, nil
}

// resourceTags returns the tags of the resource, or none when they cannot be
// fetched.
func (s *catalogService) resourceTags(ctx context.Context, op errs.Op, resource service.Resource) *service.ResourceTags {
	tags, err := s.tagAPI.GetResourceTags(ctx, resource)
	if err != nil {
		s.sectionFailed(op, err)

		return &service.ResourceTags{}
	}

	return tags
}

func (s *catalogService) sectionFailed(op errs.Op, err error) {
	s.log.Warn().Err(err).Str("op", string(op)).Msg("loading page section")
	s.metrics.Errors.WithLabelValues(string(op)).Inc()
}

// tableAccessMode is the access mode of the table, inherited from the
// database when the table has none.
func tableAccessMode(params map[string]string, db *service.DatabaseDetails) string {
	if mode, ok := params[service.ParamAccessMode]; ok {
		return mode
	}

	if db != nil {
		return db.EffectiveAccessMode
	}

	return service.NotAvailable
}

func displayValue(v string) string {
	if v == "" {
		return service.NotAvailable
	}

	return v
}

func NewCatalogService(
	catalogAPI service.CatalogAPI,
	tagAPI service.TagAPI,
	tracker *invalidation.Tracker,
	metrics *Metrics,
	log zerolog.Logger,
) *catalogService {
	return &catalogService{
		catalogAPI: catalogAPI,
		tagAPI:     tagAPI,
		tracker:    tracker,
		metrics:    metrics,
		log:        log,
	}
}
