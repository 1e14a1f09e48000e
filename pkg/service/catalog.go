package service

import (
	"context"
	"time"
)

// Parameter keys carrying access control metadata on databases and tables.
const (
	ParamAccessMode    = "access_mode"
	ParamDataOwner     = "data_owner"
	ParamDataOwnerName = "data_owner_name"
	ParamPIIFlag       = "pii_flag"
)

// NotAvailable is displayed in place of absent metadata.
const NotAvailable = "n/a"

type CatalogAPI interface {
	GetDatabases(ctx context.Context) ([]*Database, error)
	GetDatabase(ctx context.Context, name string) (*Database, error)
	GetTables(ctx context.Context, databaseName string) ([]*Table, error)
	GetTable(ctx context.Context, databaseName, tableName string) (*Table, error)
	// UpdateDatabaseParameters merges params into the existing parameter map
	// of the database, leaving other keys untouched.
	UpdateDatabaseParameters(ctx context.Context, name string, params map[string]string) error
	UpdateTableParameters(ctx context.Context, databaseName, tableName string, params map[string]string) error
}

type CatalogService interface {
	GetDataDomains(ctx context.Context, user *User) (*DataDomains, error)
	GetDatabaseTables(ctx context.Context, user *User, databaseName string) (*DatabaseTables, error)
	GetDatabaseDetails(ctx context.Context, user *User, databaseName string) (*DatabaseDetails, error)
	GetTableDetails(ctx context.Context, user *User, databaseName, tableName string) (*TableDetails, error)
}

type Database struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	LocationURI string            `json:"locationURI"`
	Parameters  map[string]string `json:"parameters"`
	CreateTime  time.Time         `json:"createTime"`
}

type Table struct {
	DatabaseName string            `json:"databaseName"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Location     string            `json:"location"`
	Columns      []Column          `json:"columns"`
	Parameters   map[string]string `json:"parameters"`
	CreateTime   time.Time         `json:"createTime"`
}

type Column struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Comment string `json:"comment"`
}

// DataDomains is the view model of the landing page, one entry per
// registered database.
type DataDomains struct {
	Databases []*DatabaseSummary `json:"databases"`
}

type DatabaseSummary struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	LocationURI   string `json:"locationURI"`
	AccessMode    string `json:"accessMode"`
	DataOwner     string `json:"dataOwner"`
	DataOwnerName string `json:"dataOwnerName"`
	Owner         bool   `json:"owner"`
	Link          string `json:"link"`
}

// DatabaseTables is the view model of the table listing page.
type DatabaseTables struct {
	Database *DatabaseDetails `json:"database"`
	Tables   []*TableSummary  `json:"tables"`
	// RegisterProductLink is only set when the user owns the data domain.
	RegisterProductLink string `json:"registerProductLink,omitempty"`
}

type TableSummary struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	Location          string `json:"location"`
	AccessMode        string `json:"accessMode"`
	RequestAccessLink string `json:"requestAccessLink"`
}

// DatabaseDetails holds the database detail panel. The display fields fall
// back to NotAvailable, while EffectiveAccessMode and DomainID carry the raw
// values handed on to the rest of the page.
type DatabaseDetails struct {
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	LocationURI         string         `json:"locationURI"`
	AccessMode          string         `json:"accessMode"`
	EffectiveAccessMode string         `json:"effectiveAccessMode"`
	DataOwner           string         `json:"dataOwner"`
	DataOwnerName       string         `json:"dataOwnerName"`
	DomainID            string         `json:"domainID"`
	Owner               bool           `json:"owner"`
	Tags                []LFTag        `json:"tags"`
	Approval            AccessApproval `json:"approval"`
	Version             uint64         `json:"version"`
}

// TableDetails is the view model of the request access page.
type TableDetails struct {
	Database      *DatabaseDetails `json:"database"`
	DatabaseName  string           `json:"databaseName"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Location      string           `json:"location"`
	Columns       []ColumnDetails  `json:"columns"`
	AccessMode    string           `json:"accessMode"`
	DataOwner     string           `json:"dataOwner"`
	DataOwnerName string           `json:"dataOwnerName"`
	Owner         bool             `json:"owner"`
	Tags          []LFTag          `json:"tags"`
	Approval      AccessApproval   `json:"approval"`
	// CanRequestAccess is false for the owning domain, there is nothing to
	// request from yourself.
	CanRequestAccess bool   `json:"canRequestAccess"`
	Version          uint64 `json:"version"`
}

type ColumnDetails struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Comment string  `json:"comment"`
	Tags    []LFTag `json:"tags"`
}

// DisplayParameter returns the parameter value, or NotAvailable when the
// key is absent.
func DisplayParameter(params map[string]string, key string) string {
	if v, ok := params[key]; ok {
		return v
	}

	return NotAvailable
}
