package service

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type DataProductStorage interface {
	CreateDataProduct(ctx context.Context, dp *DataProduct) error
	GetDataProduct(ctx context.Context, slug string) (*DataProduct, error)
	GetDataProductsForDomain(ctx context.Context, domainID string) ([]*DataProduct, error)
	SetExecutionARN(ctx context.Context, id, executionARN string) error
}

type DataProductService interface {
	GetRegistrationForm(ctx context.Context, user *User, domainID string) (*RegistrationForm, error)
	RegisterDataProduct(ctx context.Context, user *User, domainID string, input NewDataProduct) (*DataProduct, error)
	GetDataProductDetails(ctx context.Context, user *User, slug string) (*DataProductDetails, error)
}

type DataProduct struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	DomainID     string    `json:"domainID"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	DatabaseName string    `json:"databaseName"`
	TableName    string    `json:"tableName"`
	Location     string    `json:"location"`
	CreatedBy    string    `json:"createdBy"`
	ExecutionARN string    `json:"executionARN"`
	Created      time.Time `json:"created"`
}

type NewDataProduct struct {
	Name         string `json:"name" form:"name"`
	Description  string `json:"description" form:"description"`
	DatabaseName string `json:"databaseName" form:"database_name"`
	TableName    string `json:"tableName" form:"table_name"`
	Location     string `json:"location" form:"location"`
}

func (p NewDataProduct) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&p.Description, validation.Length(0, 2048)),
		validation.Field(&p.DatabaseName, validation.Required),
		validation.Field(&p.TableName, validation.Required),
		validation.Field(&p.Location, validation.Required),
	)
}

type RegistrationForm struct {
	DomainID string         `json:"domainID"`
	Products []*DataProduct `json:"products"`
}

// RegistrationInput is the document handed to the registration workflow.
type RegistrationInput struct {
	ProductID   string `json:"product_id"`
	DomainID    string `json:"domain_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Database    string `json:"database"`
	Table       string `json:"table"`
	Location    string `json:"location"`
	CreatedBy   string `json:"created_by"`
}

type DataProductDetails struct {
	Product   *DataProduct       `json:"product"`
	Execution *WorkflowExecution `json:"execution,omitempty"`
}
