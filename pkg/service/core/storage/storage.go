package storage

import (
	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/database"
	"github.com/datamesh/mesh-console/pkg/janitor"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core/storage/postgres"
)

type Stores struct {
	SessionStorage     auth.SessionStore
	SessionCleaner     janitor.SessionCleaner
	DataProductStorage service.DataProductStorage
}

func NewStores(db *database.Repo) *Stores {
	sessions := postgres.NewSessionStorage(db)

	return &Stores{
		SessionStorage:     sessions,
		SessionCleaner:     sessions,
		DataProductStorage: postgres.NewDataProductStorage(db),
	}
}
