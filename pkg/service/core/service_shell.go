package core

import (
	"context"

	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/rs/zerolog"
)

var _ service.ShellService = &shellService{}

type shellService struct {
	accountID   string
	workshopURL string
	eventAPI    service.EventAPI
	log         zerolog.Logger
}

// GetHelpPanel never fails, values that cannot be fetched are shown as not
// available.
func (s *shellService) GetHelpPanel(ctx context.Context) *service.HelpPanel {
	panel := &service.HelpPanel{
		AccountID:   displayValue(s.accountID),
		EventHash:   service.NotAvailable,
		WorkshopURL: s.workshopURL,
	}

	event, err := s.eventAPI.GetEvent(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("fetching event details")

		return panel
	}

	if event != nil && event.EventHash != "" {
		panel.EventHash = event.EventHash
	}

	return panel
}

func NewShellService(accountID, workshopURL string, eventAPI service.EventAPI, log zerolog.Logger) *shellService {
	return &shellService{
		accountID:   accountID,
		workshopURL: workshopURL,
		eventAPI:    eventAPI,
		log:         log,
	}
}
