package service

import (
	"context"
)

type EventAPI interface {
	GetEvent(ctx context.Context) (*Event, error)
}

type Event struct {
	EventHash string `json:"eventHash"`
}

type ShellService interface {
	GetHelpPanel(ctx context.Context) *HelpPanel
}

// HelpPanel is the additional resources panel of the console.
type HelpPanel struct {
	AccountID   string `json:"accountID"`
	EventHash   string `json:"eventHash"`
	WorkshopURL string `json:"workshopURL"`
}
