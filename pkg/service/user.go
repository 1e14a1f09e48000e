package service

import (
	"context"
	"time"
)

type UserService interface {
	GetUserData(ctx context.Context, user *User) (*UserInfo, error)
}

type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	// DomainIDs are the account ids of the data domains the user owns.
	DomainIDs []string  `json:"domainIDs"`
	Expiry    time.Time `json:"expiry"`
	// IDToken is forwarded to the services that authorize on it.
	IDToken string `json:"-"`
	// SessionToken identifies the browser session the request came from.
	SessionToken string `json:"-"`
}

// OwnsDomain reports whether accountID is one of the user's data domains.
func (u *User) OwnsDomain(accountID string) bool {
	if u == nil || accountID == "" {
		return false
	}

	for _, id := range u.DomainIDs {
		if id == accountID {
			return true
		}
	}

	return false
}

type UserInfo struct {
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	DomainIDs       []string       `json:"domainIDs"`
	LoginExpiration time.Time      `json:"loginExpiration"`
	DataProducts    []*DataProduct `json:"dataProducts"`
}
