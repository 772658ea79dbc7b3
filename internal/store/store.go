package store

import (
	"context"
	"errors"
)

// Stores bundles every store the application needs so backends can be swapped as a unit.
type Stores struct {
	Users         UserStore
	Organizations OrganizationStore
	Sites         SiteStore
	Recorders     RecorderStore
	Grants        GrantStore
	Sessions      SessionStore
}

// Validate checks that every store is set.
func (s Stores) Validate() error {
	if s.Users == nil || s.Organizations == nil || s.Sites == nil ||
		s.Recorders == nil || s.Grants == nil || s.Sessions == nil {
		return errors.New("all stores (users, organizations, sites, recorders, grants, sessions) are required")
	}
	return nil
}

// Pinger is implemented by stores backed by a remote database.
type Pinger interface {
	Ping(ctx context.Context) error
}
