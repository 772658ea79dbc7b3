package memory

import "github.com/wolfeidau/ndrweb/internal/store"

// NewStores returns a complete set of empty in-memory stores.
func NewStores() store.Stores {
	return store.Stores{
		Users:         NewUserStore(),
		Organizations: NewOrganizationStore(),
		Sites:         NewSiteStore(),
		Recorders:     NewRecorderStore(),
		Grants:        NewGrantStore(),
		Sessions:      NewSessionStore(),
	}
}
