package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// NewStores builds every store on a shared connection pool.
func NewStores(pool *pgxpool.Pool) store.Stores {
	return store.Stores{
		Users:         NewUserStore(pool),
		Organizations: NewOrganizationStore(pool),
		Sites:         NewSiteStore(pool),
		Recorders:     NewRecorderStore(pool),
		Grants:        NewGrantStore(pool),
		Sessions:      NewSessionStore(pool),
	}
}
