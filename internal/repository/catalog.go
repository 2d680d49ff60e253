package repository

import "context"

// Catalog bundles the master and service existence checks behind the
// booking.Catalog interface, so the ledger validates reserve
// preconditions without depending on repository types.
type Catalog struct {
    Masters  *MasterRepo
    Services *ServiceRepo
}

// NewCatalog constructs a Catalog.  Both repositories must be non-nil.
func NewCatalog(masters *MasterRepo, services *ServiceRepo) *Catalog {
    if masters == nil || services == nil {
        panic("nil repository passed to NewCatalog")
    }
    return &Catalog{Masters: masters, Services: services}
}

func (c *Catalog) MasterExists(ctx context.Context, id uint64) (bool, error) {
    return c.Masters.Exists(ctx, id)
}

func (c *Catalog) ServiceExists(ctx context.Context, id uint64) (bool, error) {
    return c.Services.Exists(ctx, id)
}
