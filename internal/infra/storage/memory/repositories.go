package memory

import (
	"context"
	"sync"

	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
)

// CatalogRepository is an in-memory catalog for dev mode and tests.
// Reads return copies so pricing always works on a stable snapshot.
type CatalogRepository struct {
	mu       sync.RWMutex
	items    map[domaincatalog.ItemID]*domaincatalog.SellableItem
	packages map[domaincatalog.PackageID]*domaincatalog.TourPackage
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		items:    make(map[domaincatalog.ItemID]*domaincatalog.SellableItem),
		packages: make(map[domaincatalog.PackageID]*domaincatalog.TourPackage),
	}
}

func (r *CatalogRepository) ItemByID(ctx context.Context, id domaincatalog.ItemID) (*domaincatalog.SellableItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok || !item.Active {
		return nil, domaincatalog.ErrItemNotFound
	}
	return copyItem(item), nil
}

func (r *CatalogRepository) ListItems(ctx context.Context, kind domaincatalog.ItemKind) ([]*domaincatalog.SellableItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaincatalog.SellableItem, 0, len(r.items))
	for _, item := range r.items {
		if !item.Active {
			continue
		}
		if kind != "" && item.Kind != kind {
			continue
		}
		out = append(out, copyItem(item))
	}
	return out, nil
}

func (r *CatalogRepository) SaveItem(ctx context.Context, item *domaincatalog.SellableItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = copyItem(item)
	return nil
}

func (r *CatalogRepository) PackageByID(ctx context.Context, id domaincatalog.PackageID) (*domaincatalog.TourPackage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pkg, ok := r.packages[id]
	if !ok || !pkg.Active {
		return nil, domaincatalog.ErrPackageNotFound
	}
	return copyPackage(pkg), nil
}

func (r *CatalogRepository) SavePackage(ctx context.Context, pkg *domaincatalog.TourPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[pkg.ID] = copyPackage(pkg)
	return nil
}

func copyItem(item *domaincatalog.SellableItem) *domaincatalog.SellableItem {
	clone := *item
	clone.Rates = append([]domaincatalog.SeasonalRate(nil), item.Rates...)
	return &clone
}

func copyPackage(pkg *domaincatalog.TourPackage) *domaincatalog.TourPackage {
	clone := *pkg
	clone.Nights = append([]int(nil), pkg.Nights...)
	clone.Rates = append([]domaincatalog.SeasonalRate(nil), pkg.Rates...)
	return &clone
}

// AgentRepository keeps agent profiles in memory.
type AgentRepository struct {
	mu     sync.RWMutex
	agents map[domainagent.AgentID]*domainagent.Agent
}

func NewAgentRepository() *AgentRepository {
	return &AgentRepository{agents: make(map[domainagent.AgentID]*domainagent.Agent)}
}

func (r *AgentRepository) ByID(ctx context.Context, id domainagent.AgentID) (*domainagent.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ag, ok := r.agents[id]
	if !ok {
		return nil, domainagent.ErrAgentNotFound
	}
	clone := *ag
	return &clone, nil
}

func (r *AgentRepository) Save(ctx context.Context, ag *domainagent.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *ag
	r.agents[ag.ID] = &clone
	return nil
}
