package invoice

import (
	"sort"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"staffinvoice/internal/domain/lineitem"
)

type planKey struct {
	tenant   string
	template string
	version  int
	catalog  string
}

// PlanCache keeps the most recently used resolved plans. Templates without an
// id or a positive version are compiled on every call.
type PlanCache struct {
	plans  *lru.Cache[planKey, *lineitem.Plan]
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewPlanCache(capacity int) *PlanCache {
	if capacity <= 0 {
		capacity = 1
	}
	// New only fails for a non-positive size.
	plans, _ := lru.New[planKey, *lineitem.Plan](capacity)
	return &PlanCache{plans: plans}
}

func (c *PlanCache) Resolve(tenantID string, spec lineitem.TemplateSpec, catalog *lineitem.Catalog) (*lineitem.Plan, bool, error) {
	cacheable := spec.ID != "" && spec.Version > 0
	key := planKey{tenant: tenantID, template: spec.ID, version: spec.Version, catalog: catalogFingerprint(catalog)}
	if cacheable {
		if plan, ok := c.plans.Get(key); ok {
			c.hits.Add(1)
			return plan, true, nil
		}
		c.misses.Add(1)
	}

	template, err := lineitem.Compile(spec)
	if err != nil {
		return nil, false, err
	}
	plan, err := lineitem.Resolve(template, catalog)
	if err != nil {
		return nil, false, err
	}
	if cacheable {
		c.plans.Add(key, plan)
	}
	return plan, false, nil
}

func (c *PlanCache) Len() int {
	return c.plans.Len()
}

// Stats reports lookups of cacheable templates only.
func (c *PlanCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// catalogFingerprint identifies a catalog by its component ids and
// categories; descriptions do not affect resolution.
func catalogFingerprint(catalog *lineitem.Catalog) string {
	components := catalog.Components()
	parts := make([]string, 0, len(components))
	for _, component := range components {
		parts = append(parts, component.ID+"="+string(component.Category))
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}
