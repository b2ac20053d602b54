package lineitem

import "github.com/shopspring/decimal"

type Component struct {
	ID          string   `json:"id" yaml:"id"`
	Category    Category `json:"category" yaml:"category"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Catalog is an immutable index of components keyed by id. A nil Catalog
// behaves as an empty one.
type Catalog struct {
	components map[string]Component
	order      []string
}

func NewCatalog(components []Component) (*Catalog, error) {
	catalog := &Catalog{components: make(map[string]Component, len(components))}
	for _, component := range components {
		if component.ID == "" {
			return nil, &InvalidLineItemError{Reason: "catalog component without id"}
		}
		if !component.Category.Valid() {
			return nil, &InvalidLineItemError{LineItemID: component.ID, Reason: "unknown component category " + string(component.Category)}
		}
		if _, exists := catalog.components[component.ID]; exists {
			return nil, &DuplicateIDError{ID: component.ID, Existing: "component"}
		}
		catalog.components[component.ID] = component
		catalog.order = append(catalog.order, component.ID)
	}
	return catalog, nil
}

func (c *Catalog) Lookup(id string) (Component, bool) {
	if c == nil {
		return Component{}, false
	}
	component, ok := c.components[id]
	return component, ok
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Components returns the catalog in load order.
func (c *Catalog) Components() []Component {
	if c == nil {
		return nil
	}
	out := make([]Component, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.components[id])
	}
	return out
}

type LineItem struct {
	ID       string
	Name     string
	Category Category
	// Order is display position only; evaluation order comes from the Plan.
	Order   int
	Formula Formula
}

type Template struct {
	ID      string
	Name    string
	Version int
	Items   []LineItem
}

// Context carries the component values for one subject: one employee or the
// aggregate.
type Context struct {
	Subject string
	Values  map[string]decimal.Decimal
}

type Resolved struct {
	Subject string
	Values  map[string]decimal.Decimal
	Totals  map[SectionKind]decimal.Decimal
}

// Value looks up a line item result, falling back to a derived section total.
func (r Resolved) Value(id string) (decimal.Decimal, bool) {
	if value, ok := r.Values[id]; ok {
		return value, true
	}
	value, ok := r.Totals[SectionKind(id)]
	return value, ok
}
