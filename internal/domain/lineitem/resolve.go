package lineitem

import "sort"

const (
	unvisited = iota
	visiting
	visited
)

// Plan is a validated template with a fixed evaluation order. It is read-only
// after Resolve returns and may be shared by concurrent passes.
type Plan struct {
	template   *Template
	catalog    *Catalog
	order      []string
	items      map[string]LineItem
	position   map[string]int
	categories map[string]Category
	byCategory map[Category][]string
}

// Resolve validates references and orders line items so that every item
// follows the items it depends on. Components are leaves and never appear in
// the order.
func Resolve(t *Template, catalog *Catalog) (*Plan, error) {
	if t == nil {
		return nil, &InvalidLineItemError{Reason: "template is nil"}
	}
	plan := &Plan{
		template:   t,
		catalog:    catalog,
		items:      make(map[string]LineItem, len(t.Items)),
		position:   make(map[string]int, len(t.Items)),
		categories: make(map[string]Category, len(t.Items)),
		byCategory: make(map[Category][]string),
	}

	for i, item := range t.Items {
		if err := plan.index(i, item); err != nil {
			return nil, err
		}
	}
	for _, item := range t.Items {
		if err := plan.checkReferences(item); err != nil {
			return nil, err
		}
	}

	deps := plan.dependencies()
	order, err := topoSort(t.Items, deps)
	if err != nil {
		return nil, err
	}
	plan.order = order
	return plan, nil
}

func (p *Plan) index(position int, item LineItem) error {
	if item.ID == "" {
		return &InvalidLineItemError{Reason: "line item without id"}
	}
	if _, exists := p.items[item.ID]; exists {
		return &DuplicateIDError{ID: item.ID, Existing: "line item"}
	}
	if _, exists := p.catalog.Lookup(item.ID); exists {
		return &DuplicateIDError{ID: item.ID, Existing: "component"}
	}
	if SectionKind(item.ID).Valid() {
		return &DuplicateIDError{ID: item.ID, Existing: "section total"}
	}
	if item.Category != "" && !item.Category.Valid() {
		return invalid(item.ID, "unknown category %q", item.Category)
	}

	category := item.Category
	switch f := item.Formula.(type) {
	case ComponentRef:
		if category == "" {
			if component, ok := p.catalog.Lookup(f.Component); ok {
				category = component.Category
			}
		}
	case SectionTotal:
		if !f.Section.Valid() {
			return invalid(item.ID, "unknown section %q", f.Section)
		}
		if item.Category != "" {
			return invalid(item.ID, "section totals cannot carry a category")
		}
	case Percentage, PercentageSubtraction, Sum, Subtraction, FixedAmount:
	case nil:
		return &UnsupportedFormulaKindError{LineItemID: item.ID}
	default:
		return &UnsupportedFormulaKindError{LineItemID: item.ID, Kind: f.Kind()}
	}

	p.items[item.ID] = item
	p.position[item.ID] = position
	if category != "" {
		p.categories[item.ID] = category
		p.byCategory[category] = append(p.byCategory[category], item.ID)
	}
	return nil
}

func (p *Plan) checkReferences(item LineItem) error {
	if ref, ok := item.Formula.(ComponentRef); ok {
		if _, isItem := p.items[ref.Component]; isItem {
			return invalid(item.ID, "component formula must reference a catalog component, %q is a line item", ref.Component)
		}
		if _, isComponent := p.catalog.Lookup(ref.Component); !isComponent {
			return &UnknownReferenceError{LineItemID: item.ID, OperandID: ref.Component}
		}
		return nil
	}

	category := p.categories[item.ID]
	for _, operand := range item.Formula.Operands() {
		if target, ok := p.items[operand]; ok {
			if section, isSection := target.Formula.(SectionTotal); isSection && category != "" && section.Section.Includes(category) {
				return &UnknownReferenceError{LineItemID: item.ID, OperandID: operand, Section: section.Section}
			}
			continue
		}
		if _, ok := p.catalog.Lookup(operand); ok {
			continue
		}
		return &UnknownReferenceError{LineItemID: item.ID, OperandID: operand}
	}
	return nil
}

// dependencies maps each line item to the line items that must be evaluated
// before it. Section totals depend on every member of their categories.
func (p *Plan) dependencies() map[string][]string {
	deps := make(map[string][]string, len(p.items))
	for _, item := range p.template.Items {
		if section, ok := item.Formula.(SectionTotal); ok {
			deps[item.ID] = p.sectionMembers(section.Section)
			continue
		}
		for _, operand := range item.Formula.Operands() {
			if _, ok := p.items[operand]; ok {
				deps[item.ID] = append(deps[item.ID], operand)
			}
		}
	}
	return deps
}

func (p *Plan) sectionMembers(section SectionKind) []string {
	var members []string
	for _, category := range section.Members() {
		members = append(members, p.byCategory[category]...)
	}
	sort.SliceStable(members, func(i, j int) bool {
		return p.position[members[i]] < p.position[members[j]]
	})
	return members
}

// topoSort runs a depth-first post-order walk over dependencies. Reaching a
// node that is still on the stack is a cycle; the reported path starts at
// that node.
func topoSort(items []LineItem, deps map[string][]string) ([]string, error) {
	state := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visited:
			return nil
		case visiting:
			start := 0
			for i, onStack := range stack {
				if onStack == id {
					start = i
					break
				}
			}
			return &CycleError{Participants: append([]string(nil), stack[start:]...)}
		}

		state[id] = visiting
		stack = append(stack, id)
		for _, dep := range deps[id] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = visited
		order = append(order, id)
		return nil
	}

	for _, item := range items {
		if state[item.ID] == unvisited {
			if err := visit(item.ID); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

func (p *Plan) Template() *Template { return p.template }

func (p *Plan) Catalog() *Catalog { return p.catalog }

// Order returns line item ids in evaluation order.
func (p *Plan) Order() []string {
	return append([]string(nil), p.order...)
}

func (p *Plan) Item(id string) (LineItem, bool) {
	item, ok := p.items[id]
	return item, ok
}

// Category returns the effective category of a line item, including the one
// inherited by component passthroughs.
func (p *Plan) Category(id string) Category {
	return p.categories[id]
}

// Members lists the line items summed into a section, in declaration order.
func (p *Plan) Members(section SectionKind) []string {
	return p.sectionMembers(section)
}
