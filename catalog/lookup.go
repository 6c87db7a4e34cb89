package catalog

import (
	"fmt"
	"maps"
	"slices"
)

// Catalog is an immutable, indexed view of a Document. All lookups are
// null-safe: a missing id yields nil, never a panic. Returned values share
// slices with the catalog and must be treated as read-only.
type Catalog struct {
	doc Document

	customers         map[string]int
	boilerTypes       map[string]int
	packs             map[string]int
	systemOptions     map[string]int
	boilers           map[string]int
	flues             map[string]int
	gasOptions        map[string]int
	condensateOptions map[string]int
	components        map[string]int
}

func build(doc Document) (*Catalog, error) {
	c := &Catalog{doc: doc}
	var issues []string

	index := func(name string, n int, id func(int) string) map[string]int {
		m := make(map[string]int, n)
		for i := 0; i < n; i++ {
			key := id(i)
			if _, dup := m[key]; dup {
				issues = append(issues, fmt.Sprintf("%s: duplicate id %q", name, key))
				continue
			}
			m[key] = i
		}
		return m
	}

	c.customers = index(CollectionCustomers, len(doc.Customers), func(i int) string { return doc.Customers[i].ID })
	c.boilerTypes = index(CollectionBoilerTypes, len(doc.BoilerTypes), func(i int) string { return doc.BoilerTypes[i].ID })
	c.packs = index(CollectionPacks, len(doc.Packs), func(i int) string { return doc.Packs[i].ID })
	c.systemOptions = index(CollectionSystemOptions, len(doc.SystemOptions), func(i int) string { return doc.SystemOptions[i].ID })
	c.boilers = index(CollectionBoilers, len(doc.Boilers), func(i int) string { return doc.Boilers[i].ID })
	c.flues = index(CollectionFlues, len(doc.Flues), func(i int) string { return doc.Flues[i].ID })
	c.gasOptions = index(CollectionGasOptions, len(doc.GasOptions), func(i int) string { return doc.GasOptions[i].ID })
	c.condensateOptions = index(CollectionCondensateOptions, len(doc.CondensateOptions), func(i int) string { return doc.CondensateOptions[i].ID })
	c.components = index(CollectionComponents, len(doc.Components), func(i int) string { return doc.Components[i].ID })

	if len(issues) > 0 {
		return nil, &MalformedCatalogError{Issues: issues}
	}
	return c, nil
}

func (c *Catalog) Version() string {
	if c == nil {
		return ""
	}
	return c.doc.Version
}

func find[T any](idx map[string]int, items []T, id string) *T {
	i, ok := idx[id]
	if !ok {
		return nil
	}
	v := items[i]
	return &v
}

func (c *Catalog) Customer(id string) *Customer {
	if c == nil {
		return nil
	}
	return find(c.customers, c.doc.Customers, id)
}

func (c *Catalog) BoilerType(id string) *BoilerType {
	if c == nil {
		return nil
	}
	return find(c.boilerTypes, c.doc.BoilerTypes, id)
}

func (c *Catalog) Pack(id string) *Pack {
	if c == nil {
		return nil
	}
	return find(c.packs, c.doc.Packs, id)
}

func (c *Catalog) SystemOption(id string) *SystemOption {
	if c == nil {
		return nil
	}
	return find(c.systemOptions, c.doc.SystemOptions, id)
}

func (c *Catalog) Boiler(id string) *Boiler {
	if c == nil {
		return nil
	}
	return find(c.boilers, c.doc.Boilers, id)
}

func (c *Catalog) Flue(id string) *Flue {
	if c == nil {
		return nil
	}
	return find(c.flues, c.doc.Flues, id)
}

func (c *Catalog) GasOption(id string) *Option {
	if c == nil {
		return nil
	}
	return find(c.gasOptions, c.doc.GasOptions, id)
}

func (c *Catalog) CondensateOption(id string) *Option {
	if c == nil {
		return nil
	}
	return find(c.condensateOptions, c.doc.CondensateOptions, id)
}

func (c *Catalog) Component(id string) *Component {
	if c == nil {
		return nil
	}
	return find(c.components, c.doc.Components, id)
}

// ByID looks an entity up by collection name. Unknown collections and
// missing ids both return a nil interface.
func (c *Catalog) ByID(collection, id string) any {
	switch collection {
	case CollectionCustomers:
		if v := c.Customer(id); v != nil {
			return v
		}
	case CollectionBoilerTypes:
		if v := c.BoilerType(id); v != nil {
			return v
		}
	case CollectionPacks:
		if v := c.Pack(id); v != nil {
			return v
		}
	case CollectionSystemOptions:
		if v := c.SystemOption(id); v != nil {
			return v
		}
	case CollectionBoilers:
		if v := c.Boiler(id); v != nil {
			return v
		}
	case CollectionFlues:
		if v := c.Flue(id); v != nil {
			return v
		}
	case CollectionGasOptions:
		if v := c.GasOption(id); v != nil {
			return v
		}
	case CollectionCondensateOptions:
		if v := c.CondensateOption(id); v != nil {
			return v
		}
	case CollectionComponents:
		if v := c.Component(id); v != nil {
			return v
		}
	}
	return nil
}

func (c *Catalog) Customers() []Customer {
	if c == nil {
		return nil
	}
	return slices.Clone(c.doc.Customers)
}

func (c *Catalog) BoilerTypes() []BoilerType {
	if c == nil {
		return nil
	}
	return slices.Clone(c.doc.BoilerTypes)
}

func (c *Catalog) Packs() []Pack {
	if c == nil {
		return nil
	}
	return slices.Clone(c.doc.Packs)
}

func (c *Catalog) SystemOptions() []SystemOption {
	if c == nil {
		return nil
	}
	return slices.Clone(c.doc.SystemOptions)
}

func (c *Catalog) Boilers() []Boiler {
	if c == nil {
		return nil
	}
	return slices.Clone(c.doc.Boilers)
}

func (c *Catalog) Flues() []Flue {
	if c == nil {
		return nil
	}
	return slices.Clone(c.doc.Flues)
}

func (c *Catalog) GasOptions() []Option {
	if c == nil {
		return nil
	}
	return slices.Clone(c.doc.GasOptions)
}

func (c *Catalog) CondensateOptions() []Option {
	if c == nil {
		return nil
	}
	return slices.Clone(c.doc.CondensateOptions)
}

// Components returns every component in catalog order.
func (c *Catalog) Components() []Component {
	if c == nil {
		return nil
	}
	return slices.Clone(c.doc.Components)
}

// Snippets returns the quick-note lines for a category.
func (c *Catalog) Snippets(category string) []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.doc.Snippets[category])
}

// Document returns a copy of the underlying document, for re-serialising.
// Collection slices are copied; nested slices are shared and read-only.
func (c *Catalog) Document() Document {
	if c == nil {
		return Document{}
	}
	d := c.doc
	d.Customers = slices.Clone(d.Customers)
	d.BoilerTypes = slices.Clone(d.BoilerTypes)
	d.Packs = slices.Clone(d.Packs)
	d.SystemOptions = slices.Clone(d.SystemOptions)
	d.Boilers = slices.Clone(d.Boilers)
	d.Flues = slices.Clone(d.Flues)
	d.GasOptions = slices.Clone(d.GasOptions)
	d.CondensateOptions = slices.Clone(d.CondensateOptions)
	d.Components = slices.Clone(d.Components)
	d.Snippets = maps.Clone(d.Snippets)
	return d
}

// EligibleBoilers lists the boilers a system option allows, in catalog order.
// A missing system or one that declares no boilerType allows every boiler.
func (c *Catalog) EligibleBoilers(systemID string) []Boiler {
	all := c.Boilers()
	sys := c.SystemOption(systemID)
	if sys == nil || sys.BoilerType == "" {
		return all
	}
	out := make([]Boiler, 0, len(all))
	for _, b := range all {
		if b.Type == sys.BoilerType {
			out = append(out, b)
		}
	}
	return out
}

// EligibleFlues lists the flues a boiler accepts, in the boiler's flueIds
// order. Unresolvable ids are skipped.
func (c *Catalog) EligibleFlues(boilerID string) []Flue {
	b := c.Boiler(boilerID)
	if b == nil {
		return nil
	}
	out := make([]Flue, 0, len(b.FlueIDs))
	for _, id := range b.FlueIDs {
		if f := c.Flue(id); f != nil {
			out = append(out, *f)
		}
	}
	return out
}
