// Package catalog defines the per-market field catalog model and the YAML
// loader that builds it. Catalogs are constructed once at startup and are
// read-only afterwards; they are safe for unbounded concurrent readers.
package catalog

// NarrowMapping locates a field inside a long-format provider table: the
// value lives in ValueField on the row where SelectorField == SelectorValue.
// A descriptor without a NarrowMapping reads a named wide-table column.
type NarrowMapping struct {
	SelectorField string
	SelectorValue string
	ValueField    string
}

// FieldDescriptor is one canonical field definition within a market catalog.
type FieldDescriptor struct {
	DisplayName string
	Keywords    []string
	Priority    int
	Description string

	// Narrow is non-nil only for narrow-table fields.
	Narrow *NarrowMapping
}

// IsNarrow reports whether the field is materialized from a long-format table.
func (d *FieldDescriptor) IsNarrow() bool {
	return d.Narrow != nil
}

// MarketCatalog is one isolated market namespace. Field IDs are unique
// within a catalog; the same ID may exist in other markets with entirely
// different definitions. Iteration order is the document load order, which
// is part of the loader's public contract.
type MarketCatalog struct {
	MarketID string
	Name     string
	Currency string

	fields map[string]*FieldDescriptor
	order  []string
}

// Field returns the descriptor for id, or nil if the catalog has no such field.
func (mc *MarketCatalog) Field(id string) *FieldDescriptor {
	return mc.fields[id]
}

// FieldIDs returns field IDs in load order. The returned slice is a copy.
func (mc *MarketCatalog) FieldIDs() []string {
	out := make([]string, len(mc.order))
	copy(out, mc.order)
	return out
}

// Len returns the number of fields in the catalog.
func (mc *MarketCatalog) Len() int {
	return len(mc.order)
}

// put adds or replaces a descriptor. A replaced field keeps its original
// position in iteration order.
func (mc *MarketCatalog) put(id string, d *FieldDescriptor) {
	if _, exists := mc.fields[id]; !exists {
		mc.order = append(mc.order, id)
	}
	mc.fields[id] = d
}

// Catalogs maps market_id to its catalog.
type Catalogs map[string]*MarketCatalog

// Market returns the catalog for marketID, or nil when the market is unknown.
func (c Catalogs) Market(marketID string) *MarketCatalog {
	return c[marketID]
}
