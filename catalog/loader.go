package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ConfigError reports a single catalog document that failed to load. The
// offending document is skipped; other documents load independently.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("catalog document %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// fieldDoc mirrors one field entry in the YAML document format.
type fieldDoc struct {
	Name        string   `yaml:"name"`
	Keywords    []string `yaml:"keywords"`
	Priority    int      `yaml:"priority"`
	Description string   `yaml:"description"`
	APIField    string   `yaml:"api_field"`
	FilterValue string   `yaml:"filter_value"`
	ValueField  string   `yaml:"value_field"`
}

// Loader reads catalog documents and merges them into market namespaces.
// Load is not safe to run concurrently with itself; the resulting Catalogs
// value is immutable and safe for any number of concurrent readers.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a loader logging through logger.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{log: logger}
}

// Load parses each document in order and merges them into one catalog per
// market. Merge rules, applied in document order:
//
//   - a market not yet seen is adopted wholesale
//   - an existing market merges field-by-field: a new field ID is added; a
//     conflicting field ID is resolved by priority — strictly higher replaces,
//     strictly lower is discarded, equal keeps the first-loaded descriptor
//
// Keyword lists are never combined across conflicting definitions. Malformed
// or unreadable documents are skipped and reported through the returned
// error (a joined chain of *ConfigError); successfully loaded documents are
// unaffected. Loading the same ordered document set twice yields identical
// catalogs.
func (l *Loader) Load(paths ...string) (Catalogs, error) {
	catalogs := make(Catalogs)
	var errs []error

	for _, path := range paths {
		markets, err := l.parse(path)
		if err != nil {
			cfgErr := &ConfigError{Path: path, Err: err}
			l.log.Warn().Str("path", path).Err(err).Msg("skipping catalog document")
			errs = append(errs, cfgErr)
			continue
		}

		merged := 0
		for _, pm := range markets {
			mc, ok := catalogs[pm.marketID]
			if !ok {
				mc = &MarketCatalog{
					MarketID: pm.marketID,
					Name:     pm.name,
					Currency: pm.currency,
					fields:   make(map[string]*FieldDescriptor),
				}
				catalogs[pm.marketID] = mc
			}
			for _, id := range pm.order {
				incoming := pm.fields[id]
				existing := mc.fields[id]
				if existing != nil && incoming.Priority <= existing.Priority {
					continue
				}
				mc.put(id, incoming)
				merged++
			}
		}

		l.log.Info().Str("path", path).Int("markets", len(markets)).
			Int("fields", merged).Msg("catalog document merged")
	}

	return catalogs, errors.Join(errs...)
}

// parsedMarket is the provisional per-document view of one market, with
// field order preserved for deterministic merging.
type parsedMarket struct {
	marketID string
	name     string
	currency string
	fields   map[string]*FieldDescriptor
	order    []string
}

// parse decodes one document. The format places field entries directly
// beside the name/currency metadata keys inside each market mapping:
//
//	markets:
//	  a_stock:
//	    name: A股
//	    currency: CNY
//	    NET_PROFIT:
//	      name: 净利润
//	      keywords: [净利润, 净利]
//	      priority: 3
//
// yaml.v3 map decoding discards key order, and load order is part of the
// merge contract, so the raw node tree is walked instead.
func (l *Loader) parse(path string) ([]*parsedMarket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document is not a mapping")
	}

	marketsNode := mappingValue(root.Content[0], "markets")
	if marketsNode == nil || marketsNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document has no markets mapping")
	}

	var out []*parsedMarket
	for i := 0; i+1 < len(marketsNode.Content); i += 2 {
		marketID := marketsNode.Content[i].Value
		marketNode := marketsNode.Content[i+1]
		pm, err := parseMarket(marketID, marketNode)
		if err != nil {
			return nil, err
		}
		out = append(out, pm)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("document defines no markets")
	}

	return out, nil
}

func parseMarket(marketID string, node *yaml.Node) (*parsedMarket, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("market %s is not a mapping", marketID)
	}

	pm := &parsedMarket{
		marketID: marketID,
		fields:   make(map[string]*FieldDescriptor),
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]

		switch key {
		case "name":
			pm.name = value.Value
		case "currency":
			pm.currency = value.Value
		default:
			if pm.fields[key] != nil {
				return nil, fmt.Errorf("market %s: duplicate field id %s", marketID, key)
			}
			var fd fieldDoc
			if err := value.Decode(&fd); err != nil {
				return nil, fmt.Errorf("market %s field %s: %w", marketID, key, err)
			}
			desc, err := buildDescriptor(key, fd)
			if err != nil {
				return nil, fmt.Errorf("market %s: %w", marketID, err)
			}
			pm.fields[key] = desc
			pm.order = append(pm.order, key)
		}
	}

	return pm, nil
}

func buildDescriptor(fieldID string, fd fieldDoc) (*FieldDescriptor, error) {
	if fd.Name == "" {
		return nil, fmt.Errorf("field %s: missing name", fieldID)
	}
	if len(fd.Keywords) == 0 {
		return nil, fmt.Errorf("field %s: missing keywords", fieldID)
	}

	desc := &FieldDescriptor{
		DisplayName: fd.Name,
		Keywords:    append([]string(nil), fd.Keywords...),
		Priority:    fd.Priority,
		Description: fd.Description,
	}

	// A narrow-table field requires all three selector keys together.
	narrowKeys := 0
	for _, v := range []string{fd.APIField, fd.FilterValue, fd.ValueField} {
		if v != "" {
			narrowKeys++
		}
	}
	switch narrowKeys {
	case 0:
	case 3:
		desc.Narrow = &NarrowMapping{
			SelectorField: fd.APIField,
			SelectorValue: fd.FilterValue,
			ValueField:    fd.ValueField,
		}
	default:
		return nil, fmt.Errorf("field %s: api_field, filter_value, value_field must be set together", fieldID)
	}

	return desc, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
