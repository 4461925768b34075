package catalog

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// The documents shipped under config/ must always load cleanly and keep
// their market namespaces isolated.
func TestShippedCatalogDocuments(t *testing.T) {
	paths := []string{
		filepath.Join("..", "config", "fields_cn.yaml"),
		filepath.Join("..", "config", "fields_hk.yaml"),
		filepath.Join("..", "config", "fields_us.yaml"),
	}

	catalogs, err := NewLoader(zerolog.Nop()).Load(paths...)
	if err != nil {
		t.Fatalf("shipped documents must load cleanly: %v", err)
	}

	for _, marketID := range []string{"a_stock", "hk_stock", "us_stock"} {
		mc := catalogs.Market(marketID)
		if mc == nil {
			t.Fatalf("market %s missing", marketID)
		}
		if mc.Len() == 0 {
			t.Errorf("market %s has no fields", marketID)
		}
		for _, id := range mc.FieldIDs() {
			d := mc.Field(id)
			if d.DisplayName == "" || len(d.Keywords) == 0 {
				t.Errorf("market %s field %s incomplete: %+v", marketID, id, d)
			}
		}
	}

	// The same field id resolves to market-local definitions.
	cn := catalogs.Market("a_stock").Field("NET_PROFIT")
	hk := catalogs.Market("hk_stock").Field("NET_PROFIT")
	us := catalogs.Market("us_stock").Field("NET_PROFIT")
	if cn.DisplayName == hk.DisplayName || hk.DisplayName == us.DisplayName {
		t.Error("NET_PROFIT definitions must stay market-local")
	}

	// Narrow-table fields carry their full selector mapping.
	holders := catalogs.Market("a_stock").Field("TOP_HOLDERS_RATIO")
	if holders == nil || !holders.IsNarrow() || holders.Narrow.ValueField == "" {
		t.Errorf("TOP_HOLDERS_RATIO should be a complete narrow-table field: %+v", holders)
	}
}
