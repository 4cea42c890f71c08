package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Items  ItemCatalog
	Troops TroopCatalog
}

type ItemCatalog struct {
	Palette []string
	Defs    map[string]ItemDef
	Digest  string
}

// ItemDef is immutable catalog data. The only mutable attribute the core owns
// for an item is its global stock count, which lives in the session.
type ItemDef struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Value      int      `json:"value"`
	Slots      []string `json:"slots"`
	Skill      string   `json:"skill,omitempty"`
	Difficulty int      `json:"difficulty,omitempty"`
	Tier       int      `json:"tier"`
	Civilian   bool     `json:"civilian,omitempty"`
	Crafted    bool     `json:"crafted,omitempty"`
	Mount      bool     `json:"mount,omitempty"`
}

type TroopCatalog struct {
	Palette []string
	Defs    map[string]TroopDef
	Digest  string
}

type TroopDef struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Tier          int            `json:"tier"`
	CounterpartID string         `json:"counterpart_id,omitempty"`
	Skills        map[string]int `json:"skills,omitempty"`
	Sets          []SetDef       `json:"sets"`
}

// SetDef seeds one equipment set: slot name -> item id. Missing slots are empty.
type SetDef struct {
	Civilian bool              `json:"civilian,omitempty"`
	Slots    map[string]string `json:"slots"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := loadTroops(filepath.Join(configDir, "troops.json"), &c.Troops); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// FromDefs builds catalogs from in-memory definitions. Used by tests and by
// hosts that assemble definitions programmatically instead of from files.
func FromDefs(items []ItemDef, troops []TroopDef) (*Catalogs, error) {
	var c Catalogs
	if err := indexItems(items, &c.Items); err != nil {
		return nil, err
	}
	if err := indexTroops(troops, &c.Troops); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	return indexItems(defs, out)
}

func indexItems(defs []ItemDef, out *ItemCatalog) error {
	out.Defs = map[string]ItemDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items: empty id")
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("items: duplicate id %q", d.ID)
		}
		if d.Value < 0 {
			return fmt.Errorf("items: %s: negative value", d.ID)
		}
		if len(d.Slots) == 0 {
			return fmt.Errorf("items: %s: no compatible slots", d.ID)
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out.Palette = ids

	palJSON, _ := json.Marshal(ids)
	out.Digest = sha256Hex(palJSON)
	return nil
}

func loadTroops(path string, out *TroopCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var defs []TroopDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("troops.json: %w", err)
	}
	return indexTroops(defs, out)
}

func indexTroops(defs []TroopDef, out *TroopCatalog) error {
	out.Defs = map[string]TroopDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("troops: empty id")
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("troops: duplicate id %q", d.ID)
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out.Palette = ids

	palJSON, _ := json.Marshal(ids)
	out.Digest = sha256Hex(palJSON)
	return nil
}

// validate cross-checks references between the two catalogs. Counterpart links
// must resolve and be symmetric: a pair draws from one shared item pool, so a
// one-directional link would make the pooled requirement ambiguous.
func (c *Catalogs) validate() error {
	for _, id := range c.Troops.Palette {
		d := c.Troops.Defs[id]
		if d.CounterpartID != "" {
			other, ok := c.Troops.Defs[d.CounterpartID]
			if !ok {
				return fmt.Errorf("troops: %s: unknown counterpart %q", id, d.CounterpartID)
			}
			if other.CounterpartID != id {
				return fmt.Errorf("troops: %s: counterpart link to %q is not symmetric", id, d.CounterpartID)
			}
		}
		for i, set := range d.Sets {
			for slot, itemID := range set.Slots {
				if itemID == "" {
					continue
				}
				if _, ok := c.Items.Defs[itemID]; !ok {
					return fmt.Errorf("troops: %s set %d slot %s: unknown item %q", id, i, slot, itemID)
				}
			}
		}
	}
	return nil
}
