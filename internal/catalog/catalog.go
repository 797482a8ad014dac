// Package catalog serves the pre-built kit listing. The data is static and
// ships inside the binary; there is no admin surface for editing it.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed kits.json
var kitsJSON []byte

type Kit struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	LongDescription string   `json:"long_description"`
	Price           int      `json:"price"`
	Category        string   `json:"category"`
	Image           string   `json:"image"`
	Features        []string `json:"features"`
	Benefits        []string `json:"benefits"`
}

type Catalog struct {
	kits []Kit
	byID map[string]*Kit
}

// Load parses the embedded kit data. Called once at startup.
func Load() (*Catalog, error) {
	var kits []Kit
	if err := json.Unmarshal(kitsJSON, &kits); err != nil {
		return nil, fmt.Errorf("failed to parse kit catalog: %w", err)
	}

	byID := make(map[string]*Kit, len(kits))
	for i := range kits {
		byID[kits[i].ID] = &kits[i]
	}
	return &Catalog{kits: kits, byID: byID}, nil
}

func (c *Catalog) All() []Kit {
	return c.kits
}

func (c *Catalog) Get(id string) (*Kit, bool) {
	kit, ok := c.byID[id]
	return kit, ok
}

// Categories returns the distinct categories in listing order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, kit := range c.kits {
		if !seen[kit.Category] {
			seen[kit.Category] = true
			out = append(out, kit.Category)
		}
	}
	return out
}

// Search filters by case-insensitive substring match on title and
// description, optionally restricted to one category. Empty arguments match
// everything.
func (c *Catalog) Search(query, category string) []Kit {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Kit, 0, len(c.kits))
	for _, kit := range c.kits {
		if category != "" && !strings.EqualFold(kit.Category, category) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(kit.Title), query) &&
			!strings.Contains(strings.ToLower(kit.Description), query) {
			continue
		}
		out = append(out, kit)
	}
	return out
}
