// Package upgrade loads and validates the static upgrade catalog: a set of
// purchasable definitions whose prerequisite relation must form a DAG.
// The catalog is immutable after load and safe for unsynchronized reads.
package upgrade

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

//go:embed catalog.json
var defaultCatalogJSON []byte

// Catalog is the validated, read-only set of upgrade definitions.
type Catalog struct {
	byID  map[string]*model.Upgrade
	order []string
}

// Load parses and validates a catalog from JSON. Validation covers entry
// invariants, id uniqueness, dangling prerequisites, and cycle freedom.
func Load(raw []byte) (*Catalog, error) {
	var entries []*model.Upgrade
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse upgrade catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]*model.Upgrade, len(entries))}
	for _, u := range entries {
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("upgrade catalog: %w", err)
		}
		if _, dup := c.byID[u.ID]; dup {
			return nil, fmt.Errorf("upgrade catalog: duplicate id %q", u.ID)
		}
		c.byID[u.ID] = u
		c.order = append(c.order, u.ID)
	}

	for _, u := range c.byID {
		for _, pre := range u.Prerequisites {
			if _, ok := c.byID[pre]; !ok {
				return nil, fmt.Errorf("upgrade %q: unknown prerequisite %q", u.ID, pre)
			}
		}
	}

	if err := c.checkAcyclic(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDefault loads the catalog embedded in the binary.
func LoadDefault() (*Catalog, error) {
	return Load(defaultCatalogJSON)
}

// Get returns the upgrade definition for the id, or nil when absent.
func (c *Catalog) Get(id string) *model.Upgrade {
	return c.byID[id]
}

// All returns the definitions in catalog order.
func (c *Catalog) All() []*model.Upgrade {
	out := make([]*model.Upgrade, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// checkAcyclic rejects cycles in the prerequisite relation via explicit DFS
// with an owned stack and a per-path visited set. The per-path set matters:
// diamond shapes (the same upgrade reachable through two branches) are legal
// and a single global visited set would either miss cycles or reject them.
func (c *Catalog) checkAcyclic() error {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, root := range ids {
		if err := c.walkPrereqs(root, map[string]bool{root: true}); err != nil {
			return err
		}
	}
	return nil
}

type frame struct {
	id   string
	next int
}

func (c *Catalog) walkPrereqs(root string, onPath map[string]bool) error {
	stack := []frame{{id: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		prereqs := c.byID[top.id].Prerequisites
		if top.next >= len(prereqs) {
			delete(onPath, top.id)
			stack = stack[:len(stack)-1]
			continue
		}
		next := prereqs[top.next]
		top.next++
		if onPath[next] {
			return fmt.Errorf("upgrade catalog: prerequisite cycle through %q and %q", top.id, next)
		}
		onPath[next] = true
		stack = append(stack, frame{id: next})
	}
	return nil
}

// MissingPrerequisites returns the prerequisite ids of the upgrade that the
// given purchased set does not cover, in definition order.
func (c *Catalog) MissingPrerequisites(id string, purchased func(string) bool) []string {
	u := c.byID[id]
	if u == nil {
		return nil
	}
	var missing []string
	for _, pre := range u.Prerequisites {
		if !purchased(pre) {
			missing = append(missing, pre)
		}
	}
	return missing
}
