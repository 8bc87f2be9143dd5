// Package policy holds the network policies used as retrieval context for
// configuration generation.
package policy

import (
	"fmt"
	"strings"
	"sync"

	"github.com/netassist/netconfig-assist/pkg/domain/errors"
)

// SourceBuiltin marks policies compiled into the binary.
const SourceBuiltin = "builtin"

// Policy is a named block of policy text handed to the LLM as context.
type Policy struct {
	Name    string `json:"name" yaml:"name"`
	Context string `json:"context" yaml:"context"`
	Source  string `json:"source" yaml:"-"`
}

// Details returns the policy text without surrounding whitespace.
func (p Policy) Details() string {
	return strings.TrimSpace(p.Context)
}

// Validate checks that the policy can be stored in a Catalog.
func (p Policy) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New(errors.CodeValidationFailed, "policy", "policy name is required", nil)
	}
	if strings.TrimSpace(p.Context) == "" {
		return errors.New(errors.CodeValidationFailed, "policy", fmt.Sprintf("policy %q has no context", p.Name), nil)
	}
	return nil
}

// Catalog is an ordered set of policies keyed by name. Order is insertion
// order and is what the UI presents.
type Catalog struct {
	mu       sync.RWMutex
	order    []string
	policies map[string]Policy
}

// NewCatalog creates a catalog from the given policies.
func NewCatalog(policies ...Policy) (*Catalog, error) {
	c := &Catalog{policies: make(map[string]Policy)}
	for _, p := range policies {
		if err := c.Add(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add inserts p. A policy with the same name is replaced in place.
func (c *Catalog) Add(p Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Source == "" {
		p.Source = SourceBuiltin
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.policies[p.Name]; !exists {
		c.order = append(c.order, p.Name)
	}
	c.policies[p.Name] = p
	return nil
}

// Get returns the policy with the given name.
func (c *Catalog) Get(name string) (Policy, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.policies[strings.TrimSpace(name)]
	if !ok {
		return Policy{}, errors.New(errors.CodeNotFound, "policy", fmt.Sprintf("policy %q not found", name), nil)
	}
	return p, nil
}

// Names returns policy names in catalog order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// List returns all policies in catalog order.
func (c *Catalog) List() []Policy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Policy, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.policies[name])
	}
	return out
}

// Len returns the number of policies.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Default returns the first policy, which the UI selects initially.
func (c *Catalog) Default() (Policy, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.order) == 0 {
		return Policy{}, false
	}
	return c.policies[c.order[0]], true
}

// Merge returns a new catalog holding base's policies followed by
// overrides. Overrides with a name already in base replace it in place.
func Merge(base *Catalog, overrides ...Policy) (*Catalog, error) {
	merged, err := NewCatalog(base.List()...)
	if err != nil {
		return nil, err
	}
	for _, p := range overrides {
		if err := merged.Add(p); err != nil {
			return nil, err
		}
	}
	return merged, nil
}
