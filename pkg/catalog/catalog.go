// Package catalog loads the list of subscription prices a deployment sells.
//
// The catalog is a YAML file:
//
//	prices:
//	  - id: price_basic_monthly
//	    name: Basic
//	    interval: month
//
// A nil *Catalog allows every price, so the catalog stays optional.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrReadCatalog  = errors.New("catalog: failed to read file")
	ErrParseCatalog = errors.New("catalog: failed to parse")
	ErrEmptyPriceID = errors.New("catalog: price id is empty")
	ErrDuplicateID  = errors.New("catalog: duplicate price id")
)

type Price struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Interval string `yaml:"interval"`
}

type Catalog struct {
	prices []Price
	byID   map[string]Price
}

type file struct {
	Prices []Price `yaml:"prices"`
}

// Load reads and parses the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadCatalog, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Join(ErrParseCatalog, err)
	}

	c := &Catalog{byID: make(map[string]Price, len(f.Prices))}
	for i, p := range f.Prices {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrEmptyPriceID, i)
		}
		if _, ok := c.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		c.byID[p.ID] = p
		c.prices = append(c.prices, p)
	}
	return c, nil
}

// Contains reports whether id is sellable.
func (c *Catalog) Contains(id string) bool {
	if c == nil {
		return true
	}
	_, ok := c.byID[id]
	return ok
}

func (c *Catalog) Get(id string) (Price, bool) {
	if c == nil {
		return Price{}, false
	}
	p, ok := c.byID[id]
	return p, ok
}

// Prices returns the catalog entries in file order.
func (c *Catalog) Prices() []Price {
	if c == nil {
		return nil
	}
	out := make([]Price, len(c.prices))
	copy(out, c.prices)
	return out
}
