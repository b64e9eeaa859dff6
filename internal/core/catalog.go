package core

import (
	"fmt"
	"strings"
)

// Catalog is the ordered set of categories offered to users.
type Catalog struct {
	infos []CategoryInfo
	index map[Category]int
}

// DefaultCatalog returns the categories of the 2022 sales workbook.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog([]CategoryInfo{
		{Name: "drink", Label: "ドリンク", Layout: ItemsOnRows},
		{Name: "meat", Label: "肉類", Layout: ItemsOnRows},
		{Name: "sidemenu", Label: "サイドメニュー", Layout: ItemsOnRows},
	})
	return c
}

// NewCatalog validates infos and builds a catalog preserving their order.
// Empty labels default to the category name, empty layouts to ItemsOnRows.
func NewCatalog(infos []CategoryInfo) (*Catalog, error) {
	c := &Catalog{index: make(map[Category]int, len(infos))}
	for _, info := range infos {
		info.Name = Category(strings.TrimSpace(string(info.Name)))
		if info.Name == "" {
			return nil, fmt.Errorf("category name cannot be empty")
		}
		if _, dup := c.index[info.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", info.Name)
		}
		if strings.TrimSpace(info.Label) == "" {
			info.Label = string(info.Name)
		}
		if info.Layout == "" {
			info.Layout = ItemsOnRows
		}
		if !info.Layout.IsValid() {
			return nil, fmt.Errorf("category %q: invalid layout %q", info.Name, info.Layout)
		}
		c.index[info.Name] = len(c.infos)
		c.infos = append(c.infos, info)
	}
	return c, nil
}

// All returns the categories in catalog order.
func (c *Catalog) All() []CategoryInfo {
	return append([]CategoryInfo(nil), c.infos...)
}

// Lookup returns the info for name.
func (c *Catalog) Lookup(name Category) (CategoryInfo, bool) {
	i, ok := c.index[name]
	if !ok {
		return CategoryInfo{}, false
	}
	return c.infos[i], true
}

// LayoutOf returns the layout registered for name, or ItemsOnRows for
// categories outside the catalog.
func (c *Catalog) LayoutOf(name Category) Layout {
	if info, ok := c.Lookup(name); ok {
		return info.Layout
	}
	return ItemsOnRows
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.infos) }
