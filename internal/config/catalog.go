package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"menusales/internal/core"
)

// catalogFile is the YAML shape of CATEGORIES_FILE:
//
//	categories:
//	  - name: drink
//	    label: ドリンク
//	    layout: rows
type catalogFile struct {
	Categories []struct {
		Name   string `yaml:"name"`
		Label  string `yaml:"label"`
		Layout string `yaml:"layout"`
	} `yaml:"categories"`
}

// Catalog returns the configured categories, or the built-in drink, meat and
// sidemenu set when no file is configured.
func (c *Config) Catalog() (*core.Catalog, error) {
	if c.CategoriesFile == "" {
		return core.DefaultCatalog(), nil
	}
	b, err := os.ReadFile(c.CategoriesFile)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}
	return ParseCatalog(b)
}

func ParseCatalog(data []byte) (*core.Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse categories file: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("categories file lists no categories")
	}
	infos := make([]core.CategoryInfo, 0, len(f.Categories))
	for _, e := range f.Categories {
		infos = append(infos, core.CategoryInfo{
			Name:   core.Category(e.Name),
			Label:  e.Label,
			Layout: core.Layout(e.Layout),
		})
	}
	return core.NewCatalog(infos)
}
