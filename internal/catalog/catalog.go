package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

const (
	allCategory = "All"
	maxSpice    = 3
)

type HealthBand string

const (
	HealthGood HealthBand = "good"
	HealthFair HealthBand = "fair"
	HealthPoor HealthBand = "poor"
)

// BandFor maps a 0-100 health score to its band.
func BandFor(score int) HealthBand {
	switch {
	case score >= 80:
		return HealthGood
	case score >= 60:
		return HealthFair
	default:
		return HealthPoor
	}
}

type Dish struct {
	ID            int        `yaml:"id" json:"id"`
	Name          string     `yaml:"name" json:"name"`
	Rating        float64    `yaml:"rating" json:"rating"`
	EstimatedTime string     `yaml:"estimated_time" json:"estimated_time"`
	Image         string     `yaml:"image" json:"image"`
	Ingredients   []string   `yaml:"ingredients" json:"ingredients"`
	Spiciness     int        `yaml:"spiciness" json:"spiciness"`
	HealthScore   int        `yaml:"health_score" json:"health_score"`
	HealthBand    HealthBand `yaml:"-" json:"health_band"`
	Category      string     `yaml:"category" json:"category"`
}

type Category struct {
	Name  string `yaml:"name" json:"name"`
	IsVeg bool   `yaml:"is_veg" json:"is_veg"`
}

type Catalog struct {
	Dishes     []Dish     `yaml:"dishes"`
	Categories []Category `yaml:"categories"`
}

// Load decodes a catalog document and fills in derived fields.
func Load(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	for i := range c.Dishes {
		d := &c.Dishes[i]
		if d.Spiciness < 0 || d.Spiciness > maxSpice {
			return nil, fmt.Errorf("dish %q: spiciness %d out of range", d.Name, d.Spiciness)
		}
		if d.HealthScore < 0 || d.HealthScore > 100 {
			return nil, fmt.Errorf("dish %q: health score %d out of range", d.Name, d.HealthScore)
		}
		d.HealthBand = BandFor(d.HealthScore)
	}
	return &c, nil
}

// Default returns the embedded showcase catalog.
func Default() (*Catalog, error) {
	return Load(catalogYAML)
}

// CategoriesFor returns every category, or only the veg ones plus "All"
// when vegOnly is set.
func (c *Catalog) CategoriesFor(vegOnly bool) []Category {
	out := make([]Category, 0, len(c.Categories))
	for _, cat := range c.Categories {
		if !vegOnly || cat.IsVeg || cat.Name == allCategory {
			out = append(out, cat)
		}
	}
	return out
}
