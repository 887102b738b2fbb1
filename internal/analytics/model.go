package analytics

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed dashboard.yaml
var dashboardYAML []byte

type KPI struct {
	Title  string `yaml:"title" json:"title"`
	Value  string `yaml:"value" json:"value"`
	Change string `yaml:"change" json:"change"`
}

type RevenuePoint struct {
	Day     string `yaml:"day" json:"day"`
	Revenue int    `yaml:"revenue" json:"revenue"`
	Orders  int    `yaml:"orders" json:"orders"`
}

type CuisineShare struct {
	Name       string `yaml:"name" json:"name"`
	Orders     int    `yaml:"orders" json:"orders"`
	Percentage int    `yaml:"percentage" json:"percentage"`
}

// ActivityRow is one hour slot of the weekly order heatmap.
type ActivityRow struct {
	Hour      string `yaml:"hour" json:"hour"`
	Monday    int    `yaml:"monday" json:"monday"`
	Tuesday   int    `yaml:"tuesday" json:"tuesday"`
	Wednesday int    `yaml:"wednesday" json:"wednesday"`
	Thursday  int    `yaml:"thursday" json:"thursday"`
	Friday    int    `yaml:"friday" json:"friday"`
	Saturday  int    `yaml:"saturday" json:"saturday"`
	Sunday    int    `yaml:"sunday" json:"sunday"`
}

type PredictionPoint struct {
	Time      string `yaml:"time" json:"time"`
	Predicted int    `yaml:"predicted" json:"predicted"`
	Actual    int    `yaml:"actual" json:"actual"`
}

type Predictions struct {
	Accuracy float64           `yaml:"accuracy" json:"accuracy"`
	Note     string            `yaml:"note" json:"note"`
	Points   []PredictionPoint `yaml:"points" json:"points"`
}

// Dashboard is the static admin dataset.
type Dashboard struct {
	KPIs        []KPI          `yaml:"kpis" json:"kpis"`
	Revenue     []RevenuePoint `yaml:"revenue" json:"revenue"`
	Cuisines    []CuisineShare `yaml:"cuisines" json:"cuisines"`
	Activity    []ActivityRow  `yaml:"activity" json:"activity"`
	Predictions Predictions    `yaml:"predictions" json:"predictions"`
}

func LoadDashboard(data []byte) (*Dashboard, error) {
	var d Dashboard
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode dashboard: %w", err)
	}
	return &d, nil
}

// DefaultDashboard decodes the embedded dataset.
func DefaultDashboard() (*Dashboard, error) {
	return LoadDashboard(dashboardYAML)
}
