package shop

import (
	_ "embed"
	"fmt"

	"github.com/princinho/urbanthreads/models"
	"gopkg.in/yaml.v3"
)

//go:embed sample_catalog.yaml
var sampleCatalogYAML []byte

// SampleProducts returns the bundled catalog.
func SampleProducts() ([]models.Product, error) {
	var products []models.Product
	if err := yaml.Unmarshal(sampleCatalogYAML, &products); err != nil {
		return nil, fmt.Errorf("parse sample catalog: %w", err)
	}
	return products, nil
}
