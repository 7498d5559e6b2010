package catalog

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed k9_catalog.yaml
var defaultCatalogYAML []byte

type catalogFile struct {
	Tiers []struct {
		Tier   int      `yaml:"tier"`
		Name   string   `yaml:"name"`
		Skills []*Skill `yaml:"skills"`
	} `yaml:"tiers"`
	Lessons []*Lesson `yaml:"lessons"`
}

// Parse decodes and validates a catalog document. Any violation is an
// *IntegrityError and must abort startup.
func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, integrityErrorf("unparseable catalog document: %v", err)
	}
	var skills []*Skill
	for _, t := range f.Tiers {
		for _, s := range t.Skills {
			s.Tier = t.Tier
			s.TierName = t.Name
			skills = append(skills, s)
		}
	}
	return build(skills, f.Lessons)
}

func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Default returns the embedded K9 protection catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalogYAML)
}
