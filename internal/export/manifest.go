package export

import (
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manifest records what a run produced, written alongside the exports so a
// directory of timestamped outputs stays traceable to its inputs.
type Manifest struct {
	RunID        string    `yaml:"run_id"`
	CreatedAt    time.Time `yaml:"created_at"`
	Address      string    `yaml:"address"`
	MatchedLabel string    `yaml:"matched_label,omitempty"`
	Latitude     float64   `yaml:"latitude"`
	Longitude    float64   `yaml:"longitude"`
	RadiusMeters float64   `yaml:"radius_meters"`
	Dataset      string    `yaml:"dataset"`
	MatchCount   int       `yaml:"match_count"`
	Outputs      []string  `yaml:"outputs"`
}

// RenderManifest serializes the manifest as YAML.
func RenderManifest(m Manifest) ([]byte, error) {
	out, err := yaml.Marshal(m)
	if err != nil {
		return nil, eris.Wrap(err, "export: marshal manifest")
	}
	return out, nil
}
