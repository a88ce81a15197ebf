// Package tower holds the enemy roster and the floor-by-floor difficulty curve.
package tower

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultEnemySup is used for enemies whose definition omits sup.
const DefaultEnemySup = 5

// EnemyDefinition represents an enemy definition from the YAML file
type EnemyDefinition struct {
	Name         string   `yaml:"name"`
	Hp           int      `yaml:"hp"`
	Atk          int      `yaml:"atk"`
	Def          int      `yaml:"def"`
	Sup          *int     `yaml:"sup,omitempty"`
	Skills       []string `yaml:"skills"`
	Relics       []string `yaml:"relics,omitempty"`
	CursedRelics []string `yaml:"cursed_relics,omitempty"`
}

// BaseSup returns the enemy's unscaled sup, applying the default when unset.
func (d *EnemyDefinition) BaseSup() int {
	if d.Sup == nil {
		return DefaultEnemySup
	}
	return *d.Sup
}

// EnemiesConfig represents the structure of the enemies.yaml file
type EnemiesConfig struct {
	Enemies []EnemyDefinition `yaml:"enemies"`
}

// Roster is the ordered list of enemies, weakest first.
type Roster struct {
	enemies []*EnemyDefinition
}

// ParseEnemiesYAML decodes enemy definitions from raw YAML
func ParseEnemiesYAML(data []byte) (*Roster, error) {
	var config EnemiesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse enemies YAML: %w", err)
	}
	return NewRoster(config.Enemies)
}

// LoadRosterFromYAML loads the enemy roster from a YAML file
func LoadRosterFromYAML(filename string) (*Roster, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemies file: %w", err)
	}
	return ParseEnemiesYAML(data)
}

// LoadRosterFromFS loads the enemy roster from a YAML file inside fsys
func LoadRosterFromFS(fsys fs.FS, name string) (*Roster, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemies file: %w", err)
	}
	return ParseEnemiesYAML(data)
}

// NewRoster creates a roster from definitions in difficulty order.
func NewRoster(defs []EnemyDefinition) (*Roster, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("enemy roster is empty")
	}
	r := &Roster{enemies: make([]*EnemyDefinition, len(defs))}
	for i := range defs {
		if defs[i].Name == "" {
			return nil, fmt.Errorf("enemy #%d has no name", i)
		}
		def := defs[i]
		r.enemies[i] = &def
	}
	return r, nil
}

// Len returns the number of roster entries
func (r *Roster) Len() int {
	return len(r.enemies)
}

// All returns every entry in difficulty order
func (r *Roster) All() []*EnemyDefinition {
	return r.enemies
}

// ForFloor returns the roster entry that fights on a floor
func (r *Roster) ForFloor(floor int) *EnemyDefinition {
	return r.enemies[RosterIndex(floor, len(r.enemies))]
}
