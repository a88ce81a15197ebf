package items

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// StatsDefinition represents flat item stats in the YAML file
type StatsDefinition struct {
	Atk   int `yaml:"atk,omitempty"`
	Def   int `yaml:"def,omitempty"`
	Sup   int `yaml:"sup,omitempty"`
	MaxHp int `yaml:"max_hp,omitempty"`
}

// StatsRawDefinition represents multiplicative item stats in the YAML file
type StatsRawDefinition struct {
	MaxHp float64 `yaml:"max_hp,omitempty"`
}

// SpecialDefinition represents item capability flags in the YAML file
type SpecialDefinition struct {
	CdReduc     float64 `yaml:"cd_reduc,omitempty"`
	CdIncrease  float64 `yaml:"cd_increase,omitempty"`
	Lifesteal   float64 `yaml:"lifesteal,omitempty"`
	HealingBan  bool    `yaml:"healing_ban,omitempty"`
	SelfDmgTick float64 `yaml:"self_dmg_tick,omitempty"`
	RandomDelay float64 `yaml:"random_delay,omitempty"`
	DefZero     bool    `yaml:"def_zero,omitempty"`
	MaxHpReduc  float64 `yaml:"max_hp_reduc,omitempty"`
	CheatDeath  bool    `yaml:"cheat_death,omitempty"`
	BreakOnUse  bool    `yaml:"break_on_use,omitempty"`
}

// ItemDefinition represents an item definition from the YAML file
type ItemDefinition struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Stats       StatsDefinition    `yaml:"stats,omitempty"`
	StatsRaw    StatsRawDefinition `yaml:"stats_raw,omitempty"`
	Special     SpecialDefinition  `yaml:"special,omitempty"`
}

// ItemsConfig represents the structure of the items.yaml file
type ItemsConfig struct {
	Relics       []ItemDefinition `yaml:"relics"`
	CursedRelics []ItemDefinition `yaml:"cursed_relics"`
}

// ParseItemsYAML decodes item definitions from raw YAML
func ParseItemsYAML(data []byte) (*ItemsConfig, error) {
	var config ItemsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse items YAML: %w", err)
	}
	return &config, nil
}

// LoadItemsFromYAML loads item definitions from a YAML file
func LoadItemsFromYAML(filename string) (*ItemsConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}
	return ParseItemsYAML(data)
}

// CreateItemFromDefinition creates a Template from an ItemDefinition
func CreateItemFromDefinition(def ItemDefinition, kind Kind) *Template {
	name := def.Name
	if name == "" {
		name = def.ID
	}
	return &Template{
		ID:          def.ID,
		Name:        name,
		Description: def.Description,
		Kind:        kind,
		Stats: Stats{
			Atk:   def.Stats.Atk,
			Def:   def.Stats.Def,
			Sup:   def.Stats.Sup,
			MaxHp: def.Stats.MaxHp,
		},
		StatsRaw: StatsRaw{MaxHp: def.StatsRaw.MaxHp},
		Special: Special{
			CdReduc:     def.Special.CdReduc,
			CdIncrease:  def.Special.CdIncrease,
			Lifesteal:   def.Special.Lifesteal,
			HealingBan:  def.Special.HealingBan,
			SelfDmgTick: def.Special.SelfDmgTick,
			RandomDelay: def.Special.RandomDelay,
			DefZero:     def.Special.DefZero,
			MaxHpReduc:  def.Special.MaxHpReduc,
			CheatDeath:  def.Special.CheatDeath,
			BreakOnUse:  def.Special.BreakOnUse,
		},
	}
}

// Registry holds the relic and cursed relic catalogs in file order.
type Registry struct {
	byID   map[string]*Template
	relics []*Template
	cursed []*Template
}

// NewRegistry creates a new empty item registry
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*Template),
	}
}

// Load adds every definition in config to the registry
func (r *Registry) Load(config *ItemsConfig) error {
	for i, def := range config.Relics {
		if err := r.add(def, Relic, i); err != nil {
			return err
		}
	}
	for i, def := range config.CursedRelics {
		if err := r.add(def, Cursed, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) add(def ItemDefinition, kind Kind, index int) error {
	if def.ID == "" {
		return fmt.Errorf("%s #%d has no id", kind, index)
	}
	if existing, ok := r.byID[def.ID]; ok && existing.Kind != kind {
		return fmt.Errorf("item %q defined as both relic and cursed relic", def.ID)
	}

	tpl := CreateItemFromDefinition(def, kind)
	list := &r.relics
	if kind == Cursed {
		list = &r.cursed
	}
	if i := IndexOf(*list, def.ID); i >= 0 {
		(*list)[i] = tpl
	} else {
		*list = append(*list, tpl)
	}
	r.byID[def.ID] = tpl
	return nil
}

// LoadFromYAML loads items from a YAML file into the registry
func (r *Registry) LoadFromYAML(filename string) error {
	config, err := LoadItemsFromYAML(filename)
	if err != nil {
		return err
	}
	return r.Load(config)
}

// LoadFromFS loads items from a YAML file inside fsys
func (r *Registry) LoadFromFS(fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read items file: %w", err)
	}
	config, err := ParseItemsYAML(data)
	if err != nil {
		return err
	}
	return r.Load(config)
}

// Get returns an item template by its ID
func (r *Registry) Get(id string) (*Template, bool) {
	tpl, ok := r.byID[id]
	return tpl, ok
}

// Relics returns every ordinary relic in catalog order
func (r *Registry) Relics() []*Template {
	return r.relics
}

// CursedRelics returns every cursed relic in catalog order
func (r *Registry) CursedRelics() []*Template {
	return r.cursed
}

// Count returns the total number of loaded items
func (r *Registry) Count() int {
	return len(r.relics) + len(r.cursed)
}
