package skills

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// StatModDefinition represents a nested debuff in the YAML file.
type StatModDefinition struct {
	Stat     string  `yaml:"stat"`
	Amount   float64 `yaml:"amount"`
	Duration float64 `yaml:"duration,omitempty"`
}

// SkillDefinition represents a skill definition from the YAML file.
type SkillDefinition struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	Description  string             `yaml:"description"`
	Type         string             `yaml:"type"`
	Power        float64            `yaml:"power"`
	Cooldown     float64            `yaml:"cd"`
	InitialDelay float64            `yaml:"initial_delay"`
	Duration     float64            `yaml:"duration,omitempty"`
	EffectType   string             `yaml:"effect_type,omitempty"`
	EffectVal    float64            `yaml:"effect_val,omitempty"`
	Stat         string             `yaml:"stat,omitempty"`
	Amount       float64            `yaml:"amount,omitempty"`
	Debuff       *StatModDefinition `yaml:"debuff,omitempty"`
	SelfDebuff   *StatModDefinition `yaml:"self_debuff,omitempty"`
	SelfDmg      float64            `yaml:"self_dmg,omitempty"`
	Lifesteal    float64            `yaml:"lifesteal,omitempty"`
}

// SkillsConfig represents the structure of the skills.yaml file.
type SkillsConfig struct {
	StarterSkills []string          `yaml:"starter_skills"`
	Skills        []SkillDefinition `yaml:"skills"`
}

// Registry holds all loaded skill templates in catalog order.
type Registry struct {
	skills        map[string]*Template
	order         []*Template
	starterSkills []string
}

// NewRegistry creates a new empty skill registry.
func NewRegistry() *Registry {
	return &Registry{
		skills: make(map[string]*Template),
	}
}

// ParseSkillsYAML decodes skill definitions from raw YAML.
func ParseSkillsYAML(data []byte) (*SkillsConfig, error) {
	var config SkillsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse skills YAML: %w", err)
	}
	return &config, nil
}

// LoadSkillsFromYAML loads skill definitions from a YAML file.
func LoadSkillsFromYAML(filename string) (*SkillsConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read skills file: %w", err)
	}
	return ParseSkillsYAML(data)
}

// ErrUnknownType is returned for a skill type the resolver cannot handle.
var ErrUnknownType = errors.New("unknown skill type")

// StringToType converts a string to a skill Type.
func StringToType(s string) (Type, error) {
	switch s {
	case "attack":
		return TypeAttack, nil
	case "shield":
		return TypeShield, nil
	case "heal":
		return TypeHeal, nil
	case "buff":
		return TypeBuff, nil
	case "debuff":
		return TypeDebuff, nil
	case "dot":
		return TypeDot, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownType, s)
	}
}

func statModFromDefinition(def *StatModDefinition) *StatMod {
	if def == nil {
		return nil
	}
	return &StatMod{Stat: def.Stat, Amount: def.Amount, Duration: def.Duration}
}

// CreateTemplateFromDefinition creates a Template from a SkillDefinition.
func CreateTemplateFromDefinition(def SkillDefinition) (*Template, error) {
	typ, err := StringToType(def.Type)
	if err != nil {
		return nil, err
	}
	name := def.Name
	if name == "" {
		name = def.ID
	}
	return &Template{
		ID:           def.ID,
		Name:         name,
		Description:  def.Description,
		Type:         typ,
		Power:        def.Power,
		Cooldown:     def.Cooldown,
		InitialDelay: def.InitialDelay,
		Duration:     def.Duration,
		EffectType:   def.EffectType,
		EffectVal:    def.EffectVal,
		Stat:         def.Stat,
		Amount:       def.Amount,
		Debuff:       statModFromDefinition(def.Debuff),
		SelfDebuff:   statModFromDefinition(def.SelfDebuff),
		SelfDmg:      def.SelfDmg,
		Lifesteal:    def.Lifesteal,
	}, nil
}

// Load adds every definition in config to the registry. A later definition with
// the same ID replaces the earlier one but keeps its catalog position.
func (r *Registry) Load(config *SkillsConfig) error {
	for i, def := range config.Skills {
		if def.ID == "" {
			return fmt.Errorf("skill #%d has no id", i)
		}
		tpl, err := CreateTemplateFromDefinition(def)
		if err != nil {
			return fmt.Errorf("skill %s: %w", def.ID, err)
		}
		if _, exists := r.skills[def.ID]; exists {
			for j, t := range r.order {
				if t.ID == def.ID {
					r.order[j] = tpl
				}
			}
		} else {
			r.order = append(r.order, tpl)
		}
		r.skills[def.ID] = tpl
	}
	r.starterSkills = config.StarterSkills
	return nil
}

// LoadFromYAML loads skills from a YAML file into the registry.
func (r *Registry) LoadFromYAML(filename string) error {
	config, err := LoadSkillsFromYAML(filename)
	if err != nil {
		return err
	}
	return r.Load(config)
}

// LoadFromFS loads skills from a YAML file inside fsys (used for the embedded defaults).
func (r *Registry) LoadFromFS(fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read skills file: %w", err)
	}
	config, err := ParseSkillsYAML(data)
	if err != nil {
		return err
	}
	return r.Load(config)
}

// Get returns a skill template by its ID.
func (r *Registry) Get(id string) (*Template, bool) {
	tpl, exists := r.skills[id]
	return tpl, exists
}

// All returns every template in catalog order.
func (r *Registry) All() []*Template {
	return r.order
}

// Count returns the number of loaded templates.
func (r *Registry) Count() int {
	return len(r.order)
}

// StarterSkills returns the IDs of skills a new run starts with.
func (r *Registry) StarterSkills() []string {
	if len(r.starterSkills) == 0 {
		return []string{"slash"}
	}
	return r.starterSkills
}
