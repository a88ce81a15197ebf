// Package help provides help topic loading and lookup from YAML files.
package help

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Topic represents a single help topic with aliases and text.
type Topic struct {
	Aliases []string `yaml:"aliases"`
	Text    string   `yaml:"text"`
}

// HelpData represents the structure of the help.yaml file.
type HelpData struct {
	Topics map[string]Topic `yaml:"topics"`
}

// Help provides help topic lookup. It is read-only after loading.
type Help struct {
	data        *HelpData
	aliasLookup map[string]string // maps alias -> topic name
}

var (
	instance *Help
	once     sync.Once
)

// Parse builds help data from YAML content.
func Parse(raw []byte) (*Help, error) {
	var helpData HelpData
	if err := yaml.Unmarshal(raw, &helpData); err != nil {
		return nil, fmt.Errorf("failed to parse help file: %w", err)
	}

	h := &Help{
		data:        &helpData,
		aliasLookup: make(map[string]string),
	}

	// Build alias lookup map; a topic is always reachable by its own name
	for topicName, topic := range helpData.Topics {
		h.aliasLookup[strings.ToLower(topicName)] = topicName
		for _, alias := range topic.Aliases {
			h.aliasLookup[strings.ToLower(alias)] = topicName
		}
	}

	return h, nil
}

// Load loads help data from a YAML file.
func Load(path string) (*Help, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read help file: %w", err)
	}
	return Parse(raw)
}

// LoadFromFS loads help data from a file in fsys.
func LoadFromFS(fsys fs.FS, name string) (*Help, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read help file: %w", err)
	}
	return Parse(raw)
}

// GetInstance returns the singleton help instance, or nil before Initialize.
func GetInstance() *Help {
	return instance
}

// Initialize loads the help data from fsys and sets the singleton instance.
// Only the first call loads anything.
func Initialize(fsys fs.FS, name string) error {
	var err error
	once.Do(func() {
		instance, err = LoadFromFS(fsys, name)
	})
	return err
}

// GetTopic returns help text for a given topic/alias.
// Returns empty string if topic not found.
func (h *Help) GetTopic(topic string) string {
	topicName, ok := h.aliasLookup[strings.ToLower(topic)]
	if !ok {
		return ""
	}
	return strings.TrimSpace(h.data.Topics[topicName].Text)
}

// Topics returns the topic names in alphabetical order.
func (h *Help) Topics() []string {
	names := make([]string, 0, len(h.data.Topics))
	for name := range h.data.Topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetHelpText returns help for a topic, or a not-found message.
func (h *Help) GetHelpText(topic string) string {
	text := h.GetTopic(topic)
	if text == "" {
		return fmt.Sprintf("No help available for '%s'.\nTopics: %s", topic, strings.Join(h.Topics(), ", "))
	}
	return text
}
