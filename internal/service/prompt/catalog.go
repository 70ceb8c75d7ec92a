package prompt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultVoice is the synthesis voice for languages without one of their own.
const DefaultVoice = "alloy"

// Language is one entry of the language catalog.
type Language struct {
	Name   string `yaml:"name"`   // display name matched against user input
	Code   string `yaml:"code"`   // ISO 639-1
	Locale string `yaml:"locale"` // BCP-47, used for speech recognition
	Voice  string `yaml:"voice"`  // synthesis voice identity
}

// Catalog is the ordered set of supported learning languages.
type Catalog struct {
	DefaultVoice string     `yaml:"defaultVoice"`
	Languages    []Language `yaml:"languages"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{
		DefaultVoice: DefaultVoice,
		Languages: []Language{
			{Name: "English", Code: "en", Locale: "en-US", Voice: "alloy"},
			{Name: "German", Code: "de", Locale: "de-DE", Voice: "echo"},
			{Name: "Spanish", Code: "es", Locale: "es-ES", Voice: "nova"},
			{Name: "French", Code: "fr", Locale: "fr-FR", Voice: "shimmer"},
			{Name: "Italian", Code: "it", Locale: "it-IT", Voice: "fable"},
			{Name: "Russian", Code: "ru", Locale: "ru-RU", Voice: "onyx"},
		},
	}
}

// LoadCatalog reads a YAML catalog from path. An empty path yields DefaultCatalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	if c.DefaultVoice == "" {
		c.DefaultVoice = DefaultVoice
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Languages) == 0 {
		return fmt.Errorf("no languages")
	}
	seen := make(map[string]bool, len(c.Languages))
	for i, l := range c.Languages {
		name := strings.ToLower(strings.TrimSpace(l.Name))
		if name == "" {
			return fmt.Errorf("language %d has no name", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate language %q", l.Name)
		}
		seen[name] = true
	}
	return nil
}

// Match finds the language whose display name equals input, ignoring case and
// surrounding whitespace.
func (c *Catalog) Match(input string) (Language, bool) {
	input = strings.TrimSpace(input)
	for _, l := range c.Languages {
		if strings.EqualFold(l.Name, input) {
			return l, true
		}
	}
	return Language{}, false
}

// ByCode finds a language by its ISO 639-1 code.
func (c *Catalog) ByCode(code string) (Language, bool) {
	for _, l := range c.Languages {
		if strings.EqualFold(l.Code, code) {
			return l, true
		}
	}
	return Language{}, false
}

// Names returns the display names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Languages))
	for i, l := range c.Languages {
		names[i] = l.Name
	}
	return names
}

// VoiceFor returns the voice identity for a display name, or the default voice.
func (c *Catalog) VoiceFor(name string) string {
	if l, ok := c.Match(name); ok && l.Voice != "" {
		return l.Voice
	}
	return c.DefaultVoice
}

// DisplayName resolves a language code to its display name, returning code when unknown.
func (c *Catalog) DisplayName(code string) string {
	if l, ok := c.ByCode(code); ok {
		return l.Name
	}
	return code
}
