package narrative

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jimdaga/team-pulse/internal/digest"
	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var defaultPromptYAML []byte

// PromptManifest is the parsed prompt definition.
type PromptManifest struct {
	Name       string   `yaml:"name"`
	Version    string   `yaml:"version"`
	WordTarget int      `yaml:"word_target"`
	Sections   []string `yaml:"sections"`
	Template   string   `yaml:"template"`
}

// PromptTemplate renders a digest into a provider prompt.
type PromptTemplate struct {
	manifest PromptManifest
	tmpl     *template.Template
}

// LoadPrompt parses a prompt manifest with strict field checking.
func LoadPrompt(data []byte) (*PromptTemplate, error) {
	var m PromptManifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse prompt manifest: %w", err)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("prompt manifest missing required field: name")
	}
	if strings.TrimSpace(m.Template) == "" {
		return nil, fmt.Errorf("prompt manifest missing required field: template")
	}
	if len(m.Sections) == 0 {
		return nil, fmt.Errorf("prompt manifest missing required field: sections")
	}
	if m.WordTarget <= 0 {
		m.WordTarget = 250
	}

	tmpl, err := template.New(m.Name).
		Funcs(template.FuncMap{"add": func(a, b int) int { return a + b }}).
		Option("missingkey=error").
		Parse(m.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to compile prompt template: %w", err)
	}

	return &PromptTemplate{manifest: m, tmpl: tmpl}, nil
}

// DefaultPrompt returns the embedded team briefing prompt.
func DefaultPrompt() (*PromptTemplate, error) {
	return LoadPrompt(defaultPromptYAML)
}

// LoadPromptFile reads a prompt manifest from disk.
func LoadPromptFile(path string) (*PromptTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt manifest: %w", err)
	}
	return LoadPrompt(data)
}

// Manifest returns the parsed manifest.
func (p *PromptTemplate) Manifest() PromptManifest {
	return p.manifest
}

// Render embeds d as JSON data in the prompt for the given period label.
func (p *PromptTemplate) Render(d digest.Digest, period string) (string, error) {
	data, err := json.MarshalIndent(d.Entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal digest: %w", err)
	}

	var buf bytes.Buffer
	err = p.tmpl.Execute(&buf, struct {
		Period     string
		DigestJSON string
		Sections   []string
		WordTarget int
	}{
		Period:     period,
		DigestJSON: string(data),
		Sections:   p.manifest.Sections,
		WordTarget: p.manifest.WordTarget,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}
