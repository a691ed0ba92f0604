package voicemap

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"gopkg.in/yaml.v3"
)

// ManifestVersion is written into every manifest
const ManifestVersion = "1.0.0"

// Format selects an export encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a flag value to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", common.NewConfigError("format", name, "expected json or yaml")
	}
}

// ManifestEntry is the short listing of one voice
type ManifestEntry struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Voice       string `json:"voice" yaml:"voice"`
	Description string `json:"description" yaml:"description"`
}

// Manifest indexes a set of exported voice bundles
type Manifest struct {
	Version     string             `json:"version" yaml:"version"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	TotalVoices int                `json:"total_voices" yaml:"total_voices"`
	Voices      map[string]*Bundle `json:"voices" yaml:"voices"`
	VoiceList   []ManifestEntry    `json:"voice_list" yaml:"voice_list"`
}

// NewManifest creates a manifest holding bundles in order
func NewManifest(bundles ...*Bundle) *Manifest {
	m := &Manifest{
		Version:     ManifestVersion,
		GeneratedAt: time.Now().UTC(),
		Voices:      make(map[string]*Bundle, len(bundles)),
	}
	for _, b := range bundles {
		m.Add(b)
	}
	return m
}

// Add inserts b, replacing any bundle with the same id in place
func (m *Manifest) Add(b *Bundle) {
	if b == nil {
		return
	}
	if m.Voices == nil {
		m.Voices = make(map[string]*Bundle)
	}

	entry := ManifestEntry{ID: b.ID, Name: b.Name, Voice: b.Voice, Description: b.Description}
	if _, exists := m.Voices[b.ID]; exists {
		for i := range m.VoiceList {
			if m.VoiceList[i].ID == b.ID {
				m.VoiceList[i] = entry
			}
		}
	} else {
		m.VoiceList = append(m.VoiceList, entry)
	}
	m.Voices[b.ID] = b
	m.TotalVoices = len(m.Voices)
}

// Catalog extends base with every manifest voice, in list order
func (m *Manifest) Catalog(base *Catalog) (*Catalog, error) {
	entries := make([]VoiceCatalogEntry, 0, len(m.VoiceList))
	for _, item := range m.VoiceList {
		b, ok := m.Voices[item.ID]
		if !ok {
			return nil, common.NewConfigError("voice_list", item.ID, "missing from voices")
		}
		entries = append(entries, b.ToCatalogEntry())
	}
	if base == nil {
		return NewCatalog(entries)
	}
	return base.With(entries...)
}

// Encode writes v to w in format
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

// Write encodes the manifest to w
func (m *Manifest) Write(w io.Writer, format Format) error {
	return Encode(w, m, format)
}

// ReadManifest decodes a manifest written by Write
func ReadManifest(r io.Reader, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode manifest: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode manifest: %w", err)
		}
	}
	if m.Voices == nil {
		m.Voices = make(map[string]*Bundle)
	}
	return &m, nil
}
