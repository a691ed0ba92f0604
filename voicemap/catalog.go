package voicemap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"gopkg.in/yaml.v3"
)

// Catalog is an immutable, ordered table of voice identities. Order
// matters: scoring ties resolve to the earlier entry.
type Catalog struct {
	entries []VoiceCatalogEntry
	index   map[string]int
}

type catalogFile struct {
	Voices []VoiceCatalogEntry `yaml:"voices"`
}

// kokoroVoices is the bundled catalog of the Kokoro synthesis engine
var kokoroVoices = []VoiceCatalogEntry{
	{ID: "af_bella", Name: "Bella", Gender: GenderFemale, Accent: "american", PitchBand: PitchHigh, Style: "warm", Warmth: 0.8, Clarity: 0.5, ASMR: true},
	{ID: "af_sarah", Name: "Sarah", Gender: GenderFemale, Accent: "american", PitchBand: PitchMid, Style: "neutral", Warmth: 0.5, Clarity: 0.5},
	{ID: "af_nicole", Name: "Nicole", Gender: GenderFemale, Accent: "american", PitchBand: PitchMid, Style: "refined", Warmth: 0.5, Clarity: 0.7},
	{ID: "af_sky", Name: "Sky", Gender: GenderFemale, Accent: "american", PitchBand: PitchHigh, Style: "bright", Warmth: 0.4, Clarity: 0.85},
	{ID: "am_adam", Name: "Adam", Gender: GenderMale, Accent: "american", PitchBand: PitchLow, Style: "warm", Warmth: 0.8, Clarity: 0.5},
	{ID: "am_michael", Name: "Michael", Gender: GenderMale, Accent: "american", PitchBand: PitchMid, Style: "neutral", Warmth: 0.5, Clarity: 0.5},
	{ID: "bf_emma", Name: "Emma", Gender: GenderFemale, Accent: "british", PitchBand: PitchMid, Style: "british", Warmth: 0.5, Clarity: 0.65},
	{ID: "bm_george", Name: "George", Gender: GenderMale, Accent: "british", PitchBand: PitchLow, Style: "british", Warmth: 0.6, Clarity: 0.6},
}

// NewCatalog validates entries and freezes a copy of them
func NewCatalog(entries []VoiceCatalogEntry) (*Catalog, error) {
	c := &Catalog{
		entries: slices.Clone(entries),
		index:   make(map[string]int, len(entries)),
	}

	var errs []error
	for i, e := range c.entries {
		if e.ID == "" {
			errs = append(errs, common.NewConfigError(fmt.Sprintf("voices[%d].id", i), e.ID, "must not be empty"))
			continue
		}
		if _, dup := c.index[e.ID]; dup {
			errs = append(errs, common.NewConfigError(fmt.Sprintf("voices[%d].id", i), e.ID, "duplicate voice id"))
			continue
		}
		switch e.Gender {
		case GenderMale, GenderFemale, GenderNeutral:
		default:
			errs = append(errs, common.NewConfigError(fmt.Sprintf("voices[%d].gender", i), e.Gender, "expected male, female or neutral"))
		}
		if e.Warmth < 0 || e.Warmth > 1 {
			errs = append(errs, common.NewConfigError(fmt.Sprintf("voices[%d].warmth", i), e.Warmth, "must be in [0, 1]"))
		}
		if e.Clarity < 0 || e.Clarity > 1 {
			errs = append(errs, common.NewConfigError(fmt.Sprintf("voices[%d].clarity", i), e.Clarity, "must be in [0, 1]"))
		}
		c.index[e.ID] = i
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultCatalog returns the bundled Kokoro voices
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(kokoroVoices)
	if err != nil {
		panic(fmt.Sprintf("bundled catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog decodes a YAML (or JSON) document with a top-level "voices" list
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return NewCatalog(file.Voices)
}

// LoadCatalogFile reads a catalog from path
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %q: %w", path, err)
	}
	defer f.Close()

	c, err := LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %q: %w", path, err)
	}
	return c, nil
}

// With returns a new catalog with extra appended after the existing entries
func (c *Catalog) With(extra ...VoiceCatalogEntry) (*Catalog, error) {
	return NewCatalog(append(slices.Clone(c.entries), extra...))
}

// Len returns the number of voices
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the voices in catalog order
func (c *Catalog) Entries() []VoiceCatalogEntry {
	return slices.Clone(c.entries)
}

// Lookup finds a voice by id
func (c *Catalog) Lookup(id string) (VoiceCatalogEntry, bool) {
	i, ok := c.index[id]
	if !ok {
		return VoiceCatalogEntry{}, false
	}
	return c.entries[i], true
}

// WriteYAML encodes the catalog in the format LoadCatalog reads
func (c *Catalog) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Voices: c.entries}); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}
