package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ekisa-team/modelstore/internal/model"
)

// ResolveMode selects how a store normalizes identifiers.
type ResolveMode string

const (
	// ResolveModeIdentity keys instances by the raw identifier value.
	ResolveModeIdentity ResolveMode = "identity"

	// ResolveModeString keys instances by the identifier's string form.
	ResolveModeString ResolveMode = "string"
)

// Config holds the main configuration for the application.
type Config struct {
	Version string                 `json:"version"          yaml:"version"`
	Stores  map[string]StoreConfig `json:"stores"           yaml:"stores"`
	Logging LoggingConfig          `json:"logging,omitzero" yaml:"logging,omitempty"`
}

// LoggingConfig holds logging settings that complement the command line flags.
type LoggingConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	File  string `json:"file,omitempty"  yaml:"file,omitempty"`
}

// StoreConfig declares one deduplicating store.
type StoreConfig struct {
	IDAttribute string           `json:"id_attribute,omitempty" yaml:"id_attribute,omitempty"`
	ResolveID   ResolveMode      `json:"resolve_id,omitempty"   yaml:"resolve_id,omitempty"`
	Defaults    map[string]any   `json:"defaults,omitempty"     yaml:"defaults,omitempty"`
	Records     []map[string]any `json:"records,omitempty"      yaml:"records,omitempty"`
}

// Mode returns the configured resolve mode, defaulting to identity.
func (s StoreConfig) Mode() ResolveMode {
	if s.ResolveID == "" {
		return ResolveModeIdentity
	}
	return s.ResolveID
}

// StoreNames returns the configured store names in sorted order.
func (c *Config) StoreNames() []string {
	return slices.Sorted(maps.Keys(c.Stores))
}

// Validate checks constraints the JSON schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	for _, name := range c.StoreNames() {
		store := c.Stores[name]

		switch store.Mode() {
		case ResolveModeIdentity, ResolveModeString:
		default:
			errs = append(errs, fmt.Errorf("store %q: unknown resolve_id %q", name, store.ResolveID))
		}

		idAttr := store.IDAttribute
		if idAttr == "" {
			idAttr = model.DefaultIDAttribute
		}
		if _, ok := store.Defaults[idAttr]; ok {
			errs = append(errs, fmt.Errorf("store %q: defaults must not set the id attribute %q", name, idAttr))
		}
	}

	return errors.Join(errs...)
}
