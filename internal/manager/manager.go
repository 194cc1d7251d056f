package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/ekisa-team/modelstore/internal/config"
	"github.com/ekisa-team/modelstore/internal/model"
	"github.com/ekisa-team/modelstore/internal/store"
)

// definition is what a managed store was last registered with.
type definition struct {
	defaults    map[string]any
	idAttribute string
	mode        config.ResolveMode
}

func (d definition) equal(o definition) bool {
	return d.idAttribute == o.idAttribute &&
		d.mode == o.mode &&
		reflect.DeepEqual(d.defaults, o.defaults)
}

// Manager keeps the stores of a registry in line with the config.
type Manager struct {
	registry *store.Registry
	managed  map[string]definition
	mu       sync.Mutex
}

// New creates a Manager for registry.
func New(registry *store.Registry) *Manager {
	return &Manager{
		registry: registry,
		managed:  make(map[string]definition),
	}
}

// Registry returns the managed registry.
func (m *Manager) Registry() *store.Registry {
	return m.registry
}

// Managed returns the sorted names of the stores registered by the manager.
func (m *Manager) Managed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Sorted(maps.Keys(m.managed))
}

// LoadStoresFromConfig registers every configured store, seeds its records and
// removes the stores it registered earlier that are no longer configured. A store
// whose id attribute, resolve mode or defaults changed is removed and registered
// again, dropping its tracked instances. Names already taken by stores the manager
// did not register are left alone and reported with ErrUnmanagedStore.
// A failing store does not stop the others; the errors are joined.
func (m *Manager) LoadStoresFromConfig(ctx context.Context, cfg *config.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	configured := make(map[string]bool, len(cfg.Stores))
	for _, name := range cfg.StoreNames() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("manager: loading stores interrupted: %w", err)
		}

		storeConfig := cfg.Stores[name]
		configured[name] = true

		if err := m.loadStore(ctx, name, storeConfig); err != nil {
			if ctx.Err() != nil {
				return err
			}
			errs = append(errs, err)
		}
	}

	// Remove stores that left the config
	for name := range m.managed {
		if configured[name] {
			continue
		}

		m.registry.Remove(name)
		delete(m.managed, name)
		slog.Info("Store removed", "model", name)
	}

	return errors.Join(errs...)
}

func (m *Manager) loadStore(ctx context.Context, name string, sc config.StoreConfig) error {
	def := definition{defaults: maps.Clone(sc.Defaults), idAttribute: sc.IDAttribute, mode: sc.Mode()}
	if def.idAttribute == "" {
		def.idAttribute = model.DefaultIDAttribute
	}

	prev, known := m.managed[name]
	if !known {
		if _, err := m.registry.Cache(name); err == nil {
			return fmt.Errorf("manager: failed to register store %s: %w", name, ErrUnmanagedStore)
		}
	}

	changed := known && !prev.equal(def)
	if changed {
		m.registry.Remove(name)
		slog.Info("Store definition changed, registering again",
			"model", name,
			"id_attribute", def.idAttribute,
			"resolve_id", def.mode)
	}

	schema := model.NewSchema(name,
		model.WithIDAttribute(def.idAttribute),
		model.WithDefaults(sc.Defaults),
	)

	ctor, err := store.Wrap[*model.Model](m.registry, schema, name, store.WithResolver(resolver(def.mode)))
	if err != nil {
		delete(m.managed, name)
		return fmt.Errorf("manager: failed to register store %s: %w", name, err)
	}

	if !known || changed {
		slog.Info("Store registered", "model", name, "id_attribute", def.idAttribute, "resolve_id", def.mode)
	}
	m.managed[name] = def

	for i, record := range sc.Records {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("manager: seeding store %s interrupted at record %d: %w", name, i, err)
		}

		inst := ctor.New(record, model.Options{})
		if inst.IsNew() {
			slog.Warn("Seed record has no identifier and will not be tracked", "model", name, "record", i)
		}
	}

	slog.Debug("Store seeded", "model", name, "records", len(sc.Records), "tracked", ctor.Cache().Len())

	return nil
}

func resolver(mode config.ResolveMode) store.Resolver {
	if mode == config.ResolveModeString {
		return store.ResolveString
	}
	return store.ResolveIdentity
}
