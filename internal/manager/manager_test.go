package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/modelstore/internal/config"
	"github.com/ekisa-team/modelstore/internal/model"
	"github.com/ekisa-team/modelstore/internal/store"
)

func usersConfig() *config.Config {
	return &config.Config{
		Version: "1",
		Stores: map[string]config.StoreConfig{
			"users": {
				IDAttribute: "_id",
				ResolveID:   config.ResolveModeString,
				Defaults:    map[string]any{"role": "guest"},
				Records: []map[string]any{
					{"_id": 1, "name": "Ada"},
					{"_id": "1", "age": 36},
					{"_id": 2, "name": "Grace"},
					{"name": "anonymous"},
				},
			},
			"posts": {},
		},
	}
}

func TestManager_LoadStoresFromConfig(t *testing.T) {
	r := store.NewRegistry()
	m := New(r)

	var added []any
	r.On(store.EventAdd, func(ev store.Event) { added = append(added, ev.Instance.ID()) })

	require.NoError(t, m.LoadStoresFromConfig(context.Background(), usersConfig()))

	assert.Same(t, r, m.Registry())
	assert.Equal(t, []string{"posts", "users"}, r.Names())
	assert.Equal(t, []string{"posts", "users"}, m.Managed())
	assert.Equal(t, []any{1, 2}, added)

	users, err := store.CacheOf[*model.Model](r, "users")
	require.NoError(t, err)
	assert.Equal(t, 2, users.Len())
	assert.Equal(t, "_id", users.Blueprint().IDAttribute())

	ada, ok := users.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, model.Attributes{"_id": "1", "name": "Ada", "age": 36, "role": "guest"}, ada.Attributes())
}

func TestManager_ReloadIsIdempotent(t *testing.T) {
	r := store.NewRegistry()
	m := New(r)
	require.NoError(t, m.LoadStoresFromConfig(context.Background(), usersConfig()))

	before, err := store.CacheOf[*model.Model](r, "users")
	require.NoError(t, err)
	ada, _ := before.Lookup(1)

	updates := 0
	r.On(store.EventUpdate, func(store.Event) { updates++ })

	require.NoError(t, m.LoadStoresFromConfig(context.Background(), usersConfig()))

	after, err := store.CacheOf[*model.Model](r, "users")
	require.NoError(t, err)
	assert.Same(t, before, after)

	again, _ := after.Lookup(1)
	assert.Same(t, ada, again)
	assert.Equal(t, 3, updates)
}

func TestManager_RemovesStoresLeavingConfig(t *testing.T) {
	r := store.NewRegistry()
	_, err := store.Wrap[*model.Model](r, model.NewSchema("external"), "external")
	require.NoError(t, err)

	m := New(r)
	require.NoError(t, m.LoadStoresFromConfig(context.Background(), usersConfig()))

	cfg := usersConfig()
	delete(cfg.Stores, "posts")
	require.NoError(t, m.LoadStoresFromConfig(context.Background(), cfg))

	assert.Equal(t, []string{"external", "users"}, r.Names())
	assert.Equal(t, []string{"users"}, m.Managed())
}

func TestManager_ReRegistersChangedDefinition(t *testing.T) {
	r := store.NewRegistry()
	m := New(r)
	require.NoError(t, m.LoadStoresFromConfig(context.Background(), usersConfig()))

	before, err := store.CacheOf[*model.Model](r, "users")
	require.NoError(t, err)

	cfg := usersConfig()
	users := cfg.Stores["users"]
	users.ResolveID = config.ResolveModeIdentity
	cfg.Stores["users"] = users
	require.NoError(t, m.LoadStoresFromConfig(context.Background(), cfg))

	after, err := store.CacheOf[*model.Model](r, "users")
	require.NoError(t, err)
	assert.NotSame(t, before, after)

	// identity keys keep 1 and "1" apart
	assert.Equal(t, 3, after.Len())
}

func TestManager_ReRegistersChangedDefaults(t *testing.T) {
	r := store.NewRegistry()
	m := New(r)
	require.NoError(t, m.LoadStoresFromConfig(context.Background(), usersConfig()))

	cfg := usersConfig()
	users := cfg.Stores["users"]
	users.Defaults = map[string]any{"role": "member"}
	cfg.Stores["users"] = users
	require.NoError(t, m.LoadStoresFromConfig(context.Background(), cfg))

	c, err := store.CacheOf[*model.Model](r, "users")
	require.NoError(t, err)

	grace, ok := c.Lookup("2")
	require.True(t, ok)
	assert.Equal(t, "member", grace.Get("role"))
}

func TestManager_CanceledContext(t *testing.T) {
	r := store.NewRegistry()
	m := New(r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.LoadStoresFromConfig(ctx, usersConfig())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, r.Len())
}

func TestManager_LeavesUnmanagedStoresAlone(t *testing.T) {
	r := store.NewRegistry()
	external, err := store.Add[*model.Model](r, model.NewSchema("users"), "users")
	require.NoError(t, err)
	m := New(r)

	err = m.LoadStoresFromConfig(context.Background(), usersConfig())

	assert.ErrorIs(t, err, ErrUnmanagedStore)
	assert.ErrorContains(t, err, "failed to register store users")
	assert.Equal(t, []string{"posts"}, m.Managed())
	assert.Zero(t, external.Len())

	cfg := usersConfig()
	delete(cfg.Stores, "users")
	require.NoError(t, m.LoadStoresFromConfig(context.Background(), cfg))

	got, err := store.CacheOf[*model.Model](r, "users")
	require.NoError(t, err)
	assert.Same(t, external, got)
}

func TestManager_RegistrationConflict(t *testing.T) {
	r := store.NewRegistry()
	m := New(r)
	require.NoError(t, m.LoadStoresFromConfig(context.Background(), usersConfig()))

	r.Remove("users")
	_, err := store.Add[taggedModel](r, taggedBlueprint{model.NewSchema("users")}, "users")
	require.NoError(t, err)

	err = m.LoadStoresFromConfig(context.Background(), usersConfig())

	assert.ErrorIs(t, err, store.ErrInvalidArgument)
	assert.ErrorContains(t, err, "failed to register store users")
	assert.Equal(t, []string{"posts", "users"}, r.Names())
	assert.Equal(t, []string{"posts"}, m.Managed())
}

// taggedModel is an Instance type the manager does not build.
type taggedModel struct {
	*model.Model
}

type taggedBlueprint struct {
	schema *model.Schema
}

func (b taggedBlueprint) IDAttribute() string {
	return b.schema.IDAttribute()
}

func (b taggedBlueprint) New(attrs model.Attributes, opts model.Options) taggedModel {
	return taggedModel{b.schema.New(attrs, opts)}
}
