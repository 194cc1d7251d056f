package model

import "maps"

// DefaultIDAttribute is the id attribute used when a schema does not set one.
const DefaultIDAttribute = "id"

// Schema describes a kind of model and builds instances of it.
type Schema struct {
	defaults    Attributes
	name        string
	idAttribute string
}

// SchemaOption configures a Schema.
type SchemaOption func(*Schema)

// WithIDAttribute sets the attribute that identifies instances.
func WithIDAttribute(attr string) SchemaOption {
	return func(s *Schema) {
		if attr != "" {
			s.idAttribute = attr
		}
	}
}

// WithDefaults sets attributes applied to every new instance before its own.
func WithDefaults(defaults Attributes) SchemaOption {
	return func(s *Schema) {
		s.defaults = maps.Clone(defaults)
	}
}

// NewSchema creates a schema.
func NewSchema(name string, opts ...SchemaOption) *Schema {
	s := &Schema{
		name:        name,
		idAttribute: DefaultIDAttribute,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// IDAttribute returns the name of the identifying attribute.
func (s *Schema) IDAttribute() string {
	return s.idAttribute
}

// Defaults returns a copy of the default attributes.
func (s *Schema) Defaults() Attributes {
	return maps.Clone(s.defaults)
}

// New builds a model from the defaults overlaid with attrs.
// No events fire during construction.
func (s *Schema) New(attrs Attributes, _ Options) *Model {
	merged := make(Attributes, len(s.defaults)+len(attrs))
	maps.Copy(merged, s.defaults)
	maps.Copy(merged, attrs)

	return &Model{
		schema: s,
		attrs:  merged,
	}
}

// Owns reports whether m was built from s.
func (s *Schema) Owns(m *Model) bool {
	return m != nil && m.schema == s
}
