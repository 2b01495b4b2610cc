package fixture

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// Registry maps qualified type names to model types. It replaces runtime
// reflection over loaded packages with an explicit table populated at test
// initialization, which is the only safe way to turn a name from a fixture
// file into a concrete Go type.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry creates an empty model registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]reflect.Type)}
}

// Register binds a qualified name to the struct type of model. model may be a
// struct value or a pointer to one.
func (r *Registry) Register(name string, model interface{}) error {
	if name == "" {
		return fmt.Errorf("register model: name must not be empty")
	}
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("register model %q: want a struct or struct pointer, got %T", name, model)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[name]; exists {
		return fmt.Errorf("register model %q: already registered", name)
	}
	r.types[name] = t
	return nil
}

// MustRegister is Register that panics on error, for test-setup call sites.
func (r *Registry) MustRegister(name string, model interface{}) {
	if err := r.Register(name, model); err != nil {
		panic(err)
	}
}

// New returns a pointer to a fresh zero value of the named model type.
// Returns *ModelNotFoundError for unknown names.
func (r *Registry) New(name string) (interface{}, error) {
	r.mu.RLock()
	t, ok := r.types[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &ModelNotFoundError{Model: name}
	}
	return reflect.New(t).Interface(), nil
}

// Names returns the registered qualified names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}

// decodeRecord assigns a record's fields onto a model instance. Fields match
// by `fixture` tag first, then by case-insensitive field name. Input is
// weakly typed so YAML/JSON numbers fit any numeric field, and unknown keys
// are an error so fixture typos surface instead of silently dropping data.
func decodeRecord(rec Record, instance interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           instance,
		TagName:          "fixture",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("build record decoder: %w", err)
	}
	if err := dec.Decode(map[string]interface{}(rec)); err != nil {
		return fmt.Errorf("assign record fields: %w", err)
	}
	return nil
}
