package database

import (
	"fmt"
	"sync"

	"github.com/sefazor/imaginet-backend/internal/models"
	"gorm.io/gorm"
)

// Registry holds the persisted models keyed by entity name. It is built
// once at startup; registering the same name twice is an error.
type Registry struct {
	mu     sync.RWMutex
	names  []string
	models map[string]interface{}
}

func NewRegistry() *Registry {
	return &Registry{models: make(map[string]interface{})}
}

func (r *Registry) Register(name string, model interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[name]; exists {
		return fmt.Errorf("model %q already registered", name)
	}
	r.models[name] = model
	r.names = append(r.names, name)
	return nil
}

func (r *Registry) Lookup(name string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[name]
	return m, ok
}

// Models returns the registered models in registration order.
func (r *Registry) Models() []interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]interface{}, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.models[name])
	}
	return out
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.names...)
}

func (r *Registry) Migrate(db *gorm.DB) error {
	for _, name := range r.Names() {
		model, _ := r.Lookup(name)
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %s: %w", name, err)
		}
	}
	return nil
}

var (
	defaultRegistry *Registry
	registryOnce    sync.Once
)

// DefaultRegistry returns the application's entity registry.
func DefaultRegistry() *Registry {
	registryOnce.Do(func() {
		r := NewRegistry()
		// Sıra önemli değil ama migration çıktısı okunaklı kalsın
		_ = r.Register("User", &models.User{})
		_ = r.Register("Image", &models.Image{})
		_ = r.Register("Transaction", &models.Transaction{})
		defaultRegistry = r
	})
	return defaultRegistry
}
