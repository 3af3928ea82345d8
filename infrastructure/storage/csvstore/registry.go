package csvstore

import (
	"fmt"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// Registry mantém um Store por dataset habilitado
type Registry struct {
	stores map[string]*Store
	names  []string
}

// OpenRegistry abre os stores dos datasets informados, na ordem recebida
func OpenRegistry(dir string, datasets []domain.Dataset, policy domain.SchemaPolicy) (*Registry, error) {
	r := &Registry{stores: make(map[string]*Store, len(datasets))}

	for _, ds := range datasets {
		if _, exists := r.stores[ds.Name]; exists {
			return nil, fmt.Errorf("dataset duplicado: %s", ds.Name)
		}

		store, err := Open(dir, ds, policy)
		if err != nil {
			return nil, fmt.Errorf("erro ao abrir dataset %s: %w", ds.Name, err)
		}

		r.stores[ds.Name] = store
		r.names = append(r.names, ds.Name)
	}

	return r, nil
}

func (r *Registry) Get(name string) (*Store, bool) {
	s, ok := r.stores[name]
	return s, ok
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) All() []*Store {
	stores := make([]*Store, 0, len(r.names))
	for _, name := range r.names {
		stores = append(stores, r.stores[name])
	}
	return stores
}
