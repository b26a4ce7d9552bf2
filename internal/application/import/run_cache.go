package importapp

import "github.com/amazonstore/backend/internal/domain/store"

// runCache remembers entities already resolved during one import run,
// keyed by natural key. It lives only as long as the run.
type runCache struct {
	customers  map[string]*store.Customer
	sellers    map[string]*store.Seller
	brands     map[string]*store.Brand
	categories map[string]*store.Category
	products   map[string]*store.Product
}

func newRunCache() *runCache {
	return &runCache{
		customers:  make(map[string]*store.Customer),
		sellers:    make(map[string]*store.Seller),
		brands:     make(map[string]*store.Brand),
		categories: make(map[string]*store.Category),
		products:   make(map[string]*store.Product),
	}
}
