package ledger

import (
	"slices"

	"mobilepos/internal/domain"
)

type stockKey struct {
	storeID   string
	productID string
}

// state is the normalized dataset plus id indexes so joins are map lookups.
type state struct {
	session      *domain.User
	stores       []domain.Store
	users        []domain.User
	vendors      []domain.Vendor
	products     []domain.Product
	inventory    []domain.InventoryRecord
	transactions []domain.Transaction
	pettyCash    []domain.CashEntry

	storeIdx    map[string]int
	userIdx     map[string]int
	usernameIdx map[string]int
	vendorIdx   map[string]int
	productIdx  map[string]int
	stockIdx    map[stockKey]int
}

// newState indexes snap. Duplicate (store, product) inventory rows are
// merged so at most one record per pair survives.
func newState(snap domain.Snapshot) *state {
	s := &state{
		stores:       slices.Clone(snap.Stores),
		users:        slices.Clone(snap.Users),
		vendors:      slices.Clone(snap.Vendors),
		products:     slices.Clone(snap.Products),
		transactions: slices.Clone(snap.Transactions),
		pettyCash:    slices.Clone(snap.PettyCash),
		inventory:    make([]domain.InventoryRecord, 0, len(snap.Inventory)),
	}
	if snap.CurrentSession != nil {
		session := *snap.CurrentSession
		s.session = &session
	}

	s.storeIdx = make(map[string]int, len(s.stores))
	for i, st := range s.stores {
		s.storeIdx[st.ID] = i
	}
	s.userIdx = make(map[string]int, len(s.users))
	s.usernameIdx = make(map[string]int, len(s.users))
	for i, u := range s.users {
		s.userIdx[u.ID] = i
		s.usernameIdx[u.Username] = i
	}
	s.vendorIdx = make(map[string]int, len(s.vendors))
	for i, v := range s.vendors {
		s.vendorIdx[v.ID] = i
	}
	s.productIdx = make(map[string]int, len(s.products))
	for i, p := range s.products {
		s.productIdx[p.ID] = i
	}
	s.stockIdx = make(map[stockKey]int, len(snap.Inventory))
	for _, rec := range snap.Inventory {
		key := stockKey{storeID: rec.StoreID, productID: rec.ProductID}
		if i, ok := s.stockIdx[key]; ok {
			s.inventory[i].Quantity += rec.Quantity
			continue
		}
		s.stockIdx[key] = len(s.inventory)
		s.inventory = append(s.inventory, rec)
	}
	return s
}

func (s *state) snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Stores:       slices.Clone(s.stores),
		Users:        slices.Clone(s.users),
		Vendors:      slices.Clone(s.vendors),
		Products:     slices.Clone(s.products),
		Inventory:    slices.Clone(s.inventory),
		Transactions: slices.Clone(s.transactions),
		PettyCash:    slices.Clone(s.pettyCash),
	}
	if s.session != nil {
		session := *s.session
		snap.CurrentSession = &session
	}
	return snap
}

func (s *state) clone() *state {
	return newState(s.snapshot())
}

func (s *state) store(id string) (domain.Store, bool) {
	i, ok := s.storeIdx[id]
	if !ok {
		return domain.Store{}, false
	}
	return s.stores[i], true
}

func (s *state) product(id string) (domain.Product, bool) {
	i, ok := s.productIdx[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

func (s *state) vendor(id string) (domain.Vendor, bool) {
	i, ok := s.vendorIdx[id]
	if !ok {
		return domain.Vendor{}, false
	}
	return s.vendors[i], true
}

func (s *state) quantity(storeID string, productID string) int {
	i, ok := s.stockIdx[stockKey{storeID: storeID, productID: productID}]
	if !ok {
		return 0
	}
	return s.inventory[i].Quantity
}

// applyStock is the stock mutation rule: add delta to the existing record,
// create one only for a positive delta, otherwise do nothing.
func (s *state) applyStock(storeID string, productID string, delta int) {
	key := stockKey{storeID: storeID, productID: productID}
	if i, ok := s.stockIdx[key]; ok {
		s.inventory[i].Quantity += delta
		return
	}
	if delta <= 0 {
		return
	}
	s.stockIdx[key] = len(s.inventory)
	s.inventory = append(s.inventory, domain.InventoryRecord{StoreID: storeID, ProductID: productID, Quantity: delta})
}

func (s *state) addStore(st domain.Store) {
	s.storeIdx[st.ID] = len(s.stores)
	s.stores = append(s.stores, st)
}

func (s *state) addUser(u domain.User) {
	s.userIdx[u.ID] = len(s.users)
	s.usernameIdx[u.Username] = len(s.users)
	s.users = append(s.users, u)
}

func (s *state) addVendor(v domain.Vendor) {
	s.vendorIdx[v.ID] = len(s.vendors)
	s.vendors = append(s.vendors, v)
}

func (s *state) addProduct(p domain.Product) {
	s.productIdx[p.ID] = len(s.products)
	s.products = append(s.products, p)
}
