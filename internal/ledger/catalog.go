package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"mobilepos/internal/auth"
	"mobilepos/internal/domain"
	"mobilepos/internal/xid"
)

func (l *Ledger) Stores(_ context.Context) []domain.Store {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.state.stores)
}

func (l *Ledger) Users(_ context.Context) []domain.User {
	l.mu.RLock()
	defer l.mu.RUnlock()

	users := make([]domain.User, 0, len(l.state.users))
	for _, u := range l.state.users {
		users = append(users, publicUser(u))
	}
	return users
}

func (l *Ledger) Vendors(_ context.Context) []domain.Vendor {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.state.vendors)
}

func (l *Ledger) Products(_ context.Context) []domain.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.state.products)
}

func (l *Ledger) AddProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	in.Specs = strings.TrimSpace(in.Specs)
	if in.Brand == "" || in.Model == "" {
		return nil, fmt.Errorf("%w: product brand and model are required", ErrInvalidInput)
	}
	if in.PurchasePrice.IsNegative() || in.SalesPrice.IsNegative() {
		return nil, fmt.Errorf("%w: product prices must not be negative", ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	product := domain.Product{
		ID:            xid.New("p"),
		Brand:         in.Brand,
		Model:         in.Model,
		Specs:         in.Specs,
		PurchasePrice: in.PurchasePrice,
		SalesPrice:    in.SalesPrice,
	}
	next := l.state.clone()
	next.addProduct(product)
	if err := l.commit(ctx, next); err != nil {
		return nil, err
	}

	l.log.Info().Str("product_id", product.ID).Str("name", product.DisplayName()).Msg("product added")
	return &product, nil
}

func (l *Ledger) AddVendor(ctx context.Context, in domain.VendorInput) (*domain.Vendor, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: vendor name is required", ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	vendor := domain.Vendor{
		ID:      xid.New("v"),
		Name:    in.Name,
		Contact: strings.TrimSpace(in.Contact),
		TaxID:   strings.TrimSpace(in.TaxID),
		Address: strings.TrimSpace(in.Address),
	}
	next := l.state.clone()
	next.addVendor(vendor)
	if err := l.commit(ctx, next); err != nil {
		return nil, err
	}

	l.log.Info().Str("vendor_id", vendor.ID).Msg("vendor added")
	return &vendor, nil
}

// AddStore creates a store and its store_user account as one write.
// Neither is kept if the username is taken or the save fails.
func (l *Ledger) AddStore(ctx context.Context, storeIn domain.StoreInput, userIn domain.UserInput) (*domain.StoreAccount, error) {
	storeIn.Name = strings.TrimSpace(storeIn.Name)
	storeIn.Location = strings.TrimSpace(storeIn.Location)
	userIn.Username = strings.TrimSpace(userIn.Username)
	if storeIn.Name == "" {
		return nil, fmt.Errorf("%w: store name is required", ErrInvalidInput)
	}
	if userIn.Username == "" || strings.ContainsAny(userIn.Username, " \t\r\n") {
		return nil, fmt.Errorf("%w: username must be non-empty without spaces", ErrInvalidInput)
	}
	if strings.TrimSpace(userIn.Password) == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	secret, err := auth.HashSecret(userIn.Password, l.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.state.usernameIdx[userIn.Username]; taken {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateUsername, userIn.Username)
	}

	st := domain.Store{
		ID:       xid.New("store"),
		Name:     storeIn.Name,
		Location: storeIn.Location,
	}
	user := domain.User{
		ID:       xid.New("user"),
		Username: userIn.Username,
		Secret:   secret,
		Role:     domain.RoleStoreUser,
		StoreID:  st.ID,
		Name:     st.Name + " Manager",
	}

	next := l.state.clone()
	next.addStore(st)
	next.addUser(user)
	if err := l.commit(ctx, next); err != nil {
		return nil, err
	}

	l.log.Info().Str("store_id", st.ID).Str("username", user.Username).Msg("store and store user created")
	return &domain.StoreAccount{Store: st, User: publicUser(user)}, nil
}
