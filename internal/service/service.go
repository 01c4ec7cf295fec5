package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"mobilepos/internal/auth"
	"mobilepos/internal/domain"
	"mobilepos/internal/ledger"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not permitted for this role")
)

const recentRows = 5

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// Service is the role-aware front of the ledger used by the admin and
// store screens. Admins see every store; a store user is pinned to its own.
type Service struct {
	ledger *ledger.Ledger
	auth   *auth.Manager
	log    zerolog.Logger
}

func New(l *ledger.Ledger, authManager *auth.Manager, log zerolog.Logger) *Service {
	return &Service{
		ledger: l,
		auth:   authManager,
		log:    log,
	}
}

func (s *Service) Login(ctx context.Context, username string, secret string) (domain.LoginResponse, error) {
	return s.auth.Login(ctx, username, secret)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.auth.Logout(ctx, token)
}

// Authorize resolves token and returns a context carrying the actor.
func (s *Service) Authorize(ctx context.Context, token string) (context.Context, error) {
	actor, err := s.auth.Authenticate(ctx, strings.TrimSpace(token))
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return WithActor(ctx, actor), nil
}

func (s *Service) Stores(ctx context.Context) ([]domain.Store, error) {
	if _, err := s.actor(ctx); err != nil {
		return nil, err
	}
	return s.ledger.Stores(ctx), nil
}

func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	if _, err := s.actor(ctx); err != nil {
		return nil, err
	}
	return s.ledger.Products(ctx), nil
}

func (s *Service) Vendors(ctx context.Context) ([]domain.Vendor, error) {
	if _, err := s.actor(ctx); err != nil {
		return nil, err
	}
	return s.ledger.Vendors(ctx), nil
}

func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	if _, err := s.admin(ctx); err != nil {
		return nil, err
	}
	return s.ledger.Users(ctx), nil
}

func (s *Service) AddProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if _, err := s.admin(ctx); err != nil {
		return nil, err
	}
	product, err := s.ledger.AddProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "", "product_create", product.ID)
	return product, nil
}

func (s *Service) AddVendor(ctx context.Context, in domain.VendorInput) (*domain.Vendor, error) {
	if _, err := s.admin(ctx); err != nil {
		return nil, err
	}
	vendor, err := s.ledger.AddVendor(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "", "vendor_create", vendor.ID)
	return vendor, nil
}

func (s *Service) AddStore(ctx context.Context, storeIn domain.StoreInput, userIn domain.UserInput) (*domain.StoreAccount, error) {
	if _, err := s.admin(ctx); err != nil {
		return nil, err
	}
	account, err := s.ledger.AddStore(ctx, storeIn, userIn)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, account.Store.ID, "store_create", account.User.ID)
	return account, nil
}

func (s *Service) Reset(ctx context.Context) error {
	if _, err := s.admin(ctx); err != nil {
		return err
	}
	if err := s.ledger.Reset(ctx); err != nil {
		return err
	}
	s.logAudit(ctx, "", "ledger_reset", "")
	return nil
}

// Inventory lists one store's stock. An admin passing no store gets the
// stock of every store.
func (s *Service) Inventory(ctx context.Context, storeID string) ([]domain.InventoryRow, error) {
	storeID, err := s.scopeStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if storeID == "" {
		return s.ledger.GetAllInventory(ctx), nil
	}
	return s.ledger.GetInventory(ctx, storeID), nil
}

func (s *Service) Transactions(ctx context.Context, storeID string) ([]domain.TransactionRow, error) {
	storeID, err := s.scopeStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.ledger.GetTransactions(ctx, storeID), nil
}

func (s *Service) PettyCash(ctx context.Context, storeID string) ([]domain.CashEntryRow, error) {
	storeID, err := s.scopeStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.ledger.GetPettyCash(ctx, storeID), nil
}

func (s *Service) CashBalance(ctx context.Context, storeID string) (decimal.Decimal, error) {
	storeID, err := s.scopeStore(ctx, storeID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.ledger.CashBalance(ctx, storeID), nil
}

// RecordSale records a sale only when the store has the stock for it.
func (s *Service) RecordSale(ctx context.Context, in domain.TransactionInput) (*domain.Transaction, error) {
	storeID, err := s.scopeStore(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	in.StoreID = storeID
	in.Type = domain.TxSale
	in.VendorID = ""

	tx, err := s.ledger.AddCheckedSale(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, tx.StoreID, "sale_create", tx.ID)
	return tx, nil
}

func (s *Service) RecordPurchase(ctx context.Context, in domain.TransactionInput) (*domain.Transaction, error) {
	storeID, err := s.scopeStore(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	in.StoreID = storeID
	in.Type = domain.TxPurchase
	in.CustomerType = ""
	if strings.TrimSpace(in.Status) == "" {
		in.Status = domain.PurchaseStatusApproved
	}

	tx, err := s.ledger.AddTransaction(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, tx.StoreID, "purchase_create", tx.ID)
	return tx, nil
}

// RecordCashEntry records a petty cash movement attributed to the caller.
func (s *Service) RecordCashEntry(ctx context.Context, in domain.CashEntryInput) (*domain.CashEntry, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	storeID, err := s.scopeStore(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	in.StoreID = storeID
	in.By = actor.UserID

	entry, err := s.ledger.AddPettyCash(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, entry.StoreID, "cash_entry_create", entry.ID)
	return entry, nil
}

func (s *Service) Report(ctx context.Context, kind string, storeID string) (domain.Report, error) {
	storeID, err := s.scopeStore(ctx, storeID)
	if err != nil {
		return domain.Report{}, err
	}
	return s.ledger.ReportData(ctx, kind, storeID), nil
}

// StoreDashboard summarizes one store: sales revenue, stock units, items
// below the low-stock threshold and the petty cash balance.
func (s *Service) StoreDashboard(ctx context.Context, storeID string) (domain.StoreDashboard, error) {
	storeID, err := s.scopeStore(ctx, storeID)
	if err != nil {
		return domain.StoreDashboard{}, err
	}
	if storeID == "" {
		return domain.StoreDashboard{}, fmt.Errorf("%w: store is required", ledger.ErrInvalidInput)
	}

	dash := domain.StoreDashboard{
		StoreID:      storeID,
		SalesRevenue: decimal.Zero,
		CashBalance:  s.ledger.CashBalance(ctx, storeID),
	}
	for _, row := range s.ledger.GetInventory(ctx, storeID) {
		dash.StockUnits += row.Quantity
		if row.Quantity < domain.LowStockThreshold {
			dash.LowStockItems++
		}
	}
	txs := s.ledger.GetTransactions(ctx, storeID)
	dash.SalesRevenue = salesRevenue(txs)
	dash.Recent = head(txs, recentRows)
	return dash, nil
}

func (s *Service) AdminDashboard(ctx context.Context) (domain.AdminDashboard, error) {
	if _, err := s.admin(ctx); err != nil {
		return domain.AdminDashboard{}, err
	}

	dash := domain.AdminDashboard{
		Stores:     len(s.ledger.Stores(ctx)),
		StockValue: decimal.Zero,
	}
	for _, row := range s.ledger.GetAllInventory(ctx) {
		dash.StockUnits += row.Quantity
		dash.StockValue = dash.StockValue.Add(row.PurchasePrice.Mul(decimal.NewFromInt(int64(row.Quantity))))
	}
	txs := s.ledger.GetTransactions(ctx, "")
	dash.SalesRevenue = salesRevenue(txs)
	dash.Recent = head(txs, recentRows)
	return dash, nil
}

func (s *Service) actor(ctx context.Context) (domain.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.UserID == "" {
		return domain.Actor{}, ErrUnauthenticated
	}
	return actor, nil
}

func (s *Service) admin(ctx context.Context) (domain.Actor, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return domain.Actor{}, err
	}
	if !actor.IsAdmin() {
		return domain.Actor{}, fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return actor, nil
}

// scopeStore resolves the store a call applies to. A store user always
// acts on its own store and may not name another.
func (s *Service) scopeStore(ctx context.Context, storeID string) (string, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return "", err
	}
	storeID = strings.TrimSpace(storeID)
	if actor.IsAdmin() {
		return storeID, nil
	}
	if actor.StoreID == "" {
		return "", fmt.Errorf("%w: user is not linked to a store", ErrForbidden)
	}
	if storeID != "" && storeID != actor.StoreID {
		return "", fmt.Errorf("%w: store %s", ErrForbidden, storeID)
	}
	return actor.StoreID, nil
}

func (s *Service) logAudit(ctx context.Context, storeID string, action string, entityID string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}
	s.log.Info().
		Str("actor", actor.Username).
		Str("role", actor.Role).
		Str("store_id", storeID).
		Str("action", action).
		Str("entity_id", entityID).
		Msg("audit")
}

func salesRevenue(rows []domain.TransactionRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		if row.Type == domain.TxSale {
			total = total.Add(row.Total())
		}
	}
	return total
}

func head(rows []domain.TransactionRow, n int) []domain.TransactionRow {
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
