package domain

import (
	"github.com/shopspring/decimal"
)

type Store struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Secret   string `json:"password,omitempty"`
	Role     string `json:"role"`
	StoreID  string `json:"storeId,omitempty"`
	Name     string `json:"name"`
}

type Vendor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	TaxID   string `json:"gst"`
	Address string `json:"address"`
}

type Product struct {
	ID            string          `json:"id"`
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	Specs         string          `json:"specs"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalesPrice    decimal.Decimal `json:"salesPrice"`
}

// DisplayName is the brand and model joined the way every view shows it.
func (p Product) DisplayName() string {
	return p.Brand + " " + p.Model
}

type InventoryRecord struct {
	StoreID   string `json:"storeId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type Transaction struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	StoreID      string          `json:"storeId"`
	ProductID    string          `json:"productId"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Date         Date            `json:"date"`
	VendorID     string          `json:"vendorId,omitempty"`
	CustomerType string          `json:"customerType,omitempty"`
	Status       string          `json:"status,omitempty"`
}

// Total is unit price times quantity.
func (t Transaction) Total() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

type CashEntry struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"storeId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	By          string          `json:"by"`
	Date        Date            `json:"date"`
}

// Signed returns the amount as it contributes to a running balance.
func (c CashEntry) Signed() decimal.Decimal {
	if c.Type == CashDebit {
		return c.Amount.Neg()
	}
	return c.Amount
}

// Snapshot is the single persisted document holding all ledger state.
type Snapshot struct {
	CurrentSession *User             `json:"currentSession"`
	Stores         []Store           `json:"stores"`
	Users          []User            `json:"users"`
	Vendors        []Vendor          `json:"vendors"`
	Products       []Product         `json:"products"`
	Inventory      []InventoryRecord `json:"inventory"`
	Transactions   []Transaction     `json:"transactions"`
	PettyCash      []CashEntry       `json:"pettyCash"`
}

type ProductInput struct {
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	Specs         string          `json:"specs"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalesPrice    decimal.Decimal `json:"salesPrice"`
}

type VendorInput struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	TaxID   string `json:"gst"`
	Address string `json:"address"`
}

type StoreInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StoreAccount is the result of the compound store + store user creation.
type StoreAccount struct {
	Store Store `json:"store"`
	User  User  `json:"user"`
}

type TransactionInput struct {
	Type         string          `json:"type"`
	StoreID      string          `json:"storeId"`
	ProductID    string          `json:"productId"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	VendorID     string          `json:"vendorId,omitempty"`
	CustomerType string          `json:"customerType,omitempty"`
	Status       string          `json:"status,omitempty"`
}

type CashEntryInput struct {
	StoreID     string          `json:"storeId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	By          string          `json:"by"`
}

// InventoryRow is an inventory record joined with its product and store.
type InventoryRow struct {
	InventoryRecord
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	Specs         string          `json:"specs"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalesPrice    decimal.Decimal `json:"salesPrice"`
	ProductName   string          `json:"productName"`
	StoreName     string          `json:"storeName,omitempty"`
}

type TransactionRow struct {
	Transaction
	ProductName string `json:"productName"`
	StoreName   string `json:"storeName"`
	VendorName  string `json:"vendorName"`
}

type CashEntryRow struct {
	CashEntry
	StoreName string `json:"storeName"`
}

// Report is returned by report aggregation. Content stays empty until
// concrete report kinds are defined.
type Report struct {
	Kind    string         `json:"kind"`
	StoreID string         `json:"storeId,omitempty"`
	Content map[string]any `json:"content"`
}

type StoreDashboard struct {
	StoreID       string           `json:"storeId"`
	SalesRevenue  decimal.Decimal  `json:"salesRevenue"`
	StockUnits    int              `json:"stockUnits"`
	LowStockItems int              `json:"lowStockItems"`
	CashBalance   decimal.Decimal  `json:"cashBalance"`
	Recent        []TransactionRow `json:"recent"`
}

type AdminDashboard struct {
	Stores       int              `json:"stores"`
	SalesRevenue decimal.Decimal  `json:"salesRevenue"`
	StockUnits   int              `json:"stockUnits"`
	StockValue   decimal.Decimal  `json:"stockValue"`
	Recent       []TransactionRow `json:"recent"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	StoreID     string `json:"store_id,omitempty"`
	ExpiresAt   string `json:"expires_at"`
}

// Actor is the authenticated principal behind a service call.
type Actor struct {
	UserID    string
	Username  string
	Role      string
	StoreID   string
	SessionID string
}

// IsAdmin reports whether the actor has cross-store visibility.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

const (
	RoleAdmin     = "admin"
	RoleStoreUser = "store_user"
)

const (
	TxSale     = "SALE"
	TxPurchase = "PURCHASE"
)

const (
	CashCredit = "CREDIT"
	CashDebit  = "DEBIT"
)

const (
	PurchaseStatusApproved = "Approved"
	UnknownName            = "Unknown"
	NoVendorName           = "—"
	LowStockThreshold      = 5
)
