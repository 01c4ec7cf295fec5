package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"mobilepos/internal/domain"
)

// seedSnapshot is the dataset a fresh or reset ledger starts from.
// Seed secrets are plain text; they are hashed before the first save.
func seedSnapshot() domain.Snapshot {
	day := func(d int) domain.Date {
		return domain.NewDate(time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC))
	}

	return domain.Snapshot{
		Stores: []domain.Store{
			{ID: "store_1", Name: "Univercell Market", Location: "Downtown"},
			{ID: "store_2", Name: "AZ Store", Location: "Uptown"},
		},
		Users: []domain.User{
			{ID: "admin", Username: "admin", Secret: "123", Role: domain.RoleAdmin, Name: "Super Admin"},
			{ID: "user1", Username: "univercell", Secret: "123", Role: domain.RoleStoreUser, StoreID: "store_1", Name: "Univercell Manager"},
			{ID: "user2", Username: "azstore", Secret: "123", Role: domain.RoleStoreUser, StoreID: "store_2", Name: "AZ Manager"},
		},
		Vendors: []domain.Vendor{
			{ID: "v1", Name: "Global Mobiles Supply", Contact: "555-0101", TaxID: "GST12345", Address: "123 Supply St"},
			{ID: "v2", Name: "Tech Aggregators", Contact: "555-0102", TaxID: "GST67890", Address: "456 Tech Ave"},
		},
		Products: []domain.Product{
			{ID: "p1", Brand: "Samsung", Model: "Galaxy S24", Specs: "8GB/256GB", PurchasePrice: decimal.NewFromInt(70000), SalesPrice: decimal.NewFromInt(75000)},
			{ID: "p2", Brand: "Apple", Model: "iPhone 15", Specs: "128GB", PurchasePrice: decimal.NewFromInt(65000), SalesPrice: decimal.NewFromInt(72000)},
			{ID: "p3", Brand: "Xiaomi", Model: "Note 13", Specs: "6GB/128GB", PurchasePrice: decimal.NewFromInt(15000), SalesPrice: decimal.NewFromInt(18000)},
		},
		Inventory: []domain.InventoryRecord{
			{StoreID: "store_1", ProductID: "p1", Quantity: 10},
			{StoreID: "store_1", ProductID: "p2", Quantity: 5},
			{StoreID: "store_2", ProductID: "p1", Quantity: 8},
			{StoreID: "store_2", ProductID: "p3", Quantity: 20},
		},
		Transactions: []domain.Transaction{
			{ID: "t1", Type: domain.TxPurchase, StoreID: "store_1", VendorID: "v1", ProductID: "p1", Quantity: 10, Price: decimal.NewFromInt(70000), Date: day(1), Status: domain.PurchaseStatusApproved},
			{ID: "t2", Type: domain.TxSale, StoreID: "store_1", CustomerType: "Retail", ProductID: "p1", Quantity: 1, Price: decimal.NewFromInt(75000), Date: day(2)},
		},
		PettyCash: []domain.CashEntry{
			{ID: "pc1", StoreID: "store_1", Type: domain.CashCredit, Amount: decimal.NewFromInt(5000), Description: "Weekly Allowance from Admin", Date: day(1), By: "admin"},
			{ID: "pc2", StoreID: "store_1", Type: domain.CashDebit, Amount: decimal.NewFromInt(200), Description: "Tea & Snacks", Date: day(2), By: "user1"},
		},
	}
}
