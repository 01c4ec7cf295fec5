package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mobilepos/internal/domain"
	"mobilepos/internal/store/memory"
)

var fixedNow = time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)

func newTestLedger(t *testing.T) (*Ledger, *memory.Store) {
	t.Helper()
	docs := memory.New()
	l, err := New(context.Background(), docs, testOptions()...)
	require.NoError(t, err)
	return l, docs
}

func testOptions() []Option {
	return []Option{
		WithHashCost(bcrypt.MinCost),
		WithClock(func() time.Time { return fixedNow }),
	}
}

func decimalOf(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// flakyStore wraps a memory store and fails Save while broken is set.
type flakyStore struct {
	*memory.Store
	broken bool
}

func (f *flakyStore) Save(ctx context.Context, document []byte) error {
	if f.broken {
		return errors.New("disk full")
	}
	return f.Store.Save(ctx, document)
}

func TestNewFallsBackToSeedAndPersistsIt(t *testing.T) {
	l, docs := newTestLedger(t)
	ctx := context.Background()

	assert.Equal(t, 1, docs.Saves())
	assert.Len(t, l.Stores(ctx), 2)
	assert.Len(t, l.Users(ctx), 3)
	assert.Len(t, l.Vendors(ctx), 2)
	assert.Len(t, l.Products(ctx), 3)
	assert.Nil(t, l.CurrentUser(ctx))

	body, err := docs.Load(ctx)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	for _, key := range []string{"currentSession", "stores", "users", "vendors", "products", "inventory", "transactions", "pettyCash"} {
		assert.Contains(t, raw, key)
	}

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	for _, u := range snap.Users {
		assert.NotEqual(t, "123", u.Secret, "seed secrets must be hashed before saving")
	}
}

func TestReloadKeepsSavedStateInsteadOfSeed(t *testing.T) {
	ctx := context.Background()
	l, docs := newTestLedger(t)

	product, err := l.AddProduct(ctx, domain.ProductInput{Brand: "Google", Model: "Pixel 8"})
	require.NoError(t, err)

	reloaded, err := New(ctx, docs, testOptions()...)
	require.NoError(t, err)

	products := reloaded.Products(ctx)
	require.Len(t, products, 4)
	assert.Equal(t, product.ID, products[3].ID)
}

func TestNewRejectsCorruptDocument(t *testing.T) {
	_, err := New(context.Background(), memory.NewWithDocument([]byte("{not json")), testOptions()...)
	require.ErrorIs(t, err, ErrCorruptDocument)
}

func TestPurchaseThenSalesScenario(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	account, err := l.AddStore(ctx, domain.StoreInput{Name: "Empty Store"}, domain.UserInput{Username: "empty", Password: "pw"})
	require.NoError(t, err)
	storeID := account.Store.ID
	require.Empty(t, l.GetInventory(ctx, storeID))

	_, err = l.AddTransaction(ctx, domain.TransactionInput{Type: domain.TxPurchase, StoreID: storeID, ProductID: "p1", Quantity: 10, VendorID: "v1"})
	require.NoError(t, err)
	assertQuantity(t, l, storeID, "p1", 10)

	_, err = l.AddTransaction(ctx, domain.TransactionInput{Type: domain.TxSale, StoreID: storeID, ProductID: "p1", Quantity: 3})
	require.NoError(t, err)
	assertQuantity(t, l, storeID, "p1", 7)

	_, err = l.AddTransaction(ctx, domain.TransactionInput{Type: domain.TxSale, StoreID: storeID, ProductID: "p1", Quantity: 7})
	require.NoError(t, err)
	assertQuantity(t, l, storeID, "p1", 0)
}

func assertQuantity(t *testing.T, l *Ledger, storeID string, productID string, want int) {
	t.Helper()
	rows := l.GetInventory(context.Background(), storeID)
	for _, row := range rows {
		if row.ProductID == productID {
			assert.Equal(t, want, row.Quantity)
			return
		}
	}
	require.Failf(t, "missing inventory row", "%s/%s", storeID, productID)
}

func TestInventoryIsNetOfPurchasesAndSales(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	account, err := l.AddStore(ctx, domain.StoreInput{Name: "Prop Store"}, domain.UserInput{Username: "prop", Password: "pw"})
	require.NoError(t, err)
	storeID := account.Store.ID

	steps := []struct {
		txType string
		qty    int
	}{
		{domain.TxPurchase, 12}, {domain.TxSale, 5}, {domain.TxPurchase, 3}, {domain.TxSale, 9},
		{domain.TxSale, 4}, {domain.TxPurchase, 20}, {domain.TxSale, 1}, {domain.TxPurchase, 2},
	}
	want := 0
	for _, step := range steps {
		_, err := l.AddTransaction(ctx, domain.TransactionInput{Type: step.txType, StoreID: storeID, ProductID: "p3", Quantity: step.qty})
		require.NoError(t, err)
		if step.txType == domain.TxPurchase {
			want += step.qty
		} else {
			want -= step.qty
		}
	}

	assert.Equal(t, want, l.StockLevel(ctx, storeID, "p3"))
	assert.Len(t, l.GetInventory(ctx, storeID), 1, "one record per store/product pair")
}

func TestRepeatedSaleIsRecordedTwice(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	sale := domain.TransactionInput{Type: domain.TxSale, StoreID: "store_1", ProductID: "p2", Quantity: 2, CustomerType: "Retail"}
	first, err := l.AddTransaction(ctx, sale)
	require.NoError(t, err)
	second, err := l.AddTransaction(ctx, sale)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, l.StockLevel(ctx, "store_1", "p2"))
	assert.Len(t, l.GetTransactions(ctx, "store_1"), 4)
}

func TestEngineAssignsIDAndDate(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	tx, err := l.AddTransaction(ctx, domain.TransactionInput{Type: "purchase", StoreID: "store_2", ProductID: "p2", Quantity: 4, VendorID: "v2"})
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, fixedNow, tx.Date.Time)
	assert.Equal(t, domain.TxPurchase, tx.Type)
	assert.Equal(t, domain.PurchaseStatusApproved, tx.Status)
	assert.True(t, tx.Price.Equal(l.Products(ctx)[1].PurchasePrice), "zero price falls back to catalog purchase price")
}

func TestSaleWithoutRecordCreatesNoPhantomStock(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.AddTransaction(ctx, domain.TransactionInput{Type: domain.TxSale, StoreID: "store_2", ProductID: "p2", Quantity: 1})
	require.NoError(t, err)

	for _, row := range l.GetInventory(ctx, "store_2") {
		assert.NotEqual(t, "p2", row.ProductID)
	}
	assert.Zero(t, l.StockLevel(ctx, "store_2", "p2"))
	assert.Len(t, l.GetTransactions(ctx, "store_2"), 1)
}

func TestUncheckedSaleMayDriveStockNegative(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.AddTransaction(ctx, domain.TransactionInput{Type: domain.TxSale, StoreID: "store_1", ProductID: "p2", Quantity: 8})
	require.NoError(t, err)
	assert.Equal(t, -3, l.StockLevel(ctx, "store_1", "p2"))
}

func TestCheckedSaleRejectsInsufficientStock(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.AddCheckedSale(ctx, domain.TransactionInput{StoreID: "store_1", ProductID: "p2", Quantity: 6})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 5, l.StockLevel(ctx, "store_1", "p2"))
	assert.Len(t, l.GetTransactions(ctx, "store_1"), 2)

	_, err = l.AddCheckedSale(ctx, domain.TransactionInput{Type: domain.TxPurchase, StoreID: "store_1", ProductID: "p2", Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidInput)

	tx, err := l.AddCheckedSale(ctx, domain.TransactionInput{StoreID: "store_1", ProductID: "p2", Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, domain.TxSale, tx.Type)
	assert.Zero(t, l.StockLevel(ctx, "store_1", "p2"))
}

func TestConcurrentCheckedSalesNeverOversell(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	const attempts = 25
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		sold     int
		rejected int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.AddCheckedSale(ctx, domain.TransactionInput{StoreID: "store_1", ProductID: "p1", Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				sold++
			case errors.Is(err, ErrInsufficientStock):
				rejected++
			default:
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, sold)
	assert.Equal(t, attempts-10, rejected)
	assert.Zero(t, l.StockLevel(ctx, "store_1", "p1"))
}

func TestTransactionValidation(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	cases := []struct {
		name string
		in   domain.TransactionInput
		want error
	}{
		{"unknown type", domain.TransactionInput{Type: "REFUND", StoreID: "store_1", ProductID: "p1", Quantity: 1}, ErrInvalidInput},
		{"zero quantity", domain.TransactionInput{Type: domain.TxSale, StoreID: "store_1", ProductID: "p1"}, ErrInvalidInput},
		{"negative quantity", domain.TransactionInput{Type: domain.TxPurchase, StoreID: "store_1", ProductID: "p1", Quantity: -4}, ErrInvalidInput},
		{"unknown store", domain.TransactionInput{Type: domain.TxSale, StoreID: "store_9", ProductID: "p1", Quantity: 1}, ErrUnknownReference},
		{"unknown product", domain.TransactionInput{Type: domain.TxSale, StoreID: "store_1", ProductID: "p9", Quantity: 1}, ErrUnknownReference},
		{"unknown vendor", domain.TransactionInput{Type: domain.TxPurchase, StoreID: "store_1", ProductID: "p1", Quantity: 1, VendorID: "v9"}, ErrUnknownReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.AddTransaction(ctx, tc.in)
			require.ErrorIs(t, err, tc.want)
		})
	}

	assert.Len(t, l.GetTransactions(ctx, ""), 2)
	assert.Equal(t, 10, l.StockLevel(ctx, "store_1", "p1"))
}

func TestFailedSaveLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	docs := &flakyStore{Store: memory.New()}
	l, err := New(ctx, docs, testOptions()...)
	require.NoError(t, err)

	docs.broken = true

	_, err = l.AddTransaction(ctx, domain.TransactionInput{Type: domain.TxSale, StoreID: "store_1", ProductID: "p1", Quantity: 2})
	require.Error(t, err)
	assert.Equal(t, 10, l.StockLevel(ctx, "store_1", "p1"))
	assert.Len(t, l.GetTransactions(ctx, ""), 2)

	_, err = l.AddStore(ctx, domain.StoreInput{Name: "Half"}, domain.UserInput{Username: "half", Password: "pw"})
	require.Error(t, err)
	assert.Len(t, l.Stores(ctx), 2)
	assert.Len(t, l.Users(ctx), 3)

	docs.broken = false
	_, err = l.AddStore(ctx, domain.StoreInput{Name: "Half"}, domain.UserInput{Username: "half", Password: "pw"})
	require.NoError(t, err)
}

func TestHistoryViewsAreNewestFirst(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	var ids []string
	for _, qty := range []int{1, 2, 3} {
		tx, err := l.AddTransaction(ctx, domain.TransactionInput{Type: domain.TxPurchase, StoreID: "store_2", ProductID: "p3", Quantity: qty, VendorID: "v2"})
		require.NoError(t, err)
		ids = append(ids, tx.ID)
	}

	rows := l.GetTransactions(ctx, "store_2")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
	assert.Equal(t, "Tech Aggregators", rows[0].VendorName)
	assert.Equal(t, "AZ Store", rows[0].StoreName)
	assert.Equal(t, "Xiaomi Note 13", rows[0].ProductName)

	all := l.GetTransactions(ctx, "")
	require.Len(t, all, 5)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, "t1", all[4].ID)
	assert.Equal(t, domain.NoVendorName, all[3].VendorName, "sales have no vendor")

	entry, err := l.AddPettyCash(ctx, domain.CashEntryInput{StoreID: "store_1", Type: domain.CashDebit, Amount: decimalOf(50), Description: "Courier", By: "user1"})
	require.NoError(t, err)
	cash := l.GetPettyCash(ctx, "store_1")
	require.Len(t, cash, 3)
	assert.Equal(t, entry.ID, cash[0].ID)
	assert.Equal(t, "pc1", cash[2].ID)
	assert.Equal(t, "Univercell Market", cash[0].StoreName)
}

func TestCashBalanceScenario(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	account, err := l.AddStore(ctx, domain.StoreInput{Name: "Cash Store"}, domain.UserInput{Username: "cash", Password: "pw"})
	require.NoError(t, err)
	storeID := account.Store.ID

	_, err = l.AddPettyCash(ctx, domain.CashEntryInput{StoreID: storeID, Type: domain.CashCredit, Amount: decimalOf(5000), Description: "Float"})
	require.NoError(t, err)
	_, err = l.AddPettyCash(ctx, domain.CashEntryInput{StoreID: storeID, Type: "debit", Amount: decimalOf(200), Description: "Tea"})
	require.NoError(t, err)

	assert.True(t, l.CashBalance(ctx, storeID).Equal(decimalOf(4800)))
	assert.True(t, l.CashBalance(ctx, "store_1").Equal(decimalOf(4800)), "seeded store balance")
	assert.True(t, l.CashBalance(ctx, "").Equal(decimalOf(9600)))
	assert.True(t, l.CashBalance(ctx, "store_2").IsZero())
}

func TestCashEntryValidation(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.AddPettyCash(ctx, domain.CashEntryInput{StoreID: "store_1", Type: domain.CashCredit})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = l.AddPettyCash(ctx, domain.CashEntryInput{StoreID: "store_1", Type: "TRANSFER", Amount: decimalOf(5)})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = l.AddPettyCash(ctx, domain.CashEntryInput{StoreID: "nowhere", Type: domain.CashCredit, Amount: decimalOf(5)})
	require.ErrorIs(t, err, ErrUnknownReference)

	assert.Len(t, l.GetPettyCash(ctx, ""), 2)
}

func TestJoinsDegradeOnDanglingReferences(t *testing.T) {
	ctx := context.Background()
	snap := seedSnapshot()
	snap.Inventory = append(snap.Inventory, domain.InventoryRecord{StoreID: "store_1", ProductID: "p-gone", Quantity: 4})
	snap.Inventory = append(snap.Inventory, domain.InventoryRecord{StoreID: "store-gone", ProductID: "p1", Quantity: 2})
	snap.Transactions = append(snap.Transactions, domain.Transaction{
		ID: "t-orphan", Type: domain.TxPurchase, StoreID: "store-gone", ProductID: "p-gone", VendorID: "v-gone", Quantity: 1, Date: domain.NewDate(fixedNow),
	})
	snap.PettyCash = append(snap.PettyCash, domain.CashEntry{ID: "pc-orphan", StoreID: "store-gone", Type: domain.CashCredit, Amount: decimalOf(1), Date: domain.NewDate(fixedNow)})
	body, err := json.Marshal(snap)
	require.NoError(t, err)

	l, err := New(ctx, memory.NewWithDocument(body), testOptions()...)
	require.NoError(t, err)

	for _, row := range l.GetInventory(ctx, "store_1") {
		assert.NotEqual(t, "p-gone", row.ProductID)
	}
	all := l.GetAllInventory(ctx)
	require.Len(t, all, 5)
	assert.Equal(t, domain.UnknownName, all[4].StoreName)

	txs := l.GetTransactions(ctx, "")
	require.Equal(t, "t-orphan", txs[0].ID)
	assert.Equal(t, domain.UnknownName, txs[0].ProductName)
	assert.Equal(t, domain.UnknownName, txs[0].StoreName)
	assert.Equal(t, domain.NoVendorName, txs[0].VendorName)

	cash := l.GetPettyCash(ctx, "")
	assert.Equal(t, domain.UnknownName, cash[0].StoreName)
}

func TestDuplicateInventoryRowsAreMergedOnLoad(t *testing.T) {
	ctx := context.Background()
	snap := seedSnapshot()
	snap.Inventory = append(snap.Inventory, domain.InventoryRecord{StoreID: "store_1", ProductID: "p1", Quantity: 3})
	body, err := json.Marshal(snap)
	require.NoError(t, err)

	l, err := New(ctx, memory.NewWithDocument(body), testOptions()...)
	require.NoError(t, err)

	assert.Len(t, l.GetInventory(ctx, "store_1"), 2)
	assert.Equal(t, 13, l.StockLevel(ctx, "store_1", "p1"))
}

func TestGlobalInventoryCarriesStoreNames(t *testing.T) {
	l, _ := newTestLedger(t)

	rows := l.GetAllInventory(context.Background())
	require.Len(t, rows, 4)
	assert.Equal(t, "Univercell Market", rows[0].StoreName)
	assert.Equal(t, "Samsung Galaxy S24", rows[0].ProductName)
	assert.Equal(t, "AZ Store", rows[3].StoreName)
	assert.Equal(t, 20, rows[3].Quantity)
}

func TestAddStoreCreatesLinkedStoreUser(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	account, err := l.AddStore(ctx, domain.StoreInput{Name: "X"}, domain.UserInput{Username: "x1", Password: "p"})
	require.NoError(t, err)

	assert.Equal(t, "X", account.Store.Name)
	assert.Equal(t, account.Store.ID, account.User.StoreID)
	assert.Equal(t, domain.RoleStoreUser, account.User.Role)
	assert.Equal(t, "X Manager", account.User.Name)
	assert.Empty(t, account.User.Secret)

	var found bool
	for _, u := range l.Users(ctx) {
		if u.Username == "x1" {
			found = true
			assert.Equal(t, domain.RoleStoreUser, u.Role)
		}
	}
	assert.True(t, found)

	user, err := l.Login(ctx, "x1", "p")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, account.Store.ID, user.StoreID)
}

func TestAddStoreRejectsTakenUsername(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.AddStore(ctx, domain.StoreInput{Name: "Clone"}, domain.UserInput{Username: "azstore", Password: "p"})
	require.ErrorIs(t, err, ErrDuplicateUsername)
	assert.Len(t, l.Stores(ctx), 2)

	_, err = l.AddStore(ctx, domain.StoreInput{}, domain.UserInput{Username: "someone", Password: "p"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalogInserts(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	product, err := l.AddProduct(ctx, domain.ProductInput{Brand: "OnePlus", Model: "12", Specs: "12GB/256GB", PurchasePrice: decimalOf(50000), SalesPrice: decimalOf(56000)})
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)

	vendor, err := l.AddVendor(ctx, domain.VendorInput{Name: "Metro Distributors", TaxID: "GST555"})
	require.NoError(t, err)

	_, err = l.AddTransaction(ctx, domain.TransactionInput{Type: domain.TxPurchase, StoreID: "store_2", ProductID: product.ID, Quantity: 6, VendorID: vendor.ID})
	require.NoError(t, err)
	assert.Equal(t, 6, l.StockLevel(ctx, "store_2", product.ID))

	_, err = l.AddProduct(ctx, domain.ProductInput{Brand: "NoModel"})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = l.AddVendor(ctx, domain.VendorInput{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginAndSession(t *testing.T) {
	ctx := context.Background()
	l, docs := newTestLedger(t)

	user, err := l.Login(ctx, "admin", "wrong")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = l.Login(ctx, "ghost", "123")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = l.Login(ctx, "univercell", "123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "store_1", user.StoreID)

	current := l.CurrentUser(ctx)
	require.NotNil(t, current)
	assert.Equal(t, "user1", current.ID)

	reloaded, err := New(ctx, docs, testOptions()...)
	require.NoError(t, err)
	require.NotNil(t, reloaded.CurrentUser(ctx), "session survives reload")

	require.NoError(t, l.Logout(ctx, "user1"))
	assert.Nil(t, l.CurrentUser(ctx))
}

func TestLogoutKeepsAnotherUsersSession(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.Login(ctx, "univercell", "123")
	require.NoError(t, err)
	_, err = l.Login(ctx, "admin", "123")
	require.NoError(t, err)

	require.NoError(t, l.Logout(ctx, "user1"))
	current := l.CurrentUser(ctx)
	require.NotNil(t, current)
	assert.Equal(t, "admin", current.ID)

	require.NoError(t, l.Logout(ctx, "admin"))
	assert.Nil(t, l.CurrentUser(ctx))
}

const browserDocument = `{
	"currentSession": null,
	"stores": [{"id": "store_1", "name": "Univercell Market", "location": "Downtown"}],
	"users": [
		{"id": "admin", "username": "admin", "password": "123", "role": "admin", "name": "Super Admin"},
		{"id": "user1", "username": "univercell", "password": "123", "role": "store_user", "storeId": "store_1", "name": "Univercell Manager"}
	],
	"vendors": [{"id": "v1", "name": "Global Mobiles Supply", "contact": "555-0101", "gst": "GST12345", "address": "123 Supply St"}],
	"products": [{"id": "p1", "brand": "Samsung", "model": "Galaxy S24", "specs": "8GB/256GB", "purchasePrice": 70000, "salesPrice": 75000.5}],
	"inventory": [{"storeId": "store_1", "productId": "p1", "quantity": 9}],
	"transactions": [
		{"id": "t1", "type": "PURCHASE", "storeId": "store_1", "vendorId": "v1", "productId": "p1", "quantity": 10, "price": 70000, "date": "2024-05-01", "status": "Approved"},
		{"id": "t1717400000000", "type": "SALE", "storeId": "store_1", "customerType": "Retail", "productId": "p1", "quantity": 1, "price": 75000.5, "date": "2024-06-03"}
	],
	"pettyCash": [
		{"id": "pc1", "storeId": "store_1", "type": "CREDIT", "amount": 5000, "description": "Weekly Allowance from Admin", "date": "2024-05-01", "by": "admin"},
		{"id": "pc2", "storeId": "store_1", "type": "DEBIT", "amount": 200.25, "description": "Tea & Snacks", "date": "2024-05-02", "by": "user1"}
	]
}`

func TestLoadsDocumentWithDateOnlyValues(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewWithDocument([]byte(browserDocument))

	l, err := New(ctx, docs, testOptions()...)
	require.NoError(t, err)

	txs := l.GetTransactions(ctx, "store_1")
	require.Len(t, txs, 2)
	assert.Equal(t, "t1717400000000", txs[0].ID)
	assert.True(t, txs[0].Date.Equal(time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)))
	assert.True(t, txs[0].Price.Equal(decimal.RequireFromString("75000.5")))
	assert.Equal(t, "Global Mobiles Supply", txs[1].VendorName)

	cash := l.GetPettyCash(ctx, "store_1")
	require.Len(t, cash, 2)
	assert.True(t, cash[1].Date.Equal(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, l.CashBalance(ctx, "store_1").Equal(decimal.RequireFromString("4799.75")))

	assert.Equal(t, "GST12345", l.Vendors(ctx)[0].TaxID)
	assert.Equal(t, 9, l.StockLevel(ctx, "store_1", "p1"))

	user, err := l.Login(ctx, "univercell", "123")
	require.NoError(t, err)
	require.NotNil(t, user, "plain-text secrets from the document still sign in")

	// The upgraded document is written back with full timestamps and reloads.
	reloaded, err := New(ctx, docs, testOptions()...)
	require.NoError(t, err)
	assert.Len(t, reloaded.GetTransactions(ctx, ""), 2)
}

func TestResetRestoresSeed(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.AddStore(ctx, domain.StoreInput{Name: "Temp"}, domain.UserInput{Username: "temp", Password: "pw"})
	require.NoError(t, err)
	_, err = l.AddTransaction(ctx, domain.TransactionInput{Type: domain.TxSale, StoreID: "store_1", ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, l.Reset(ctx))

	assert.Len(t, l.Stores(ctx), 2)
	assert.Len(t, l.GetTransactions(ctx, ""), 2)
	assert.Equal(t, 10, l.StockLevel(ctx, "store_1", "p1"))

	user, err := l.Login(ctx, "admin", "123")
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestReportDataIsEmpty(t *testing.T) {
	l, _ := newTestLedger(t)

	report := l.ReportData(context.Background(), "sales", "store_1")
	assert.Equal(t, "sales", report.Kind)
	assert.Empty(t, report.Content)
}
