package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"mobilepos/internal/domain"
)

// GetInventory joins the store's records with the catalog. Records whose
// product no longer exists are left out.
func (l *Ledger) GetInventory(_ context.Context, storeID string) []domain.InventoryRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows := make([]domain.InventoryRow, 0)
	for _, rec := range l.state.inventory {
		if rec.StoreID != storeID {
			continue
		}
		if row, ok := l.inventoryRow(rec, false); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// GetAllInventory is GetInventory across every store, with store names.
func (l *Ledger) GetAllInventory(_ context.Context) []domain.InventoryRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows := make([]domain.InventoryRow, 0, len(l.state.inventory))
	for _, rec := range l.state.inventory {
		if row, ok := l.inventoryRow(rec, true); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func (l *Ledger) inventoryRow(rec domain.InventoryRecord, withStore bool) (domain.InventoryRow, bool) {
	product, ok := l.state.product(rec.ProductID)
	if !ok {
		return domain.InventoryRow{}, false
	}
	row := domain.InventoryRow{
		InventoryRecord: rec,
		Brand:           product.Brand,
		Model:           product.Model,
		Specs:           product.Specs,
		PurchasePrice:   product.PurchasePrice,
		SalesPrice:      product.SalesPrice,
		ProductName:     product.DisplayName(),
	}
	if withStore {
		row.StoreName = domain.UnknownName
		if st, ok := l.state.store(rec.StoreID); ok {
			row.StoreName = st.Name
		}
	}
	return row, true
}

// GetTransactions returns the transaction log newest first, optionally
// limited to one store. Missing references show as placeholders.
func (l *Ledger) GetTransactions(_ context.Context, storeID string) []domain.TransactionRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	storeID = strings.TrimSpace(storeID)
	rows := make([]domain.TransactionRow, 0)
	for i := len(l.state.transactions) - 1; i >= 0; i-- {
		tx := l.state.transactions[i]
		if storeID != "" && tx.StoreID != storeID {
			continue
		}
		row := domain.TransactionRow{
			Transaction: tx,
			ProductName: domain.UnknownName,
			StoreName:   domain.UnknownName,
			VendorName:  domain.NoVendorName,
		}
		if product, ok := l.state.product(tx.ProductID); ok {
			row.ProductName = product.DisplayName()
		}
		if st, ok := l.state.store(tx.StoreID); ok {
			row.StoreName = st.Name
		}
		if tx.VendorID != "" {
			if vendor, ok := l.state.vendor(tx.VendorID); ok {
				row.VendorName = vendor.Name
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// GetPettyCash returns the cash log newest first, optionally limited to one store.
func (l *Ledger) GetPettyCash(_ context.Context, storeID string) []domain.CashEntryRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	storeID = strings.TrimSpace(storeID)
	rows := make([]domain.CashEntryRow, 0)
	for i := len(l.state.pettyCash) - 1; i >= 0; i-- {
		entry := l.state.pettyCash[i]
		if storeID != "" && entry.StoreID != storeID {
			continue
		}
		row := domain.CashEntryRow{CashEntry: entry, StoreName: domain.UnknownName}
		if st, ok := l.state.store(entry.StoreID); ok {
			row.StoreName = st.Name
		}
		rows = append(rows, row)
	}
	return rows
}

// CashBalance sums CREDIT minus DEBIT over every entry of the store, or of
// all stores when storeID is empty.
func (l *Ledger) CashBalance(_ context.Context, storeID string) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	storeID = strings.TrimSpace(storeID)
	balance := decimal.Zero
	for _, entry := range l.state.pettyCash {
		if storeID != "" && entry.StoreID != storeID {
			continue
		}
		balance = balance.Add(entry.Signed())
	}
	return balance
}

// ReportData is the hook for report aggregation. No report kinds compute
// content yet; consumers aggregate from the views.
func (l *Ledger) ReportData(_ context.Context, kind string, storeID string) domain.Report {
	return domain.Report{
		Kind:    strings.TrimSpace(kind),
		StoreID: strings.TrimSpace(storeID),
		Content: map[string]any{},
	}
}
