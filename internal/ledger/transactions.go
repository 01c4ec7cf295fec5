package ledger

import (
	"context"
	"fmt"
	"strings"

	"mobilepos/internal/domain"
	"mobilepos/internal/xid"
)

// AddTransaction appends a SALE or PURCHASE and applies its stock effect in
// the same write. It does not check availability: a SALE may drive the
// stock count negative. Use AddCheckedSale for the sale workflow.
func (l *Ledger) AddTransaction(ctx context.Context, in domain.TransactionInput) (*domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.recordLocked(ctx, in, false)
}

// AddCheckedSale records a SALE only if the store holds at least the
// requested quantity. The check and the write happen under one lock, so
// concurrent sales cannot both pass against the same stale count.
func (l *Ledger) AddCheckedSale(ctx context.Context, in domain.TransactionInput) (*domain.Transaction, error) {
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	if in.Type == "" {
		in.Type = domain.TxSale
	}
	if in.Type != domain.TxSale {
		return nil, fmt.Errorf("%w: checked recording applies to sales only", ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.recordLocked(ctx, in, true)
}

// StockLevel is the current quantity for the pair, 0 when no record exists.
func (l *Ledger) StockLevel(_ context.Context, storeID string, productID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.quantity(storeID, productID)
}

func (l *Ledger) recordLocked(ctx context.Context, in domain.TransactionInput, requireStock bool) (*domain.Transaction, error) {
	tx, err := l.buildTransaction(in)
	if err != nil {
		return nil, err
	}

	if requireStock {
		if available := l.state.quantity(tx.StoreID, tx.ProductID); available < tx.Quantity {
			return nil, fmt.Errorf("%w: store %s has %d of %s, requested %d",
				ErrInsufficientStock, tx.StoreID, available, tx.ProductID, tx.Quantity)
		}
	}

	delta := tx.Quantity
	if tx.Type == domain.TxSale {
		delta = -tx.Quantity
	}

	next := l.state.clone()
	next.transactions = append(next.transactions, tx)
	next.applyStock(tx.StoreID, tx.ProductID, delta)
	if err := l.commit(ctx, next); err != nil {
		return nil, err
	}

	remaining := next.quantity(tx.StoreID, tx.ProductID)
	event := l.log.Info()
	if remaining < 0 {
		event = l.log.Warn()
	}
	event.
		Str("tx_id", tx.ID).
		Str("type", tx.Type).
		Str("store_id", tx.StoreID).
		Str("product_id", tx.ProductID).
		Int("quantity", tx.Quantity).
		Int("stock", remaining).
		Msg("transaction recorded")

	return &tx, nil
}

// buildTransaction validates the input against the current state and
// stamps the engine-assigned id and date. Callers hold l.mu.
func (l *Ledger) buildTransaction(in domain.TransactionInput) (domain.Transaction, error) {
	txType := strings.ToUpper(strings.TrimSpace(in.Type))
	if txType != domain.TxSale && txType != domain.TxPurchase {
		return domain.Transaction{}, fmt.Errorf("%w: transaction type %q", ErrInvalidInput, in.Type)
	}
	if in.Quantity < 1 {
		return domain.Transaction{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return domain.Transaction{}, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if _, ok := l.state.store(in.StoreID); !ok {
		return domain.Transaction{}, fmt.Errorf("%w: store %q", ErrUnknownReference, in.StoreID)
	}
	product, ok := l.state.product(in.ProductID)
	if !ok {
		return domain.Transaction{}, fmt.Errorf("%w: product %q", ErrUnknownReference, in.ProductID)
	}

	tx := domain.Transaction{
		ID:        xid.New("t"),
		Type:      txType,
		StoreID:   in.StoreID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Price:     in.Price,
		Date:      domain.NewDate(l.now().UTC()),
	}

	switch txType {
	case domain.TxPurchase:
		if in.VendorID != "" {
			if _, ok := l.state.vendor(in.VendorID); !ok {
				return domain.Transaction{}, fmt.Errorf("%w: vendor %q", ErrUnknownReference, in.VendorID)
			}
		}
		tx.VendorID = in.VendorID
		tx.Status = strings.TrimSpace(in.Status)
		if tx.Status == "" {
			tx.Status = domain.PurchaseStatusApproved
		}
		if tx.Price.IsZero() {
			tx.Price = product.PurchasePrice
		}
	case domain.TxSale:
		tx.CustomerType = strings.TrimSpace(in.CustomerType)
		tx.Status = strings.TrimSpace(in.Status)
		if tx.Price.IsZero() {
			tx.Price = product.SalesPrice
		}
	}
	return tx, nil
}

func (l *Ledger) AddPettyCash(ctx context.Context, in domain.CashEntryInput) (*domain.CashEntry, error) {
	entryType := strings.ToUpper(strings.TrimSpace(in.Type))
	if entryType != domain.CashCredit && entryType != domain.CashDebit {
		return nil, fmt.Errorf("%w: cash entry type %q", ErrInvalidInput, in.Type)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.state.store(in.StoreID); !ok {
		return nil, fmt.Errorf("%w: store %q", ErrUnknownReference, in.StoreID)
	}

	entry := domain.CashEntry{
		ID:          xid.New("pc"),
		StoreID:     in.StoreID,
		Type:        entryType,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		By:          strings.TrimSpace(in.By),
		Date:        domain.NewDate(l.now().UTC()),
	}
	next := l.state.clone()
	next.pettyCash = append(next.pettyCash, entry)
	if err := l.commit(ctx, next); err != nil {
		return nil, err
	}

	l.log.Info().
		Str("entry_id", entry.ID).
		Str("store_id", entry.StoreID).
		Str("type", entry.Type).
		Str("amount", entry.Amount.String()).
		Msg("cash entry recorded")
	return &entry, nil
}
