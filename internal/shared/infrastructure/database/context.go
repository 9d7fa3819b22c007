package database

import (
	"context"
	"sync"
)

type txKey struct{}

// TxInfo holds the transaction in context and whether it is owned by the caller.
type TxInfo struct {
	Tx    Transaction
	Owned bool

	hooks *commitHooks
}

// commitHooks collects callbacks that run once the owning transaction commits.
type commitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

func (h *commitHooks) add(fn func(context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

func (h *commitHooks) drain() []func(context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fns := h.fns
	h.fns = nil
	return fns
}

// WithTx stores transaction info in the context. A transaction that is not
// owned shares the after-commit hooks of the transaction already in ctx.
func WithTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	hooks := &commitHooks{}
	if existing, ok := TxInfoFromContext(ctx); ok && !owned && existing.Tx == tx {
		hooks = existing.hooks
	}
	return context.WithValue(ctx, txKey{}, TxInfo{Tx: tx, Owned: owned, hooks: hooks})
}

// AfterCommit runs fn once the transaction in ctx commits, and drops it if
// the transaction rolls back. Without a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	info, ok := TxInfoFromContext(ctx)
	if !ok || info.hooks == nil {
		fn(ctx)
		return
	}
	info.hooks.add(fn)
}

// TxFromContext extracts transaction from the context.
// Returns nil if no transaction is present.
func TxFromContext(ctx context.Context) Transaction {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	if !ok || info.Tx == nil {
		return nil
	}
	return info.Tx
}

// TxInfoFromContext extracts full transaction info from the context.
func TxInfoFromContext(ctx context.Context) (TxInfo, bool) {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	if !ok || info.Tx == nil {
		return TxInfo{}, false
	}
	return info, true
}

// ExecutorFromContext returns the transaction if present, otherwise the connection.
// This allows repositories to transparently work within or outside transactions.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}
