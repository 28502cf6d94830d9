package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

var errUnitOfWorkClosed = errors.New("unit of work already committed or rolled back")

// unitOfWorkFactory implements domain.UnitOfWorkFactory
type unitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a new unit of work factory
func NewUnitOfWorkFactory(store *Store) domain.UnitOfWorkFactory {
	return &unitOfWorkFactory{store: store}
}

func (f *unitOfWorkFactory) Begin(context.Context) (domain.UnitOfWork, error) {
	u := &unitOfWork{
		store:   f.store,
		updates: make(map[uuid.UUID]domain.ProductSnapshot),
	}
	u.products = &uowProducts{uow: u}
	u.history = &uowHistory{uow: u}
	return u, nil
}

// unitOfWork buffers writes and applies them to the store on Commit.
// Reads see committed state overlaid with the buffered writes.
type unitOfWork struct {
	mu      sync.Mutex
	store   *Store
	closed  bool
	adds    []domain.ProductSnapshot
	updates map[uuid.UUID]domain.ProductSnapshot
	entries []domain.PriceHistory

	products *uowProducts
	history  *uowHistory
}

func (u *unitOfWork) Products() domain.ProductRepository { return u.products }

func (u *unitOfWork) PriceHistory() domain.PriceHistoryRepository { return u.history }

func (u *unitOfWork) Commit(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return errUnitOfWorkClosed
	}
	u.closed = true
	return u.store.apply(u.adds, u.updates, u.entries)
}

func (u *unitOfWork) Rollback() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.closed = true
	u.adds, u.updates, u.entries = nil, nil, nil
	return nil
}

func (u *unitOfWork) lookup(id uuid.UUID) (domain.ProductSnapshot, bool) {
	if snap, ok := u.updates[id]; ok {
		return snap, true
	}
	for _, snap := range u.adds {
		if snap.ID == id {
			return snap, true
		}
	}
	return u.store.productByID(id)
}

type uowProducts struct {
	uow *unitOfWork
}

func (r *uowProducts) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	snap, ok := r.uow.lookup(id)
	if !ok {
		return nil, domain.NewNotFoundError()
	}
	return domain.RestoreProduct(snap)
}

func (r *uowProducts) GetByTicker(_ context.Context, ticker string) (*domain.Product, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	for _, snap := range r.uow.adds {
		if snap.Ticker == ticker {
			return domain.RestoreProduct(snap)
		}
	}
	snap, ok := r.uow.store.productByTicker(ticker)
	if !ok {
		return nil, domain.NewNotFoundError()
	}
	if updated, ok := r.uow.updates[snap.ID]; ok {
		snap = updated
	}
	return domain.RestoreProduct(snap)
}

func (r *uowProducts) List(ctx context.Context) ([]*domain.Product, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	all := r.uow.store.allProducts()
	for i, snap := range all {
		if updated, ok := r.uow.updates[snap.ID]; ok {
			all[i] = updated
		}
	}
	all = append(all, r.uow.adds...)
	sortSnapshots(all)
	return restore(all)
}

func (r *uowProducts) Add(_ context.Context, product *domain.Product) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	if r.uow.closed {
		return errUnitOfWorkClosed
	}
	snap := product.Snapshot()
	if _, taken := r.uow.store.productByTicker(snap.Ticker); taken {
		return domain.NewDuplicateTickerError(snap.Ticker)
	}
	for _, pending := range r.uow.adds {
		if pending.Ticker == snap.Ticker {
			return domain.NewDuplicateTickerError(snap.Ticker)
		}
	}
	r.uow.adds = append(r.uow.adds, snap)
	return nil
}

func (r *uowProducts) Update(_ context.Context, product *domain.Product) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	if r.uow.closed {
		return errUnitOfWorkClosed
	}
	snap := product.Snapshot()
	for i, pending := range r.uow.adds {
		if pending.ID == snap.ID {
			r.uow.adds[i] = snap
			return nil
		}
	}
	if _, ok := r.uow.store.productByID(snap.ID); !ok {
		return domain.NewNotFoundError()
	}
	r.uow.updates[snap.ID] = snap
	return nil
}

type uowHistory struct {
	uow *unitOfWork
}

func (r *uowHistory) ListByProductID(_ context.Context, productID uuid.UUID) ([]*domain.PriceHistory, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	entries := r.uow.store.historyOf(productID)
	for _, e := range r.uow.entries {
		if e.ProductID == productID {
			entries = append(entries, e)
		}
	}
	sortHistory(entries)

	result := make([]*domain.PriceHistory, 0, len(entries))
	for i := range entries {
		result = append(result, &entries[i])
	}
	return result, nil
}

func (r *uowHistory) Add(_ context.Context, entry *domain.PriceHistory) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	if r.uow.closed {
		return errUnitOfWorkClosed
	}
	if _, ok := r.uow.lookup(entry.ProductID); !ok {
		return domain.NewNotFoundError()
	}
	r.uow.entries = append(r.uow.entries, *entry)
	return nil
}
