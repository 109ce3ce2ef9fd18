package repo

import (
	"context"
	"slices"
	"sync"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
)

// memoryRepo хранит всё в памяти процесса. Возвращаемые заказы копируются,
// чтобы вызывающий код не мог изменить хранилище.
type memoryRepo struct {
	mu      sync.RWMutex
	orders  map[string]entities.Order
	byOwner map[string][]string
	users   map[string]entities.User
}

func NewMemoryRepo() *memoryRepo {
	return &memoryRepo{
		orders:  make(map[string]entities.Order),
		byOwner: make(map[string][]string),
		users:   make(map[string]entities.User),
	}
}

func (r *memoryRepo) SaveOrder(_ context.Context, o entities.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; ok {
		return entities.ErrOrderExists
	}
	r.putOrder(o)
	return nil
}

func (r *memoryRepo) putOrder(o entities.Order) {
	if _, ok := r.orders[o.ID]; ok {
		return
	}
	r.orders[o.ID] = copyOrder(o)
	r.byOwner[o.OwnerID] = append(r.byOwner[o.OwnerID], o.ID)
}

func (r *memoryRepo) OrdersByOwner(_ context.Context, ownerID string) ([]entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOwner[ownerID]
	result := make([]entities.Order, 0, len(ids))
	// новые заказы первыми
	for _, id := range slices.Backward(ids) {
		result = append(result, copyOrder(r.orders[id]))
	}
	return result, nil
}

func (r *memoryRepo) OrderByID(_ context.Context, orderID string) (entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[orderID]
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (r *memoryRepo) CreateUser(_ context.Context, u entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.putUser(u)
}

func (r *memoryRepo) putUser(u entities.User) error {
	if _, ok := r.users[u.Email]; ok {
		return entities.ErrUserExists
	}
	r.users[u.Email] = u
	return nil
}

func (r *memoryRepo) UserByEmail(_ context.Context, email string) (entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return entities.User{}, entities.ErrUserNotFound
	}
	return u, nil
}

func copyOrder(o entities.Order) entities.Order {
	o.Items = slices.Clone(o.Items)
	return o
}
