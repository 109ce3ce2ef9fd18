package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
)

type fileData struct {
	Users  []userDocument  `json:"users"`
	Orders []orderDocument `json:"orders"`
}

// fileRepo хранит данные в одном JSON файле. Чтения обслуживаются из памяти,
// каждая запись целиком переписывает файл через временный файл и rename.
type fileRepo struct {
	mu   sync.Mutex
	path string
	mem  *memoryRepo
}

func OpenFileRepo(path string) (*fileRepo, error) {
	r := &fileRepo{path: path, mem: NewMemoryRepo()}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode store file: %w", err)
	}

	sort.SliceStable(data.Orders, func(i, j int) bool {
		return data.Orders[i].CreatedAt.Before(data.Orders[j].CreatedAt)
	})
	for _, d := range data.Orders {
		r.mem.putOrder(documentToOrder(d))
	}
	for _, d := range data.Users {
		if err := r.mem.putUser(documentToUser(d)); err != nil {
			return nil, fmt.Errorf("duplicate user %q in store file: %w", d.Email, err)
		}
	}

	return r, nil
}

func (r *fileRepo) SaveOrder(ctx context.Context, o entities.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.mem.OrderByID(ctx, o.ID); err == nil {
		return entities.ErrOrderExists
	}

	data := r.dump()
	data.Orders = append(data.Orders, orderToDocument(o))
	if err := r.flush(data); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return r.mem.SaveOrder(ctx, o)
}

func (r *fileRepo) OrdersByOwner(ctx context.Context, ownerID string) ([]entities.Order, error) {
	return r.mem.OrdersByOwner(ctx, ownerID)
}

func (r *fileRepo) OrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	return r.mem.OrderByID(ctx, orderID)
}

func (r *fileRepo) CreateUser(ctx context.Context, u entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.mem.UserByEmail(ctx, u.Email); err == nil {
		return entities.ErrUserExists
	}

	data := r.dump()
	data.Users = append(data.Users, userToDocument(u))
	if err := r.flush(data); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return r.mem.CreateUser(ctx, u)
}

func (r *fileRepo) UserByEmail(ctx context.Context, email string) (entities.User, error) {
	return r.mem.UserByEmail(ctx, email)
}

// dump снимает текущее состояние в порядке создания, чтобы файл был стабильным.
func (r *fileRepo) dump() fileData {
	r.mem.mu.RLock()
	defer r.mem.mu.RUnlock()

	data := fileData{
		Users:  make([]userDocument, 0, len(r.mem.users)),
		Orders: make([]orderDocument, 0, len(r.mem.orders)),
	}
	for _, u := range r.mem.users {
		data.Users = append(data.Users, userToDocument(u))
	}
	for _, o := range r.mem.orders {
		data.Orders = append(data.Orders, orderToDocument(o))
	}

	sort.Slice(data.Users, func(i, j int) bool {
		return data.Users[i].Email < data.Users[j].Email
	})
	sort.Slice(data.Orders, func(i, j int) bool {
		a, b := data.Orders[i], data.Orders[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return data
}

func (r *fileRepo) flush(data fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}
