package repositories

import (
	"context"
	"crypto/subtle"
	"sort"
	"sync"
	"time"

	"userdesk/internal/models"
)

// In-memory backends for storage.driver=memory (local runs, tests).
// Each store holds one mutex; every method is a single critical section.

type memoryUserRepository struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*models.User
	byEmail map[string]int64
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    map[int64]*models.User{},
		byEmail: map[string]int64{},
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return ErrDuplicateEmail
	}
	r.nextID++
	now := time.Now()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now

	cp := *user
	r.byID[cp.ID] = &cp
	r.byEmail[cp.Email] = cp.ID
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	id, ok := r.byEmail[email]
	r.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *memoryUserRepository) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	return r.update(id, func(u *models.User) { u.PasswordHash = passwordHash })
}

func (r *memoryUserRepository) UpdateRole(_ context.Context, id int64, role string) error {
	return r.update(id, func(u *models.User) { u.Role = role })
}

func (r *memoryUserRepository) UpdateStatus(_ context.Context, id int64, status string) error {
	return r.update(id, func(u *models.User) { u.Status = status })
}

func (r *memoryUserRepository) update(id int64, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memoryUserRepository) List(_ context.Context, limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var res []*models.User
	for _, id := range page(ids, limit, offset) {
		cp := *r.byID[id]
		res = append(res, &cp)
	}
	return res, nil
}

func (r *memoryUserRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

type memoryDescriptionRepository struct {
	mu      sync.Mutex
	nextID  int64
	items   []*models.Description
	byEmail map[string]struct{}
}

func NewMemoryDescriptionRepository() DescriptionRepository {
	return &memoryDescriptionRepository{byEmail: map[string]struct{}{}}
}

func (r *memoryDescriptionRepository) Create(_ context.Context, d *models.Description) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[d.Email]; ok {
		return ErrDuplicateEmail
	}
	r.nextID++
	now := time.Now()
	d.ID = r.nextID
	d.CreatedAt = now
	d.UpdatedAt = now

	cp := *d
	r.items = append(r.items, &cp)
	r.byEmail[cp.Email] = struct{}{}
	return nil
}

// newest first, like the SQL backend
func (r *memoryDescriptionRepository) List(_ context.Context, limit, offset int) ([]*models.Description, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev := make([]*models.Description, len(r.items))
	for i, d := range r.items {
		rev[len(r.items)-1-i] = d
	}
	var res []*models.Description
	for _, d := range page(rev, limit, offset) {
		cp := *d
		res = append(res, &cp)
	}
	return res, nil
}

type memoryOTPRepository struct {
	mu      sync.Mutex
	entries map[string]models.OTPEntry
}

func NewMemoryOTPRepository() OTPRepository {
	return &memoryOTPRepository{entries: map[string]models.OTPEntry{}}
}

func (r *memoryOTPRepository) Put(_ context.Context, e *models.OTPEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *e
	cp.ConsumedAt = nil
	cp.Attempts = 0
	r.entries[cp.Email] = cp
	return nil
}

func (r *memoryOTPRepository) Consume(_ context.Context, email, codeHash string, now time.Time, maxAttempts int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[email]
	if !ok || !e.Live(now) || e.Attempts >= maxAttempts {
		return false, nil
	}
	e.Attempts++
	if subtle.ConstantTimeCompare([]byte(e.CodeHash), []byte(codeHash)) != 1 {
		r.entries[email] = e
		return false, nil
	}
	t := now
	e.ConsumedAt = &t
	r.entries[email] = e
	return true, nil
}

func (r *memoryOTPRepository) Get(_ context.Context, email string) (*models.OTPEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func page[T any](items []T, limit, offset int) []T {
	n := len(items)
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		return nil
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return items[offset:end]
}
