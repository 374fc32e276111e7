package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/domain"
)

// UserRepo is an in-process account.UserAdminStore. A single mutex makes every
// mutation atomic, which gives the same outcomes as the unique constraint.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]domain.User
	byEmail map[string]uuid.UUID // email -> userID

	now func() time.Time
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[uuid.UUID]domain.User),
		byEmail: make(map[string]uuid.UUID),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *UserRepo) CreateAnonymous(ctx context.Context) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := domain.User{ID: uuid.New(), CreatedAt: r.now()}
	r.byID[u.ID] = u
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) Register(ctx context.Context, id uuid.UUID, email, passwordHash string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if passwordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if owner, taken := r.byEmail[email]; taken && owner != id {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	if u.Email != "" {
		delete(r.byEmail, u.Email)
	}
	u.Email = email
	u.PasswordHash = passwordHash
	u.IsVerified = true
	r.byID[id] = u
	r.byEmail[email] = id
	return u, nil
}

func (r *UserRepo) CreateRegistered(ctx context.Context, email, passwordHash string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if passwordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[email]; taken {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	u := domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		IsVerified:   true,
		CreatedAt:    r.now(),
	}
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return u, nil
}

func (r *UserRepo) Delete(ctx context.Context, target domain.Identifier, actingID uuid.UUID) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := target.ID
	if !target.IsID() {
		var ok bool
		if id, ok = r.byEmail[domain.NormalizeEmail(target.Email)]; !ok {
			return domain.User{}, domain.ErrUserNotFound()
		}
	}

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if u.ID == actingID {
		return domain.User{}, domain.ErrCannotDeleteSelf()
	}
	if u.IsSuperuser {
		return domain.User{}, domain.ErrCannotDeleteSuperuser()
	}

	delete(r.byID, u.ID)
	if u.Email != "" {
		delete(r.byEmail, u.Email)
	}
	return u, nil
}

func (r *UserRepo) SetSuperuser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u.IsSuperuser = true
	r.byID[id] = u
	return u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
