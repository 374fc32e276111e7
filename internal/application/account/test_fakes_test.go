package account

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

type auditSink struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditSink) fn(_ context.Context, action string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{action: action, fields: fields})
}

func (a *auditSink) last(t *testing.T) auditEntry {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.entries) == 0 {
		t.Fatalf("expected an audit entry")
	}
	return a.entries[len(a.entries)-1]
}

/*
Fakes for ports
*/

type fakeUserStore struct {
	mu sync.Mutex

	byID map[uuid.UUID]domain.User

	// injected errors (if set, method returns error)
	getByIDErr    error
	getByEmailErr error
	createErr     error
	registerErr   error
	deleteErr     error

	// record calls
	deleteCalls []struct {
		target domain.Identifier
		acting uuid.UUID
	}
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[uuid.UUID]domain.User{}}
}

func (f *fakeUserStore) put(u domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserStore) findEmailLocked(email string) (domain.User, bool) {
	for _, u := range f.byID {
		if u.Email != "" && u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}

func (f *fakeUserStore) CreateAnonymous(ctx context.Context) (domain.User, error) {
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	return f.put(domain.User{}), nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.findEmailLocked(email)
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserStore) Register(ctx context.Context, id uuid.UUID, email, hash string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.registerErr != nil {
		return domain.User{}, f.registerErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if other, taken := f.findEmailLocked(email); taken && other.ID != id {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	u.Email, u.PasswordHash, u.IsVerified = email, hash, true
	f.byID[id] = u
	return u, nil
}

func (f *fakeUserStore) CreateRegistered(ctx context.Context, email, hash string) (domain.User, error) {
	f.mu.Lock()
	if f.createErr != nil {
		f.mu.Unlock()
		return domain.User{}, f.createErr
	}
	if _, taken := f.findEmailLocked(email); taken {
		f.mu.Unlock()
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	f.mu.Unlock()
	return f.put(domain.User{Email: email, PasswordHash: hash, IsVerified: true}), nil
}

func (f *fakeUserStore) Delete(ctx context.Context, target domain.Identifier, acting uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleteCalls = append(f.deleteCalls, struct {
		target domain.Identifier
		acting uuid.UUID
	}{target, acting})

	if f.deleteErr != nil {
		return domain.User{}, f.deleteErr
	}

	var (
		u  domain.User
		ok bool
	)
	if target.IsID() {
		u, ok = f.byID[target.ID]
	} else {
		u, ok = f.findEmailLocked(target.Email)
	}
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if u.ID == acting {
		return domain.User{}, domain.ErrCannotDeleteSelf()
	}
	if u.IsSuperuser {
		return domain.User{}, domain.ErrCannotDeleteSuperuser()
	}
	delete(f.byID, u.ID)
	return u, nil
}

func (f *fakeUserStore) SetSuperuser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u.IsSuperuser = true
	f.byID[id] = u
	return u, nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// basicStore hides the operational extension.
type basicStore struct{ UserStore }

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	verifyFn    func(hash, pw string) bool
	hashCalls   int
	verifyCalls int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	h.hashCalls++
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Verify(hash, password string) bool {
	h.verifyCalls++
	if h.verifyFn != nil {
		return h.verifyFn(hash, password)
	}
	return hash != "" && hash == "hash:"+password
}

type fakeCodec struct {
	issueErr  error
	decodeErr error
}

func (c *fakeCodec) IssueToken(u domain.User) (string, error) {
	if c.issueErr != nil {
		return "", c.issueErr
	}
	return "tok:" + u.ID.String(), nil
}

func (c *fakeCodec) DecodeToken(token string) (uuid.UUID, error) {
	if c.decodeErr != nil {
		return uuid.Nil, c.decodeErr
	}
	id, err := uuid.Parse(strings.TrimPrefix(token, "tok:"))
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid()
	}
	return id, nil
}

func newSvcForTest(t *testing.T) (*Service, *fakeUserStore, *fakeHasher, *fakeCodec, *auditSink) {
	t.Helper()

	users := newFakeUserStore()
	hasher := &fakeHasher{}
	codec := &fakeCodec{}
	sink := &auditSink{}

	svc := NewService(users, hasher, codec).WithAudit(sink.fn)
	return svc, users, hasher, codec, sink
}

func seedVerified(users *fakeUserStore, email, password string, superuser bool) domain.User {
	return users.put(domain.User{
		Email:        email,
		PasswordHash: "hash:" + password,
		IsVerified:   true,
		IsSuperuser:  superuser,
	})
}
