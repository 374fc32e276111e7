package account

import (
	"context"
	"errors"
	"testing"

	"github.com/baechuer/account-service/internal/domain"
)

func TestSeedSuperuser_CreatesAndPromotes(t *testing.T) {
	t.Parallel()

	svc, users, _, _, sink := newSvcForTest(t)

	u, err := svc.SeedSuperuser(context.Background(), "Root@Example.com", "rootpass")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if u.Email != "root@example.com" || !u.IsSuperuser || !u.IsVerified || u.PasswordHash != "hash:rootpass" {
		t.Fatalf("unexpected user: %+v", u)
	}
	got, _ := users.GetByEmail(context.Background(), "root@example.com")
	if !got.IsSuperuser {
		t.Fatalf("expected stored row promoted, got %+v", got)
	}
	if e := sink.last(t); e.action != "ops.seed_superuser" || e.fields["result"] != "success" {
		t.Fatalf("unexpected audit entry: %+v", e)
	}
}

func TestSeedSuperuser_ExistingSuperuser_Untouched(t *testing.T) {
	t.Parallel()

	svc, users, hasher, _, _ := newSvcForTest(t)
	existing := seedVerified(users, "root@example.com", "original", true)

	u, err := svc.SeedSuperuser(context.Background(), "root@example.com", "rootpass")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if u.ID != existing.ID || u.PasswordHash != "hash:original" {
		t.Fatalf("expected existing row unchanged, got %+v", u)
	}
	if hasher.hashCalls != 0 {
		t.Fatalf("expected no hashing, got %d", hasher.hashCalls)
	}
}

func TestSeedSuperuser_ExistingPlainUser_PromotedKeepsPassword(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	existing := seedVerified(users, "root@example.com", "original", false)

	u, err := svc.SeedSuperuser(context.Background(), "root@example.com", "rootpass")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if u.ID != existing.ID || !u.IsSuperuser || u.PasswordHash != "hash:original" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestSeedSuperuser_EmptySettings_Noop(t *testing.T) {
	t.Parallel()

	svc, users, hasher, _, _ := newSvcForTest(t)

	if _, err := svc.SeedSuperuser(context.Background(), "", ""); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	all, _ := users.List(context.Background())
	if hasher.hashCalls != 0 || len(all) != 0 {
		t.Fatalf("expected noop, hashes=%d users=%d", hasher.hashCalls, len(all))
	}
}

func TestSeedSuperuser_LookupFailure_CreatesNothing(t *testing.T) {
	t.Parallel()

	svc, users, hasher, _, _ := newSvcForTest(t)
	users.getByEmailErr = domain.ErrDBUnavailable(errors.New("down"))

	_, err := svc.SeedSuperuser(context.Background(), "root@example.com", "rootpass")
	requireErrCode(t, err, "db_unavailable")
	if hasher.hashCalls != 0 {
		t.Fatalf("expected no hashing, got %d", hasher.hashCalls)
	}
}

func TestSeedSuperuser_ShortPassword_Rejected(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)

	_, err := svc.SeedSuperuser(context.Background(), "root@example.com", "short")
	requireErrCode(t, err, "weak_password")
	if _, err := users.GetByEmail(context.Background(), "root@example.com"); !domain.Is(err, "user_not_found") {
		t.Fatalf("expected no row, got %v", err)
	}
}

// seedRaceStore lets another instance insert the seed row between the
// lookup and the insert.
type seedRaceStore struct {
	*fakeUserStore
}

func (s seedRaceStore) CreateRegistered(ctx context.Context, email, hash string) (domain.User, error) {
	s.put(domain.User{Email: email, PasswordHash: "hash:other-instance", IsVerified: true})
	return s.fakeUserStore.CreateRegistered(ctx, email, hash)
}

func TestSeedSuperuser_ConcurrentInsert_ReusesWinner(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := NewService(seedRaceStore{users}, &fakeHasher{}, &fakeCodec{})

	u, err := svc.SeedSuperuser(context.Background(), "root@example.com", "rootpass")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !u.IsSuperuser || u.PasswordHash != "hash:other-instance" {
		t.Fatalf("expected winner's row promoted, got %+v", u)
	}
}

func TestSeedSuperuser_NoAdminStore_Internal(t *testing.T) {
	t.Parallel()

	svc := NewService(basicStore{newFakeUserStore()}, &fakeHasher{}, &fakeCodec{})

	_, err := svc.SeedSuperuser(context.Background(), "root@example.com", "rootpass")
	requireErrCode(t, err, "internal_error")
}
