package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/account-service/internal/application/account"
	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/infrastructure/memory"
	"github.com/baechuer/account-service/internal/infrastructure/security"
	"github.com/baechuer/account-service/internal/transport/http/middleware"
	"github.com/baechuer/account-service/internal/transport/http/response"
)

// -------------------------
// Test wiring (real service over the memory store)
// -------------------------

type testEnv struct {
	handler http.Handler
	users   *memory.UserRepo
	hasher  *security.BcryptHasher
	codec   *security.JWTCodec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepo()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	codec := security.NewJWTCodec("test-secret", "account-service-test", time.Hour)

	svc := account.NewService(users, hasher, codec)
	gate := account.NewGate(codec, users)

	ah := NewAccountHandler(svc)
	hh := NewHealthHandler(nil)
	authMW := middleware.Auth(gate, response.WriteError)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Get("/", hh.Root)
	r.Get("/health", hh.Health)
	r.Get("/ready", hh.Ready)
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", ah.CreateAnonymous)
		r.Post("/login", ah.Login)
		r.With(authMW).Post("/register", ah.Register)
		r.With(authMW).Get("/me", ah.Me)
		r.With(authMW).Post("/create-user", ah.CreateUser)
		r.With(authMW).Delete("/delete-user", ah.DeleteUser)
	})

	return &testEnv{handler: r, users: users, hasher: hasher, codec: codec}
}

// do sends a request with an optional JSON body and bearer token.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		rdr = mustJSONBody(t, body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

// seedUser inserts a verified user directly into the store and returns a token for it.
func (e *testEnv) seedUser(t *testing.T, email, password string, superuser bool) (domain.User, string) {
	t.Helper()
	ctx := context.Background()

	hash, err := e.hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := e.users.CreateRegistered(ctx, email, hash)
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	if superuser {
		if u, err = e.users.SetSuperuser(ctx, u.ID); err != nil {
			t.Fatalf("promote %s: %v", email, err)
		}
	}

	tok, err := e.codec.IssueToken(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return u, tok
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes the recorder body into out.
func mustReadJSON(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode json: %v; body=%s", err, rr.Body.String())
	}
}

type tokenBody struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        struct {
		ID          string  `json:"id"`
		Email       *string `json:"email"`
		IsVerified  bool    `json:"is_verified"`
		IsSuperuser bool    `json:"is_superuser"`
	} `json:"user"`
}

type errBody struct {
	Error struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Meta      map[string]string `json:"meta"`
		RequestID string            `json:"request_id"`
	} `json:"error"`
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected %d, got %d; body=%s", want, rr.Code, rr.Body.String())
	}
}

func expectErrCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) errBody {
	t.Helper()
	expectStatus(t, rr, status)
	var eb errBody
	mustReadJSON(t, rr, &eb)
	if eb.Error.Code != code {
		t.Fatalf("expected code %q, got %q; body=%s", code, eb.Error.Code, rr.Body.String())
	}
	return eb
}
