package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pfinal/passport/internal/application/token"
	"github.com/pfinal/passport/internal/domain"
	infraauth "github.com/pfinal/passport/internal/infrastructure/auth"
	"github.com/pfinal/passport/internal/infrastructure/http/middleware"
)

type stubUserRepo struct {
	byAccount map[domain.AccountCondition]*domain.User
}

func (r *stubUserRepo) FindByAccount(ctx context.Context, cond domain.AccountCondition) (*domain.User, error) {
	return r.byAccount[cond], nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range r.byAccount {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type stubIdentityRepo struct {
	mapping map[string]string
}

func (r *stubIdentityRepo) FindUserID(ctx context.Context, platform, appID, openID string) (string, error) {
	return r.mapping[platform+"|"+appID+"|"+openID], nil
}

type stubTokenStore struct {
	records map[string]domain.StoredToken
}

func (s *stubTokenStore) Save(ctx context.Context, t domain.StoredToken) error {
	s.records[t.Token] = t
	return nil
}

func (s *stubTokenStore) Find(ctx context.Context, tok string) (*domain.StoredToken, error) {
	rec, ok := s.records[tok]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *stubTokenStore) Delete(ctx context.Context, tok string) (bool, error) {
	if _, ok := s.records[tok]; !ok {
		return false, nil
	}
	delete(s.records, tok)
	return true, nil
}

func (s *stubTokenStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type verbatimHasher struct{}

func (verbatimHasher) Hash(password string) (string, error) { return password, nil }
func (verbatimHasher) Verify(password, hash string) bool    { return password == hash }

func newTestHandler(t *testing.T) (*AuthHandler, *token.Service) {
	t.Helper()
	users := &stubUserRepo{byAccount: map[domain.AccountCondition]*domain.User{
		{Field: domain.AccountMobile, Value: "13800000000"}: {ID: "42", Mobile: "13800000000", PasswordHash: "s3cret"},
		{Field: domain.AccountUsername, Value: "alice"}:     {ID: "7", Username: "alice", PasswordHash: "wonder"},
	}}
	identities := &stubIdentityRepo{mapping: map[string]string{"wechat|app1|open-1": "42"}}
	store := &stubTokenStore{records: make(map[string]domain.StoredToken)}
	codec := infraauth.NewOpaqueCodec(store, 30*24*time.Hour, zerolog.Nop())
	svc := token.NewService(users, identities, verbatimHasher{}, codec, zerolog.Nop())
	return NewAuthHandler(svc, zerolog.Nop()), svc
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestIssueTokenHandler(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.IssueToken, `{"account":"13800000000","password":"s3cret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["user_id"] != "42" {
		t.Errorf("user_id = %v, want 42", body["user_id"])
	}
	if body["token"] == "" {
		t.Error("token is empty")
	}
}

func TestIssueTokenHandlerWrongPassword(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.IssueToken, `{"account":"13800000000","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != ErrCodeInvalidPassword {
		t.Errorf("code = %v, want %s", body["code"], ErrCodeInvalidPassword)
	}
}

func TestIssueTokenHandlerUnknownAccount(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.IssueToken, `{"account":"nobody","password":"x"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != ErrCodeInvalidAccount {
		t.Errorf("code = %v, want %s", body["code"], ErrCodeInvalidAccount)
	}
}

func TestIssueTokenHandlerBadRequest(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, body := range []string{`not json`, `{"account":"alice"}`, `{}`} {
		rec := postJSON(t, h.IssueToken, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestIssueTokenByOpenIDHandler(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.IssueTokenByOpenID, `{"platform":"wechat","appid":"app1","openid":"open-1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["user_id"] != "42" {
		t.Errorf("user_id = %v, want 42", body["user_id"])
	}

	rec = postJSON(t, h.IssueTokenByOpenID, `{"platform":"wechat","appid":"app1","openid":"unknown"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != ErrCodeInvalidOpenID {
		t.Errorf("code = %v, want %s", body["code"], ErrCodeInvalidOpenID)
	}
}

func TestVerifyAndLogoutHandlers(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.IssueToken, `{"account":"alice","password":"wonder"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("issue status = %d", rec.Code)
	}
	issued := decodeBody(t, rec)["token"].(string)

	rec = postJSON(t, h.VerifyToken, `{"token":"`+issued+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["user_id"] != "7" {
		t.Errorf("user_id = %v, want 7", body["user_id"])
	}

	rec = postJSON(t, h.Logout, `{"token":"`+issued+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["revoked"] != true {
		t.Errorf("revoked = %v, want true", body["revoked"])
	}

	rec = postJSON(t, h.VerifyToken, `{"token":"`+issued+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("verify after logout status = %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != ErrCodeInvalidToken {
		t.Errorf("code = %v, want %s", body["code"], ErrCodeInvalidToken)
	}
}

func TestAuthMiddlewareAndMe(t *testing.T) {
	h, svc := newTestHandler(t)

	rec := postJSON(t, h.IssueToken, `{"account":"13800000000","password":"s3cret"}`)
	issued := decodeBody(t, rec)["token"].(string)

	users := &stubUserRepo{byAccount: map[domain.AccountCondition]*domain.User{
		{Field: domain.AccountMobile, Value: "13800000000"}: {ID: "42", Mobile: "13800000000"},
	}}
	me := NewUsersHandler(users)
	protected := middleware.NewAuthValidator(svc).Handler(http.HandlerFunc(me.Me))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+issued)
	out := httptest.NewRecorder()
	protected.ServeHTTP(out, req)
	if out.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", out.Code, out.Body.String())
	}
	var user map[string]any
	if err := json.Unmarshal(out.Body.Bytes(), &user); err != nil {
		t.Fatal(err)
	}
	if user["id"] != "42" {
		t.Errorf("id = %v, want 42", user["id"])
	}

	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	out = httptest.NewRecorder()
	protected.ServeHTTP(out, req)
	if out.Code != http.StatusUnauthorized {
		t.Errorf("status without bearer = %d, want 401", out.Code)
	}
}
