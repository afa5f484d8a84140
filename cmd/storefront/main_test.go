package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/naveenspark/storefront/internal/config"
	"github.com/naveenspark/storefront/pkg/domain"
)

var seller = domain.User{
	ID:                  7,
	Name:                "Sam",
	Email:               "sam@example.com",
	Role:                domain.RoleSeller,
	AccountStatus:       domain.StatusRejected,
	RejectionCount:      1,
	LastRejectionReason: "missing tax id",
}

func newTestCLI(t *testing.T, api http.Handler, stdin string, env map[string]string) (*cli, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		APIURL:  srv.URL,
		Home:    t.TempDir(),
		Store:   config.StoreFile,
		Timeout: 5 * time.Second,
	}
	out := &bytes.Buffer{}
	getenv := func(k string) string { return env[k] }
	c, err := newCLI(cfg, zap.NewNop(), strings.NewReader(stdin), out, getenv)
	if err != nil {
		t.Fatalf("newCLI: %v", err)
	}
	t.Cleanup(c.close)
	return c, out
}

func loginHandler(t *testing.T, wantPassword string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode login body: %v", err)
			}
			if body["password"] != wantPassword {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"}) //nolint:errcheck
				return
			}
			resp := map[string]any{
				"token":         "opaque-token",
				"id":            seller.ID,
				"name":          seller.Name,
				"email":         seller.Email,
				"role":          seller.Role,
				"accountStatus": seller.AccountStatus,
			}
			json.NewEncoder(w).Encode(resp) //nolint:errcheck
		case r.Method == http.MethodGet && r.URL.Path == "/users/7":
			if r.Header.Get("Authorization") != "Bearer opaque-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(seller) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}
}

func TestLoginReadsPasswordFromEnv(t *testing.T) {
	c, out := newTestCLI(t, loginHandler(t, "hunter22"), "", map[string]string{"STOREFRONT_PASSWORD": "hunter22"})

	if err := c.runLogin([]string{"--email", "sam@example.com"}); err != nil {
		t.Fatalf("runLogin: %v", err)
	}
	if !strings.Contains(out.String(), "Logged in as Sam (SELLER)") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "REJECTED") {
		t.Errorf("unapproved seller should be told about onboarding, got %q", out.String())
	}
	if st := c.session.State(); st.User == nil || st.User.ID != 7 {
		t.Errorf("session user = %+v, want id 7", st.User)
	}
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	c, _ := newTestCLI(t, loginHandler(t, "from-stdin"), "from-stdin\n", nil)
	if err := c.runLogin([]string{"--email", "sam@example.com"}); err != nil {
		t.Fatalf("runLogin: %v", err)
	}
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	c, _ := newTestCLI(t, loginHandler(t, "right"), "wrong\n", nil)
	err := c.runLogin([]string{"--email", "sam@example.com"})
	if err == nil || err.Error() != "Invalid email or password" {
		t.Fatalf("err = %v, want server message", err)
	}
	if c.session.State().User != nil {
		t.Error("failed login must not sign in")
	}
}

func TestLoginRequiresEmail(t *testing.T) {
	c, _ := newTestCLI(t, http.NotFoundHandler(), "", nil)
	if err := c.runLogin(nil); err == nil {
		t.Fatal("expected an error without --email")
	}
}

func TestSessionSurvivesAcrossProcesses(t *testing.T) {
	api := loginHandler(t, "pw-123")
	c, _ := newTestCLI(t, api, "", map[string]string{"STOREFRONT_PASSWORD": "pw-123"})
	if err := c.runLogin([]string{"--email", "sam@example.com"}); err != nil {
		t.Fatalf("runLogin: %v", err)
	}

	// A second process over the same home dir sees the stored session.
	out := &bytes.Buffer{}
	next, err := newCLI(c.cfg, zap.NewNop(), strings.NewReader(""), out, func(string) string { return "" })
	if err != nil {
		t.Fatalf("newCLI: %v", err)
	}
	if err := next.runWhoami(); err != nil {
		t.Fatalf("runWhoami: %v", err)
	}
	for _, want := range []string{"Sam <sam@example.com>", "role    SELLER", "status  REJECTED", "missing tax id"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("whoami output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := next.runLogout(); err != nil {
		t.Fatalf("runLogout: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Logged out." {
		t.Errorf("logout output = %q", got)
	}

	out.Reset()
	if err := next.runLogout(); err != nil {
		t.Fatalf("second runLogout: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Already logged out." {
		t.Errorf("second logout output = %q", got)
	}
}

func TestWhoamiAnonymous(t *testing.T) {
	c, out := newTestCLI(t, http.NotFoundHandler(), "", nil)
	if err := c.runWhoami(); err != nil {
		t.Fatalf("runWhoami: %v", err)
	}
	if !strings.Contains(out.String(), "Not logged in") {
		t.Errorf("output = %q", out.String())
	}
}

func TestWhoamiExpiredSessionLogsOut(t *testing.T) {
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			json.NewEncoder(w).Encode(map[string]any{"token": "t", "id": 7, "name": "Sam", "role": "USER"}) //nolint:errcheck
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	c, out := newTestCLI(t, api, "", map[string]string{"STOREFRONT_PASSWORD": "pw"})
	if err := c.runLogin([]string{"--email", "sam@example.com"}); err != nil {
		t.Fatalf("runLogin: %v", err)
	}
	out.Reset()

	if err := c.runWhoami(); err != nil {
		t.Fatalf("runWhoami: %v", err)
	}
	if !strings.Contains(out.String(), "Session expired") {
		t.Errorf("output = %q", out.String())
	}
	if c.session.State().User != nil {
		t.Error("expired session should be cleared")
	}
}

func TestRegisterValidatesLocally(t *testing.T) {
	called := false
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	c, _ := newTestCLI(t, api, "", map[string]string{"STOREFRONT_PASSWORD": "123"})

	err := c.runRegister([]string{"--name", "Ann", "--email", "ann@example.com", "--role", "user"})
	if err == nil {
		t.Fatal("short password should fail validation")
	}
	if called {
		t.Error("invalid registration reached the server")
	}
}

func TestRegisterSendsUppercaseRole(t *testing.T) {
	var got map[string]string
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/register" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode register body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 9, "name": got["name"]}) //nolint:errcheck
	})
	c, out := newTestCLI(t, api, "", map[string]string{"STOREFRONT_PASSWORD": "secret1"})

	if err := c.runRegister([]string{"--name", "Ann", "--email", "ann@example.com", "--role", "seller"}); err != nil {
		t.Fatalf("runRegister: %v", err)
	}
	if got["role"] != "SELLER" {
		t.Errorf("role = %q, want SELLER", got["role"])
	}
	if !strings.Contains(out.String(), "Account created") {
		t.Errorf("output = %q", out.String())
	}
	if c.session.State().User != nil {
		t.Error("register must not sign in")
	}
}

func TestPasswordRecovery(t *testing.T) {
	var paths []string
	var reset map[string]string
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/auth/reset-password" {
			json.NewDecoder(r.Body).Decode(&reset) //nolint:errcheck
		}
		w.WriteHeader(http.StatusOK)
	})
	c, out := newTestCLI(t, api, "newpass1\n", nil)

	if err := c.runForgotPassword([]string{"--email", "ann@example.com"}); err != nil {
		t.Fatalf("runForgotPassword: %v", err)
	}
	if err := c.runResetPassword([]string{"--token", "abc"}); err != nil {
		t.Fatalf("runResetPassword: %v", err)
	}
	if strings.Join(paths, ",") != "/auth/forgot-password,/auth/reset-password" {
		t.Errorf("paths = %v", paths)
	}
	if reset["token"] != "abc" || reset["newPassword"] != "newpass1" {
		t.Errorf("reset body = %v", reset)
	}
	if !strings.Contains(out.String(), "Password updated") {
		t.Errorf("output = %q", out.String())
	}
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	c, _ := newTestCLI(t, http.NotFoundHandler(), "abc\n", nil)
	if err := c.runResetPassword([]string{"--token", "t"}); err == nil {
		t.Fatal("expected length error")
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	c, out := newTestCLI(t, http.NotFoundHandler(), "", nil)
	if err := c.dispatch([]string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(out.String(), "storefront login") {
		t.Errorf("help not printed: %q", out.String())
	}
}

func TestOpenStoreSQLite(t *testing.T) {
	cfg := config.Config{Home: t.TempDir() + "/nested", Store: config.StoreSQLite}
	store, closer, err := openStore(cfg)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer closer.Close()
	if err := store.Write("tok", domain.User{ID: 1, Role: domain.RoleUser}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	rec, err := store.Read()
	if err != nil || rec.Token != "tok" {
		t.Errorf("Read = %+v, %v", rec, err)
	}
}
