package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/rioporto/v5-rioporto-sub007/internal/auth"
	"github.com/rioporto/v5-rioporto-sub007/internal/http/respond"
	"github.com/rioporto/v5-rioporto-sub007/internal/middleware"
	"github.com/rioporto/v5-rioporto-sub007/internal/session"
	"github.com/rioporto/v5-rioporto-sub007/internal/storage/memory"
)

// newTestServer builds the full request chain (guard included) over the
// seeded demo directory and an in-process session store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	sessions := session.NewManager(session.NewMemoryStore(), session.DefaultTTL)
	tokens := auth.NewTokenManager("test-secret", "rioporto-test", session.DefaultTTL)
	service := auth.NewService(memory.NewSeededStore(), sessions, tokens, 0)

	mux := http.NewServeMux()
	NewHealthHandler(time.Now()).Register(mux)
	NewPagesHandler().Register(mux)
	NewAuthHandler(service, false).Register(mux)

	ts := httptest.NewServer(middleware.Guard(mux))
	t.Cleanup(ts.Close)
	return ts
}

// client returns an http.Client with a cookie jar and redirects disabled,
// so tests can assert on Location headers directly.
func client(t *testing.T) *http.Client {
	t.Helper()
	jar := newCookieJar()
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postJSON(t *testing.T, c *http.Client, rawURL string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := c.Post(rawURL, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", rawURL, err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) respond.Envelope {
	t.Helper()
	defer resp.Body.Close()
	var env respond.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestLoginIssuesGuardCookies(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	resp := postJSON(t, c, ts.URL+"/api/auth/login", map[string]string{
		"email":    memory.DemoUserEmail,
		"password": memory.DemoUserPassword,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	got := map[string]bool{}
	for _, ck := range resp.Cookies() {
		got[ck.Name] = ck.Value != ""
	}
	resp.Body.Close()
	for _, name := range []string{SessionCookie, middleware.AuthTokenCookie, middleware.UserRoleCookie, middleware.KYCLevelCookie} {
		if !got[name] {
			t.Errorf("login must set cookie %q", name)
		}
	}

	// With the cookies in the jar, protected pages are reachable.
	pageResp, err := c.Get(ts.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	pageResp.Body.Close()
	if pageResp.StatusCode != http.StatusOK {
		t.Fatalf("authenticated /dashboard status = %d", pageResp.StatusCode)
	}
}

func TestAnonymousDashboardRedirects(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	resp, err := c.Get(ts.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect", resp.StatusCode)
	}
	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Path != "/login" || loc.Query().Get("redirect") != "/dashboard" {
		t.Fatalf("Location = %q", resp.Header.Get("Location"))
	}
}

func TestLoginFailureMessages(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	resp := postJSON(t, c, ts.URL+"/api/auth/login", map[string]string{
		"email":    "not-in-directory@example.com",
		"password": "whatever",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); env.Message != auth.MsgEmailNotFound {
		t.Fatalf("message = %q, want %q", env.Message, auth.MsgEmailNotFound)
	}

	resp = postJSON(t, c, ts.URL+"/api/auth/login", map[string]string{
		"email":    memory.DemoUserEmail,
		"password": "senha-errada",
	})
	if env := decodeEnvelope(t, resp); env.Message != auth.MsgWrongPassword {
		t.Fatalf("message = %q, want %q", env.Message, auth.MsgWrongPassword)
	}
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	resp := postJSON(t, c, ts.URL+"/api/auth/register", map[string]string{
		"email":           "nova@example.com",
		"name":            "Nova",
		"password":        "abc12",
		"confirmPassword": "abc12",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); env.Message != auth.MsgPasswordTooShort {
		t.Fatalf("message = %q", env.Message)
	}

	resp = postJSON(t, c, ts.URL+"/api/auth/register", map[string]string{
		"email":           "nova@example.com",
		"name":            "Nova",
		"password":        "abc123",
		"confirmPassword": "abc123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if cookies := resp.Cookies(); len(cookies) != 0 {
		t.Fatalf("register must not set cookies, got %d", len(cookies))
	}
	resp.Body.Close()
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	resp := postJSON(t, c, ts.URL+"/api/auth/login", map[string]string{
		"email":    memory.DemoUserEmail,
		"password": memory.DemoUserPassword,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	sessResp, err := c.Get(ts.URL + "/api/auth/session")
	if err != nil {
		t.Fatalf("GET session: %v", err)
	}
	if sessResp.StatusCode != http.StatusOK {
		t.Fatalf("session status = %d", sessResp.StatusCode)
	}
	sessResp.Body.Close()

	extResp := postJSON(t, c, ts.URL+"/api/auth/extend", nil)
	if extResp.StatusCode != http.StatusOK {
		t.Fatalf("extend status = %d", extResp.StatusCode)
	}
	extResp.Body.Close()

	outResp := postJSON(t, c, ts.URL+"/api/auth/logout", nil)
	if outResp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", outResp.StatusCode)
	}
	outResp.Body.Close()

	afterResp, err := c.Get(ts.URL + "/api/auth/session")
	if err != nil {
		t.Fatalf("GET session after logout: %v", err)
	}
	afterResp.Body.Close()
	if afterResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("session after logout status = %d", afterResp.StatusCode)
	}
}

func TestStaleSessionClearsGuardCookies(t *testing.T) {
	ts := newTestServer(t)

	// A client holding guard cookies for a session that no longer exists:
	// the session check must clear all four cookies, not just session_id,
	// or the edge guard keeps treating the client as authenticated.
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/auth/session", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sess_gone"})
	req.AddCookie(&http.Cookie{Name: middleware.AuthTokenCookie, Value: "stale-token"})
	req.AddCookie(&http.Cookie{Name: middleware.UserRoleCookie, Value: "USER"})
	req.AddCookie(&http.Cookie{Name: middleware.KYCLevelCookie, Value: "2"})

	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatalf("GET session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	cleared := map[string]bool{}
	for _, ck := range resp.Cookies() {
		if ck.MaxAge < 0 && ck.Value == "" {
			cleared[ck.Name] = true
		}
	}
	for _, name := range []string{SessionCookie, middleware.AuthTokenCookie, middleware.UserRoleCookie, middleware.KYCLevelCookie} {
		if !cleared[name] {
			t.Errorf("stale session response must clear cookie %q", name)
		}
	}
}

func TestExtendWithoutSessionFails(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	resp := postJSON(t, c, ts.URL+"/api/auth/extend", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

// newCookieJar is a minimal host-scoped jar; httptest servers always run on
// one host, so domain/path matching beyond that is unnecessary.
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{cookies: make(map[string]*http.Cookie)}
}

func (j *cookieJar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	for _, ck := range cookies {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(j.cookies, ck.Name)
			continue
		}
		j.cookies[ck.Name] = ck
	}
}

func (j *cookieJar) Cookies(_ *url.URL) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(j.cookies))
	for _, ck := range j.cookies {
		out = append(out, ck)
	}
	return out
}

func TestLoginSetsKYCCookieValue(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	resp := postJSON(t, c, ts.URL+"/api/auth/login", map[string]string{
		"email":    memory.DemoUserEmail,
		"password": memory.DemoUserPassword,
	})
	defer resp.Body.Close()

	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.KYCLevelCookie {
			if _, err := strconv.Atoi(ck.Value); err != nil {
				t.Fatalf("kyc cookie %q is not numeric", ck.Value)
			}
			return
		}
	}
	t.Fatal("kyc cookie not set")
}
