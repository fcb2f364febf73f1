package web_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ledgerdesk/internal/adapter/driving/web"
	"github.com/ericfisherdev/ledgerdesk/internal/application"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

type fakeBackend struct {
	mu    sync.Mutex
	paths []string
	login model.Envelope
}

func (f *fakeBackend) Do(_ context.Context, req driven.BackendRequest) (*driven.BackendResponse, error) {
	f.mu.Lock()
	f.paths = append(f.paths, req.Path)

	env := model.Envelope{Code: model.SuccessCode}
	if req.Path == "/auth/login" {
		env = f.login
	}
	f.mu.Unlock()
	return &driven.BackendResponse{StatusCode: http.StatusOK, Payload: model.JSONPayload{Envelope: env}}, nil
}

func (f *fakeBackend) setLogin(env model.Envelope) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.login = env
}

func (f *fakeBackend) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func (f *fakeBackend) Download(context.Context, driven.BackendRequest) (*model.Download, error) {
	return nil, nil
}

type memStore struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memStore) Set(_ context.Context, slot, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[slot] = value
	return nil
}

func (m *memStore) Get(_ context.Context, slot string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[slot], nil
}

func (m *memStore) List(context.Context) ([]model.Credential, error) { return nil, nil }

func (m *memStore) Delete(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, slot)
	return nil
}

type nopNavigator struct{}

func (nopNavigator) RedirectToLogin(context.Context, string) {}

type site struct {
	server  *httptest.Server
	client  *http.Client
	backend *fakeBackend
	session *application.Session
}

func newSite(t *testing.T, token string) *site {
	t.Helper()

	session := application.NewSession(&memStore{values: map[string]string{model.SlotAccessToken: token}})
	require.NoError(t, session.Load(context.Background()))

	be := &fakeBackend{}
	auth := application.NewAuthService(be, session, nopNavigator{}, slog.Default())

	clock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	h, err := web.NewHandler(auth, clock, slog.Default())
	require.NoError(t, err)

	mux := http.NewServeMux()
	web.RegisterRoutes(mux, h)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &site{
		server:  srv,
		client:  &http.Client{Jar: jar},
		backend: be,
		session: session,
	}
}

func (s *site) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := s.client.Get(s.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (s *site) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := s.client.PostForm(s.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (s *site) csrf(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(s.server.URL)
	require.NoError(t, err)
	for _, c := range s.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	t.Fatal("no csrf cookie issued")
	return ""
}

func TestLogin_RendersForm(t *testing.T) {
	s := newSite(t, "")

	resp, body := s.get(t, "/login")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `name="csrf_token" value="`+s.csrf(t)+`"`)
	assert.NotContains(t, body, "login-error")
}

func TestLogin_ErrorQueryShownOnce(t *testing.T) {
	s := newSite(t, "")

	resp, body := s.get(t, "/login?"+url.Values{"error": {"다시 로그인해주세요"}}.Encode())

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", resp.Request.URL.RequestURI(), "error query is dropped from the address bar")
	assert.Contains(t, body, "다시 로그인해주세요")

	_, body = s.get(t, "/login")
	assert.NotContains(t, body, "다시 로그인해주세요")
}

func TestLogin_ErrorQueryIsSanitized(t *testing.T) {
	s := newSite(t, "")

	_, body := s.get(t, "/login?"+url.Values{"error": {"<script>steal()</script>expired"}}.Encode())

	assert.NotContains(t, body, "steal()")
	assert.Contains(t, body, "expired")
}

func TestLogin_EmptyErrorQueryShowsNothing(t *testing.T) {
	s := newSite(t, "")

	resp, body := s.get(t, "/login?error=")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "login-error")
}

func TestSubmitLogin_Success(t *testing.T) {
	s := newSite(t, "")
	s.get(t, "/login")

	data, err := json.Marshal(map[string]string{"accessToken": "tok-1"})
	require.NoError(t, err)
	s.backend.setLogin(model.Envelope{Code: model.SuccessCode, Data: data})

	resp, body := s.post(t, "/login", url.Values{
		"csrf_token": {s.csrf(t)},
		"loginId":    {"admin"},
		"password":   {"secret"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Equal(t, "tok-1", s.session.AccessToken())
	assert.Contains(t, body, "EventSource")
	assert.Contains(t, body, "2026")
}

func TestSubmitLogin_RejectedShowsServerMessage(t *testing.T) {
	s := newSite(t, "")
	s.get(t, "/login")
	s.backend.setLogin(model.Envelope{Code: string(model.CodeInvalidPassword), FrontMessage: "비밀번호가 올바르지 않습니다"})

	resp, body := s.post(t, "/login", url.Values{
		"csrf_token": {s.csrf(t)},
		"loginId":    {"admin"},
		"password":   {"wrong"},
	})

	assert.Equal(t, "/login", resp.Request.URL.RequestURI())
	assert.Contains(t, body, "비밀번호가 올바르지 않습니다")
	assert.False(t, s.session.Authenticated())
}

func TestSubmitLogin_MissingFields(t *testing.T) {
	s := newSite(t, "")
	s.get(t, "/login")

	_, body := s.post(t, "/login", url.Values{"csrf_token": {s.csrf(t)}})

	assert.Contains(t, body, "enter your login id and password")
	assert.Empty(t, s.backend.calls())
}

func TestSubmitLogin_RequiresCSRF(t *testing.T) {
	s := newSite(t, "")
	s.get(t, "/login")

	resp, _ := s.post(t, "/login", url.Values{"loginId": {"admin"}, "password": {"secret"}})

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, s.backend.calls())
}

func TestLogout(t *testing.T) {
	s := newSite(t, "tok")
	s.get(t, "/")

	resp, body := s.post(t, "/logout", url.Values{"csrf_token": {s.csrf(t)}})

	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Sign in")
	assert.False(t, s.session.Authenticated())
	assert.Equal(t, []string{"/auth/logout"}, s.backend.calls())
}

func TestLogout_RequiresCSRF(t *testing.T) {
	s := newSite(t, "tok")

	resp, _ := s.post(t, "/logout", nil)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.True(t, s.session.Authenticated())
}

func TestHome_RedirectsWhenLoggedOut(t *testing.T) {
	s := newSite(t, "")

	resp, body := s.get(t, "/")

	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Sign in")
}

func TestHome_SubscribesToEvents(t *testing.T) {
	s := newSite(t, "tok")

	resp, body := s.get(t, "/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Contains(t, body, `data-events="/api/v1/events"`)
	assert.True(t, strings.Contains(body, `"navigate"`) && strings.Contains(body, `"api-error"`))
}
