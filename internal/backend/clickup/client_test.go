package clickup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reltool/internal/config"
	"reltool/internal/service"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, apiURL, token string) *config.Config {
	t.Helper()
	settings := config.DefaultSettings()
	settings.ClickUp.APIURL = apiURL
	settings.ClickUp.Token = token
	return &config.Config{Dir: t.TempDir(), Settings: settings}
}

func TestGetTask(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/task/86a1b2" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "pk_42_SECRET" {
			t.Errorf("expected raw personal token, got %q", got)
		}
		w.Write([]byte(`{"id":"86a1b2","name":"Sticker picker crash","url":"https://app.clickup.com/t/86a1b2","status":{"status":"in review"}}`))
	})

	c, err := New(context.Background(), testConfig(t, srv.URL, "pk_42_SECRET"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	task, err := c.GetTask(context.Background(), "86a1b2")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	want := service.Task{
		ID:     "86a1b2",
		Name:   "Sticker picker crash",
		URL:    "https://app.clickup.com/t/86a1b2",
		Status: "in review",
	}
	if task != want {
		t.Errorf("expected %+v, got %+v", want, task)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"err":"Task not found","ECODE":"ITEM_013"}`))
	})

	c := NewWithHTTPClient(srv.Client(), testConfig(t, srv.URL, "").Settings.ClickUp)
	_, err := c.GetTask(context.Background(), "123")
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetTask_Unauthorized(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"err":"Token invalid","ECODE":"OAUTH_025"}`))
	})

	c := NewWithHTTPClient(srv.Client(), testConfig(t, srv.URL, "").Settings.ClickUp)
	_, err := c.GetTask(context.Background(), "123")
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err.Error() != "unauthorized: Token invalid" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestGetTask_ServerError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	c := NewWithHTTPClient(srv.Client(), testConfig(t, srv.URL, "").Settings.ClickUp)
	_, err := c.GetTask(context.Background(), "123")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "ClickUp API 502: upstream exploded" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestGetTask_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	settings := testConfig(t, srv.URL, "").Settings.ClickUp
	settings.Timeout = config.Duration(20 * time.Millisecond)
	c := NewWithHTTPClient(srv.Client(), settings)

	_, err := c.GetTask(context.Background(), "123")
	if err == nil || !strings.HasPrefix(err.Error(), "request timed out: ") {
		t.Errorf("expected timeout error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected error to wrap context.DeadlineExceeded, got %v", err)
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	var gotBody map[string]string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/task/86a1b2" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{}`))
	})

	c := NewWithHTTPClient(srv.Client(), testConfig(t, srv.URL, "").Settings.ClickUp)
	if err := c.UpdateTaskStatus(context.Background(), "86a1b2", "ready for qa"); err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if gotBody["status"] != "ready for qa" {
		t.Errorf("expected status in body, got %v", gotBody)
	}
}

func TestNew_OAuthToken(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer oauth-access" {
			t.Errorf("expected bearer token, got %q", got)
		}
		w.Write([]byte(`{"id":"1","name":"n","url":"u","status":{"status":"open"}}`))
	})

	cfg := testConfig(t, srv.URL, "")
	token := `{"access_token":"oauth-access","token_type":"Bearer"}`
	if err := os.WriteFile(filepath.Join(cfg.Dir, config.TokenFile), []byte(token), 0600); err != nil {
		t.Fatal(err)
	}

	c, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.GetTask(context.Background(), "1"); err != nil {
		t.Fatalf("GetTask: %v", err)
	}
}

func TestNew_NoCredentials(t *testing.T) {
	_, err := New(context.Background(), testConfig(t, "http://unused", ""))
	if !errors.Is(err, service.ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}

func TestNew_EmptyAccessToken(t *testing.T) {
	cfg := testConfig(t, "http://unused", "")
	if err := os.WriteFile(cfg.TokenPath(), []byte(`{"token_type":"Bearer"}`), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := New(context.Background(), cfg)
	if !errors.Is(err, service.ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}
