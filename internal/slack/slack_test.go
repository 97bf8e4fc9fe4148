package slack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// decode marshals v and decodes it back into generic JSON values.
func decode(t *testing.T, v interface{}) interface{} {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func parseJSON(t *testing.T, s string) interface{} {
	t.Helper()
	var out interface{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return out
}

func TestElementStyles(t *testing.T) {
	got := decode(t, []Element{
		BoldText("1.2.0"),
		BulletList(1, Section(Text("x"))),
		Emoji("android_robot"),
		Link("https://example.com", "ClickUp"),
	})

	want := parseJSON(t, `[
		{"type": "text", "text": "1.2.0", "style": {"bold": true}},
		{"type": "rich_text_list", "style": "bullet", "indent": 1, "border": 0,
		 "elements": [{"type": "rich_text_section", "elements": [{"type": "text", "text": "x"}]}]},
		{"type": "emoji", "name": "android_robot"},
		{"type": "link", "url": "https://example.com", "text": "ClickUp"}
	]`)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestTextEscaping(t *testing.T) {
	got := decode(t, Text(`Say "cheese" \o/`))
	want := map[string]interface{}{"type": "text", "text": `Say "cheese" \o/`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestWebhookPost(t *testing.T) {
	var got interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad body: %v", err)
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	msg := Message{Blocks: []Block{RichText(Section(Emoji("tada")))}}
	if err := (Webhook{URL: srv.URL}).Post(context.Background(), msg); err != nil {
		t.Fatalf("Post: %v", err)
	}

	want := parseJSON(t, `{"blocks": [{"type": "rich_text", "elements": [
		{"type": "rich_text_section", "elements": [{"type": "emoji", "name": "tada"}]}]}]}`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("posted JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestWebhookPost_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid_blocks"))
	}))
	defer srv.Close()

	err := (Webhook{URL: srv.URL}).Post(context.Background(), Message{Text: "hi"})
	if err == nil || err.Error() != "slack webhook 400: invalid_blocks" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestWebhookPost_NoURL(t *testing.T) {
	err := (Webhook{}).Post(context.Background(), Message{Text: "hi"})
	if !errors.Is(err, ErrNoWebhook) {
		t.Errorf("expected ErrNoWebhook, got %v", err)
	}
}
