package models

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voxdesk/internal/config"
	"voxdesk/internal/logging"
)

func newServer(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestListModels(t *testing.T) {
	url := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get-model-names/" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `["whisper","wav2vec"]`)
	})
	c := New(url, config.SchemaItems, time.Second, logging.NewTestLogger())
	names, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "whisper" {
		t.Fatalf("names %v", names)
	}
}

func TestListModelsStatusError(t *testing.T) {
	url := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	c := New(url, config.SchemaItems, time.Second, logging.NewTestLogger())
	_, err := c.ListModels(context.Background())
	if code, ok := IsStatus(err); !ok || code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 status error, got %v", err)
	}
}

func TestListModelsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := New(url, config.SchemaItems, time.Second, logging.NewTestLogger())
	if _, err := c.ListModels(context.Background()); !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestCurrentModelAcceptsStringOrObject(t *testing.T) {
	for body, want := range map[string]string{
		`"whisper"`:                 "whisper",
		`{"model_name":"wav2vec"}`:  "wav2vec",
		`{"model":"whisper-large"}`: "whisper-large",
	} {
		url := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})
		c := New(url, config.SchemaItems, time.Second, logging.NewTestLogger())
		got, err := c.CurrentModel(context.Background())
		if err != nil || got != want {
			t.Errorf("%s: got %q, %v", body, got, err)
		}
	}
}

func TestGetConfigEscapesModelName(t *testing.T) {
	var gotPath, gotModel string
	url := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotModel = r.URL.Query().Get("model_name")
		_, _ = io.WriteString(w, `{"device":["cpu","cuda"]}`)
	})
	c := New(url, config.SchemaMap, time.Second, logging.NewTestLogger())
	cfg, err := c.GetConfig(context.Background(), "my model&x=1")
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if gotPath != "/get-model-config/" || gotModel != "my model&x=1" {
		t.Fatalf("path=%q model=%q", gotPath, gotModel)
	}
	if len(cfg.Items) != 1 || cfg.Items[0].Name != "device" {
		t.Fatalf("config %+v", cfg)
	}
}

func TestSetConfigItemsBody(t *testing.T) {
	var got wireItems
	var gotMethod, gotPath, gotModel string
	url := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotModel = r.URL.Query().Get("model_name")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
	c := New(url, config.SchemaItems, time.Second, logging.NewTestLogger())
	err := c.SetConfig(context.Background(), "whisper", Config{Items: []Item{
		{Name: "device", Description: "Device", Attribute: "device", Options: []string{"cuda"}},
	}})
	if err != nil {
		t.Fatalf("set config: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/change-model/" || gotModel != "whisper" {
		t.Fatalf("method=%s path=%s model=%s", gotMethod, gotPath, gotModel)
	}
	if len(got.Items) != 1 || got.Items[0].Name != "device" || len(got.Items[0].Options) != 1 || got.Items[0].Options[0] != "cuda" {
		t.Fatalf("body %+v", got)
	}
}

func TestSetConfigStatusError(t *testing.T) {
	url := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad option", http.StatusUnprocessableEntity)
	})
	c := New(url, config.SchemaItems, time.Second, logging.NewTestLogger())
	err := c.SetConfig(context.Background(), "whisper", Config{})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnprocessableEntity || se.Body != "bad option" {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestInvalidSchemaFallsBackToItems(t *testing.T) {
	c := New("http://example.invalid", config.Schema("xml"), 0, logging.NewTestLogger())
	if c.Schema() != config.SchemaItems {
		t.Fatalf("schema %q", c.Schema())
	}
}
