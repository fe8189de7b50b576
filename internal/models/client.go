// Package models lists server-side speech models and reads or changes their
// configuration.
package models

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"voxdesk/internal/config"
)

const maxErrorBody = 512

// Client talks to the model endpoints of the backend.
type Client struct {
	baseURL string
	schema  config.Schema
	http    *http.Client
	logger  *logrus.Logger
}

// New returns a client. An invalid schema falls back to items.
func New(baseURL string, schema config.Schema, timeout time.Duration, logger *logrus.Logger) *Client {
	if !schema.Valid() {
		schema = config.SchemaItems
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		schema:  schema,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FromConfig builds a client from the backend section.
func FromConfig(cfg *config.Config, logger *logrus.Logger) *Client {
	return New(cfg.BackendURL(), cfg.Backend.Schema, cfg.Timeout(), logger)
}

// Schema returns the wire schema used for config requests.
func (c *Client) Schema() config.Schema { return c.schema }

// ListModels returns the model names offered by the server.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	data, err := c.do(ctx, "list models", http.MethodGet, "/get-model-names/", nil)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		// some servers wrap the list
		var wrapped struct {
			Models []string `json:"models"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil || wrapped.Models == nil {
			return nil, fmt.Errorf("%w: model names: %v", ErrMalformed, err)
		}
		names = wrapped.Models
	}
	return names, nil
}

// CurrentModel returns the name of the model the server has loaded.
func (c *Client) CurrentModel(ctx context.Context) (string, error) {
	data, err := c.do(ctx, "current model", http.MethodGet, "/get-current-model/", nil)
	if err != nil {
		return "", err
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		return name, nil
	}
	var obj struct {
		Model     string `json:"model"`
		ModelName string `json:"model_name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", fmt.Errorf("%w: current model: %v", ErrMalformed, err)
	}
	if obj.ModelName != "" {
		return obj.ModelName, nil
	}
	return obj.Model, nil
}

// GetConfig fetches the configurable attributes of model.
func (c *Client) GetConfig(ctx context.Context, model string) (Config, error) {
	path := "/get-config/"
	if c.schema == config.SchemaMap {
		path = "/get-model-config/"
	}
	data, err := c.do(ctx, "get config", http.MethodGet, path+"?model_name="+url.QueryEscape(model), nil)
	if err != nil {
		return Config{}, err
	}
	return DecodeConfig(data)
}

// SetConfig submits cfg for model. Every item must carry exactly the
// selected option.
func (c *Client) SetConfig(ctx context.Context, model string, cfg Config) error {
	var (
		body []byte
		err  error
	)
	if c.schema == config.SchemaMap {
		body, err = EncodeMap(cfg)
	} else {
		body, err = EncodeItems(cfg)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = c.do(ctx, "change model", http.MethodPost, "/change-model/?model_name="+url.QueryEscape(model), body)
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.logger.Debugf("%s: %s %s", op, method, path)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrNetwork, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: read body: %v", op, ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(data))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Body: snippet}
	}
	return data, nil
}
