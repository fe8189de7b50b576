// Package transcribe uploads recorded audio to the speech-to-text endpoint.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"voxdesk/internal/audio"
)

const (
	// NoTranscription is shown when the server answered but recognized nothing.
	NoTranscription = "No transcription available."
	// Unavailable is shown when the request failed for any reason.
	Unavailable = "Unable to transcribe audio."

	endpoint  = "/speech-to-text/"
	fieldName = "audio"
	fileName  = "audio.wav"
)

var (
	// ErrStatus marks a non-2xx response.
	ErrStatus = errors.New("unexpected status")
	// ErrMalformed marks a body that is not the expected JSON.
	ErrMalformed = errors.New("malformed response")
)

// Result is the outcome of one transcription request.
type Result struct {
	RequestID string
	Segments  []string
	Status    int
	Elapsed   time.Duration
}

// Text returns the first segment or the empty-result sentinel.
func (r Result) Text() string {
	if len(r.Segments) == 0 {
		return NoTranscription
	}
	return r.Segments[0]
}

// Client talks to the speech-to-text endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
}

// New returns a client for baseURL. A zero timeout disables the deadline.
func New(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Transcribe returns the recognized text. Failures are logged and reported as
// the Unavailable sentinel; it never returns an error.
func (c *Client) Transcribe(ctx context.Context, blob audio.Blob) string {
	res, err := c.TranscribeDetailed(ctx, blob)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.logger.Debugf("transcribe %s: %v", res.RequestID, err)
		} else {
			c.logger.Errorf("transcribe %s: %v", res.RequestID, err)
		}
		return Unavailable
	}
	return res.Text()
}

// TranscribeDetailed uploads blob and returns the parsed result.
func (c *Client) TranscribeDetailed(ctx context.Context, blob audio.Blob) (Result, error) {
	res := Result{RequestID: uuid.NewString()}
	start := time.Now()

	body, contentType, err := multipartBody(blob)
	if err != nil {
		return res, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, body)
	if err != nil {
		return res, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", res.RequestID)

	c.logger.Debugf("transcribe %s: uploading %d bytes", res.RequestID, blob.Len())
	resp, err := c.http.Do(req)
	if err != nil {
		return res, fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	res.Status = resp.StatusCode

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return res, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return res, fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	segments, err := parseResult(data)
	if err != nil {
		return res, err
	}
	res.Segments = segments
	res.Elapsed = time.Since(start)
	c.logger.Debugf("transcribe %s: %d segments in %s", res.RequestID, len(segments), res.Elapsed)
	return res, nil
}

func multipartBody(blob audio.Blob) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	ct := blob.ContentType
	if ct == "" {
		ct = audio.ContentTypeWAV
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, fileName))
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(blob.Data); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// parseResult accepts {"result": [...]} and {"result": "..."}.
func parseResult(data []byte) ([]string, error) {
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	raw := bytes.TrimSpace(envelope.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	switch raw[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%w: result list: %v", ErrMalformed, err)
		}
		return list, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: result string: %v", ErrMalformed, err)
		}
		return []string{s}, nil
	}
	return nil, fmt.Errorf("%w: result has unexpected type", ErrMalformed)
}
