package md2speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Synthesizer abstracts the speech synthesis backend so the pipeline can
// be tested against a fake implementation without a running service.
type Synthesizer interface {
	// Synthesize converts text to raw audio written at dstPath.
	Synthesize(ctx context.Context, text, dstPath string) error
}

// Retry bounds for backend calls. Transport failures and 5xx responses are
// retried with exponential backoff; 4xx responses are not.
const (
	maxSynthesisRetries     = 3
	initialSynthesisBackoff = 500 * time.Millisecond
)

// ttsRequest is the LocalAI-compatible request body for POST /tts.
type ttsRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice,omitempty"`
}

// httpSynthesizer calls a LocalAI-style TTS backend over HTTP.
// The 200 response body is the raw WAV audio for the request text.
type httpSynthesizer struct {
	baseURL string
	model   string
	voice   string
	client  *http.Client
}

// Compile-time interface check.
var _ Synthesizer = (*httpSynthesizer)(nil)

// newHTTPSynthesizer creates a synthesizer for the backend at baseURL.
func newHTTPSynthesizer(baseURL, model, voice string, timeout time.Duration) *httpSynthesizer {
	return &httpSynthesizer{
		baseURL: baseURL,
		model:   model,
		voice:   voice,
		client:  &http.Client{Timeout: timeout},
	}
}

// permanentStatusError marks a response that must not be retried.
type permanentStatusError struct {
	status int
	body   string
}

func (e *permanentStatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.status, e.body)
}

// Synthesize posts the narration text and writes the returned audio to
// dstPath. The call is retried with exponential backoff on transport
// errors and server-side failures.
func (s *httpSynthesizer) Synthesize(ctx context.Context, text, dstPath string) error {
	body, err := json.Marshal(ttsRequest{
		Model: s.model,
		Input: text,
		Voice: s.voice,
	})
	if err != nil {
		return fmt.Errorf("%w: encoding request: %v", ErrSynthesis, err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(initialSynthesisBackoff),
		), maxSynthesisRetries),
		ctx,
	)

	attempt := 0
	operation := func() error {
		attempt++
		log.Debug().Str("url", s.baseURL).Int("attempt", attempt).Msg("synthesis request")
		err := s.doRequest(ctx, body, dstPath)
		if err == nil {
			return nil
		}
		var perm *permanentStatusError
		if errors.As(err, &perm) {
			return backoff.Permanent(err)
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("synthesis attempt failed")
		return err
	}

	if err := backoff.Retry(operation, policy); err != nil {
		var perm *permanentStatusError
		if errors.As(err, &perm) {
			return fmt.Errorf("%w: %v", ErrSynthesis, err)
		}
		return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}
	return nil
}

// doRequest performs one backend call and writes the audio response.
func (s *httpSynthesizer) doRequest(ctx context.Context, body []byte, dstPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/tts", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return &permanentStatusError{status: resp.StatusCode, body: string(msg)}
		}
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, msg)
	}

	out, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePermissions)
	if err != nil {
		return fmt.Errorf("creating audio file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(dstPath)
		return fmt.Errorf("writing audio file: %w", err)
	}
	return out.Close()
}
