// Package fetch télécharge un log publié en HTTP(S) (log_file peut être une URL).
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxBytes  = 64 << 20 // un log de canal sur plusieurs mois
	DefaultUserAgent = "drivein/1.0"
)

// Erreurs exportées
var (
	ErrStatus   = errors.New("unexpected HTTP status")
	ErrTooLarge = errors.New("response body too large")
)

// FetchBytesWithTimeout télécharge l'URL et retourne les octets.
// - ctx peut être nil.
// - timeout : si <=0 on utilise DefaultTimeout.
// - maxBytes : si <=0 on utilise DefaultMaxBytes.
// Note : cette fonction lit tout en mémoire.
func FetchBytesWithTimeout(ctx context.Context, rawURL string, timeout time.Duration, maxBytes int64) ([]byte, error) {
	return FetchWithClient(ctx, http.DefaultClient, rawURL, timeout, maxBytes)
}

// FetchWithClient est FetchBytesWithTimeout avec un client explicite (tests, proxy).
func FetchWithClient(ctx context.Context, client *http.Client, rawURL string, timeout time.Duration, maxBytes int64) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	// valider l'URL tôt
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("fetch: invalid url %q: %w", rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch: %w %s", ErrStatus, resp.Status)
	}

	// si Content-Length connu et supérieur à maxBytes -> échouer vite
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("fetch: content-length %d exceeds limit %d: %w", resp.ContentLength, maxBytes, ErrTooLarge)
	}

	r := io.LimitReader(resp.Body, maxBytes+1) // +1 pour détecter dépassement
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("fetch: body over %d bytes: %w", maxBytes, ErrTooLarge)
	}
	return data, nil
}
