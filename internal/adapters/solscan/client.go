package solscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/SanderBuruma/solana-research/internal/ports"
)

const (
	defaultBaseURL = "https://api-v2.solscan.io/v2"

	// El indexador tolera ráfagas cortas pero banea IPs agresivas; nos
	// quedamos muy por debajo de lo observado en el navegador.
	requestsPerSec = 4

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client es el HTTP client del indexador con rate limiting y retries.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
	authTok string
}

// NewClient crea un Client contra el base URL dado. Si baseURL está vacío usa
// el endpoint público; proxyURL vacío desactiva el proxy.
func NewClient(baseURL, proxyURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	transport := http.DefaultTransport
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport = &http.Transport{Proxy: http.ProxyURL(u)}
		} else {
			slog.Warn("invalid proxy url, continuing without proxy", "err", err)
		}
	}

	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second, Transport: transport},
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: rate.NewLimiter(requestsPerSec, 2),
		authTok: generateAuthToken(),
	}
}

// envelope es la forma común de las respuestas del indexador.
type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Metadata json.RawMessage `json:"metadata"`
}

// get hace un GET con rate limiting y retries, y decodifica el envelope.
func (c *Client) get(ctx context.Context, endpoint string) (*envelope, error) {
	reqURL := c.baseURL + "/" + endpoint

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusForbidden {
			resp.Body.Close()
			return nil, fmt.Errorf("solscan: 403 for %s: %w", endpoint, ports.ErrAccessDenied)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return nil, fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			slog.Warn("indexer error, retrying", "status", resp.StatusCode, "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		var env envelope
		err = json.NewDecoder(resp.Body).Decode(&env)
		resp.Body.Close()
		if err != nil {
			// Body malformado cuenta como fallo transitorio
			if attempt == maxRetries {
				return nil, fmt.Errorf("decode response: %w", err)
			}
			c.sleep(ctx, attempt)
			continue
		}
		return &env, nil
	}
	return nil, fmt.Errorf("exhausted %d retries", maxRetries)
}

// setHeaders pone los headers de navegador que el indexador espera.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	req.Header.Set("Origin", "https://solscan.io")
	req.Header.Set("Referer", "https://solscan.io/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36")
	req.Header.Set("Sol-Aut", c.authTok)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

// generateAuthToken fabrica un token sol-aut con el mismo patrón que genera
// el frontend del indexador: 32 chars aleatorios con "B9dls0fK" insertado en
// una posición aleatoria y un par de '=' y '-' repartidos.
func generateAuthToken() string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, 32)
	for i := range buf {
		buf[i] = chars[rand.Intn(len(chars))]
	}
	n := rand.Intn(31)
	tok := string(buf[:n]) + "B9dls0fK" + string(buf[n:])

	out := []byte(tok)
	for _, c := range []byte{'=', '-'} {
		for i := 0; i < 2; i++ {
			out[rand.Intn(len(out))] = c
		}
	}
	return string(out)
}
