package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var (
	roomIDPattern    = regexp.MustCompile(`(?i)/rooms/(\d+)`)
	shortLinkPattern = regexp.MustCompile(`(?i)airbnb\.[a-z.]+/h/`)
	badPathPattern   = regexp.MustCompile(`(?i)(/s/|/wishlists|/experiences)`)
)

// URLNormalizer canonicalizes submitted listing URLs. Short links and
// vanity URLs are resolved by following redirects; everything reduces to
// https://www.airbnb.com/rooms/<id>.
type URLNormalizer struct {
	client *http.Client
}

// NewURLNormalizer builds a normalizer with a bounded redirect-following
// client.
func NewURLNormalizer() *URLNormalizer {
	return &URLNormalizer{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewURLNormalizerWithClient wires a custom HTTP client, for tests.
func NewURLNormalizerWithClient(client *http.Client) *URLNormalizer {
	return &URLNormalizer{client: client}
}

// Normalize returns the canonical room URL for raw, or ErrInvalidURL
// when no room id can be extracted.
func (n *URLNormalizer) Normalize(ctx context.Context, raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", ErrInvalidURL
	}
	if !strings.HasPrefix(strings.ToLower(candidate), "http://") &&
		!strings.HasPrefix(strings.ToLower(candidate), "https://") {
		candidate = "https://" + candidate
	}

	finalURL := candidate
	if needsResolution(candidate) {
		if resolved, err := n.resolve(ctx, candidate); err == nil {
			finalURL = resolved
		}
		// Resolution failures fall back to the original URL; the room id
		// check below decides whether it is usable.
	}

	m := roomIDPattern.FindStringSubmatch(finalURL)
	if m == nil {
		return "", fmt.Errorf("%w: no room id in %q", ErrInvalidURL, finalURL)
	}
	if badPathPattern.MatchString(finalURL) {
		return "", fmt.Errorf("%w: unsupported page %q", ErrInvalidURL, finalURL)
	}
	return "https://www.airbnb.com/rooms/" + m[1], nil
}

func needsResolution(u string) bool {
	return strings.Contains(u, "abnb.me") ||
		strings.Contains(u, "airbnb.app.link") ||
		strings.Contains(u, "airbnb.page.link") ||
		shortLinkPattern.MatchString(u)
}

// resolve follows redirects and returns the final URL. HEAD first, GET
// as a fallback for hosts that reject HEAD.
func (n *URLNormalizer) resolve(ctx context.Context, u string) (string, error) {
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		req, err := http.NewRequestWithContext(ctx, method, u, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; AirbnbOptimizer/1.0)")

		resp, err := n.client.Do(req)
		if err != nil {
			continue
		}
		final := resp.Request.URL.String()
		resp.Body.Close()
		return final, nil
	}
	return "", fmt.Errorf("could not resolve %q", u)
}
