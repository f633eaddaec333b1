package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortLinkFixture serves a redirecting short link. The path carries the
// short-link host marker so the normalizer resolves it through the test
// server instead of the real one.
func shortLinkFixture(t *testing.T, destPath string) (*URLNormalizer, string) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/abnb.me/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, destPath, http.StatusMovedPermanently)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewURLNormalizerWithClient(srv.Client()), srv.URL + "/abnb.me/xYz12"
}

func TestNormalizeDirectURLs(t *testing.T) {
	n := NewURLNormalizer()
	ctx := context.Background()

	cases := map[string]string{
		"https://www.airbnb.com/rooms/12345":                    "https://www.airbnb.com/rooms/12345",
		"http://airbnb.com/rooms/12345":                         "https://www.airbnb.com/rooms/12345",
		"www.airbnb.com/rooms/12345":                            "https://www.airbnb.com/rooms/12345",
		"https://www.airbnb.co.uk/rooms/98765?guests=2":         "https://www.airbnb.com/rooms/98765",
		"https://www.airbnb.com/rooms/12345?source_impression=": "https://www.airbnb.com/rooms/12345",
		"https://www.airbnb.com/ROOMS/555":                      "https://www.airbnb.com/rooms/555",
	}
	for in, want := range cases {
		got, err := n.Normalize(ctx, in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestNormalizeRejectsNonListingPages(t *testing.T) {
	n := NewURLNormalizer()
	ctx := context.Background()

	for _, in := range []string{
		"",
		"   ",
		"https://www.airbnb.com/",
		"https://www.airbnb.com/s/Berlin/homes",
		"https://www.airbnb.com/wishlists/12345",
		"https://www.airbnb.com/experiences/12345",
		"https://example.com/not-airbnb",
	} {
		_, err := n.Normalize(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidURL, "input %q", in)
	}
}

func TestNormalizeShortLink(t *testing.T) {
	n, target := shortLinkFixture(t, "/rooms/424242?check_in=2026-09-01")

	got, err := n.Normalize(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, "https://www.airbnb.com/rooms/424242", got)
}

func TestNormalizeShortLinkToSearchPage(t *testing.T) {
	n, target := shortLinkFixture(t, "/s/Berlin/homes")

	_, err := n.Normalize(context.Background(), target)
	assert.ErrorIs(t, err, ErrInvalidURL)
}
