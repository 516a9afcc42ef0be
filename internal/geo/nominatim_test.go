package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "MCCastellazzo/1.0", r.Header.Get("User-Agent"))

		switch r.URL.Query().Get("q") {
		case "Castellazzo Bormida":
			_, _ = w.Write([]byte(`[{"lat":"44.8456","lon":"8.5781","display_name":"Castellazzo Bormida, AL"}]`))
		case "broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL+"/", "MCCastellazzo/1.0")
	g.limiter = rate.NewLimiter(rate.Inf, 1)
	ctx := context.Background()

	loc, err := g.Geocode(ctx, "Castellazzo Bormida")
	require.NoError(t, err)
	assert.InDelta(t, 44.8456, loc.Lat, 1e-9)
	assert.InDelta(t, 8.5781, loc.Lon, 1e-9)
	assert.Equal(t, "Castellazzo Bormida, AL", loc.DisplayName)

	_, err = g.Geocode(ctx, "nowhere")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = g.Geocode(ctx, "  ")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = g.Geocode(ctx, "broken")
	assert.Error(t, err)

	loc, found := g.GeocodeOrDefault(ctx, "nowhere")
	assert.False(t, found)
	assert.Equal(t, DefaultLocation, loc)
}

func TestGeocode_ContextCancelled(t *testing.T) {
	g := NewGeocoder("http://127.0.0.1:1", "test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Geocode(ctx, "anything")
	assert.Error(t, err)
}
