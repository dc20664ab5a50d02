package openidecho

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-openid2/openid2"
	"github.com/go-openid2/openid2/discovery"
)

type stubDiscoverer struct {
	server *discovery.Server
	err    error
}

func (s *stubDiscoverer) DiscoverServer(ctx context.Context, identifier string) (*discovery.Server, error) {
	return s.server, s.err
}

func (s *stubDiscoverer) DiscoverServerByUser(ctx context.Context, claimedID string) (*discovery.Server, error) {
	return s.server, s.err
}

func newTestClient(t *testing.T, endpoint string) *openid2.Client {
	t.Helper()
	client, err := openid2.New(openid2.WithDiscoverer(&stubDiscoverer{
		server: &discovery.Server{Endpoint: endpoint},
	}))
	require.NoError(t, err)
	return client
}

func TestLoginHandler(t *testing.T) {
	t.Run("redirects to the provider", func(t *testing.T) {
		client := newTestClient(t, "https://op.example.com/auth")
		handler := LoginHandler(client, "https://rp.example.com/callback")

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/login?openid_identifier=https://example.com/alice", nil)
		rec := httptest.NewRecorder()

		err := handler(e.NewContext(req, rec))
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, rec.Code)

		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		q := location.Query()
		assert.Equal(t, "checkid_setup", q.Get("openid.mode"))
		assert.Equal(t, "https://rp.example.com/callback", q.Get("openid.return_to"))
		assert.Equal(t, "https://rp.example.com", q.Get("openid.realm"), "realm defaults to the callback origin")
	})

	t.Run("missing identifier renders a 400", func(t *testing.T) {
		client := newTestClient(t, "https://op.example.com/auth")
		handler := LoginHandler(client, "https://rp.example.com/callback")

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		rec := httptest.NewRecorder()

		err := handler(e.NewContext(req, rec))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("custom identifier parameter and realm", func(t *testing.T) {
		client := newTestClient(t, "https://op.example.com/auth")
		handler := LoginHandler(client, "https://rp.example.com/callback",
			WithIdentifierParam("who"),
			WithRealm("https://other.example.com"),
		)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/login?who=https://example.com/alice", nil)
		rec := httptest.NewRecorder()

		err := handler(e.NewContext(req, rec))
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, rec.Code)

		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "https://other.example.com", location.Query().Get("openid.realm"))
	})
}

func TestCallbackHandler(t *testing.T) {
	t.Run("hands the verified identity to the application", func(t *testing.T) {
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("is_valid:true\n"))
		}))
		defer provider.Close()

		client := newTestClient(t, provider.URL)

		var verified *openid2.UserInfo
		handler := CallbackHandler(client, func(c echo.Context, info *openid2.UserInfo) error {
			verified = info
			return c.NoContent(http.StatusOK)
		})

		params := url.Values{
			"openid.mode":       {"id_res"},
			"openid.claimed_id": {"https://example.com/alice"},
			"openid.signed":     {"claimed_id"},
		}
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/callback?"+params.Encode(), nil)
		rec := httptest.NewRecorder()

		err := handler(e.NewContext(req, rec))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, verified)
		assert.Equal(t, "https://example.com/alice", verified.ID)
	})

	t.Run("cancelled login renders a 400", func(t *testing.T) {
		client := newTestClient(t, "https://op.example.com/auth")
		handler := CallbackHandler(client, func(c echo.Context, info *openid2.UserInfo) error {
			t.Fatal("onVerified must not run")
			return nil
		})

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/callback?openid.mode=cancel", nil)
		rec := httptest.NewRecorder()

		err := handler(e.NewContext(req, rec))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
