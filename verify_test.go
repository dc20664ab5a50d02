package openid2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-openid2/openid2/discovery"
)

func idResParams(claimedID string) url.Values {
	return url.Values{
		"openid.mode":       {"id_res"},
		"openid.claimed_id": {claimedID},
		"openid.identity":   {claimedID},
		"openid.signed":     {"claimed_id,identity"},
		"openid.sig":        {"c2lnbmF0dXJl"},
	}
}

// providerStub simulates the provider's check_authentication endpoint
// and records what it received.
func providerStub(t *testing.T, response string, status int) (*httptest.Server, *url.Values) {
	t.Helper()

	var received url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		received = r.PostForm
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &received
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("mode other than id_res fails without any network traffic", func(t *testing.T) {
		stub := &stubDiscoverer{}
		client, err := New(WithDiscoverer(stub))
		require.NoError(t, err)

		params := url.Values{"openid.mode": {"cancel"}}
		_, err = client.Verify(ctx, params)
		assert.ErrorIs(t, err, ErrBadResponse)
		assert.Equal(t, 0, stub.userCalls)
	})

	t.Run("callback without an identity fails", func(t *testing.T) {
		client, err := New(WithDiscoverer(&stubDiscoverer{}))
		require.NoError(t, err)

		params := url.Values{"openid.mode": {"id_res"}}
		_, err = client.Verify(ctx, params)
		assert.ErrorIs(t, err, ErrBadResponse)
	})

	t.Run("valid assertion round trip", func(t *testing.T) {
		provider, received := providerStub(t, "ns:http://specs.openid.net/auth/2.0\nis_valid:true\n", http.StatusOK)

		stub := &stubDiscoverer{server: &discovery.Server{Endpoint: provider.URL}}
		client, err := New(WithDiscoverer(stub))
		require.NoError(t, err)

		params := idResParams("https://example.com/alice")
		info, err := client.Verify(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/alice", info.ID)

		// Discovery ran on the claimed identifier, not on anything the
		// callback asserted about itself.
		assert.Equal(t, 1, stub.userCalls)
		assert.Equal(t, "https://example.com/alice", stub.lastClaimedID)

		// The provider saw the assertion replayed in dumb mode.
		assert.Equal(t, "check_authentication", received.Get("openid.mode"))
		assert.Equal(t, "https://example.com/alice", received.Get("openid.claimed_id"))
		assert.Equal(t, "c2lnbmF0dXJl", received.Get("openid.sig"))

		// The caller's parameter set stays untouched.
		assert.Equal(t, "id_res", params.Get("openid.mode"))
	})

	t.Run("endpoint asserted by the callback itself is never used", func(t *testing.T) {
		attackerHits := 0
		attacker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attackerHits++
			_, _ = w.Write([]byte("is_valid:true\n"))
		}))
		defer attacker.Close()

		provider, _ := providerStub(t, "is_valid:true\n", http.StatusOK)

		stub := &stubDiscoverer{server: &discovery.Server{Endpoint: provider.URL}}
		client, err := New(WithDiscoverer(stub))
		require.NoError(t, err)

		params := idResParams("https://example.com/alice")
		params.Set("openid.op_endpoint", attacker.URL)

		_, err = client.Verify(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, 0, attackerHits, "the callback's op_endpoint must never receive traffic")
	})

	t.Run("signed attributes reach the user info", func(t *testing.T) {
		provider, _ := providerStub(t, "is_valid:true\n", http.StatusOK)

		client, err := New(WithDiscoverer(&stubDiscoverer{server: &discovery.Server{Endpoint: provider.URL}}))
		require.NoError(t, err)

		params := idResParams("https://example.com/alice")
		params.Set("openid.ext1.value.email", "alice@example.com")
		params.Set("openid.ext1.value.firstname", "Alice")
		params.Set("openid.signed", "claimed_id,identity,ext1.value.email")

		info, err := client.Verify(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", info.Attributes["email"])
		_, present := info.Attributes["firstname"]
		assert.False(t, present, "unsigned attribute must be dropped")
	})

	t.Run("provider rejecting the assertion fails with ErrAuthFailed", func(t *testing.T) {
		provider, _ := providerStub(t, "is_valid:false\n", http.StatusOK)

		client, err := New(WithDiscoverer(&stubDiscoverer{server: &discovery.Server{Endpoint: provider.URL}}))
		require.NoError(t, err)

		_, err = client.Verify(ctx, idResParams("https://example.com/alice"))
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("non-success status fails with ErrAuthFailed", func(t *testing.T) {
		provider, _ := providerStub(t, "", http.StatusInternalServerError)

		client, err := New(WithDiscoverer(&stubDiscoverer{server: &discovery.Server{Endpoint: provider.URL}}))
		require.NoError(t, err)

		_, err = client.Verify(ctx, idResParams("https://example.com/alice"))
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("unreachable provider fails with ErrAuthFailed", func(t *testing.T) {
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		provider.Close() // shut down before use

		client, err := New(WithDiscoverer(&stubDiscoverer{server: &discovery.Server{Endpoint: provider.URL}}))
		require.NoError(t, err)

		_, err = client.Verify(ctx, idResParams("https://example.com/alice"))
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("discovery failure propagates", func(t *testing.T) {
		client, err := New(WithDiscoverer(&stubDiscoverer{err: discovery.ErrNoServerFound}))
		require.NoError(t, err)

		_, err = client.Verify(ctx, idResParams("https://example.com/alice"))
		assert.ErrorIs(t, err, ErrNoServerFound)
	})
}
