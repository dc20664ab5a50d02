package openid2

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUserInfo(t *testing.T) {
	t.Run("claimed_id wins over identity", func(t *testing.T) {
		info, err := ExtractUserInfo(url.Values{
			"openid.claimed_id": {"https://example.com/alice"},
			"openid.identity":   {"https://op.example.com/users/alice"},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/alice", info.ID)
	})

	t.Run("identity as fallback", func(t *testing.T) {
		info, err := ExtractUserInfo(url.Values{
			"openid.identity": {"https://op.example.com/users/alice"},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://op.example.com/users/alice", info.ID)
	})

	t.Run("no identity at all", func(t *testing.T) {
		_, err := ExtractUserInfo(url.Values{"openid.mode": {"id_res"}})
		assert.ErrorIs(t, err, ErrBadResponse)
	})

	t.Run("only signed attributes survive", func(t *testing.T) {
		info, err := ExtractUserInfo(url.Values{
			"openid.claimed_id":          {"https://example.com/alice"},
			"openid.signed":              {"claimed_id,identity,ext1.value.email,ext1.value.country"},
			"openid.ext1.value.email":    {"alice@example.com"},
			"openid.ext1.value.country":  {"NL"},
			"openid.ext1.value.language": {"en"},
		})
		require.NoError(t, err)

		want := map[string]string{
			"email":   "alice@example.com",
			"country": "NL",
		}
		if diff := cmp.Diff(want, info.Attributes); diff != "" {
			t.Errorf("attributes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no signed list drops everything", func(t *testing.T) {
		info, err := ExtractUserInfo(url.Values{
			"openid.claimed_id":       {"https://example.com/alice"},
			"openid.ext1.value.email": {"alice@example.com"},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/alice", info.ID)
		assert.Empty(t, info.Attributes)
	})

	t.Run("multi-valued attribute suffixes", func(t *testing.T) {
		info, err := ExtractUserInfo(url.Values{
			"openid.claimed_id":         {"https://example.com/alice"},
			"openid.signed":             {"claimed_id,ext1.value.email.1,ext1.value.email.2"},
			"openid.ext1.value.email.1": {"alice@example.com"},
			"openid.ext1.value.email.2": {"alice@work.example"},
		})
		require.NoError(t, err)

		want := map[string]string{
			"email.1": "alice@example.com",
			"email.2": "alice@work.example",
		}
		if diff := cmp.Diff(want, info.Attributes); diff != "" {
			t.Errorf("attributes mismatch (-want +got):\n%s", diff)
		}
	})
}
