package openid2

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-openid2/openid2/discovery"
)

// Protocol constants for OpenID 2.0 and its extensions.
const (
	nsOpenID2 = "http://specs.openid.net/auth/2.0"
	nsAX      = "http://openid.net/srv/ax/1.0"
	nsUI      = "http://specs.openid.net/extensions/ui/1.0"
)

// Attribute is one attribute-exchange request entry: a short alias the
// provider echoes back, and the canonical type URI it stands for.
type Attribute struct {
	Alias   string
	TypeURI string
}

// WellKnownAttributes maps common aliases to the AX type URIs most
// providers support.
var WellKnownAttributes = map[string]string{
	"email":     "http://axschema.org/contact/email",
	"firstname": "http://axschema.org/namePerson/first",
	"lastname":  "http://axschema.org/namePerson/last",
	"country":   "http://axschema.org/contact/country/home",
	"language":  "http://axschema.org/pref/language",
}

// RedirectRequest carries the inputs for BuildRedirectURL.
type RedirectRequest struct {
	// Identifier is the user-supplied OpenID identifier. Required.
	Identifier string

	// CallbackURL is where the provider sends the user back. Required.
	CallbackURL string

	// Realm, if set, is sent as openid.realm. See DefaultRealm.
	Realm string

	// RequiredAttributes and OptionalAttributes request attribute-exchange
	// values from the provider. Order is preserved in the alias lists.
	RequiredAttributes []Attribute
	OptionalAttributes []Attribute
}

// BuildRedirectURL discovers the identifier's provider and builds the
// checkid_setup URL to redirect the user's browser to.
//
// An identifier that fails normalization is still tried as entered;
// only an empty identifier fails with ErrMissingParameters.
func (c *Client) BuildRedirectURL(ctx context.Context, req RedirectRequest) (string, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		return "", fmt.Errorf("%w: identifier is empty", ErrMissingParameters)
	}

	claimedID, err := discovery.Normalize(identifier)
	if err != nil {
		claimedID = identifier
	}

	span := c.tracer.StartSpan("openid2.build_redirect")
	defer span.Finish()
	span.SetTag("openid.claimed_id", claimedID)

	server, err := c.discoverer.DiscoverServer(ctx, identifier)
	if err != nil {
		c.logger.Warnf("openid discovery failed for %q: %v", claimedID, err)
		return "", err
	}

	identity := claimedID
	if server.Delegate != "" {
		identity = server.Delegate
	}

	params := url.Values{}
	params.Set("openid.ns", nsOpenID2)
	params.Set("openid.mode", "checkid_setup")
	params.Set("openid.claimed_id", claimedID)
	params.Set("openid.identity", identity)
	params.Set("openid.return_to", req.CallbackURL)
	if req.Realm != "" {
		params.Set("openid.realm", req.Realm)
	}
	appendAXParams(params, req.RequiredAttributes, req.OptionalAttributes)
	params.Set("openid.ns.ui", nsUI)
	params.Set("openid.ui.icon", "true")

	separator := "?"
	if strings.Contains(server.Endpoint, "?") {
		separator = "&"
	}

	c.metrics.IncCounter(MetricRedirectsBuilt, map[string]string{})
	c.logger.Debugf("built openid redirect to %s for %q", server.Endpoint, claimedID)

	return server.Endpoint + separator + params.Encode(), nil
}

// appendAXParams emits the attribute-exchange fetch_request block. The
// block is omitted entirely when no attributes are requested.
func appendAXParams(params url.Values, required, optional []Attribute) {
	if len(required) == 0 && len(optional) == 0 {
		return
	}

	params.Set("openid.ns.ax", nsAX)
	params.Set("openid.ax.mode", "fetch_request")
	if len(required) > 0 {
		params.Set("openid.ax.required", joinAliases(required))
	}
	if len(optional) > 0 {
		params.Set("openid.ax.if_available", joinAliases(optional))
	}
	for _, attr := range required {
		params.Set("openid.ax.type."+attr.Alias, attr.TypeURI)
	}
	for _, attr := range optional {
		params.Set("openid.ax.type."+attr.Alias, attr.TypeURI)
	}
}

func joinAliases(attrs []Attribute) string {
	aliases := make([]string, len(attrs))
	for i, attr := range attrs {
		aliases[i] = attr.Alias
	}
	return strings.Join(aliases, ",")
}
