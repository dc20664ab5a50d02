/*
Package openid2 implements an OpenID 2.0 relying-party client: it
discovers a user identifier's provider endpoint, builds the
checkid_setup redirect, and verifies the provider's callback through a
direct check_authentication round trip.

# Quick Start

	import "github.com/go-openid2/openid2"

	client, err := openid2.New()
	if err != nil {
	    log.Fatal(err)
	}

	// Start a login: send the browser to the provider.
	redirect, err := client.BuildRedirectURL(ctx, openid2.RedirectRequest{
	    Identifier:  userSuppliedIdentifier,
	    CallbackURL: "https://app.example.com/openid/callback",
	    Realm:       openid2.DefaultRealm("https://app.example.com/openid/callback"),
	    RequiredAttributes: []openid2.Attribute{
	        {Alias: "email", TypeURI: openid2.WellKnownAttributes["email"]},
	    },
	})
	if err != nil {
	    // handle openid2.ErrMissingParameters / openid2.ErrNoServerFound
	}
	http.Redirect(w, r, redirect, http.StatusFound)

	// Finish a login: verify the provider's assertion.
	info, err := client.Verify(r.Context(), r.URL.Query())
	if err != nil {
	    // handle openid2.ErrBadResponse / openid2.ErrAuthFailed
	}
	fmt.Println("verified identity:", info.ID, info.Attributes["email"])

# Verification Model

Verification is "dumb mode": the assertion is replayed to the provider
with openid.mode swapped for check_authentication, and the provider
answers is_valid:true or false. The client never verifies openid.sig
locally and keeps no association state.

The endpoint for that round trip is re-discovered from the claimed
identifier on every Verify call. The callback's own openid.op_endpoint
field is attacker-controlled input and is never used as a request
target.

Only attribute-exchange values listed in openid.signed are surfaced on
UserInfo; everything else in the callback is forgeable and dropped.

# Discovery

The default discovery chain tries the generic strategy (XRDS service
document, then HTML link markup) and falls back to Google's fixed
federated-login endpoints. See the discovery package to build custom
chains with discovery.NewComposite.

# Configuration Options

All configuration is done through functional options:

  - WithHTTPClient: custom HTTP client (timeouts, proxies, TLS)
  - WithDiscoverer: custom discovery chain
  - WithLogger: logging (adapters for logrus, zap, zerolog)
  - WithMetrics: metrics sink (Prometheus implementation included)
  - WithTracer: tracing (OpenTelemetry implementation included)

# Thread Safety

The Client is immutable after creation and safe for concurrent use.
Each call owns its parameter state; callback parameters passed to
Verify are never mutated.
*/
package openid2
