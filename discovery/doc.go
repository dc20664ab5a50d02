/*
Package discovery locates the OpenID 2.0 provider endpoint for a
user-supplied identifier.

Discovery fetches the identifier's discovery document over HTTP and
applies resolvers in priority order: the XRDS service-document resolver
first, then the HTML link-markup resolver. Strategies implementing the
Discoverer interface can be stacked with Composite, which returns the
first success.

The package is stateless beyond its fixed configuration and safe for
concurrent use.
*/
package discovery
