// Package openidecho provides Echo handlers for the OpenID 2.0 login
// and callback endpoints of a relying party.
package openidecho

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/go-openid2/openid2"
)

// DefaultIdentifierParam is the form or query parameter the login
// handler reads the user's identifier from.
const DefaultIdentifierParam = "openid_identifier"

// OnVerified receives the verified identity at the end of a callback.
// It typically establishes the application session.
type OnVerified func(c echo.Context, info *openid2.UserInfo) error

// LoginHandler starts a login: it reads the identifier from the request
// and redirects the browser to the discovered provider endpoint.
func LoginHandler(client *openid2.Client, callbackURL string, opts ...Option) echo.HandlerFunc {
	cfg := newConfig(callbackURL, opts)

	return func(c echo.Context) error {
		redirect, err := client.BuildRedirectURL(c.Request().Context(), openid2.RedirectRequest{
			Identifier:         c.FormValue(cfg.identifierParam),
			CallbackURL:        cfg.callbackURL,
			Realm:              cfg.realm,
			RequiredAttributes: cfg.required,
			OptionalAttributes: cfg.optional,
		})
		if err != nil {
			return cfg.errorHandler(c, err)
		}
		return c.Redirect(http.StatusFound, redirect)
	}
}

// CallbackHandler completes a login: it verifies the provider's
// assertion and hands the verified identity to onVerified.
func CallbackHandler(client *openid2.Client, onVerified OnVerified, opts ...Option) echo.HandlerFunc {
	cfg := newConfig("", opts)

	return func(c echo.Context) error {
		info, err := client.Verify(c.Request().Context(), c.QueryParams())
		if err != nil {
			return cfg.errorHandler(c, err)
		}
		return onVerified(c, info)
	}
}

func defaultErrorHandler(c echo.Context, err error) error {
	status := http.StatusUnauthorized
	switch {
	case errors.Is(err, openid2.ErrMissingParameters), errors.Is(err, openid2.ErrBadResponse):
		status = http.StatusBadRequest
	case errors.Is(err, openid2.ErrNoServerFound):
		status = http.StatusBadGateway
	}
	return c.JSON(status, map[string]string{
		"message": err.Error(),
	})
}
