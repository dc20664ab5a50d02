// Package openidgin provides Gin handlers for the OpenID 2.0 login and
// callback endpoints of a relying party.
package openidgin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-openid2/openid2"
)

// DefaultIdentifierParam is the form or query parameter the login
// handler reads the user's identifier from.
const DefaultIdentifierParam = "openid_identifier"

// OnVerified receives the verified identity at the end of a callback.
// It typically establishes the application session.
type OnVerified func(c *gin.Context, info *openid2.UserInfo)

// LoginHandler starts a login: it reads the identifier from the request
// and redirects the browser to the discovered provider endpoint.
func LoginHandler(client *openid2.Client, callbackURL string, opts ...Option) gin.HandlerFunc {
	cfg := newConfig(callbackURL, opts)

	return func(c *gin.Context) {
		redirect, err := client.BuildRedirectURL(c.Request.Context(), openid2.RedirectRequest{
			Identifier:         c.Request.FormValue(cfg.identifierParam),
			CallbackURL:        cfg.callbackURL,
			Realm:              cfg.realm,
			RequiredAttributes: cfg.required,
			OptionalAttributes: cfg.optional,
		})
		if err != nil {
			cfg.errorHandler(c, err)
			return
		}
		c.Redirect(http.StatusFound, redirect)
	}
}

// CallbackHandler completes a login: it verifies the provider's
// assertion and hands the verified identity to onVerified.
func CallbackHandler(client *openid2.Client, onVerified OnVerified, opts ...Option) gin.HandlerFunc {
	cfg := newConfig("", opts)

	return func(c *gin.Context) {
		info, err := client.Verify(c.Request.Context(), c.Request.URL.Query())
		if err != nil {
			cfg.errorHandler(c, err)
			return
		}
		onVerified(c, info)
	}
}

func defaultErrorHandler(c *gin.Context, err error) {
	status := http.StatusUnauthorized
	switch {
	case errors.Is(err, openid2.ErrMissingParameters), errors.Is(err, openid2.ErrBadResponse):
		status = http.StatusBadRequest
	case errors.Is(err, openid2.ErrNoServerFound):
		status = http.StatusBadGateway
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
	})
}
