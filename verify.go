package openid2

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// check_authentication responses are a handful of key:value lines.
const maxVerifyBodySize = 1 << 20

// Verify checks an assertion the provider sent back to the callback URL.
// params is the callback's full query parameter set; it is never mutated.
//
// The endpoint for the check_authentication round trip is never taken
// from the callback's own openid.op_endpoint value, which is controlled
// by the very party being verified. The endpoint is always re-derived by
// running discovery on the claimed identifier.
func (c *Client) Verify(ctx context.Context, params url.Values) (*UserInfo, error) {
	if mode := params.Get("openid.mode"); mode != "id_res" {
		return nil, fmt.Errorf("%w: unexpected openid.mode %q", ErrBadResponse, mode)
	}
	claimedID := params.Get("openid.claimed_id")
	if claimedID == "" {
		claimedID = params.Get("openid.identity")
	}
	if claimedID == "" {
		return nil, fmt.Errorf("%w: no claimed_id or identity in callback", ErrBadResponse)
	}

	started := time.Now()
	span := c.tracer.StartSpan("openid2.verify")
	defer span.Finish()
	span.SetTag("openid.claimed_id", claimedID)

	server, err := c.discoverer.DiscoverServerByUser(ctx, claimedID)
	if err != nil {
		c.observeVerify(started, "discovery_failed")
		return nil, err
	}
	span.SetTag("openid.op_endpoint", server.Endpoint)

	if err := c.checkAuthentication(ctx, server.Endpoint, params); err != nil {
		c.observeVerify(started, "rejected")
		c.logger.Warnf("openid verification against %s failed: %v", server.Endpoint, err)
		return nil, err
	}

	info, err := ExtractUserInfo(params)
	if err != nil {
		c.observeVerify(started, "bad_response")
		return nil, err
	}

	c.observeVerify(started, "success")
	c.logger.Debugf("openid verification succeeded for %q", info.ID)
	return info, nil
}

// checkAuthentication replays the assertion to the provider in dumb
// mode: the incoming parameter set with openid.mode swapped for
// check_authentication, POSTed directly to the endpoint.
func (c *Client) checkAuthentication(ctx context.Context, endpoint string, params url.Values) error {
	form := cloneValues(params)
	form.Set("openid.mode", "check_authentication")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return &authError{details: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &authError{details: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVerifyBodySize))
	if err != nil {
		return &authError{details: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: provider returned status %d", ErrAuthFailed, resp.StatusCode)
	}
	if !strings.Contains(string(body), "is_valid:true") {
		return fmt.Errorf("%w: provider did not confirm the assertion", ErrAuthFailed)
	}
	return nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for key, values := range v {
		out[key] = append([]string(nil), values...)
	}
	return out
}

func (c *Client) observeVerify(started time.Time, outcome string) {
	tags := map[string]string{"outcome": outcome}
	c.metrics.IncCounter(MetricVerifications, tags)
	c.metrics.ObserveHistogram(MetricVerifyDuration, time.Since(started).Seconds(), tags)
}
