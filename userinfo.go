package openid2

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// UserInfo is a verified identity: the claimed identifier plus any
// attribute-exchange values the provider signed.
type UserInfo struct {
	ID         string
	Attributes map[string]string
}

// axValuePattern matches openid.<alias>.value.<name>. <name> may itself
// contain a dot, e.g. the index suffix of a multi-valued attribute
// (email.1, email.2).
var axValuePattern = regexp.MustCompile(`^openid\.([^.]+)\.value\.(.+)$`)

// ExtractUserInfo builds a UserInfo from callback parameters. The ID is
// the first openid.claimed_id value, falling back to openid.identity;
// absence of both fails with ErrBadResponse.
//
// Only attribute values whose key appears in the openid.signed list make
// it into Attributes. An unsigned attribute is forgeable, so dropping it
// silently is a security filter, not data loss.
func ExtractUserInfo(params url.Values) (*UserInfo, error) {
	id := params.Get("openid.claimed_id")
	if id == "" {
		id = params.Get("openid.identity")
	}
	if id == "" {
		return nil, fmt.Errorf("%w: no identity in response", ErrBadResponse)
	}

	signed := make(map[string]bool)
	if list := params.Get("openid.signed"); list != "" {
		for _, field := range strings.Split(list, ",") {
			signed[field] = true
		}
	}

	info := &UserInfo{ID: id, Attributes: make(map[string]string)}
	for key, values := range params {
		m := axValuePattern.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		alias, name := m[1], m[2]
		if !signed[alias+".value."+name] {
			continue
		}
		info.Attributes[name] = values[0]
	}
	return info, nil
}
