package discovery

import (
	"encoding/xml"
	"strings"
)

// xrdsServiceTypes is ordered by priority: a 2.0 server endpoint beats a
// 2.0 sign-on service, which beats the 1.x compatibility types,
// regardless of where the services appear in the document.
var xrdsServiceTypes = []string{
	"http://specs.openid.net/auth/2.0/server",
	"http://specs.openid.net/auth/2.0/signon",
	"http://openid.net/signon/1.1",
	"http://openid.net/signon/1.0",
}

type xrdsDocument struct {
	XMLName xml.Name `xml:"XRDS"`
	XRD     struct {
		Services []xrdsService `xml:"Service"`
	} `xml:"XRD"`
}

type xrdsService struct {
	Types []string `xml:"Type"`
	URI   string   `xml:"URI"`
}

// XRDSResolver resolves provider endpoints from XRDS service-discovery
// documents. It applies only when the response declares the XRDS content
// type. XRDS has no delegate concept, so Delegate is always empty.
type XRDSResolver struct{}

// Resolve returns the URI of the first service carrying the
// highest-priority known type present anywhere in the document, or nil
// when the response is not XRDS or no known type matches.
func (*XRDSResolver) Resolve(resp *Response) *Server {
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/xrds+xml") {
		return nil
	}

	var doc xrdsDocument
	if err := xml.Unmarshal(resp.Body, &doc); err != nil {
		return nil
	}

	for _, want := range xrdsServiceTypes {
		for _, svc := range doc.XRD.Services {
			if !serviceHasType(svc, want) {
				continue
			}
			if uri := strings.TrimSpace(svc.URI); uri != "" {
				return &Server{Endpoint: uri}
			}
		}
	}
	return nil
}

func serviceHasType(svc xrdsService, want string) bool {
	for _, typ := range svc.Types {
		if strings.TrimSpace(typ) == want {
			return true
		}
	}
	return false
}
