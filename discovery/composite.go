package discovery

import (
	"context"
	"errors"
	"fmt"
)

// Composite tries an ordered list of strategies and returns the first
// success. Strategies run strictly sequentially, never concurrently:
// ordering expresses precedence, and some discovery endpoints are rate
// limited, so there is no speculative fan-out. A failed attempt is
// complete before the next one starts.
type Composite struct {
	strategies []Discoverer
}

// NewComposite builds a Composite from an ordered, non-empty list of
// strategies.
func NewComposite(strategies ...Discoverer) (*Composite, error) {
	if len(strategies) == 0 {
		return nil, errors.New("composite discovery requires at least one strategy")
	}
	return &Composite{strategies: strategies}, nil
}

// DiscoverServer tries each strategy in order and short-circuits on the
// first success. It fails with ErrNoServerFound when every strategy
// failed.
func (c *Composite) DiscoverServer(ctx context.Context, identifier string) (*Server, error) {
	return c.discover(func(d Discoverer) (*Server, error) {
		return d.DiscoverServer(ctx, identifier)
	})
}

// DiscoverServerByUser behaves like DiscoverServer for the verification
// path.
func (c *Composite) DiscoverServerByUser(ctx context.Context, claimedID string) (*Server, error) {
	return c.discover(func(d Discoverer) (*Server, error) {
		return d.DiscoverServerByUser(ctx, claimedID)
	})
}

func (c *Composite) discover(attempt func(Discoverer) (*Server, error)) (*Server, error) {
	var errs []error
	for _, d := range c.strategies {
		server, err := attempt(d)
		if err == nil {
			return server, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %v", ErrNoServerFound, errors.Join(errs...))
}
