package ports

import (
	"context"

	"github.com/bnema/fido-usage-cli/internal/domain"
)

// PortalSession is an authenticated handle on the carrier portal. The three
// fetches only depend on the session, not on each other.
type PortalSession interface {
	AccountNumber() string
	FetchBalance(ctx context.Context) (*float64, error)
	FetchLoyaltyBalance(ctx context.Context) (*float64, error)
	FetchUsage(ctx context.Context) (domain.RawUsage, error)
}

type Portal interface {
	Authenticate(ctx context.Context, creds domain.Credentials) (PortalSession, error)
}
