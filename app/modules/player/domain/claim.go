package player

import "context"

// Claim links an external account to a player. Verification of claims is an
// authentication concern and lives outside this service; the core only
// consumes verified claims through ClaimResolver.
type Claim struct {
	PlayerID int64
	UserID   int64
	Verified bool
}

// ClaimResolver resolves the verified claim on a player, if any.
type ClaimResolver interface {
	VerifiedClaimOn(ctx context.Context, playerID int64) (*Claim, error)
}
