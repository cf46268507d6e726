package auth

import (
	"github.com/spec-kit/repair-shop-service/internal/domain"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

// Principal represents the authenticated caller.
type Principal struct {
	Account *domain.Account
}

// CheckAccess is the role authorization guard. Denials are checked in a fixed
// order so callers always see the most specific reason first: not
// authenticated, then incomplete profile, then role mismatch. Anything that
// cannot be positively confirmed denies access.
func CheckAccess(principal *Principal, required domain.Role, requireProfile bool) error {
	if principal == nil || principal.Account == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	account := principal.Account
	if !account.Role.IsValid() {
		return apperrors.NewForbidden("unknown role")
	}
	if requireProfile && !account.ProfileComplete {
		return apperrors.NewProfileIncomplete("profile setup required")
	}
	if required != "" && account.Role != required {
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}
