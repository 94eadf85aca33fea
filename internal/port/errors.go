package port

import "errors"

// Sentinel errors used across ports. Handlers classify failures with
// errors.Is against these to decide the user-facing error shape.
var (
	// ErrConfiguration means the Spotify client id or secret is missing.
	// Fatal for the request, detected before any network call.
	ErrConfiguration = errors.New("spotify client credentials not configured")

	// ErrSession means the request carries no valid authenticated user.
	ErrSession = errors.New("invalid session")

	// ErrAccountState means the persisted account record is missing or
	// lacks fields required for an export.
	ErrAccountState = errors.New("account record incomplete")

	// ErrTokenRefresh means the refresh-token grant against the remote
	// token endpoint failed, or the refreshed token could not be persisted.
	ErrTokenRefresh = errors.New("token refresh failed")

	// ErrForbidden means the caller lacks the entitlement to query the
	// target Spotify account. A policy decision, not a data-existence one.
	ErrForbidden = errors.New("spotify account not permitted")

	// ErrNotFound means the target Spotify account id does not resolve.
	ErrNotFound = errors.New("spotify account not found")

	// ErrUpstream means a paginated playlist or track fetch returned a
	// non-success status. The whole export is aborted.
	ErrUpstream = errors.New("spotify request failed")

	// ErrSerialization means rendering the workbook failed.
	ErrSerialization = errors.New("workbook serialization failed")
)
