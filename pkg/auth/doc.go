// Package auth provides password hashing and session token issuance for the
// to-do API.
//
// # Overview
//
// Two components live here. Hasher wraps bcrypt for one-way credential storage.
// TokenService issues and validates stateless HS256 session tokens carrying the
// caller's identity. Neither holds mutable state; both are safe to share across
// goroutines.
//
// # Password Hashing
//
//	hasher := auth.NewHasher(auth.DefaultBcryptCost)
//	hash, err := hasher.Hash("password123")
//	// hash: $2a$12$... (algorithm, cost and salt are embedded)
//	ok := hasher.Verify("password123", hash)
//
// Length policy (minimum 8 characters) is enforced by pkg/validation before a
// password ever reaches the hasher.
//
// # Session Tokens
//
// Tokens are compact JWTs signed with a process-wide secret:
//
//	tokens := auth.NewTokenService(auth.TokenConfig{
//		Secret: []byte(cfg.Auth.Secret),
//		TTL:    24 * time.Hour,
//	})
//	token, err := tokens.Issue(user.ID, user.Email)
//
// The claim set is {user_id, email, iat, exp}, both timestamps in Unix seconds.
//
// Validation:
//
//	claims, err := tokens.Validate(token)
//	switch {
//	case errors.Is(err, auth.ErrTokenExpired):
//		// also matches ErrInvalidToken
//	case errors.Is(err, auth.ErrInvalidToken):
//		// malformed, bad signature, or an algorithm other than HS256
//	case errors.Is(err, auth.ErrMissingClaim):
//		// signature fine, user_id absent
//	}
//
// Only HS256 is accepted. Tokens naming "none", RS256 or any other algorithm
// are rejected before the signature is looked at.
//
// # Token Lifecycle
//
//	Issued --(now >= exp)------> Expired
//	Issued --(secret rotated)--> Invalid
//
// There is no server-side token store, so there is no revocation and no
// refresh: a token is good until exp or until the secret changes.
//
// # Related Packages
//
//   - pkg/middleware: bearer extraction and ownership enforcement
//   - pkg/validation: credential policy
//   - pkg/config: where the secret comes from
package auth
