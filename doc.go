// Package userbase implements a small user-account service: account
// registration, credential authentication, stateless JWT session tokens, and
// administrative CRUD over user records.
//
// Token lifecycle:
//   - TokenService signs and validates HS256 tokens carrying the identity
//     claims (uid, email, role). Validity is fully determined by signature and
//     expiry at verification time; there is no revocation list, so a signed
//     token remains valid until its expiry regardless of later account
//     changes.
//
// Request pipeline:
//   - middleware/authware extracts credentials (auth cookie first, then the
//     Authorization header), validates the token, and attaches the identity to
//     the request. Role gates built with authware.RequireRole run after it and
//     fail closed when no identity is present.
//   - Every failure is a categorized error that funnels into the single
//     terminal responder installed as the fiber error handler.
package userbase
