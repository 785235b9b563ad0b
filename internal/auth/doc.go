// Package auth holds the credential and session primitives: bcrypt password
// hashing, HMAC-signed JWT issuance and verification, login authentication
// against an account store, and the session guard that turns a bearer token
// into an account.
//
// Every type here is safe for concurrent use. The only mutable state is the
// SettingsStore, which swaps whole Settings values atomically.
package auth
