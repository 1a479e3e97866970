// Package adminauth provides the authentication subsystem for an
// administrative interface: password hashing, signed-token issuance and
// validation, refresh rotation, and the identity store adapter.
//
// Tokens:
//   - Access and refresh tokens are HS256 JWTs signed with distinct keys
//     and tagged with distinct issuers ("access" / "refresh"). A token of
//     one kind never validates as the other, by key and by issuer check.
//   - Refresh issues a brand-new pair from the verified claims; the old
//     refresh token keeps its own expiry. Nothing is revoked server-side.
//
// Identities:
//   - Accounts live as JSON documents in a RecordStore, keyed by
//     lowercased username. Uniqueness and the admin allow-list policy are
//     enforced by IdentityStore; PutIfAbsent is the atomic primitive that
//     makes concurrent registration race-free.
//   - The initial credential is seeded at boot with SeedBootstrapUser, so
//     login has a single lookup path.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by Auther and the
//     registration handler for login, refresh, and registration events.
//     Sinks run best-effort (errors are logged) so you can forward to a
//     database or queue without blocking authentication.
package adminauth
