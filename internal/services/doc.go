// Package services implements the external catalog client.
//
// # Catalog Interface
//
// [Catalog] exposes the three read-only operations the service needs:
// best-match track search, track lookup by id, and seeded
// recommendations. All results are returned as [TrackSummary] values
// carrying the descriptive fields the rest of the system persists.
//
// # Spotify Implementation
//
// [SpotifyCatalog] authenticates with the OAuth2 client-credentials
// grant via [clientcredentials.Config]; the id/secret pair is combined
// into the Basic-auth credential by the oauth2 package. A fresh token is
// fetched per request and never cached across requests. Calls are capped
// by a client-side [rate.Limiter]; there is no retry policy, and every
// failure (token exchange, transport, non-2xx status, decode) is
// reported as [shared.ErrUpstream] so handlers can return a generic
// upstream error without leaking detail.
package services
