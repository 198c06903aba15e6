// Package server provides HTTP routing, middleware, and the REST handlers.
//
// # Routing
//
// [New] builds an echo instance with the middleware stack (request
// logging, panic recovery) and registers every route. The route table
// mixes literal and parameter first segments (/song/:id next to
// /:userId/likes); echo's router resolves the overlap with
// static-over-param precedence, so /song/likes is a song lookup, not a
// likes listing for user "song".
//
// # Handlers
//
// [API] holds the handler set over a [library.Library]. Handlers
// translate one request into one library operation, then map the result
// onto the wire shapes the surface has always used:
//
//   - {status, message, body} envelopes for song, like, and batch reads
//     and mutations
//   - {message, user} for signup and login
//   - raw track fields for /search and a raw track array for
//     /:userId/recommendations
//   - plain-text bodies for the search and recommendation error paths
//
// Error mapping is by sentinel: validation failures become 400, missing
// entities 404, and everything else a generic 500 with the detail kept
// in the server log.
package server
