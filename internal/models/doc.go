// Package models contains the persistent entity types of the service and
// the generic Repository contract their stores implement.
//
// # Entity relationships
//
// A User owns two reference sets: Likes (ids into the likes collection)
// and Batches (ids into the batches collection). A Like carries a
// back-reference to its User and a snapshot of the Song it was created
// from. A Batch carries a back-reference to its User and the ids of the
// Songs one recommendation request produced.
//
// The store provides no cross-collection transactions, so these
// references are kept consistent by the library package, which sequences
// every multi-record mutation explicitly.
package models
