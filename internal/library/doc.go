// Package library implements the entity consistency layer.
//
// The four collections (users, songs, likes, batches) reference each
// other by id: a user carries the ids of its likes and batches, a like
// and a batch carry their owning user's id, and a batch carries the ids
// of its songs. [Library] is the only place multi-record mutations are
// sequenced, and every operation keeps the back-reference sets
// synchronized with the collections they point into:
//
//   - liking creates the like record, then appends it to the user's
//     like-set
//   - unliking detaches the reference from the user first, then deletes
//     the record
//   - a recommendation request stores the songs, then the batch, then
//     appends the batch to the user
//   - deleting a batch removes its songs, the batch, then the user's
//     reference
//
// There are no cross-record transactions. A failure partway through a
// mutation leaves the earlier writes in place; cleanup steps that can
// tolerate absence (batch song deletion, owner reference removal) are
// best-effort and logged rather than failed.
package library
