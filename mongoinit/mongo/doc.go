// Package mongo wraps the MongoDB driver with the administrative calls a
// first-start bootstrap needs: select a database, create a user, create a
// collection, and create indexes.
//
// None of the calls check for existing state first. Server-side conflicts are
// classified into sentinel errors (ErrUserExists, ErrCollectionExists,
// ErrIndexConflict) so callers decide which ones they tolerate.
package mongo
