// Package provision runs the first-start bootstrap of the application database.
//
// A Plan names the database, the application user and its role, the collection,
// and the uniquely indexed field. Provisioner.Run executes four steps in order:
//
//  1. select the database
//  2. create the user with the role scoped to that database
//  3. create the collection
//  4. create an ascending unique index on the field
//
// The run is not idempotent. A second run against an initialized server fails
// on the user step. An already existing collection is logged and skipped.
// Nothing is retried or rolled back.
package provision
