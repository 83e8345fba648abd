package mongo

import (
	"errors"

	constant "github.com/Capi12YT/demo-avoris/mongoinit/constants"
	"go.mongodb.org/mongo-driver/mongo"
)

// Guard and configuration errors. None of them involve a server round-trip.
var (
	// ErrNilContext is returned when a method receives a nil context.
	ErrNilContext = errors.New("context cannot be nil")
	// ErrNilClient is returned when a method is called on a nil *Client.
	ErrNilClient = errors.New("mongo client is nil")
	// ErrClientClosed is returned by calls made after Close.
	ErrClientClosed = errors.New("mongo client is closed")
	// ErrNilDependency is returned when an Option leaves a driver call unset.
	ErrNilDependency = errors.New("mongo option set a required dependency to nil")
	// ErrNilMongoClient is returned when the driver connects without error but yields no client.
	ErrNilMongoClient = errors.New("mongo driver returned nil client")
	// ErrInvalidConfig marks client or user settings that cannot be used as given.
	ErrInvalidConfig = errors.New("invalid mongo config")
	// ErrEmptyURI is returned when Config.URI is blank.
	ErrEmptyURI = errors.New("mongo uri cannot be empty")
	// ErrEmptyDatabaseName is returned when no database is selected.
	ErrEmptyDatabaseName = errors.New("database name cannot be empty")
	// ErrEmptyCollectionName is returned by collection and index calls without a collection.
	ErrEmptyCollectionName = errors.New("collection name cannot be empty")
	// ErrEmptyIndexes is returned by CreateIndexes when no model is given.
	ErrEmptyIndexes = errors.New("at least one index must be provided")
	// ErrEmptyUsername is returned by CreateUser for a blank username.
	ErrEmptyUsername = errors.New("username cannot be empty")
	// ErrEmptyPassword is returned by CreateUser for an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrEmptyRoles is returned by CreateUser when the user would have no role.
	ErrEmptyRoles = errors.New("at least one role must be provided")
)

// Operation errors. The server error is wrapped alongside, so errors.As still
// reaches the driver type.
var (
	// ErrConnect wraps failures to build options or open the connection.
	ErrConnect = errors.New("mongo connect failed")
	// ErrPing wraps a failed round-trip to the server.
	ErrPing = errors.New("mongo ping failed")
	// ErrDisconnect wraps a failed disconnect in Close.
	ErrDisconnect = errors.New("mongo disconnect failed")
	// ErrCreateUser wraps every createUser failure.
	ErrCreateUser = errors.New("mongo create user failed")
	// ErrCreateCollection wraps every create failure.
	ErrCreateCollection = errors.New("mongo create collection failed")
	// ErrCreateIndex wraps every createIndexes failure.
	ErrCreateIndex = errors.New("mongo create index failed")

	// ErrUserExists marks a createUser rejected with UserAlreadyExists.
	ErrUserExists = errors.New("mongo user already exists")
	// ErrCollectionExists marks a create rejected with NamespaceExists.
	ErrCollectionExists = errors.New("mongo collection already exists")
	// ErrIndexConflict marks an index whose name or keys clash with a different existing index.
	ErrIndexConflict = errors.New("mongo index conflicts with an existing index")
)

// hasServerCode reports whether err carries any of the server error codes.
func hasServerCode(err error, codes ...int) bool {
	var serverErr mongo.ServerError
	if !errors.As(err, &serverErr) {
		return false
	}

	for _, code := range codes {
		if serverErr.HasErrorCode(code) {
			return true
		}
	}

	return false
}

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err) || hasServerCode(err, constant.CodeDuplicateKey)
}
