package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	constant "github.com/Capi12YT/demo-avoris/mongoinit/constants"
	"github.com/Capi12YT/demo-avoris/mongoinit/log"
	libOpentelemetry "github.com/Capi12YT/demo-avoris/mongoinit/opentelemetry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
)

// Role binds a named permission set to a database.
// An empty Database scopes the role to the selected database.
type Role struct {
	Name     string
	Database string
}

// User is a credential to create in the selected database.
type User struct {
	Username string
	Password string
	Roles    []Role
}

func (u User) validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}

	if u.Password == "" {
		return ErrEmptyPassword
	}

	if len(u.Roles) == 0 {
		return ErrEmptyRoles
	}

	for _, role := range u.Roles {
		if strings.TrimSpace(role.Name) == "" {
			return fmt.Errorf("%w: role name cannot be empty", ErrInvalidConfig)
		}
	}

	return nil
}

// createUserCommand builds the createUser command document for database.
func createUserCommand(database string, user User) bson.D {
	roles := make(bson.A, 0, len(user.Roles))

	for _, role := range user.Roles {
		scope := strings.TrimSpace(role.Database)
		if scope == "" {
			scope = database
		}

		roles = append(roles, bson.D{
			{Key: "role", Value: role.Name},
			{Key: "db", Value: scope},
		})
	}

	return bson.D{
		{Key: "createUser", Value: user.Username},
		{Key: "pwd", Value: user.Password},
		{Key: "roles", Value: roles},
	}
}

// CreateUser creates user in the selected database. It fails with
// ErrUserExists when the username is already registered there.
func (c *Client) CreateUser(ctx context.Context, user User) error {
	if c == nil {
		return ErrNilClient
	}

	if ctx == nil {
		return ErrNilContext
	}

	if err := user.validate(); err != nil {
		return err
	}

	client, databaseName, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	ctx, span := libOpentelemetry.StartMongoSpan(ctx, "mongo.create_user",
		databaseAttr(databaseName),
		attribute.String(constant.AttrDBUser, user.Username),
	)
	defer span.End()

	c.logger.Log(ctx, log.LevelDebug, "creating mongo user", log.String("database", databaseName), log.String("username", user.Username))

	if err := c.deps.runCommand(ctx, client, databaseName, createUserCommand(databaseName, user)); err != nil {
		var wrapped error
		if hasServerCode(err, constant.CodeUserAlreadyExists) {
			wrapped = fmt.Errorf("%w: %w: user=%s database=%s: %w", ErrCreateUser, ErrUserExists, user.Username, databaseName, err)
		} else {
			wrapped = fmt.Errorf("%w: user=%s database=%s: %w", ErrCreateUser, user.Username, databaseName, err)
		}

		libOpentelemetry.HandleSpanError(span, "Failed to create mongo user", wrapped)

		return wrapped
	}

	return nil
}

// CreateCollection explicitly creates a collection in the selected database.
// It fails with ErrCollectionExists when the collection is already present.
func (c *Client) CreateCollection(ctx context.Context, collection string) error {
	if c == nil {
		return ErrNilClient
	}

	if ctx == nil {
		return ErrNilContext
	}

	if strings.TrimSpace(collection) == "" {
		return ErrEmptyCollectionName
	}

	client, databaseName, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	ctx, span := libOpentelemetry.StartMongoSpan(ctx, "mongo.create_collection",
		databaseAttr(databaseName),
		attribute.String(constant.AttrDBMongoDBCollection, collection),
	)
	defer span.End()

	c.logger.Log(ctx, log.LevelDebug, "creating mongo collection", log.String("database", databaseName), log.String("collection", collection))

	if err := c.deps.createCollection(ctx, client, databaseName, collection); err != nil {
		var wrapped error
		if hasServerCode(err, constant.CodeNamespaceExists) {
			wrapped = fmt.Errorf("%w: %w: %s.%s: %w", ErrCreateCollection, ErrCollectionExists, databaseName, collection, err)
		} else {
			wrapped = fmt.Errorf("%w: %s.%s: %w", ErrCreateCollection, databaseName, collection, err)
		}

		libOpentelemetry.HandleSpanError(span, "Failed to create mongo collection", wrapped)

		return wrapped
	}

	return nil
}

// CreateIndexes creates each index on collection and returns the names the
// server assigned. Creating an identical index again succeeds; an index whose
// name matches an existing one with a different definition yields ErrIndexConflict.
// Failures are joined so every index is attempted unless ctx is cancelled.
func (c *Client) CreateIndexes(ctx context.Context, collection string, indexes ...mongo.IndexModel) ([]string, error) {
	if c == nil {
		return nil, ErrNilClient
	}

	if ctx == nil {
		return nil, ErrNilContext
	}

	if strings.TrimSpace(collection) == "" {
		return nil, ErrEmptyCollectionName
	}

	if len(indexes) == 0 {
		return nil, ErrEmptyIndexes
	}

	ctx, span := libOpentelemetry.StartMongoSpan(ctx, "mongo.create_indexes",
		attribute.String(constant.AttrDBMongoDBCollection, collection),
	)
	defer span.End()

	client, databaseName, err := c.resolve(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(span, "Failed to get mongo client for create indexes", err)

		return nil, err
	}

	span.SetAttributes(databaseAttr(databaseName))

	var (
		names       []string
		indexErrors []error
	)

	for _, index := range indexes {
		if err := ctx.Err(); err != nil {
			indexErrors = append(indexErrors, fmt.Errorf("%w: context cancelled: %w", ErrCreateIndex, err))

			break
		}

		fields := indexKeysString(index.Keys)

		if fields == "<unknown>" {
			c.logger.Log(ctx, log.LevelWarn, "unrecognized index key type; expected bson.D or bson.M",
				log.String("collection", collection))
		}

		c.logger.Log(ctx, log.LevelDebug, "creating mongo index", log.String("collection", collection), log.String("fields", fields))

		name, err := c.deps.createIndex(ctx, client, databaseName, collection, index)
		if err != nil {
			c.logger.Log(ctx, log.LevelWarn, "failed to create mongo index",
				log.String("collection", collection),
				log.String("fields", fields),
				log.Err(err),
			)

			if hasServerCode(err, constant.CodeIndexOptionsConflict, constant.CodeIndexKeySpecsConflict) {
				indexErrors = append(indexErrors, fmt.Errorf("%w: %w: collection=%s fields=%s: %w", ErrCreateIndex, ErrIndexConflict, collection, fields, err))
			} else {
				indexErrors = append(indexErrors, fmt.Errorf("%w: collection=%s fields=%s: %w", ErrCreateIndex, collection, fields, err))
			}

			continue
		}

		names = append(names, name)
	}

	if len(indexErrors) > 0 {
		joinedErr := errors.Join(indexErrors...)
		libOpentelemetry.HandleSpanError(span, "Failed to create some mongo indexes", joinedErr)

		return names, joinedErr
	}

	return names, nil
}

// indexKeysString returns the index key names in a human-readable form.
func indexKeysString(keys any) string {
	switch k := keys.(type) {
	case bson.D:
		parts := make([]string, 0, len(k))
		for _, e := range k {
			parts = append(parts, e.Key)
		}

		return strings.Join(parts, ",")
	case bson.M:
		parts := make([]string, 0, len(k))
		for key := range k {
			parts = append(parts, key)
		}

		sort.Strings(parts)

		return strings.Join(parts, ",")
	default:
		return "<unknown>"
	}
}
