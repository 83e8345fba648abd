package provision

import (
	"errors"
	"fmt"
	"strings"

	constant "github.com/Capi12YT/demo-avoris/mongoinit/constants"
)

// ErrInvalidPlan is returned when a Plan field is missing.
var ErrInvalidPlan = errors.New("invalid provisioning plan")

// Plan describes what the bootstrap creates.
type Plan struct {
	Database   string
	Username   string
	Password   string
	Role       string
	Collection string
	IndexField string
}

// DefaultPlan returns the plan for the application database.
func DefaultPlan() Plan {
	return Plan{
		Database:   constant.DefaultDatabase,
		Username:   constant.DefaultUsername,
		Password:   constant.DefaultPassword,
		Role:       constant.DefaultRole,
		Collection: constant.DefaultCollection,
		IndexField: constant.DefaultIndexField,
	}
}

// Validate reports the first empty field.
func (p Plan) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"database", p.Database},
		{"username", p.Username},
		{"password", p.Password},
		{"role", p.Role},
		{"collection", p.Collection},
		{"index field", p.IndexField},
	}

	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidPlan, field.name)
		}
	}

	return nil
}

// IndexName is the qualified index target, e.g. "searches.searchId".
func (p Plan) IndexName() string {
	return p.Collection + "." + p.IndexField
}
