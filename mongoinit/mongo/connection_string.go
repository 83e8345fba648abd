package mongo

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const (
	schemeStandard = "mongodb"
	schemeSRV      = "mongodb+srv"
)

// BuildURI errors.
var (
	ErrInvalidScheme        = errors.New("invalid mongo uri scheme")
	ErrEmptyHost            = errors.New("mongo uri host cannot be empty")
	ErrInvalidPort          = errors.New("mongo uri port is invalid")
	ErrPortNotAllowedForSRV = errors.New("port cannot be set for mongodb+srv")
	ErrPasswordWithoutUser  = errors.New("password requires username")
)

// URIConfig holds the parts of a connection string. Used when no full URI
// is configured.
type URIConfig struct {
	Scheme   string // mongodb when empty
	Username string
	Password string
	Host     string
	Port     string
	Database string
	// AuthSource is the database the credentials belong to.
	AuthSource string
	Query      url.Values
}

func (u URIConfig) normalized() URIConfig {
	u.Scheme = strings.TrimSpace(u.Scheme)
	if u.Scheme == "" {
		u.Scheme = schemeStandard
	}

	u.Host = strings.TrimSpace(u.Host)
	u.Port = strings.TrimSpace(u.Port)
	u.Database = strings.TrimSpace(u.Database)
	u.AuthSource = strings.TrimSpace(u.AuthSource)

	return u
}

func (u URIConfig) check() error {
	switch {
	case u.Scheme != schemeStandard && u.Scheme != schemeSRV:
		return ErrInvalidScheme
	case u.Host == "":
		return ErrEmptyHost
	case u.Username == "" && u.Password != "":
		return ErrPasswordWithoutUser
	case u.Port == "":
		return nil
	case u.Scheme == schemeSRV:
		return ErrPortNotAllowedForSRV
	}

	if port, err := strconv.Atoi(u.Port); err != nil || port < 1 || port > 65535 {
		return ErrInvalidPort
	}

	return nil
}

// BuildURI assembles a connection string from parts. Credentials are escaped
// and cfg.Query is left untouched.
func BuildURI(cfg URIConfig) (string, error) {
	cfg = cfg.normalized()

	if err := cfg.check(); err != nil {
		return "", err
	}

	out := url.URL{Scheme: cfg.Scheme, Host: cfg.Host, Path: "/" + cfg.Database}
	if cfg.Port != "" {
		out.Host = net.JoinHostPort(cfg.Host, cfg.Port)
	}

	if cfg.Username != "" {
		out.User = url.UserPassword(cfg.Username, cfg.Password)
	}

	query := make(url.Values, len(cfg.Query)+1)
	for key, values := range cfg.Query {
		query[key] = append([]string(nil), values...)
	}

	if cfg.AuthSource != "" {
		query.Set("authSource", cfg.AuthSource)
	}

	out.RawQuery = query.Encode()

	return out.String(), nil
}
