package mongo

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"
)

// TLSConfig verifies the server certificate against a custom CA.
type TLSConfig struct {
	// CACertBase64 is a base64 encoded PEM bundle.
	CACertBase64 string
	// MinVersion is tls.VersionTLS12 (the default) or tls.VersionTLS13.
	MinVersion uint16
}

func (t *TLSConfig) validate() error {
	if strings.TrimSpace(t.CACertBase64) == "" {
		return fmt.Errorf("%w: TLS CA cert is required when TLS is configured", ErrInvalidConfig)
	}

	switch t.MinVersion {
	case 0, tls.VersionTLS12, tls.VersionTLS13:
		return nil
	default:
		return fmt.Errorf("%w: TLS MinVersion %#x is not supported", ErrInvalidConfig, t.MinVersion)
	}
}

func (t *TLSConfig) build() (*tls.Config, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(strings.TrimSpace(t.CACertBase64))
	if err != nil {
		return nil, fmt.Errorf("%w: CA cert is not valid base64: %w", ErrInvalidConfig, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, fmt.Errorf("%w: CA cert contains no PEM certificate", ErrInvalidConfig)
	}

	minVersion := t.MinVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}

	return &tls.Config{RootCAs: pool, MinVersion: minVersion}, nil
}
