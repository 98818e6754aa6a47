package connector

import (
	"fmt"
	"time"
)

// DefaultCharset is negotiated when Config.Charset is empty.
const DefaultCharset = "utf8mb4"

// Config represents database connection configuration.
type Config struct {
	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Database       string            `json:"database" yaml:"database"`
	Username       string            `json:"username" yaml:"username"`
	Password       string            `json:"password" yaml:"password"`
	Charset        string            `json:"charset" yaml:"charset"`
	Debug          bool              `json:"debug" yaml:"debug"`
	Params         map[string]string `json:"params" yaml:"params"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff"`
}

// WithDefaults fills in the charset and, when unset, the given port.
func (c Config) WithDefaults(defaultPort int) Config {
	if c.Charset == "" {
		c.Charset = DefaultCharset
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	return c
}

// Validate checks the fields every provider relies on.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if !isIdentifier(c.Charset) {
		return fmt.Errorf("invalid charset: %q", c.Charset)
	}
	if c.Retry != nil && c.Retry.MaxRetries < 0 {
		return fmt.Errorf("invalid max retries: %d", c.Retry.MaxRetries)
	}
	return nil
}

// isIdentifier reports whether s is a bare word that can be interpolated
// into SET NAMES without quoting.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
