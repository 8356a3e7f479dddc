// Package raw reads environment variables during bootstrap, before the logger exists
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a namespaced view over environment variables such as "LOG_" or "TASKER_"
type Conf struct{ prefix string }

// New returns a root Conf
func New() Conf { return Conf{} }

// Prefix returns a child Conf with p appended to the prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.prefix + k)) }

// Get returns the trimmed value or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1, true, yes and on, anything else set is false
func (c Conf) GetBool(key string, def bool) bool {
	switch strings.ToLower(c.lookup(key)) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// GetInt returns a non negative integer or def when unset or malformed
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.lookup(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
