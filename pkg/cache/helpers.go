package cache

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Key joins parts into a namespaced cache key, e.g. Key("role", tenantID, id).
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

func LockKey(key string) string {
	return "lock:" + key
}
