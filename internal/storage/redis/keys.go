package redis

import (
	"fmt"

	"github.com/mcoot/kapal-registry/internal/model"
)

// Key prefix for all registry data
const keyPrefix = "kapal"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// userSeqKey returns the Redis key of the user ID counter
func userSeqKey() string {
	return fmt.Sprintf("%s:seq:user", keyPrefix)
}

// shipKey returns the Redis key for a Ship
func shipKey(id model.ShipID) string {
	return fmt.Sprintf("%s:ship:%d", keyPrefix, id)
}

// shipsIndexKey returns the Redis key for the ZSET of ship IDs scored by ID
func shipsIndexKey() string {
	return fmt.Sprintf("%s:idx:ships", keyPrefix)
}

// shipSeqKey returns the Redis key of the ship ID counter
func shipSeqKey() string {
	return fmt.Sprintf("%s:seq:ship", keyPrefix)
}
