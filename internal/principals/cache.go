package principals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/helios-ris/helios-ris/internal/capability"
)

const profileKeyPrefix = "capability:profile:"

// ProfileCache stores resolved capability profiles in Redis, keyed by
// (account id, principal version). Any principal edit bumps the version, so
// stale entries are unreachable the moment the edit commits; the sweep job
// reclaims their memory before the TTL does.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache constructs a ProfileCache.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl}
}

// Get fetches the cached profile for the exact principal version.
func (c *ProfileCache) Get(ctx context.Context, accountID, version int64) (capability.Profile, bool, error) {
	payload, err := c.client.Get(ctx, profileKey(accountID, version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return capability.Profile{}, false, nil
		}
		return capability.Profile{}, false, err
	}
	var profile capability.Profile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return capability.Profile{}, false, err
	}
	return profile, true, nil
}

// Set stores a resolved profile under its version key.
func (c *ProfileCache) Set(ctx context.Context, profile capability.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, profileKey(profile.PrincipalID, profile.Version), payload, c.ttl).Err()
}

// Invalidate removes every cached profile for an account, regardless of
// version.
func (c *ProfileCache) Invalidate(ctx context.Context, accountID int64) error {
	pattern := profileKeyPrefix + strconv.FormatInt(accountID, 10) + ":*"
	return c.deleteMatching(ctx, pattern, nil)
}

// Sweep deletes cached profiles whose version no longer matches the stored
// principal version. current maps account id to its live version.
func (c *ProfileCache) Sweep(ctx context.Context, current map[int64]int64) (int, error) {
	deleted := 0
	err := c.deleteMatching(ctx, profileKeyPrefix+"*", func(key string) bool {
		accountID, version, ok := parseProfileKey(key)
		if !ok {
			return true
		}
		live, known := current[accountID]
		if !known || live != version {
			deleted++
			return true
		}
		return false
	})
	return deleted, err
}

func (c *ProfileCache) deleteMatching(ctx context.Context, pattern string, shouldDelete func(string) bool) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if shouldDelete != nil && !shouldDelete(key) {
			continue
		}
		if err := c.client.Del(ctx, key).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func profileKey(accountID, version int64) string {
	return fmt.Sprintf("%s%d:%d", profileKeyPrefix, accountID, version)
}

func parseProfileKey(key string) (accountID, version int64, ok bool) {
	rest, found := strings.CutPrefix(key, profileKeyPrefix)
	if !found {
		return 0, 0, false
	}
	idPart, versionPart, found := strings.Cut(rest, ":")
	if !found {
		return 0, 0, false
	}
	accountID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	version, err = strconv.ParseInt(versionPart, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return accountID, version, true
}
