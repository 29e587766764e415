package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/changetree/internal/contract"
	"github.com/huangsam/changetree/schema"
)

// currentCacheVersion defines the version of the cached history encoding
const currentCacheVersion = 1

// cachedHistory returns the parsed history for cfg, reading and filling the history cache.
func cachedHistory(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.HistoryOutput, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetHistoryStore()
	}
	if store == nil {
		return fetchHistory(ctx, cfg, client)
	}

	key := generateCacheKey(ctx, cfg, client)
	if result := checkCacheHit(store, key, cfg.CacheTTL, time.Now()); result != nil {
		return result, nil
	}
	return computeAndStore(ctx, cfg, client, store, key)
}

// checkCacheHit attempts to retrieve and validate a cached history
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration, now time.Time) *schema.HistoryOutput {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}

	if version != currentCacheVersion || now.Sub(time.Unix(ts, 0)) > ttl {
		return nil // Stale or version mismatch
	}
	var result schema.HistoryOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	if _, ok := schema.ValidReplayOrders[result.Order]; !ok {
		return nil
	}
	return &result
}

// computeAndStore fetches the history and stores it in cache
func computeAndStore(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.CacheStore, key string) (*schema.HistoryOutput, error) {
	result, err := fetchHistory(ctx, cfg, client)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err == nil {
		err = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
	if err != nil {
		contract.LogWarn("Cannot cache history", err)
	}
	return result, nil
}

// generateCacheKey creates a unique key for the repository state and time window
func generateCacheKey(ctx context.Context, cfg *contract.Config, client contract.GitClient) string {
	// Include repo hash to invalidate cache when repository state changes
	repoHash, err := client.GetRepoHash(ctx, cfg.RepoPath)
	if err != nil {
		repoHash = ""
	}

	key := fmt.Sprintf("%s:%d:%d:%s",
		cfg.RepoPath,
		cfg.GetHistoryStartTime().Unix(),
		cfg.GetHistoryEndTime().Unix(),
		repoHash,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
