package iocache

import (
	"sync"

	"github.com/huangsam/changetree/internal/contract"
)

// CacheStoreManager hands out the process-wide cache stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	history      contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetHistoryStore returns the history CacheStore, or nil when caching was never initialized.
func (mgr *CacheStoreManager) GetHistoryStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
