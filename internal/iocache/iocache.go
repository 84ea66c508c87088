// Package iocache is for caching I/O calls.
package iocache

import (
	"sync"

	"github.com/codeyear/codeyear/internal/contract"
)

// CacheStoreManager manages the stats cache and report history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	stats        contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetStatsStore returns the repository stats CacheStore.
func (mgr *CacheStoreManager) GetStatsStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.stats
}

// GetHistoryStore returns the report HistoryStore.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
