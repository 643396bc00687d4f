package infra

import (
	"sync"
)

var (
	mut sync.Mutex
)

// InitConnectors initializes the MySQL and Redis connections. Safe to call more than once.
func InitConnectors() {
	mut.Lock()
	defer mut.Unlock()
	if SQL == nil {
		initSQLConns()
	}
	if Redis == nil {
		initRedisConns()
	}
}
