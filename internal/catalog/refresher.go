package catalog

import (
	"log"
	"time"
)

// Refresher periodically reloads the catalog snapshot
type Refresher struct {
	store    *Store
	interval time.Duration
	stopChan chan bool
}

// NewRefresher creates a refresher for the given store
func NewRefresher(store *Store, interval time.Duration) *Refresher {
	return &Refresher{
		store:    store,
		interval: interval,
		stopChan: make(chan bool),
	}
}

// Start begins the periodic refresh process
func (r *Refresher) Start() {
	log.Printf("Starting catalog refresher with %v interval", r.interval)

	// Load immediately on start
	r.store.Reload()

	ticker := time.NewTicker(r.interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				r.store.Reload()
			case <-r.stopChan:
				ticker.Stop()
				log.Println("Catalog refresher stopped")
				return
			}
		}
	}()
}

// Stop stops the refresher
func (r *Refresher) Stop() {
	r.stopChan <- true
}
