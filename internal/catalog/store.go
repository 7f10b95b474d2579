package catalog

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/logging"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
)

// Snapshot is one immutable generation of the catalog. Readers always get
// a whole snapshot; a reload never mutates a published one.
type Snapshot struct {
	Points   []models.PartnerPoint
	Products []models.Product
	Prompt   string
	LoadedAt time.Time
}

// Store holds the active catalog snapshot and swaps it atomically on reload
type Store struct {
	partnersPath     string
	nomenclaturePath string

	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore creates a catalog store reading from the given data directory
func NewStore(dataDir string) *Store {
	return &Store{
		partnersPath:     filepath.Join(dataDir, PartnersFileName),
		nomenclaturePath: filepath.Join(dataDir, NomenclatureFileName),
	}
}

// Reload loads both source files and publishes a fresh snapshot. Either
// loader falls back to its built-in defaults on failure, so Reload always
// leaves a usable catalog in place.
func (s *Store) Reload() *Snapshot {
	points := LoadPartnerPoints(s.partnersPath)
	products := LoadNomenclature(s.nomenclaturePath)

	snap := &Snapshot{
		Points:   points,
		Products: products,
		Prompt:   BuildPrompt(products),
		LoadedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	logging.Info("catalog loaded", map[string]interface{}{
		"points":   len(points),
		"products": len(products),
	})
	return snap
}

// Snapshot returns the active catalog generation, loading it on first use
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap == nil {
		return s.Reload()
	}
	return snap
}

// FindPointByPIN returns the first point whose PIN matches, or nil
func (s *Store) FindPointByPIN(pin string) *models.PartnerPoint {
	for _, p := range s.Snapshot().Points {
		if p.PIN == pin {
			point := p
			return &point
		}
	}
	return nil
}

// Products returns the products of the active snapshot in catalog order
func (s *Store) Products() []models.Product {
	return s.Snapshot().Products
}

// Prompt returns the extraction instruction of the active snapshot
func (s *Store) Prompt() string {
	return s.Snapshot().Prompt
}
