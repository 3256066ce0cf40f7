// Package memory implementa el Account Store en memoria (STORAGE_DRIVER=memory y tests).
package memory

import (
	"sync"

	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// Store datos de todas las tablas. Los repositorios guardan y devuelven copias.
type Store struct {
	mu sync.RWMutex
	// txMu serializa las transacciones.
	txMu sync.Mutex

	identities map[string]entity.Identity
	roles      map[string]entity.RoleAssignment // por user_id
	corporates map[string]entity.CorporateProfile
	schools    map[string]entity.SchoolProfile
	pending    map[string]entity.PendingSchool
	mentors    map[string]entity.MentorProfile
	directory  map[string]entity.SchoolDirectoryEntry // por SchoolNameKey
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		identities: map[string]entity.Identity{},
		roles:      map[string]entity.RoleAssignment{},
		corporates: map[string]entity.CorporateProfile{},
		schools:    map[string]entity.SchoolProfile{},
		pending:    map[string]entity.PendingSchool{},
		mentors:    map[string]entity.MentorProfile{},
		directory:  map[string]entity.SchoolDirectoryEntry{},
	}
}

// fork copia de trabajo de las tablas transaccionales y la foto de la que parte. Las
// identidades quedan fuera: son del proveedor de identidad y no participan en la transacción.
func (s *Store) fork() (work *Store, base *Store) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	base = &Store{
		roles:      cloneMap(s.roles),
		corporates: cloneMap(s.corporates),
		schools:    cloneMap(s.schools),
		pending:    cloneMap(s.pending),
		mentors:    cloneMap(s.mentors),
		directory:  cloneMap(s.directory),
	}
	work = &Store{
		identities: map[string]entity.Identity{},
		roles:      cloneMap(base.roles),
		corporates: cloneMap(base.corporates),
		schools:    cloneMap(base.schools),
		pending:    cloneMap(base.pending),
		mentors:    cloneMap(base.mentors),
		directory:  cloneMap(base.directory),
	}
	return work, base
}

// commit aplica sobre el store las filas que work cambió respecto de base. Lo que otros
// escribieron fuera de la transacción en filas que work no tocó se conserva.
func (s *Store) commit(base, work *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	applyDiff(s.roles, base.roles, work.roles)
	applyDiff(s.corporates, base.corporates, work.corporates)
	applyDiff(s.schools, base.schools, work.schools)
	applyDiff(s.pending, base.pending, work.pending)
	applyDiff(s.mentors, base.mentors, work.mentors)
	applyDiff(s.directory, base.directory, work.directory)
}

func applyDiff[K, V comparable](live, base, work map[K]V) {
	for k, v := range work {
		if old, ok := base[k]; !ok || old != v {
			live[k] = v
		}
	}
	for k := range base {
		if _, ok := work[k]; !ok {
			delete(live, k)
		}
	}
}

// Los punteros de las entidades se comparten entre copias; ninguna ruta de escritura los muta.
func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
