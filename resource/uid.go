package resource

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

const uidScheme = "uid://"

// UIDResolver maps durable identifiers to paths and back.
type UIDResolver interface {
	Path(uid string) (string, bool)
	UID(path string) (string, bool)
}

// UIDRegistry is a UIDResolver that learns identifiers as files are loaded
// and saved.
type UIDRegistry interface {
	UIDResolver
	Register(uid, path string)
}

// UIDs is an in-memory UIDRegistry.
type UIDs struct {
	mu     sync.RWMutex
	byUID  map[string]string
	byPath map[string]string
}

func NewUIDs() *UIDs {
	return &UIDs{byUID: map[string]string{}, byPath: map[string]string{}}
}

func (u *UIDs) Path(uid string) (string, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	p, ok := u.byUID[uid]
	return p, ok
}

func (u *UIDs) UID(path string) (string, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	id, ok := u.byPath[path]
	return id, ok
}

// Register binds uid to path.  A path moved under the same uid loses its
// old binding, as does the previous uid of path.
func (u *UIDs) Register(uid, path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if old, ok := u.byUID[uid]; ok {
		delete(u.byPath, old)
	}
	if old, ok := u.byPath[path]; ok {
		delete(u.byUID, old)
	}
	u.byUID[uid] = path
	u.byPath[path] = uid
}

// All returns a copy of the uid to path bindings.
func (u *UIDs) All() map[string]string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	res := make(map[string]string, len(u.byUID))
	for id, p := range u.byUID {
		res[id] = p
	}
	return res
}

// Mint returns the uid of path, creating and registering one if needed.
func (u *UIDs) Mint(path string) string {
	if id, ok := u.UID(path); ok {
		return id
	}
	id := NewUID()
	u.Register(id, path)
	return id
}

// NewUID returns a fresh uid:// identifier.
func NewUID() string {
	return uidScheme + strings.ReplaceAll(uuid.New().String(), "-", "")
}

func IsUID(s string) bool {
	return strings.HasPrefix(s, uidScheme)
}
