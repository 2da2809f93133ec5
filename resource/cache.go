package resource

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/signadot/tres/variant"
)

// CacheMode governs how a load interacts with objects already resident in
// the Cache.
type CacheMode int

const (
	// CacheReuse returns a resident object unchanged.
	CacheReuse CacheMode = iota
	// CacheReplace reparses the file over the resident root, keeping its
	// identity for existing holders.
	CacheReplace
	// CacheReplaceDeep is CacheReplace, also applied to resident embedded
	// objects and to dependencies.
	CacheReplaceDeep
	// CacheIgnore always produces fresh objects and caches nothing.
	CacheIgnore
)

func CacheModes() []CacheMode {
	return []CacheMode{CacheReuse, CacheReplace, CacheReplaceDeep, CacheIgnore}
}

func (m CacheMode) String() string {
	d, err := m.MarshalText()
	if err != nil {
		return fmt.Sprintf("<cache mode %d>", int(m))
	}
	return string(d)
}

func (m CacheMode) MarshalText() ([]byte, error) {
	switch m {
	case CacheReuse:
		return []byte("reuse"), nil
	case CacheReplace:
		return []byte("replace"), nil
	case CacheReplaceDeep:
		return []byte("replace-deep"), nil
	case CacheIgnore:
		return []byte("ignore"), nil
	}
	return nil, fmt.Errorf("unknown cache mode %d", int(m))
}

func (m *CacheMode) UnmarshalText(d []byte) error {
	v, err := ParseCacheMode(string(d))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func ParseCacheMode(v string) (CacheMode, error) {
	switch strings.ReplaceAll(strings.ToLower(v), "_", "-") {
	case "reuse", "":
		return CacheReuse, nil
	case "replace":
		return CacheReplace, nil
	case "replace-deep":
		return CacheReplaceDeep, nil
	case "ignore":
		return CacheIgnore, nil
	}
	return 0, fmt.Errorf("unknown cache mode %q", v)
}

// Cache holds loaded objects by path.  It is safe for concurrent use.
type Cache struct {
	mu   sync.Mutex
	objs map[string]*variant.Object
}

func NewCache() *Cache {
	return &Cache{objs: map[string]*variant.Object{}}
}

func (c *Cache) Get(path string) (*variant.Object, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.objs[path]
	return o, ok
}

// Put caches o under path unless another object is already resident, and
// returns the resident object.
func (c *Cache) Put(path string, o *variant.Object) *variant.Object {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.objs[path]; ok {
		return r
	}
	c.objs[path] = o
	return o
}

// Replace caches o under path, evicting any resident object.
func (c *Cache) Replace(path string, o *variant.Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objs[path] = o
}

func (c *Cache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.objs, path)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.objs)
}

// Paths returns the cached paths in sorted order.
func (c *Cache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make([]string, 0, len(c.objs))
	for p := range c.objs {
		res = append(res, p)
	}
	sort.Strings(res)
	return res
}
