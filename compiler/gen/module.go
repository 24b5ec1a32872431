package gen

import (
	"errors"
	"sort"
	"sync"

	"github.com/syssam/dtogen/compiler/dto"
)

// Module is one generated output file.
type Module struct {
	// Path is relative to the target directory.
	Path string
	// Name is the DTO the module declares. Modules added by hooks may
	// leave it empty.
	Name string
	// Kind is the shape of the declared DTO, KindInvalid for hook modules.
	Kind    dto.Kind
	Content []byte
}

// ModuleMap is the path -> module mapping of a run. Keys are unique: Set
// never overwrites, Replace does so explicitly.
type ModuleMap struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewModuleMap returns an empty map.
func NewModuleMap() *ModuleMap {
	return &ModuleMap{modules: make(map[string]*Module)}
}

// Set registers m. A path that is already taken is a CollisionError.
func (mm *ModuleMap) Set(m *Module) error {
	if err := checkModule(m); err != nil {
		return err
	}
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if prev, ok := mm.modules[m.Path]; ok {
		return NewCollisionError(CollisionModule, m.Path, prev.Name, m.Name)
	}
	mm.modules[m.Path] = m
	return nil
}

// Replace registers m, overwriting any module on the same path.
func (mm *ModuleMap) Replace(m *Module) error {
	if err := checkModule(m); err != nil {
		return err
	}
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.modules[m.Path] = m
	return nil
}

func checkModule(m *Module) error {
	switch {
	case m == nil:
		return errors.New("dtogen: nil module")
	case m.Path == "":
		return errors.New("dtogen: module path cannot be empty")
	}
	return nil
}

// Get returns the module stored on path.
func (mm *ModuleMap) Get(path string) (*Module, bool) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	m, ok := mm.modules[path]
	return m, ok
}

// Has reports if a module is stored on path.
func (mm *ModuleMap) Has(path string) bool {
	_, ok := mm.Get(path)
	return ok
}

// Remove deletes the module stored on path and reports if there was one.
func (mm *ModuleMap) Remove(path string) bool {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	_, ok := mm.modules[path]
	delete(mm.modules, path)
	return ok
}

// Len returns the number of modules.
func (mm *ModuleMap) Len() int {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return len(mm.modules)
}

// Paths returns the module paths in sorted order.
func (mm *ModuleMap) Paths() []string {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	paths := make([]string, 0, len(mm.modules))
	for p := range mm.modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Modules returns the modules sorted by path.
func (mm *ModuleMap) Modules() []*Module {
	paths := mm.Paths()
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	modules := make([]*Module, 0, len(paths))
	for _, p := range paths {
		if m, ok := mm.modules[p]; ok {
			modules = append(modules, m)
		}
	}
	return modules
}
