package boardprofile

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed profiles/*.yaml
var profileFS embed.FS

var (
	catalogMu sync.RWMutex
	catalog   = make(map[string]*Profile)
)

// Builtin loads a built-in board profile by file name (e.g.
// "e810-xxvda4t"). Resolved profiles are cached.
func Builtin(name string) (*Profile, error) {
	catalogMu.RLock()
	if p, ok := catalog[name]; ok {
		catalogMu.RUnlock()
		return p, nil
	}
	catalogMu.RUnlock()

	data, err := profileFS.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("board profile %q not found: %w", name, err)
	}

	raw, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("board profile %q: %w", name, err)
	}
	p, err := Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("board profile %q: %w", name, err)
	}

	catalogMu.Lock()
	catalog[name] = p
	catalogMu.Unlock()
	return p, nil
}

// Builtins returns the names of all built-in profiles, sorted.
func Builtins() []string {
	entries, err := profileFS.ReadDir("profiles")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
