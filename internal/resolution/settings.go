package resolution

import "github.com/bayleafwalker/capture-core/internal/capability"

// SettingsMap is the ordered result of a pipeline run.
//
// Only the pipeline appends to a map. Once Run returns, the map is published and no
// exported method can change it, so it may be shared freely.
type SettingsMap struct {
	order []capability.ParameterID
	byID  map[capability.ParameterID]Setting
}

func newSettingsMap(capacity int) *SettingsMap {
	return &SettingsMap{
		order: make([]capability.ParameterID, 0, capacity),
		byID:  make(map[capability.ParameterID]Setting, capacity),
	}
}

// put adds or replaces s. The pipeline guarantees parameters are unique.
func (m *SettingsMap) put(s Setting) {
	if _, exists := m.byID[s.Parameter]; !exists {
		m.order = append(m.order, s.Parameter)
	}
	m.byID[s.Parameter] = s
}

func (m *SettingsMap) Get(id capability.ParameterID) (Setting, bool) {
	if m == nil {
		return Setting{}, false
	}
	s, ok := m.byID[id]
	return s, ok
}

// Entries returns the settings in step declaration order. Each call returns a fresh slice.
func (m *SettingsMap) Entries() []Setting {
	if m == nil {
		return nil
	}
	out := make([]Setting, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

func (m *SettingsMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// UnresolvedKeys returns the members of declared that no step produced, in the order given.
func (m *SettingsMap) UnresolvedKeys(declared []capability.ParameterID) []capability.ParameterID {
	var out []capability.ParameterID
	seen := map[capability.ParameterID]bool{}
	for _, id := range declared {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := m.Get(id); !ok {
			out = append(out, id)
		}
	}
	return out
}

// Count returns how many entries carry status s.
func (m *SettingsMap) Count(s Status) int {
	n := 0
	for _, e := range m.Entries() {
		if e.Status == s {
			n++
		}
	}
	return n
}
