package services

// IdentityMapper translates source names into target identifiers for one
// replicate run. Names are the join key because target ids only exist once
// the entity is created. When two entities share a name the first one
// recorded wins; later records for that name are ignored.
//
// Not safe for concurrent use: only the replication goroutine touches it.
type IdentityMapper struct {
	roles    map[string]string
	channels map[string]string
}

func NewIdentityMapper() *IdentityMapper {
	return &IdentityMapper{
		roles:    make(map[string]string),
		channels: make(map[string]string),
	}
}

// RecordRole stores name -> targetID and reports whether it was stored.
func (m *IdentityMapper) RecordRole(name, targetID string) bool {
	return record(m.roles, name, targetID)
}

func (m *IdentityMapper) ResolveRole(name string) (string, bool) {
	id, ok := m.roles[name]
	return id, ok
}

func (m *IdentityMapper) RecordChannel(name, targetID string) bool {
	return record(m.channels, name, targetID)
}

func (m *IdentityMapper) ResolveChannel(name string) (string, bool) {
	id, ok := m.channels[name]
	return id, ok
}

func record(table map[string]string, name, targetID string) bool {
	if targetID == "" {
		return false
	}
	if _, exists := table[name]; exists {
		return false
	}
	table[name] = targetID
	return true
}
