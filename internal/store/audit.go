package store

// AuditFilter narrows the audit log selector. Zero values match all.
type AuditFilter struct {
	Action   AuditAction
	Resource string
	Limit    int
}

// AuditLog returns matching entries, newest first. Entries are only
// ever appended by mutating actions; nothing modifies or deletes them.
func (s *Store) AuditLog(filter AuditFilter) []AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditEntry, 0, len(s.st.Audit))
	for i := len(s.st.Audit) - 1; i >= 0; i-- {
		entry := s.st.Audit[i]
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		if filter.Resource != "" && entry.Resource != filter.Resource {
			continue
		}
		out = append(out, entry)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}
