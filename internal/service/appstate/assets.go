package appstate

import "github.com/heartmarshall/mintmind/internal/domain"

// Stats is the asset count of the connected wallet per content kind.
type Stats struct {
	Total  int                        `json:"total"`
	ByKind map[domain.ContentKind]int `json:"byKind"`
}

// Stats counts the loaded assets.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Total:  len(s.state.Assets),
		ByKind: domain.CountByKind(s.state.Assets),
	}
}

// Assets returns the loaded assets, newest first. An empty kind returns all.
func (s *Store) Assets(kind domain.ContentKind) []domain.IPAsset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.IPAsset, 0, len(s.state.Assets))
	for _, a := range s.state.Assets {
		if kind == "" || a.Kind() == kind {
			out = append(out, a)
		}
	}
	return out
}
