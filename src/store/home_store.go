package store

import "plug-explorer/src/models"

// HomeStore is the home page snapshot cell.
type HomeStore struct {
	*Observable[models.MHomeSnapshot]
}

// NewHomeStore starts from the fully defaulted snapshot.
func NewHomeStore() *HomeStore {
	return &HomeStore{Observable: NewObservable(models.NewHomeSnapshot())}
}

// Merge writes the present fields of patch over the current snapshot. An empty
// patch changes nothing and notifies nobody.
func (s *HomeStore) Merge(patch models.MHomePatch) {
	if patch.IsEmpty() {
		return
	}
	s.Update(patch.Apply)
}
