package domain

// UpdateResult reports how many documents a targeted update matched and changed.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}
