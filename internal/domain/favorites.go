package domain

// Favorites holds user-selected candidates partitioned by category.
// Mutators return a new value; the receiver is never modified.
type Favorites map[Category][]CandidateResult

func (f Favorites) Clone() Favorites {
	out := make(Favorites, len(f))
	for c, items := range f {
		cp := make([]CandidateResult, len(items))
		copy(cp, items)
		out[c] = cp
	}
	return out
}

// Find looks up a favorite by category-scoped id.
func (f Favorites) Find(c Category, id string) (CandidateResult, bool) {
	for _, it := range f[c] {
		if it.ID == id {
			return it, true
		}
	}
	return CandidateResult{}, false
}

// With returns a copy that includes item. The second result is false when
// an item with the same id already exists in the category.
func (f Favorites) With(item CandidateResult) (Favorites, bool) {
	if _, ok := f.Find(item.Category, item.ID); ok {
		return f, false
	}
	out := f.Clone()
	out[item.Category] = append(out[item.Category], item)
	return out, true
}

// Without returns a copy lacking the given favorite.
func (f Favorites) Without(c Category, id string) (Favorites, bool) {
	idx := -1
	for i, it := range f[c] {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return f, false
	}
	out := f.Clone()
	items := out[c]
	out[c] = append(items[:idx:idx], items[idx+1:]...)
	return out, true
}

// PrimaryLodging returns the first favorited lodging, used as the home base.
func (f Favorites) PrimaryLodging() (CandidateResult, bool) {
	if len(f[CategoryLodging]) == 0 {
		return CandidateResult{}, false
	}
	return f[CategoryLodging][0], true
}
