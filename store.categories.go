package main

// Categories is the smallest collection, keyed by category id.
type Categories map[string]Category

// Fetch returns the category stored under id.
func (c Categories) Fetch(id string) (Category, error) {
	category, ok := c[id]
	if !ok {
		return Category{}, ErrNothingFound
	}
	return category, nil
}

// List returns all categories ordered by id.
func (c Categories) List() []Category {
	out := make([]Category, 0, len(c))
	for _, id := range sortedKeys(c) {
		out = append(out, c[id])
	}
	return out
}

// Add validates the category and inserts it under a free id.
func (c Categories) Add(category Category) (Category, error) {
	if err := category.Validate(); err != nil {
		return category, err
	}
	if _, exists := c[category.ID]; exists {
		return category, ErrArguments
	}
	c[category.ID] = category
	return category, nil
}

// Update replaces the category stored under oldID. A changed id
// removes the old entry, re-inserts under the new key and cascades the
// rename into every referencing book. When the new id is already taken
// the rename aborts after the old entry was removed; the entry is lost
// with no rollback. Known non-atomic edge, pinned by tests.
func (c Categories) Update(oldID string, category Category, books Books) (Category, error) {
	if err := category.Validate(); err != nil {
		return category, err
	}
	if _, ok := c[oldID]; !ok {
		return category, ErrNothingFound
	}
	if oldID != category.ID {
		delete(c, oldID)
		if _, exists := c[category.ID]; exists {
			return category, ErrArguments
		}
		books.UpdateCategory(oldID, category.ID)
	}
	c[category.ID] = category
	return category, nil
}

// Delete removes the category unless a book still references it.
func (c Categories) Delete(id string, books Books) error {
	if _, ok := c[id]; !ok {
		return ErrNothingFound
	}
	if books.InCategory(id) > 0 {
		return ErrReferencedCategory
	}
	delete(c, id)
	return nil
}
