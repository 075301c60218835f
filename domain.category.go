package main

import "strings"

// Category groups books into a section of the library. Books reference
// a category by its id, so renames must cascade into the books
// collection and deletes are guarded by the reference count.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Section string `json:"section"`
}

// Validate trims the category and ensures a usable id.
func (c *Category) Validate() error {
	c.ID = strings.TrimSpace(c.ID)
	c.Name = strings.TrimSpace(c.Name)
	c.Section = strings.TrimSpace(c.Section)
	if c.ID == "" {
		return ErrArguments
	}
	return nil
}
