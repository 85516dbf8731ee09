package domain

import (
	"fmt"
	"strings"
)

// Comic is a single purchasable inventory unit. One row represents one
// physical copy: a sale removes it from the catalog.
type Comic struct {
	ID          string
	Name        string
	Description string
	Price       Money
}

func NewComic(id, name, description string, price Money) (Comic, error) {
	c := Comic{ID: strings.TrimSpace(id)}
	if c.ID == "" {
		return Comic{}, fmt.Errorf("%w: missing id", ErrInvalidComic)
	}
	if err := c.Update(name, description, price); err != nil {
		return Comic{}, err
	}
	return c, nil
}

// Update replaces the mutable fields, applying the same validation as
// construction. Identity never changes.
func (c *Comic) Update(name, description string, price Money) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidComic)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("%w: description must not be empty", ErrInvalidComic)
	}
	if !price.IsSet() {
		return fmt.Errorf("%w: price must be set", ErrInvalidComic)
	}
	c.Name = name
	c.Description = description
	c.Price = price
	return nil
}
