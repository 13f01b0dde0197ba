package models

import (
	"fmt"
	"strings"
)

// Category is a name in the reference vocabulary. The name is its key.
type Category struct {
	Name string `json:"name"`
}

// NewCategory trims name and validates it.
func NewCategory(name string) (Category, error) {
	c := Category{Name: strings.TrimSpace(name)}
	return c, c.Validate()
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidCategory)
	}
	return nil
}

func (c Category) String() string { return c.Name }
