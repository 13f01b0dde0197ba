package storage

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/garage/internal/models"
)

// Dataset is a full copy of the directory: what a memory backend is seeded
// with and what the file backend snapshots.
type Dataset struct {
	Users      []*models.User
	Categories []models.Category
}

// dataset is the indexed form kept by the memory and file backends. It is
// not synchronised; callers hold their own lock.
type dataset struct {
	users      map[string]*models.User
	categories map[string]models.Category
}

func newDataset() *dataset {
	return &dataset{
		users:      make(map[string]*models.User),
		categories: make(map[string]models.Category),
	}
}

func indexDataset(d Dataset) (*dataset, error) {
	ds := newDataset()
	for _, u := range d.Users {
		if err := ds.addUser(u); err != nil {
			return nil, err
		}
	}
	for _, c := range d.Categories {
		if err := ds.addCategory(c); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for id, u := range d.users {
		c.users[id] = u.Clone()
	}
	for name, cat := range d.categories {
		c.categories[name] = cat
	}
	return c
}

func (d *dataset) export() Dataset {
	return Dataset{Users: d.listUsers(), Categories: d.listCategories()}
}

func (d *dataset) listUsers() []*models.User {
	out := make([]*models.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u.Clone())
	}
	slices.SortFunc(out, func(a, b *models.User) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func (d *dataset) getUser(id string) (*models.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, opError("get user", id, ErrNotFound, nil)
	}
	return u.Clone(), nil
}

func (d *dataset) addUser(u *models.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if _, ok := d.users[u.ID]; ok {
		return opError("add user", u.ID, ErrDuplicateKey, nil)
	}
	d.users[u.ID] = u.Clone()
	return nil
}

func (d *dataset) updateUser(u *models.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if _, ok := d.users[u.ID]; !ok {
		return opError("update user", u.ID, ErrNotFound, nil)
	}
	d.users[u.ID] = u.Clone()
	return nil
}

func (d *dataset) deleteUser(id string) error {
	if _, ok := d.users[id]; !ok {
		return opError("delete user", id, ErrNotFound, nil)
	}
	delete(d.users, id)
	return nil
}

func (d *dataset) listCategories() []models.Category {
	out := make([]models.Category, 0, len(d.categories))
	for _, c := range d.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b models.Category) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (d *dataset) addCategory(c models.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, ok := d.categories[c.Name]; ok {
		return opError("add category", c.Name, ErrDuplicateKey, nil)
	}
	d.categories[c.Name] = c
	return nil
}

func (d *dataset) updateCategory(name string, c models.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, ok := d.categories[name]; !ok {
		return opError("update category", name, ErrNotFound, nil)
	}
	if _, ok := d.categories[c.Name]; ok && c.Name != name {
		return opError("update category", c.Name, ErrDuplicateKey, nil)
	}
	delete(d.categories, name)
	d.categories[c.Name] = c
	return nil
}

func (d *dataset) deleteCategory(name string) error {
	if _, ok := d.categories[name]; !ok {
		return opError("delete category", name, ErrNotFound, nil)
	}
	delete(d.categories, name)
	return nil
}
