package storage

import (
	"sync"

	"github.com/dmitrijs2005/garage/internal/models"
)

// SeedFunc produces the dataset a memory backend starts from.
type SeedFunc func() (Dataset, error)

type seedUser struct {
	id, first, last, phone string
	role                   models.Role
}

var defaultSeedUsers = []seedUser{
	{"admin", "Garage", "Administrator", "519-555-0100", models.RoleSeller},
	{"alice", "Alice", "Archer", "519-555-0101", models.RoleSeller},
	{"bob", "Bob", "Baker", "519-555-0102", models.RoleBuyer},
	{"carol", "Carol", "Chen", "519-555-0103", models.RoleBuyer},
}

var defaultSeedCategories = []string{"Books", "Clothing", "Furniture"}

// Hashing is the expensive part of the seed, so it is done once per process.
// Every call still hands out fresh copies.
var buildDefaultSeed = sync.OnceValues(func() (Dataset, error) {
	var d Dataset
	for _, s := range defaultSeedUsers {
		u, err := models.NewUser(s.id, models.DefaultPassword, s.role)
		if err != nil {
			return Dataset{}, err
		}
		u.FirstName, u.LastName, u.Phone = s.first, s.last, s.phone
		d.Users = append(d.Users, u)
	}
	for _, name := range defaultSeedCategories {
		d.Categories = append(d.Categories, models.Category{Name: name})
	}
	return d, nil
})

// DefaultSeed is the fixed dataset used for authorization probing and admin
// testing: four users, all holding models.DefaultPassword, and three
// categories.
func DefaultSeed() (Dataset, error) {
	d, err := buildDefaultSeed()
	if err != nil {
		return Dataset{}, err
	}
	out := Dataset{Categories: append([]models.Category(nil), d.Categories...)}
	for _, u := range d.Users {
		out.Users = append(out.Users, u.Clone())
	}
	return out, nil
}

// EmptySeed starts a memory backend with no data.
func EmptySeed() (Dataset, error) { return Dataset{}, nil }

// SeedWith returns a SeedFunc handing out copies of d.
func SeedWith(d Dataset) SeedFunc {
	return func() (Dataset, error) {
		out := Dataset{Categories: append([]models.Category(nil), d.Categories...)}
		for _, u := range d.Users {
			out.Users = append(out.Users, u.Clone())
		}
		return out, nil
	}
}
