// Package models defines the entities of the garage sale directory: users,
// their roles and credentials, and the category vocabulary.
//
// A User owns its password policy. The password is only ever changed through
// SetPassword, which validates the candidate and swaps the stored hash in a
// single step; ValidatePassword is a pure comparison against the current value.
package models
