package service

import "errors"

var (
	// ErrRecipeNotFound signals the target recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrNotAuthor signals a write attempt by someone other than the
	// recipe's author or a superuser.
	ErrNotAuthor = errors.New("you do not have permission to modify this recipe")

	// ErrAlreadyExists signals the relation row is already present.
	// Losers of a concurrent add race observe this, never the raw
	// constraint violation.
	ErrAlreadyExists = errors.New("relation already exists")

	// ErrNotPresent signals a removal of a relation that does not exist.
	ErrNotPresent = errors.New("relation not present")
)
