package domain

import "errors"

var (
	// ErrNotFound covers generic missing rows (products, materials, runs).
	ErrNotFound = errors.New("record not found")

	// ErrModelNotFound means no regression model is registered for the
	// requested item number.
	ErrModelNotFound = errors.New("model not found")

	// ErrInfeasible means the optimizer found no assignment satisfying
	// the hard constraints within its budget.
	ErrInfeasible = errors.New("no feasible material combination")

	// ErrNoMatchFound means a reverse lookup matched no catalog material
	// within tolerance.
	ErrNoMatchFound = errors.New("no matching material found")
)
