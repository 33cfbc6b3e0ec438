package stylist

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyWardrobe = errors.New("wardrobe is empty")
	// ErrTransport is returned once the generative backends could not produce
	// a usable payload within the transport retry budget.
	ErrTransport = errors.New("generative service unavailable")
	// ErrMalformedOutput is retried like a transport failure.
	ErrMalformedOutput  = fmt.Errorf("%w: malformed generative output", ErrTransport)
	ErrNoDistinctOutfit = errors.New("could not produce a distinct outfit")
)

type QuotaExceededError struct {
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily limit of %d suggestions reached", e.Limit)
}

type InfeasibleWardrobeError struct {
	Occasion string
	Missing  []string
}

func (e *InfeasibleWardrobeError) Error() string {
	return fmt.Sprintf("wardrobe cannot satisfy %q, add one of: %s", e.Occasion, strings.Join(e.Missing, ", "))
}
