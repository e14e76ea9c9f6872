package bio

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"artistone/internal/domain"
)

// StaticGenerator interpolates the form fields into a fixed biographical
// pattern. It is the deterministic last resort when the language model is
// unavailable: as long as the input was valid, the caller still gets a
// usable bio.
type StaticGenerator struct{}

// NewStaticGenerator returns the template-based fallback generator.
func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

// Generate builds the bio from the input alone; it cannot fail on valid input.
func (s *StaticGenerator) Generate(_ context.Context, in domain.ArtistInput) (*domain.GeneratedBio, error) {
	caser := cases.Title(language.Und)
	genres := strings.ToLower(strings.Join(in.Genres, ", "))

	pitch := fmt.Sprintf(
		"%s is a %s artist based in %s, building sets that pull listeners in from the first track.",
		in.Name, genres, in.City,
	)
	paragraph := fmt.Sprintf(
		"%s stands out in the %s scene of %s. The artist's approach combines %s, backed by hands-on command of %s. %s marks the path so far, and the sound keeps evolving with every booking.",
		in.Name, genres, in.City, in.Style, in.Skills, in.Achievements,
	)
	highlights := []string{
		fmt.Sprintf("Performed at %s", in.Venues),
		fmt.Sprintf("Signature style: %s", in.Style),
		fmt.Sprintf("Technical skills: %s", in.Skills),
		in.Achievements,
		fmt.Sprintf("Active in the %s music scene", caser.String(in.City)),
	}

	return &domain.GeneratedBio{
		Pitch:      pitch,
		Bio:        paragraph,
		Highlights: highlights,
	}, nil
}

var _ Generator = (*StaticGenerator)(nil)
