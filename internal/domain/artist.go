package domain

import (
	"fmt"
	"strings"
)

// SocialLinks holds the optional public profiles an artist can attach to an EPK.
type SocialLinks struct {
	Instagram  string `json:"instagram,omitempty"`
	SoundCloud string `json:"soundcloud,omitempty"`
	Mixcloud   string `json:"mixcloud,omitempty"`
	Website    string `json:"website,omitempty"`
}

// ArtistInput is the biographical form data submitted by an artist. All text
// fields except Links must be non-empty at submission time.
type ArtistInput struct {
	Name         string      `json:"name"`
	City         string      `json:"city"`
	Genres       []string    `json:"genres"`
	Venues       string      `json:"venues"`
	Style        string      `json:"style"`
	Skills       string      `json:"skills"`
	Achievements string      `json:"achievements"`
	Links        SocialLinks `json:"links"`
}

// Validate enforces the submission invariants on the form data.
func (in ArtistInput) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"name", in.Name},
		{"city", in.City},
		{"venues", in.Venues},
		{"style", in.Style},
		{"skills", in.Skills},
		{"achievements", in.Achievements},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, field.name)
		}
	}
	if len(in.Genres) == 0 {
		return fmt.Errorf("%w: genres must be a non-empty list", ErrInvalidInput)
	}
	for _, genre := range in.Genres {
		if strings.TrimSpace(genre) == "" {
			return fmt.Errorf("%w: genres must not contain empty entries", ErrInvalidInput)
		}
	}
	return nil
}

// GeneratedBio is the marketing copy produced for an artist. It is immutable
// once returned; regeneration replaces it wholesale.
type GeneratedBio struct {
	Pitch      string   `json:"pitch"`
	Bio        string   `json:"bio"`
	Highlights []string `json:"highlights"`
}

// Validate reports whether the bio satisfies the generation contract.
func (b GeneratedBio) Validate() error {
	if strings.TrimSpace(b.Pitch) == "" {
		return fmt.Errorf("%w: pitch is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(b.Bio) == "" {
		return fmt.Errorf("%w: bio is empty", ErrInvalidInput)
	}
	if len(b.Highlights) == 0 {
		return fmt.Errorf("%w: highlights are empty", ErrInvalidInput)
	}
	return nil
}

// ArtistData is the complete record consumed by the document renderer.
type ArtistData struct {
	ArtistInput
	Generated        *GeneratedBio `json:"generated,omitempty"`
	PhotoURL         string        `json:"photoUrl,omitempty"`
	OriginalPhotoURL string        `json:"originalPhotoUrl,omitempty"`
	GeneratedAt      string        `json:"generatedAt,omitempty"`
}

// ValidateForDocument checks the minimum fields required before any rendering
// is attempted.
func (d ArtistData) ValidateForDocument() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(d.City) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	}
	if d.Generated == nil {
		return fmt.Errorf("%w: generated bio is required", ErrInvalidInput)
	}
	return d.Generated.Validate()
}
