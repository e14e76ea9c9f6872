package domain

import (
	"errors"
	"testing"
)

func validInput() ArtistInput {
	return ArtistInput{
		Name:         "Nova Echo",
		City:         "Berlin",
		Genres:       []string{"techno", "house"},
		Venues:       "Berghain, Sisyphos",
		Style:        "dark hypnotic techno",
		Skills:       "vinyl mixing, live edits",
		Achievements: "Boiler Room 2024",
	}
}

func TestArtistInputValidate(t *testing.T) {
	if err := validInput().Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestArtistInputValidateMissingField(t *testing.T) {
	in := validInput()
	in.City = "   "
	err := in.Validate()
	if err == nil {
		t.Fatalf("expected error for blank city")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestArtistInputValidateGenres(t *testing.T) {
	in := validInput()
	in.Genres = nil
	if err := in.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty genres: error = %v, want ErrInvalidInput", err)
	}

	in.Genres = []string{"techno", " "}
	if err := in.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank genre entry: error = %v, want ErrInvalidInput", err)
	}
}

func TestGeneratedBioValidate(t *testing.T) {
	bio := GeneratedBio{
		Pitch:      "A pitch",
		Bio:        "A longer bio",
		Highlights: []string{"one"},
	}
	if err := bio.Validate(); err != nil {
		t.Fatalf("valid bio rejected: %v", err)
	}

	bio.Highlights = nil
	if err := bio.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing highlights: error = %v, want ErrInvalidInput", err)
	}
}

func TestValidateForDocument(t *testing.T) {
	data := ArtistData{ArtistInput: validInput()}
	if err := data.ValidateForDocument(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing generated bio: error = %v, want ErrInvalidInput", err)
	}

	data.Generated = &GeneratedBio{
		Pitch:      "p",
		Bio:        "b",
		Highlights: []string{"h"},
	}
	if err := data.ValidateForDocument(); err != nil {
		t.Fatalf("complete record rejected: %v", err)
	}
}
