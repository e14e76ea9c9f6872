package bio

import (
	"context"
	"fmt"
	"strings"

	"artistone/internal/domain"
)

// Generator produces marketing copy for an artist from the submitted form data.
type Generator interface {
	Generate(ctx context.Context, in domain.ArtistInput) (*domain.GeneratedBio, error)
}

const systemPrompt = `You are a professional music copywriter specializing in Electronic Press Kits (EPKs) for performing artists.

Write in the same language the artist used in their form fields. Keep the tone professional without being overloaded, focus on what makes this artist distinct, and avoid cliches like "unique sound" unless backed by specifics.

Respond strictly as a JSON object with this exact shape:
{
  "pitch": "short elevator pitch, 2-3 sentences, leading with the artist's edge and achievements",
  "bio": "full biography, one paragraph of 4-6 sentences covering career and style",
  "highlights": ["3-5 concrete, measurable achievements: releases, venues, skills"]
}`

func buildUserPrompt(in domain.ArtistInput) string {
	sb := &strings.Builder{}
	sb.WriteString("Create an EPK for an artist with the following details:\n\n")
	fmt.Fprintf(sb, "- Name: %s\n", in.Name)
	fmt.Fprintf(sb, "- City: %s\n", in.City)
	fmt.Fprintf(sb, "- Genres: %s\n", strings.Join(in.Genres, ", "))
	fmt.Fprintf(sb, "- Venues played: %s\n", in.Venues)
	fmt.Fprintf(sb, "- Style and approach: %s\n", in.Style)
	fmt.Fprintf(sb, "- Skills: %s\n", in.Skills)
	fmt.Fprintf(sb, "- Achievements: %s\n", in.Achievements)
	sb.WriteString("\nWrite copy that makes this artist stand out to bookers and press.")
	return sb.String()
}
