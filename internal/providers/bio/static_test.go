package bio

import (
	"context"
	"strings"
	"testing"
)

func TestStaticGenerator(t *testing.T) {
	out, err := NewStaticGenerator().Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("static bio does not satisfy the contract: %v", err)
	}
	if !strings.Contains(out.Pitch, "Nova Echo") {
		t.Fatalf("pitch = %q, want artist name", out.Pitch)
	}
	if !strings.Contains(out.Bio, "techno") {
		t.Fatalf("bio = %q, want lowercased genre", out.Bio)
	}

	cityMentioned := false
	for _, h := range out.Highlights {
		if strings.Contains(h, "Berlin") {
			cityMentioned = true
		}
	}
	if !cityMentioned {
		t.Fatalf("highlights = %v, want a city reference", out.Highlights)
	}
}

func TestStaticGeneratorIsDeterministic(t *testing.T) {
	first, err := NewStaticGenerator().Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := NewStaticGenerator().Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first.Pitch != second.Pitch || first.Bio != second.Bio {
		t.Fatalf("same input produced different bios")
	}
}
