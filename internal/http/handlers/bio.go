package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"artistone/internal/domain"
)

type bioResponse struct {
	Success   bool                 `json:"success"`
	Generated *domain.GeneratedBio `json:"generated"`
}

// GenerateBio turns the submitted form data into marketing copy.
func (a *App) GenerateBio(w http.ResponseWriter, r *http.Request) {
	var input domain.ArtistInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		a.error(w, r, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON", err)
		return
	}
	if err := input.Validate(); err != nil {
		a.error(w, r, http.StatusBadRequest, "invalid_input", "All profile fields are required", err)
		return
	}

	generated, err := a.Bio.Generate(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedResponse) {
			a.error(w, r, http.StatusBadGateway, "parse_error", "The language model returned an unusable answer", err)
			return
		}
		a.error(w, r, http.StatusBadGateway, "generation_failed", "Bio generation failed, please try again later", err)
		return
	}

	a.Logger.Info().
		Str("artist", input.Name).
		Int("highlights", len(generated.Highlights)).
		Msg("bio generated")

	a.json(w, http.StatusOK, bioResponse{Success: true, Generated: generated})
}
