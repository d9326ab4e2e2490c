package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jhalonen/kiloburn/internal/profile"
	"github.com/jhalonen/kiloburn/internal/storage"
)

type profileResponse struct {
	Profile      profile.Profile `json:"profile"`
	Completeness int             `json:"completeness"`
}

// profileGET returns the stored profile. When none has been saved yet the
// default profile is returned with its completeness so the UI can prompt for
// the missing fields.
func (app *application) profileGET(w http.ResponseWriter, r *http.Request) {
	stored, found, err := storage.GetItem[profile.Profile](r.Context(), app.store, storage.KeyUserProfile)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if !found {
		app.writeJSON(w, r, http.StatusOK, profileResponse{
			Profile:      profile.Default(),
			Completeness: 0,
		})
		return
	}
	app.writeJSON(w, r, http.StatusOK, profileResponse{
		Profile:      stored,
		Completeness: profile.Completeness(stored),
	})
}

// profilePUT validates and saves the profile, preserving the original
// creation timestamp across saves.
func (app *application) profilePUT(w http.ResponseWriter, r *http.Request) {
	var incoming profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	if validation := profile.Validate(incoming); !validation.IsValid {
		app.writeJSON(w, r, http.StatusUnprocessableEntity, validation)
		return
	}

	ctx := r.Context()
	now := time.Now()
	incoming.UpdatedAt = now
	incoming.CreatedAt = now
	if existing, found, err := storage.GetItem[profile.Profile](ctx, app.store, storage.KeyUserProfile); err == nil && found {
		incoming.CreatedAt = existing.CreatedAt
	}

	if err := storage.SetItem(ctx, app.store, storage.KeyUserProfile, incoming); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, profileResponse{
		Profile:      incoming,
		Completeness: profile.Completeness(incoming),
	})
}
