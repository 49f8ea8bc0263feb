package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dunkey/dunkey-server/internal/server/models"
	"github.com/dunkey/dunkey-server/internal/server/services"
)

type entryResponse struct {
	ID       string `json:"id"`
	Website  string `json:"website"`
	Username string `json:"username"`
	Password string `json:"password"`
	Strength string `json:"strength,omitempty"`
}

type createEntryRequest struct {
	Website  string `json:"website"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateEntryRequest struct {
	Website  *string `json:"website"`
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type weakEntryResponse struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsWeak   bool   `json:"is_weak"`
}

func entryToAPI(e *models.DecryptedEntry) entryResponse {
	return entryResponse{
		ID:       e.ID,
		Website:  e.Website,
		Username: e.Username,
		Password: e.Password,
	}
}

func (a *API) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := a.vault.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	res := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, entryToAPI(e))
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) createEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := a.vault.Create(r.Context(), userIDFromContext(r.Context()), req.Website, req.Username, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, entryToAPI(entry))
}

func (a *API) updateEntry(w http.ResponseWriter, r *http.Request) {
	var req updateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := a.vault.Update(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "entryID"), services.UpdateEntryRequest{
		Website:  req.Website,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entryToAPI(entry))
}

func (a *API) deleteEntry(w http.ResponseWriter, r *http.Request) {
	err := a.vault.Delete(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "entryID"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) searchEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := services.ParseStrengthFilter(r.URL.Query().Get("strength"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	entries, err := a.vault.Search(r.Context(), userIDFromContext(r.Context()), r.URL.Query().Get("q"), filter)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	res := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		item := entryToAPI(&e.DecryptedEntry)
		item.Strength = e.Strength
		res = append(res, item)
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) weakReport(w http.ResponseWriter, r *http.Request) {
	flagged, err := a.vault.WeakReport(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	res := make([]weakEntryResponse, 0, len(flagged))
	for _, f := range flagged {
		res = append(res, weakEntryResponse{
			Username: f.Username,
			Password: f.Password,
			IsWeak:   f.IsWeak,
		})
	}
	writeJSON(w, http.StatusOK, res)
}
