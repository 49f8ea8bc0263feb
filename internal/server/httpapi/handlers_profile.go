package httpapi

import "net/http"

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type masterPasswordRequest struct {
	MasterPassword string `json:"master_password"`
}

type masterPasswordResponse struct {
	MasterPassword string `json:"master_password"`
}

func (a *API) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := a.users.ChangePassword(r.Context(), userIDFromContext(r.Context()), req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) setMasterPassword(w http.ResponseWriter, r *http.Request) {
	var req masterPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := a.users.SetMasterPassword(r.Context(), userIDFromContext(r.Context()), req.MasterPassword)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) masterPassword(w http.ResponseWriter, r *http.Request) {
	master, err := a.users.MasterPassword(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, masterPasswordResponse{MasterPassword: master})
}

func (a *API) deleteAccount(w http.ResponseWriter, r *http.Request) {
	err := a.users.DeleteAccount(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
