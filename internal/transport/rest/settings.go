package rest

import (
	"net/http"

	"github.com/heartmarshall/mintmind/internal/domain"
)

// SettingsResponse holds the user preferences.
type SettingsResponse struct {
	Theme        domain.Theme `json:"theme"`
	AutoRegister bool         `json:"autoRegister"`
}

type settingsRequest struct {
	Theme        *string `json:"theme,omitempty"`
	AutoRegister *bool   `json:"autoRegister,omitempty"`
}

func (h *Handler) settings() SettingsResponse {
	st := h.state.Snapshot()
	return SettingsResponse{Theme: st.Theme, AutoRegister: st.AutoRegister}
}

// GetSettings returns the current preferences.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings())
}

// UpdateSettings applies the fields present in the body.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err, "")
		return
	}

	var theme domain.Theme
	if req.Theme != nil {
		t, err := domain.ParseTheme(*req.Theme)
		if err != nil {
			handleError(w, r, h.log, err, "")
			return
		}
		theme = t
	}

	if theme != "" {
		if err := h.state.SetTheme(r.Context(), theme); err != nil {
			handleError(w, r, h.log, err, "")
			return
		}
	}
	if req.AutoRegister != nil {
		h.state.SetAutoRegister(*req.AutoRegister)
	}
	writeJSON(w, http.StatusOK, h.settings())
}

// ToggleTheme flips between light and dark.
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.state.ToggleTheme(r.Context())
	writeJSON(w, http.StatusOK, h.settings())
}
