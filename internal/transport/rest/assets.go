package rest

import (
	"net/http"

	"github.com/heartmarshall/mintmind/internal/domain"
)

// ListAssets returns the connected wallet's assets, newest first, optionally
// filtered by ?kind=.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	var kind domain.ContentKind
	if raw := r.URL.Query().Get("kind"); raw != "" && raw != "all" {
		k, err := domain.ParseContentKind(raw)
		if err != nil {
			handleError(w, r, h.log, domain.NewValidationError("kind", "must be one of all, text, image, video"), "")
			return
		}
		kind = k
	}
	writeJSON(w, http.StatusOK, h.state.Assets(kind))
}

// AssetStats returns asset counts per kind.
func (h *Handler) AssetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Stats())
}

// GetRegistryAsset looks an asset up in the IP registry.
func (h *Handler) GetRegistryAsset(w http.ResponseWriter, r *http.Request) {
	rec, err := h.registry.GetAsset(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.log, err, "")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ListRegistryAssets lists what the registry holds for ?owner=, defaulting
// to the connected wallet.
func (h *Handler) ListRegistryAssets(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		owner = h.state.Snapshot().WalletAddress
	}
	if owner == "" {
		handleError(w, r, h.log, domain.NewValidationError("owner", "required when no wallet is connected"), "")
		return
	}

	records, err := h.registry.ListAssets(r.Context(), owner)
	if err != nil {
		handleError(w, r, h.log, err, "")
		return
	}
	if records == nil {
		records = []domain.RegistryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
