package rest

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/mintmind/internal/domain"
	"github.com/heartmarshall/mintmind/internal/service/appstate"
)

type generateRequest struct {
	Prompt      string   `json:"prompt"`
	Type        string   `json:"type"`
	Model       string   `json:"model,omitempty"`
	Seed        *int64   `json:"seed,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

func (req generateRequest) toInput() (appstate.GenerateInput, error) {
	var errs []domain.FieldError
	if strings.TrimSpace(req.Prompt) == "" {
		errs = append(errs, domain.FieldError{Field: "prompt", Message: "required"})
	}
	kind, err := domain.ParseContentKind(req.Type)
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be one of text, image, video"})
	}
	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		errs = append(errs, domain.FieldError{Field: "temperature", Message: "must be within [0, 2]"})
	}
	if len(errs) > 0 {
		return appstate.GenerateInput{}, domain.NewValidationErrors(errs)
	}
	return appstate.GenerateInput{
		Prompt: req.Prompt,
		Kind:   kind,
		Options: domain.GenerationOptions{
			Model:       req.Model,
			Seed:        req.Seed,
			Temperature: req.Temperature,
		},
	}, nil
}

// GenerateResponse is the body of a successful POST /api/generate.
type GenerateResponse struct {
	Generation        *domain.GenerationResult `json:"generation"`
	Asset             *domain.IPAsset          `json:"asset,omitempty"`
	RegistrationError string                   `json:"registrationError,omitempty"`
}

// Generate runs a generation, auto-registering when enabled.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err, "")
		return
	}
	input, err := req.toInput()
	if err != nil {
		handleError(w, r, h.log, err, "")
		return
	}

	if snap := h.state.Snapshot(); snap.IsGenerating || snap.IsRegistering {
		writeError(w, http.StatusConflict, "a generation is already in progress", nil)
		return
	}

	res, err := h.state.Generate(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err, appstate.GenerationMessage(err))
		return
	}

	resp := GenerateResponse{Generation: res.Generation, Asset: res.Asset}
	if res.RegistrationErr != nil {
		resp.RegistrationError = appstate.RegistrationMessage(res.RegistrationErr)
	}
	writeJSON(w, http.StatusOK, resp)
}

type registerRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RegisterAsset registers the current generation.
func (h *Handler) RegisterAsset(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, h.log, err, "")
			return
		}
	}

	snap := h.state.Snapshot()
	if snap.IsRegistering {
		writeError(w, http.StatusConflict, "a registration is already in progress", nil)
		return
	}
	if snap.CurrentGeneration == nil {
		writeError(w, http.StatusConflict, "nothing to register: generate content first", nil)
		return
	}

	asset, err := h.state.Register(r.Context(), appstate.RegisterInput{Title: req.Title, Description: req.Description})
	if err != nil {
		handleError(w, r, h.log, err, appstate.RegistrationMessage(err))
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

// ClearGeneration drops the current generation.
func (h *Handler) ClearGeneration(w http.ResponseWriter, r *http.Request) {
	h.state.ClearCurrentGeneration()
	w.WriteHeader(http.StatusNoContent)
}

// ClearError dismisses the current error message.
func (h *Handler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.state.ClearError()
	w.WriteHeader(http.StatusNoContent)
}
