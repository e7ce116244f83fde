package domain

import (
	"fmt"
	"strings"
	"time"
)

// IPMetadata is what gets submitted to the IP registry.
type IPMetadata struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Creator        string      `json:"creator"`
	ContentType    ContentKind `json:"contentType"`
	ContentURL     string      `json:"contentUrl,omitempty"`
	OriginalPrompt string      `json:"originalPrompt"`
	Model          string      `json:"model"`
	GeneratedAt    time.Time   `json:"generatedAt"`
	Seed           *int64      `json:"seed,omitempty"`
}

// Validate checks the fields the registry cannot work without.
func (m IPMetadata) Validate() error {
	var errs []FieldError
	if strings.TrimSpace(m.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "required"})
	}
	if !m.ContentType.IsValid() {
		errs = append(errs, FieldError{Field: "contentType", Message: fmt.Sprintf("unsupported kind %q", m.ContentType)})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// RegistrationOutcome is the registry's answer. Exactly one of
// (Success with a non-empty AssetID) or (failure with a non-empty
// ErrorMessage) holds.
type RegistrationOutcome struct {
	Success      bool   `json:"success"`
	AssetID      string `json:"assetId"`
	TxHash       string `json:"txHash,omitempty"`
	IPID         string `json:"ipId,omitempty"`
	TokenID      string `json:"tokenId,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}

// RegistrationSucceeded builds a success outcome.
func RegistrationSucceeded(assetID, txHash, ipID, tokenID string) RegistrationOutcome {
	return RegistrationOutcome{
		Success: true,
		AssetID: assetID,
		TxHash:  txHash,
		IPID:    ipID,
		TokenID: tokenID,
	}
}

// RegistrationFailed builds a failure outcome.
func RegistrationFailed(message string) RegistrationOutcome {
	return RegistrationOutcome{ErrorMessage: message}
}

// Validate reports whether the outcome respects its either/or shape.
func (o RegistrationOutcome) Validate() error {
	switch {
	case o.Success && o.AssetID == "":
		return fmt.Errorf("%w: successful registration without asset id", ErrValidation)
	case o.Success && o.ErrorMessage != "":
		return fmt.Errorf("%w: successful registration with error message", ErrValidation)
	case !o.Success && o.ErrorMessage == "":
		return fmt.Errorf("%w: failed registration without error message", ErrValidation)
	case !o.Success && (o.AssetID != "" || o.TxHash != "" || o.IPID != "" || o.TokenID != ""):
		return fmt.Errorf("%w: failed registration with identifiers", ErrValidation)
	}
	return nil
}

// Err converts a failed outcome into a RegistrationError. It returns nil on success.
func (o RegistrationOutcome) Err() error {
	if o.Success {
		return nil
	}
	return &RegistrationError{Message: o.ErrorMessage}
}

// RegistryRecord is what the registry returns when an asset is looked up.
type RegistryRecord struct {
	AssetID      string    `json:"assetId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ContentType  string    `json:"contentType"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
}
