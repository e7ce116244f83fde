package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// IPAsset is a generated artifact that was successfully registered.
// Values are never mutated after construction; collections are replaced whole.
type IPAsset struct {
	ID           string
	Title        string
	Description  string
	Content      Content
	StoryAssetID string
	StoryTxHash  string
	StoryIPID    string
	Metadata     GenerationMetadata
	RegisteredAt time.Time
}

// NewIPAsset builds an asset from a generation and a successful registration.
func NewIPAsset(gen *GenerationResult, outcome RegistrationOutcome, title, description string, now time.Time) (IPAsset, error) {
	if gen == nil || gen.Content == nil {
		return IPAsset{}, NewValidationError("generation", "required")
	}
	if !outcome.Success || outcome.AssetID == "" {
		return IPAsset{}, NewValidationError("registration", "must be successful")
	}
	return IPAsset{
		ID:           outcome.AssetID,
		Title:        title,
		Description:  description,
		Content:      gen.Content,
		StoryAssetID: outcome.AssetID,
		StoryTxHash:  outcome.TxHash,
		StoryIPID:    outcome.IPID,
		Metadata:     gen.Metadata,
		RegisteredAt: now.UTC(),
	}, nil
}

// Kind is a shortcut for Content.Kind.
func (a IPAsset) Kind() ContentKind {
	if a.Content == nil {
		return ""
	}
	return a.Content.Kind()
}

// ipAssetJSON is the persisted shape, compatible with the collections the
// web client stored before the service existed.
type ipAssetJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	contentFields
	StoryAssetID string             `json:"storyAssetId"`
	StoryTxHash  string             `json:"storyTxHash,omitempty"`
	StoryIPID    string             `json:"storyIpId,omitempty"`
	Metadata     GenerationMetadata `json:"metadata"`
	RegisteredAt time.Time          `json:"registeredAt"`
}

func (a IPAsset) MarshalJSON() ([]byte, error) {
	if a.Content == nil {
		return nil, fmt.Errorf("ip asset %s: %w: missing content", a.ID, ErrValidation)
	}
	return json.Marshal(ipAssetJSON{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		contentFields: flattenContent(a.Content),
		StoryAssetID:  a.StoryAssetID,
		StoryTxHash:   a.StoryTxHash,
		StoryIPID:     a.StoryIPID,
		Metadata:      a.Metadata,
		RegisteredAt:  a.RegisteredAt,
	})
}

func (a *IPAsset) UnmarshalJSON(data []byte) error {
	var raw ipAssetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c, err := raw.toContent()
	if err != nil {
		return fmt.Errorf("ip asset %s: %w", raw.ID, err)
	}
	*a = IPAsset{
		ID:           raw.ID,
		Title:        raw.Title,
		Description:  raw.Description,
		Content:      c,
		StoryAssetID: raw.StoryAssetID,
		StoryTxHash:  raw.StoryTxHash,
		StoryIPID:    raw.StoryIPID,
		Metadata:     raw.Metadata,
		RegisteredAt: raw.RegisteredAt,
	}
	return nil
}

// PrependAsset returns a new collection with asset first, dropping any older
// asset with the same ID. The input slice is not modified.
func PrependAsset(assets []IPAsset, asset IPAsset) []IPAsset {
	out := make([]IPAsset, 0, len(assets)+1)
	out = append(out, asset)
	for _, a := range assets {
		if a.ID != asset.ID {
			out = append(out, a)
		}
	}
	return out
}

// CountByKind tallies a collection per content kind. Every kind is present
// in the result, possibly with a zero count.
func CountByKind(assets []IPAsset) map[ContentKind]int {
	counts := make(map[ContentKind]int, len(ContentKinds))
	for _, k := range ContentKinds {
		counts[k] = 0
	}
	for _, a := range assets {
		counts[a.Kind()]++
	}
	return counts
}
