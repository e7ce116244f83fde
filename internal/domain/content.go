package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Content is a generated artifact. It is a closed set: TextContent,
// ImageContent and VideoContent are the only implementations, so a text
// result can never carry a media URL.
type Content interface {
	Kind() ContentKind
	// Summary is the textual payload: the text itself, or the caption of
	// an image/video.
	Summary() string
	// MediaURL is empty for text.
	MediaURL() string

	isContent()
}

// TextContent is a generated text.
type TextContent struct {
	Text string
}

func (TextContent) Kind() ContentKind { return KindText }
func (c TextContent) Summary() string { return c.Text }
func (TextContent) MediaURL() string { return "" }
func (TextContent) isContent() {}

// ImageContent is a generated image with a human-readable caption.
type ImageContent struct {
	Caption string
	URL     string
}

func (ImageContent) Kind() ContentKind { return KindImage }
func (c ImageContent) Summary() string { return c.Caption }
func (c ImageContent) MediaURL() string { return c.URL }
func (ImageContent) isContent() {}

// VideoContent is a generated video with a human-readable caption.
type VideoContent struct {
	Caption string
	URL     string
}

func (VideoContent) Kind() ContentKind { return KindVideo }
func (c VideoContent) Summary() string { return c.Caption }
func (c VideoContent) MediaURL() string { return c.URL }
func (VideoContent) isContent() {}

// contentFields is the flat wire shape shared by generation results and
// stored assets.
type contentFields struct {
	Type     ContentKind `json:"type"`
	Content  string      `json:"content"`
	ImageURL string      `json:"imageUrl,omitempty"`
	VideoURL string      `json:"videoUrl,omitempty"`
}

func flattenContent(c Content) contentFields {
	f := contentFields{}
	switch v := c.(type) {
	case TextContent:
		f.Type, f.Content = KindText, v.Text
	case ImageContent:
		f.Type, f.Content, f.ImageURL = KindImage, v.Caption, v.URL
	case VideoContent:
		f.Type, f.Content, f.VideoURL = KindVideo, v.Caption, v.URL
	}
	return f
}

func (f contentFields) toContent() (Content, error) {
	switch f.Type {
	case KindText:
		return TextContent{Text: f.Content}, nil
	case KindImage:
		return ImageContent{Caption: f.Content, URL: f.ImageURL}, nil
	case KindVideo:
		return VideoContent{Caption: f.Content, URL: f.VideoURL}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, f.Type)
	}
}

// GenerationMetadata describes how a piece of content was produced.
type GenerationMetadata struct {
	Model       string    `json:"model"`
	Seed        int64     `json:"seed"`
	GeneratedAt time.Time `json:"generatedAt"`
	Prompt      string    `json:"prompt"`
}

// GenerationOptions tunes a generation request. Nil pointers mean "not set".
type GenerationOptions struct {
	Model       string
	Seed        *int64
	Temperature *float64
}

// GenerationResult is the ephemeral output of the generation service.
type GenerationResult struct {
	Content  Content
	Metadata GenerationMetadata
}

// Kind is a shortcut for Content.Kind that tolerates a nil Content.
func (g *GenerationResult) Kind() ContentKind {
	if g == nil || g.Content == nil {
		return ""
	}
	return g.Content.Kind()
}

type generationResultJSON struct {
	contentFields
	Metadata GenerationMetadata `json:"metadata"`
}

func (g GenerationResult) MarshalJSON() ([]byte, error) {
	if g.Content == nil {
		return nil, fmt.Errorf("generation result: %w: missing content", ErrValidation)
	}
	return json.Marshal(generationResultJSON{
		contentFields: flattenContent(g.Content),
		Metadata:      g.Metadata,
	})
}

func (g *GenerationResult) UnmarshalJSON(data []byte) error {
	var raw generationResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c, err := raw.toContent()
	if err != nil {
		return fmt.Errorf("generation result: %w", err)
	}
	g.Content = c
	g.Metadata = raw.Metadata
	return nil
}
