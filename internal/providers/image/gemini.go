package image

import (
	"context"

	"fusionstudio/internal/composer"
	"fusionstudio/internal/providers/genai"
)

// GeminiFuser adapts the Gemini client to the composer's Generator contract.
type GeminiFuser struct {
	client *genai.Client
}

func NewGeminiFuser(client *genai.Client) *GeminiFuser {
	return &GeminiFuser{client: client}
}

func (g *GeminiFuser) Fuse(ctx context.Context, content, style composer.InlineImage, instruction string) (composer.InlineImage, error) {
	out, err := g.client.Fuse(ctx,
		genai.InlinePart{Data: content.Data, MIMEType: content.MediaType},
		genai.InlinePart{Data: style.Data, MIMEType: style.MediaType},
		instruction,
	)
	if err != nil {
		return composer.InlineImage{}, err
	}
	return composer.InlineImage{Data: out.Data, MediaType: out.MIMEType}, nil
}

var _ composer.Generator = (*GeminiFuser)(nil)
