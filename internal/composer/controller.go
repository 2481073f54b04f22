package composer

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"fusionstudio/internal/domain"
)

// InlineImage is a base64 payload plus its media type, the unit both fusion
// request parts are built from.
type InlineImage struct {
	Data      string
	MediaType string
}

// Generator runs one style-transfer request against the remote model.
type Generator interface {
	Fuse(ctx context.Context, content, style InlineImage, instruction string) (InlineImage, error)
}

// ReferenceFetcher retrieves reference image bytes, typically through the
// CORS relay.
type ReferenceFetcher interface {
	FetchImage(ctx context.Context, url string) (data []byte, mediaType string, err error)
}

// Controller owns the composer state for one session and drives the
// Idle -> Requesting -> {Success, Failure} -> Idle cycle. All state updates
// are immutable copies guarded by a mutex, so concurrent HTTP handlers see
// consistent snapshots and at most one generation runs at a time.
type Controller struct {
	mu        sync.Mutex
	state     domain.State
	fetcher   ReferenceFetcher
	generator Generator
	view      View
}

// New constructs a Controller. A nil view falls back to NopView.
func New(fetcher ReferenceFetcher, generator Generator, view View) *Controller {
	if view == nil {
		view = NopView{}
	}
	return &Controller{
		fetcher:   fetcher,
		generator: generator,
		view:      view,
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Upload validates and stores the user-supplied image. Files whose media type
// does not indicate an image are rejected with domain.ErrNotAnImage and leave
// all prior state untouched. The declared media type wins; when the browser
// did not send one the payload is sniffed instead.
func (c *Controller) Upload(mediaType string, data []byte) error {
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		c.view.ShowError("please choose an image file")
		return domain.ErrNotAnImage
	}

	input := &domain.InputImage{Data: EncodePayload(data), MediaType: mediaType}

	c.mu.Lock()
	c.state = c.state.WithInput(input)
	snapshot := c.state
	c.mu.Unlock()

	c.view.ShowPreview(*input)
	c.view.SetEnablement(snapshot.CanGenerate())
	return nil
}

// ClearInput removes the uploaded image and re-evaluates enablement.
func (c *Controller) ClearInput() {
	c.mu.Lock()
	c.state = c.state.WithInput(nil)
	snapshot := c.state
	c.mu.Unlock()

	c.view.SetEnablement(snapshot.CanGenerate())
}

// Select activates a catalog reference. Selecting a new reference replaces
// the previous selection, so exactly one is active afterwards.
func (c *Controller) Select(ref domain.Reference) {
	selection := &domain.ReferenceSelection{ID: ref.ID, URL: ref.URL}

	c.mu.Lock()
	c.state = c.state.WithReference(selection)
	snapshot := c.state
	c.mu.Unlock()

	c.view.SetEnablement(snapshot.CanGenerate())
}

// Generate runs one full Requesting episode: fetch the reference bytes, build
// the three ordered request parts, submit, and keep the first inline image of
// the response. Every error is caught here, surfaced through the view, and
// leaves the controller back in Idle; the loading flag is always cleared no
// matter which branch ran.
func (c *Controller) Generate(ctx context.Context) (*domain.FusedImage, error) {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return nil, domain.ErrBusy
	}
	if !c.state.CanGenerate() {
		c.mu.Unlock()
		return nil, domain.ErrNotReady
	}
	input := *c.state.Input
	reference := *c.state.Reference
	c.state = c.state.Cleared().WithLoading(true)
	c.mu.Unlock()
	c.view.SetEnablement(false)

	result, err := c.fuse(ctx, input, reference)

	c.mu.Lock()
	if err != nil {
		c.state = c.state.WithError(err.Error()).WithLoading(false)
	} else {
		c.state = c.state.WithResult(result).WithLoading(false)
	}
	snapshot := c.state
	c.mu.Unlock()

	if err != nil {
		c.view.ShowError(err.Error())
	} else {
		c.view.ShowResult(*result)
	}
	c.view.SetEnablement(snapshot.CanGenerate())
	return result, err
}

func (c *Controller) fuse(ctx context.Context, input domain.InputImage, reference domain.ReferenceSelection) (*domain.FusedImage, error) {
	refData, refMime, err := c.fetcher.FetchImage(ctx, reference.URL)
	if err != nil {
		return nil, err
	}

	out, err := c.generator.Fuse(ctx,
		InlineImage{Data: input.Data, MediaType: input.MediaType},
		InlineImage{Data: EncodePayload(refData), MediaType: refMime},
		FusionInstruction,
	)
	if err != nil {
		return nil, err
	}

	mediaType := out.MediaType
	if mediaType == "" {
		mediaType = "image/png"
	}
	return &domain.FusedImage{Data: out.Data, MediaType: mediaType}, nil
}

// Result returns the currently rendered fused image, or domain.ErrNoResult
// when none is present. Download is gated on this.
func (c *Controller) Result() (*domain.FusedImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Result == nil {
		return nil, domain.ErrNoResult
	}
	res := *c.state.Result
	return &res, nil
}
