package composer

import "fusionstudio/internal/domain"

// View is the thin rendering boundary the controller reports through. The
// HTTP layer satisfies it for the browser front end; tests satisfy it with a
// recorder. Keeping it this narrow means the state machine never touches a
// rendering surface directly.
type View interface {
	// ShowPreview displays the uploaded image in place of the upload placeholder.
	ShowPreview(input domain.InputImage)
	// ShowError displays a user-visible error message and restores the result
	// placeholder.
	ShowError(message string)
	// ShowResult displays a fused image and enables the download affordance.
	ShowResult(result domain.FusedImage)
	// SetEnablement toggles the generate control.
	SetEnablement(enabled bool)
}

// NopView discards all view updates. Used when no rendering surface is
// attached, e.g. for API-only callers.
type NopView struct{}

func (NopView) ShowPreview(domain.InputImage) {}

func (NopView) ShowError(string) {}

func (NopView) ShowResult(domain.FusedImage) {}

func (NopView) SetEnablement(bool) {}
