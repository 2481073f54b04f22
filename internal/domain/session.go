package domain

// InputImage is the user-supplied photo, held base64-encoded together with its
// declared media type.
type InputImage struct {
	Data      string `json:"data"`
	MediaType string `json:"media_type"`
}

// FusedImage is the style-transfer result returned by the model.
type FusedImage struct {
	Data      string `json:"data"`
	MediaType string `json:"media_type"`
}

// DataURI renders the result as a data URI suitable for an <img> src or a
// browser download.
func (f FusedImage) DataURI() string {
	return "data:" + f.MediaType + ";base64," + f.Data
}

// State is the complete composer state for one session. Values are treated as
// immutable: every mutation goes through a With* helper that returns a copy,
// so handlers and tests can reason about transitions deterministically.
type State struct {
	Input        *InputImage
	Reference    *ReferenceSelection
	Loading      bool
	Result       *FusedImage
	ErrorMessage string
}

// CanGenerate reports whether a generation may start: an input image and a
// reference must both be present and no request may be in flight.
func (s State) CanGenerate() bool {
	return s.Input != nil && s.Reference != nil && !s.Loading
}

// WithInput returns a copy of the state with the input image replaced.
func (s State) WithInput(in *InputImage) State {
	s.Input = in
	return s
}

// WithReference returns a copy of the state with the reference selection
// replaced. Passing a new selection implicitly deselects the previous one.
func (s State) WithReference(ref *ReferenceSelection) State {
	s.Reference = ref
	return s
}

// WithLoading returns a copy of the state with the loading flag set.
func (s State) WithLoading(loading bool) State {
	s.Loading = loading
	return s
}

// WithResult returns a copy of the state holding a fresh result and no error.
func (s State) WithResult(res *FusedImage) State {
	s.Result = res
	s.ErrorMessage = ""
	return s
}

// WithError returns a copy of the state carrying an error message. Any prior
// result is dropped so the UI reverts to its placeholder.
func (s State) WithError(msg string) State {
	s.Result = nil
	s.ErrorMessage = msg
	return s
}

// Cleared returns a copy of the state with error and result display reset,
// as happens when a new generation starts.
func (s State) Cleared() State {
	s.Result = nil
	s.ErrorMessage = ""
	return s
}
