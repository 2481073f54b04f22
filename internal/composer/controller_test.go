package composer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusionstudio/internal/domain"
)

type stubFetcher struct {
	data []byte
	mime string
	err  error
	urls []string
}

func (s *stubFetcher) FetchImage(ctx context.Context, url string) ([]byte, string, error) {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return nil, "", s.err
	}
	return s.data, s.mime, nil
}

type stubGenerator struct {
	out            InlineImage
	err            error
	gotContent     InlineImage
	gotStyle       InlineImage
	gotInstruction string
	calls          int
}

func (s *stubGenerator) Fuse(ctx context.Context, content, style InlineImage, instruction string) (InlineImage, error) {
	s.calls++
	s.gotContent = content
	s.gotStyle = style
	s.gotInstruction = instruction
	if s.err != nil {
		return InlineImage{}, s.err
	}
	return s.out, nil
}

// blockingGenerator holds the Requesting episode open until released, so
// tests can observe the in-flight state.
type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingGenerator) Fuse(ctx context.Context, content, style InlineImage, instruction string) (InlineImage, error) {
	close(b.started)
	<-b.release
	return InlineImage{Data: "ZGF0YQ==", MediaType: "image/png"}, nil
}

type recorderView struct {
	previews   []domain.InputImage
	errorMsgs  []string
	results    []domain.FusedImage
	enablement []bool
}

func (v *recorderView) ShowPreview(in domain.InputImage) { v.previews = append(v.previews, in) }
func (v *recorderView) ShowError(msg string)             { v.errorMsgs = append(v.errorMsgs, msg) }
func (v *recorderView) ShowResult(res domain.FusedImage) { v.results = append(v.results, res) }
func (v *recorderView) SetEnablement(enabled bool)       { v.enablement = append(v.enablement, enabled) }
func (v *recorderView) lastEnablement() bool             { return v.enablement[len(v.enablement)-1] }

func redPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var starryNight = domain.Reference{
	ID:          "starry-night",
	DisplayName: "Starry Night",
	URL:         "https://example.com/starry-night.jpg",
}

func TestUploadRejectsNonImageAndKeepsState(t *testing.T) {
	view := &recorderView{}
	c := New(&stubFetcher{}, &stubGenerator{}, view)

	require.NoError(t, c.Upload("image/png", redPNG(t, 10, 10)))
	before := c.Snapshot()

	err := c.Upload("text/plain", []byte("definitely not pixels"))
	require.ErrorIs(t, err, domain.ErrNotAnImage)

	after := c.Snapshot()
	assert.Equal(t, before.Input, after.Input, "prior input must survive a rejected upload")
	assert.NotEmpty(t, view.errorMsgs)
}

func TestUploadSniffsMissingMediaType(t *testing.T) {
	c := New(&stubFetcher{}, &stubGenerator{}, nil)

	require.NoError(t, c.Upload("", redPNG(t, 2, 2)))
	assert.Equal(t, "image/png", c.Snapshot().Input.MediaType)

	err := c.Upload("", []byte("plain text payload here"))
	assert.ErrorIs(t, err, domain.ErrNotAnImage)
}

func TestSelectReplacesExactlyOnePrevious(t *testing.T) {
	view := &recorderView{}
	c := New(&stubFetcher{}, &stubGenerator{}, view)

	c.Select(starryNight)
	first := c.Snapshot().Reference
	require.NotNil(t, first)
	assert.Equal(t, "starry-night", first.ID)

	c.Select(domain.Reference{ID: "great-wave", URL: "https://example.com/wave.jpg"})
	second := c.Snapshot().Reference
	require.NotNil(t, second)
	assert.Equal(t, "great-wave", second.ID)
}

func TestGenerateRequiresInputAndReference(t *testing.T) {
	c := New(&stubFetcher{}, &stubGenerator{}, nil)

	_, err := c.Generate(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotReady)

	require.NoError(t, c.Upload("image/png", redPNG(t, 2, 2)))
	_, err = c.Generate(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotReady)
}

func TestGenerateSuccess(t *testing.T) {
	styleBytes := redPNG(t, 6, 6)
	fetcher := &stubFetcher{data: styleBytes, mime: "image/png"}
	gen := &stubGenerator{out: InlineImage{Data: "QkFTRTY0", MediaType: "image/png"}}
	view := &recorderView{}
	c := New(fetcher, gen, view)

	input := redPNG(t, 10, 10)
	require.NoError(t, c.Upload("image/png", input))
	c.Select(starryNight)

	res, err := c.Generate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)

	// Request parts arrive in order: uploaded image, reference image, instruction.
	assert.Equal(t, EncodePayload(input), gen.gotContent.Data)
	assert.Equal(t, "image/png", gen.gotContent.MediaType)
	assert.Equal(t, EncodePayload(styleBytes), gen.gotStyle.Data)
	assert.Equal(t, FusionInstruction, gen.gotInstruction)
	assert.Equal(t, []string{starryNight.URL}, fetcher.urls)

	assert.Equal(t, "data:image/png;base64,QkFTRTY0", res.DataURI())

	st := c.Snapshot()
	assert.False(t, st.Loading)
	assert.NotNil(t, st.Result)
	assert.Empty(t, st.ErrorMessage)
	assert.True(t, view.lastEnablement(), "generate must be re-enabled after success")

	got, err := c.Result()
	require.NoError(t, err)
	assert.Equal(t, res, got)
}

func TestGenerateDefaultsResultMediaTypeToPNG(t *testing.T) {
	c := New(
		&stubFetcher{data: redPNG(t, 2, 2), mime: "image/jpeg"},
		&stubGenerator{out: InlineImage{Data: "QUJD"}},
		nil,
	)
	require.NoError(t, c.Upload("image/png", redPNG(t, 2, 2)))
	c.Select(starryNight)

	res, err := c.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MediaType)
}

func TestGenerateFetchFailureClearsPriorResult(t *testing.T) {
	fetcher := &stubFetcher{data: redPNG(t, 2, 2), mime: "image/png"}
	gen := &stubGenerator{out: InlineImage{Data: "QUJD", MediaType: "image/png"}}
	view := &recorderView{}
	c := New(fetcher, gen, view)

	require.NoError(t, c.Upload("image/png", redPNG(t, 2, 2)))
	c.Select(starryNight)
	_, err := c.Generate(context.Background())
	require.NoError(t, err)

	fetcher.err = &domain.FetchError{URL: starryNight.URL, Status: "502 Bad Gateway"}
	_, err = c.Generate(context.Background())

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)

	st := c.Snapshot()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Result, "stale result from the prior success must not survive a failure")
	assert.Contains(t, st.ErrorMessage, "502 Bad Gateway")
	assert.True(t, view.lastEnablement())

	_, err = c.Result()
	assert.ErrorIs(t, err, domain.ErrNoResult)
}

func TestGenerateNoImageContent(t *testing.T) {
	view := &recorderView{}
	c := New(
		&stubFetcher{data: redPNG(t, 2, 2), mime: "image/png"},
		&stubGenerator{err: domain.ErrNoImageContent},
		view,
	)
	require.NoError(t, c.Upload("image/png", redPNG(t, 2, 2)))
	c.Select(starryNight)

	_, err := c.Generate(context.Background())
	require.ErrorIs(t, err, domain.ErrNoImageContent)

	st := c.Snapshot()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Result)
	require.NotEmpty(t, view.errorMsgs)
	assert.Contains(t, view.errorMsgs[len(view.errorMsgs)-1], "no image")
}

func TestGenerateRefusesReentry(t *testing.T) {
	gen := &blockingGenerator{started: make(chan struct{}), release: make(chan struct{})}
	c := New(&stubFetcher{data: redPNG(t, 2, 2), mime: "image/png"}, gen, nil)

	require.NoError(t, c.Upload("image/png", redPNG(t, 2, 2)))
	c.Select(starryNight)

	done := make(chan error, 1)
	go func() {
		_, err := c.Generate(context.Background())
		done <- err
	}()

	<-gen.started
	assert.True(t, c.Snapshot().Loading)

	_, err := c.Generate(context.Background())
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(gen.release)
	require.NoError(t, <-done)
	assert.False(t, c.Snapshot().Loading)
}

func TestClearInputDisablesGenerate(t *testing.T) {
	view := &recorderView{}
	c := New(&stubFetcher{}, &stubGenerator{}, view)

	require.NoError(t, c.Upload("image/png", redPNG(t, 2, 2)))
	c.Select(starryNight)
	require.True(t, view.lastEnablement())

	c.ClearInput()
	assert.False(t, view.lastEnablement())
	assert.Nil(t, c.Snapshot().Input)

	_, err := c.Generate(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotReady)
}

func TestGeneratorErrorTextReachesTheUser(t *testing.T) {
	view := &recorderView{}
	c := New(
		&stubFetcher{data: redPNG(t, 2, 2), mime: "image/png"},
		&stubGenerator{err: errors.New("gemini status 429: quota exhausted")},
		view,
	)
	require.NoError(t, c.Upload("image/png", redPNG(t, 2, 2)))
	c.Select(starryNight)

	_, err := c.Generate(context.Background())
	require.Error(t, err)
	require.NotEmpty(t, view.errorMsgs)
	assert.Contains(t, view.errorMsgs[len(view.errorMsgs)-1], "quota exhausted")
}
