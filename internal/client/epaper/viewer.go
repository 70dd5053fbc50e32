package epaper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/newsclient/internal/client/media"
	"github.com/dmitrijs2005/newsclient/internal/client/models"
)

var (
	// ErrEmptyEdition is returned by NewViewer for an edition without pages.
	ErrEmptyEdition = errors.New("edition has no pages")

	// ErrUnsupported is returned when the platform lacks the needed adapter.
	ErrUnsupported = errors.New("not supported on this platform")

	// ErrNoImage is returned when the current page has no image to act on.
	ErrNoImage = errors.New("page has no image")
)

// LinkCopiedMessage is shown after the share fallback copied the link.
const LinkCopiedMessage = "Link copied to clipboard"

// FallbackGlyph stands in for thumbnails that have no usable image.
const FallbackGlyph = "▦"

type LoadState int

const (
	StateLoading LoadState = iota
	StateLoaded
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ThumbnailView is what the thumbnail strip shows for one page.
type ThumbnailView struct {
	PageNumber int
	URL        string
	Label      string
	Fallback   bool
	Glyph      string
	Current    bool
}

// Viewer is the navigation state for one edition. It is not safe for
// concurrent use.
type Viewer struct {
	edition    *models.Edition
	platform   Platform
	current    int
	thumbnails bool
	fullscreen bool
	transform  Transform
	states     map[int]LoadState
	thumbFail  map[int]bool
}

// NewViewer validates the edition and opens it on page 1.
func NewViewer(ed *models.Edition, p Platform) (*Viewer, error) {
	if ed == nil || len(ed.Pages) == 0 {
		return nil, ErrEmptyEdition
	}
	if err := ed.Normalize(); err != nil {
		return nil, err
	}
	return &Viewer{
		edition:   ed,
		platform:  p,
		current:   1,
		transform: Identity(),
		states:    map[int]LoadState{1: StateLoading},
		thumbFail: make(map[int]bool),
	}, nil
}

func (v *Viewer) Edition() *models.Edition { return v.edition }

func (v *Viewer) PageCount() int { return len(v.edition.Pages) }

func (v *Viewer) CurrentPage() int { return v.current }

// Page returns page n, which must be in range.
func (v *Viewer) Page(n int) models.Page { return v.edition.Pages[n-1] }

func (v *Viewer) Current() models.Page { return v.Page(v.current) }

func (v *Viewer) inRange(n int) bool { return n >= 1 && n <= v.PageCount() }

// GoToPage moves to page n clamped to the edition. When the page changes
// the new page starts loading and the transform is reset. It reports
// whether the page changed.
func (v *Viewer) GoToPage(n int) bool {
	n = min(max(n, 1), v.PageCount())
	if n == v.current {
		return false
	}
	v.current = n
	v.states[n] = StateLoading
	v.transform = Identity()
	return true
}

func (v *Viewer) Next() bool { return v.GoToPage(v.current + 1) }

func (v *Viewer) Prev() bool { return v.GoToPage(v.current - 1) }

// SubmitPageInput jumps to a typed page number. Non-numeric or out of
// range input is ignored and reported as false.
func (v *Viewer) SubmitPageInput(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !v.inRange(n) {
		return false
	}
	v.GoToPage(n)
	return true
}

func (v *Viewer) MarkLoaded(n int) {
	if v.inRange(n) {
		v.states[n] = StateLoaded
	}
}

func (v *Viewer) MarkFailed(n int) {
	if v.inRange(n) {
		v.states[n] = StateFailed
	}
}

// State returns the load state of page n. Pages never shown are loading.
func (v *Viewer) State(n int) LoadState {
	return v.states[n]
}

// HandleKey applies a navigation key. Escape only leaves fullscreen.
func (v *Viewer) HandleKey(ctx context.Context, k Key) error {
	switch k {
	case KeyLeft:
		v.Prev()
	case KeyRight:
		v.Next()
	case KeyEscape:
		if v.fullscreen {
			return v.setFullscreen(ctx, false)
		}
	}
	return nil
}

// ToggleFullscreen asks the display to flip fullscreen. The viewer's own
// flag only changes when the display reports back via FullscreenChanged.
func (v *Viewer) ToggleFullscreen(ctx context.Context) error {
	return v.setFullscreen(ctx, !v.fullscreen)
}

func (v *Viewer) setFullscreen(ctx context.Context, on bool) error {
	if v.platform.Display == nil {
		return ErrUnsupported
	}
	return v.platform.Display.SetFullscreen(ctx, on)
}

// FullscreenChanged records the display's actual fullscreen state.
func (v *Viewer) FullscreenChanged(on bool) { v.fullscreen = on }

func (v *Viewer) Fullscreen() bool { return v.fullscreen }

// ToggleThumbnails flips the thumbnail strip and returns the new state.
func (v *Viewer) ToggleThumbnails() bool {
	v.thumbnails = !v.thumbnails
	return v.thumbnails
}

func (v *Viewer) ThumbnailsVisible() bool { return v.thumbnails }

func (v *Viewer) Transform() Transform { return v.transform }

func (v *Viewer) ZoomIn() Transform {
	v.transform = v.transform.ZoomIn()
	return v.transform
}

func (v *Viewer) ZoomOut() Transform {
	v.transform = v.transform.ZoomOut()
	return v.transform
}

func (v *Viewer) ZoomBy(delta float64) Transform {
	v.transform = v.transform.ZoomBy(delta)
	return v.transform
}

func (v *Viewer) Pan(dx, dy float64) Transform {
	v.transform = v.transform.Pan(dx, dy)
	return v.transform
}

func (v *Viewer) ResetTransform() Transform {
	v.transform = Identity()
	return v.transform
}

// ImageFor returns the image to show for p: the high definition image
// while zoomed in, the full image otherwise, and the placeholder when the
// page has no image or failed to load.
func (v *Viewer) ImageFor(p models.Page) string {
	if v.states[p.PageNumber] == StateFailed {
		return media.PlaceholderPage
	}
	if v.transform.Scale > 1 && p.HighDefinitionImage != "" {
		return p.HighDefinitionImage
	}
	for _, u := range []string{p.FullImage, p.HighDefinitionImage, p.ThumbnailImage} {
		if u != "" {
			return u
		}
	}
	return media.PlaceholderPage
}

// MarkThumbnailFailed records that the thumbnail of page n did not load.
func (v *Viewer) MarkThumbnailFailed(n int) {
	if v.inRange(n) {
		v.thumbFail[n] = true
	}
}

// Thumbnail describes page n in the thumbnail strip.
func (v *Viewer) Thumbnail(n int) ThumbnailView {
	tv := ThumbnailView{
		PageNumber: n,
		Label:      fmt.Sprintf("Page %d", n),
		Current:    n == v.current,
	}
	if !v.inRange(n) {
		tv.Fallback, tv.Glyph = true, FallbackGlyph
		return tv
	}
	u := v.Page(n).ThumbnailImage
	if u == "" || v.thumbFail[n] {
		tv.Fallback, tv.Glyph = true, FallbackGlyph
		return tv
	}
	tv.URL = u
	return tv
}

func (v *Viewer) Thumbnails() []ThumbnailView {
	out := make([]ThumbnailView, 0, v.PageCount())
	for n := 1; n <= v.PageCount(); n++ {
		out = append(out, v.Thumbnail(n))
	}
	return out
}

// originalImage is the best-quality image of the current page.
func (v *Viewer) originalImage() (string, error) {
	p := v.Current()
	for _, u := range []string{p.HighDefinitionImage, p.FullImage} {
		if u != "" {
			return u, nil
		}
	}
	return "", ErrNoImage
}

// DownloadFilename is the file name used for page n of an image at rawURL.
func DownloadFilename(n int, rawURL string) string {
	ext := ".jpg"
	if u, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(u.Path); e != "" && len(e) <= 6 {
			ext = strings.ToLower(e)
		}
	}
	return fmt.Sprintf("page-%d%s", n, ext)
}

// Download saves the current page image and returns where it was written.
func (v *Viewer) Download(ctx context.Context) (string, error) {
	if v.platform.Downloader == nil {
		return "", ErrUnsupported
	}
	u, err := v.originalImage()
	if err != nil {
		return "", err
	}
	return v.platform.Downloader.Save(ctx, u, DownloadFilename(v.current, u))
}

// ShareTitle is the title passed to the share facility.
func (v *Viewer) ShareTitle() string {
	title := v.edition.Title
	if title == "" {
		title = "E-Paper"
	}
	if v.edition.Date != "" {
		title += " " + v.edition.Date
	}
	return fmt.Sprintf("%s - Page %d", title, v.current)
}

// Location is the link to the current page. Without a Locator it is the
// page's best image.
func (v *Viewer) Location() (string, error) {
	if v.platform.Locator != nil {
		return v.platform.Locator.Location(v.edition.Date, v.current), nil
	}
	return v.originalImage()
}

// Share hands the current page link to the Sharer. Without one the link is
// copied to the clipboard and the user is told so.
func (v *Viewer) Share(ctx context.Context) error {
	u, err := v.Location()
	if err != nil {
		return err
	}
	if v.platform.Sharer != nil {
		return v.platform.Sharer.Share(ctx, v.ShareTitle(), u)
	}
	if v.platform.Clipboard == nil {
		return ErrUnsupported
	}
	if err := v.platform.Clipboard.Copy(ctx, u); err != nil {
		return fmt.Errorf("copy link: %w", err)
	}
	if v.platform.Notifier != nil {
		v.platform.Notifier.Notify(ctx, LinkCopiedMessage)
	}
	return nil
}

func (v *Viewer) Print(ctx context.Context) error {
	if v.platform.Printer == nil {
		return ErrUnsupported
	}
	u, err := v.originalImage()
	if err != nil {
		return err
	}
	return v.platform.Printer.Print(ctx, u)
}
