package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/newsclient/internal/client/epaper"
	"github.com/dmitrijs2005/newsclient/internal/client/models"
)

func threePages(base string) *models.Edition {
	ed := &models.Edition{Date: "2024-05-01", Title: "Daily"}
	for n := 1; n <= 3; n++ {
		ed.Pages = append(ed.Pages, models.Page{
			ID:             string(rune('a' + n - 1)),
			PageNumber:     n,
			ThumbnailImage: base + "/thumb/" + string(rune('0'+n)) + ".jpg",
			FullImage:      base + "/full/" + string(rune('0'+n)) + ".jpg",
		})
	}
	return ed
}

func newSession(t *testing.T, ed *models.Edition, p epaper.Platform, probe func(context.Context, string) error) (*viewerSession, *bytes.Buffer) {
	t.Helper()
	v, err := epaper.NewViewer(ed, p)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	return &viewerSession{v: v, r: rdr(""), w: out, probe: probe}, out
}

func run(t *testing.T, s *viewerSession, cmds ...string) {
	t.Helper()
	for _, c := range cmds {
		_, err := s.exec(context.Background(), strings.Fields(c))
		require.NoError(t, err, c)
	}
}

func TestViewerSession_Navigation(t *testing.T) {
	s, _ := newSession(t, threePages("http://img"), epaper.Platform{}, nil)

	run(t, s, "p")
	assert.Equal(t, 1, s.v.CurrentPage())

	run(t, s, "n", "right", "n")
	assert.Equal(t, 3, s.v.CurrentPage())

	run(t, s, "left", "g 1")
	assert.Equal(t, 1, s.v.CurrentPage())

	run(t, s, "2")
	assert.Equal(t, 2, s.v.CurrentPage())
}

func TestViewerSession_GoToRejectsBadInput(t *testing.T) {
	s, _ := newSession(t, threePages("http://img"), epaper.Platform{}, nil)

	for _, in := range []string{"g 9", "g x", "g 0", "g"} {
		_, err := s.exec(context.Background(), strings.Fields(in))
		require.Error(t, err, in)
	}
	assert.Equal(t, 1, s.v.CurrentPage())
}

func TestViewerSession_ZoomAndPan(t *testing.T) {
	s, _ := newSession(t, threePages("http://img"), epaper.Platform{}, nil)

	run(t, s, "+", "+", "pan 10 -5")
	tr := s.v.Transform()
	assert.Equal(t, 1.5, tr.Scale)
	assert.Equal(t, 10.0, tr.X)
	assert.Equal(t, -5.0, tr.Y)

	run(t, s, "0")
	assert.True(t, s.v.Transform().IsIdentity())

	_, err := s.exec(context.Background(), []string{"pan", "a", "1"})
	require.Error(t, err)
}

func TestViewerSession_FullscreenFollowsDisplay(t *testing.T) {
	var out bytes.Buffer
	display := &terminalDisplay{w: &out}
	s, _ := newSession(t, threePages("http://img"), epaper.Platform{Display: display}, nil)
	display.onChange = s.v.FullscreenChanged

	run(t, s, "f")
	assert.True(t, s.v.Fullscreen())
	assert.Equal(t, altScreenOn, out.String())

	run(t, s, "esc")
	assert.False(t, s.v.Fullscreen())
	assert.Equal(t, altScreenOn+altScreenOff, out.String())
}

func TestViewerSession_QuitAndUnknown(t *testing.T) {
	s, out := newSession(t, threePages("http://img"), epaper.Platform{}, nil)

	quit, err := s.exec(context.Background(), []string{"zzz"})
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Contains(t, out.String(), "Unknown command: zzz")

	quit, err = s.exec(context.Background(), []string{"q"})
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestViewerSession_LoadStateFromProbe(t *testing.T) {
	probe := func(_ context.Context, url string) error {
		if strings.Contains(url, "/2.jpg") {
			return errors.New("404")
		}
		return nil
	}
	s, out := newSession(t, threePages("http://img"), epaper.Platform{}, probe)

	s.render(context.Background())
	assert.Equal(t, epaper.StateLoaded, s.v.State(1))
	assert.Contains(t, out.String(), "Page 1/3 · loaded · 1.00x")

	run(t, s, "n")
	s.render(context.Background())
	assert.Equal(t, epaper.StateFailed, s.v.State(2))
	assert.Contains(t, out.String(), "Image: /images/placeholder-page.png")
}

func TestViewerSession_ThumbnailFallback(t *testing.T) {
	probe := func(_ context.Context, url string) error {
		if url == "http://img/thumb/3.jpg" {
			return errors.New("404")
		}
		return nil
	}
	ed := threePages("http://img")
	ed.Pages[1].ThumbnailImage = ""
	s, out := newSession(t, ed, epaper.Platform{}, probe)

	run(t, s, "t")
	s.render(context.Background())

	text := out.String()
	assert.Contains(t, text, "> Page 1  http://img/thumb/1.jpg")
	assert.Contains(t, text, "  "+epaper.FallbackGlyph+" Page 2")
	assert.Contains(t, text, "  "+epaper.FallbackGlyph+" Page 3")
}

func TestViewerSession_RunReadsUntilQuit(t *testing.T) {
	s, out := newSession(t, threePages("http://img"), epaper.Platform{}, nil)
	s.r = rdr("n\n\nn\nq\nn\n")

	s.run(context.Background())

	assert.Equal(t, 3, s.v.CurrentPage())
	assert.Contains(t, out.String(), viewerHelp)
}

func TestViewerSession_ShareFallsBackToClipboard(t *testing.T) {
	var term bytes.Buffer
	p := epaper.Platform{Clipboard: &osc52Clipboard{w: &term}, Notifier: &writerNotifier{w: &term}}
	s, _ := newSession(t, threePages("http://img"), p, nil)

	run(t, s, "s")

	assert.Contains(t, term.String(), "\x1b]52;c;")
	assert.Contains(t, term.String(), epaper.LinkCopiedMessage)
}

func TestViewerSession_UnsupportedActions(t *testing.T) {
	s, _ := newSession(t, threePages("http://img"), epaper.Platform{}, nil)

	for _, cmd := range []string{"d", "s", "print", "f"} {
		_, err := s.exec(context.Background(), []string{cmd})
		require.ErrorIs(t, err, epaper.ErrUnsupported, cmd)
	}
}

func TestEPaper_DownloadsCurrentPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg:" + r.URL.Path))
	}))
	t.Cleanup(srv.Close)

	app, out := newTestApp(t, "n\nd\nq\n")
	app.httpClient = srv.Client()
	editions := app.editionService.(*fakeEditions)
	editions.res = succeeded(threePages(srv.URL))

	require.NoError(t, app.EPaper(context.Background(), "2024-05-01"))

	assert.Equal(t, []string{"2024-05-01"}, editions.dates)
	path := filepath.Join(app.config.DownloadDir, "page-2.jpg")
	assert.Contains(t, out.String(), "Saved to "+path)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg:/full/2.jpg", string(b))
}

func TestEPaper_LoadFailure(t *testing.T) {
	app, out := newTestApp(t, "")
	app.editionService.(*fakeEditions).res = failed[*models.Edition]("No e-paper is available for that date")

	require.ErrorIs(t, app.EPaper(context.Background(), ""), errFailed)
	assert.Contains(t, out.String(), "No e-paper is available for that date")
}

func TestEPaper_LeavesFullscreenOnExit(t *testing.T) {
	app, out := newTestApp(t, "f\nq\n")
	app.editionService.(*fakeEditions).res = succeeded(threePages("http://img"))

	oldProbe := imageProbe
	imageProbe = func(context.Context, *http.Client, string) error { return nil }
	t.Cleanup(func() { imageProbe = oldProbe })

	require.NoError(t, app.EPaper(context.Background(), ""))

	s := out.String()
	assert.Contains(t, s, altScreenOn)
	assert.True(t, strings.LastIndex(s, altScreenOff) > strings.Index(s, altScreenOn))
}
