package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/newsclient/internal/client/epaper"
	"github.com/dmitrijs2005/newsclient/internal/client/media"
)

const viewerHelp = "Viewer: n|right, p|left, g <page>, t (thumbnails), f (fullscreen), esc, " +
	"+ / - / 0 (zoom), pan <dx> <dy>, d (download), s (share), print, q"

// EPaper loads the edition for date and opens the page viewer on it.
func (a *App) EPaper(ctx context.Context, date string) error {
	res := a.editionService.Load(ctx, date)
	if !res.Success {
		return a.fail(res.Error)
	}

	platform, display := a.platform()
	v, err := epaper.NewViewer(res.Data, platform)
	if err != nil {
		return a.fail(err.Error())
	}
	display.onChange = v.FullscreenChanged

	s := &viewerSession{
		v: v,
		r: a.reader,
		w: a.out,
		probe: func(ctx context.Context, url string) error {
			return imageProbe(ctx, a.httpClient, url)
		},
	}
	s.run(ctx)

	if v.Fullscreen() {
		_ = platform.Display.SetFullscreen(ctx, false)
	}
	return nil
}

// viewerSession drives one Viewer from line commands.
type viewerSession struct {
	v     *epaper.Viewer
	r     *bufio.Reader
	w     io.Writer
	probe func(ctx context.Context, url string) error

	thumbsProbed bool
}

func (s *viewerSession) run(ctx context.Context) {
	fmt.Fprintln(s.w, viewerHelp)
	s.render(ctx)
	for {
		fmt.Fprint(s.w, "epaper> ")
		fields, ok := readCommand(s.r)
		if !ok {
			return
		}
		if len(fields) == 0 {
			continue
		}
		quit, err := s.exec(ctx, fields)
		if err != nil {
			fmt.Fprintln(s.w, "Error:", err)
		}
		if quit {
			return
		}
		s.render(ctx)
	}
}

// exec applies one viewer command and reports whether the viewer should close.
func (s *viewerSession) exec(ctx context.Context, fields []string) (bool, error) {
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "q", "quit", "exit":
		return true, nil
	case "n", "right":
		return false, s.v.HandleKey(ctx, epaper.KeyRight)
	case "p", "left":
		return false, s.v.HandleKey(ctx, epaper.KeyLeft)
	case "esc", "escape":
		return false, s.v.HandleKey(ctx, epaper.KeyEscape)
	case "g", "goto":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: g <page>")
		}
		return false, s.goTo(args[0])
	case "t":
		s.v.ToggleThumbnails()
	case "f":
		return false, s.v.ToggleFullscreen(ctx)
	case "+":
		s.v.ZoomIn()
	case "-":
		s.v.ZoomOut()
	case "0":
		s.v.ResetTransform()
	case "pan":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: pan <dx> <dy>")
		}
		dx, errX := strconv.ParseFloat(args[0], 64)
		dy, errY := strconv.ParseFloat(args[1], 64)
		if errX != nil || errY != nil {
			return false, fmt.Errorf("usage: pan <dx> <dy>")
		}
		s.v.Pan(dx, dy)
	case "d", "download":
		path, err := s.v.Download(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(s.w, "Saved to", path)
	case "s", "share":
		return false, s.v.Share(ctx)
	case "print":
		return false, s.v.Print(ctx)
	case "help", "?":
		fmt.Fprintln(s.w, viewerHelp)
	default:
		if _, err := strconv.Atoi(cmd); err == nil {
			return false, s.goTo(cmd)
		}
		fmt.Fprintln(s.w, "Unknown command:", cmd)
	}
	return false, nil
}

func (s *viewerSession) goTo(input string) error {
	if !s.v.SubmitPageInput(input) {
		return fmt.Errorf("enter a page between 1 and %d", s.v.PageCount())
	}
	return nil
}

func probeable(u string) bool {
	l := strings.ToLower(u)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// load settles the load state of the current page.
func (s *viewerSession) load(ctx context.Context) {
	n := s.v.CurrentPage()
	if s.v.State(n) != epaper.StateLoading {
		return
	}
	u := s.v.ImageFor(s.v.Current())
	switch {
	case u == media.PlaceholderPage:
		s.v.MarkFailed(n)
	case !probeable(u) || s.probe == nil:
		s.v.MarkLoaded(n)
	case s.probe(ctx, u) != nil:
		s.v.MarkFailed(n)
	default:
		s.v.MarkLoaded(n)
	}
}

func (s *viewerSession) probeThumbnails(ctx context.Context) {
	if s.thumbsProbed || s.probe == nil {
		return
	}
	s.thumbsProbed = true
	for _, tv := range s.v.Thumbnails() {
		if tv.URL != "" && probeable(tv.URL) && s.probe(ctx, tv.URL) != nil {
			s.v.MarkThumbnailFailed(tv.PageNumber)
		}
	}
}

func (s *viewerSession) render(ctx context.Context) {
	s.load(ctx)

	n := s.v.CurrentPage()
	tr := s.v.Transform()
	line := fmt.Sprintf("Page %d/%d · %s · %.2fx", n, s.v.PageCount(), s.v.State(n), tr.Scale)
	if !tr.IsIdentity() {
		line += fmt.Sprintf(" (%+.0f, %+.0f)", tr.X, tr.Y)
	}
	if s.v.Fullscreen() {
		line += " · fullscreen"
	}
	fmt.Fprintln(s.w, line)
	if sec := s.v.Current().Section; sec != "" {
		fmt.Fprintln(s.w, "Section:", sec)
	}
	fmt.Fprintln(s.w, "Image:", s.v.ImageFor(s.v.Current()))

	if !s.v.ThumbnailsVisible() {
		return
	}
	s.probeThumbnails(ctx)
	for _, tv := range s.v.Thumbnails() {
		mark := " "
		if tv.Current {
			mark = ">"
		}
		if tv.Fallback {
			fmt.Fprintf(s.w, "%s %s %s\n", mark, tv.Glyph, tv.Label)
		} else {
			fmt.Fprintf(s.w, "%s %s  %s\n", mark, tv.Label, tv.URL)
		}
	}
}
