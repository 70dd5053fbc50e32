package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/dmitrijs2005/newsclient/internal/client/epaper"
	"github.com/dmitrijs2005/newsclient/internal/filex"
	"github.com/dmitrijs2005/newsclient/internal/netx"
)

const (
	altScreenOn  = "\x1b[?1049h\x1b[H"
	altScreenOff = "\x1b[?1049l"
)

// terminalDisplay maps fullscreen to the terminal's alternate screen and
// reports every switch through onChange.
type terminalDisplay struct {
	w        io.Writer
	onChange func(bool)
}

var _ epaper.Display = (*terminalDisplay)(nil)

func (d *terminalDisplay) SetFullscreen(_ context.Context, on bool) error {
	seq := altScreenOff
	if on {
		seq = altScreenOn
	}
	if _, err := io.WriteString(d.w, seq); err != nil {
		return err
	}
	if d.onChange != nil {
		d.onChange(on)
	}
	return nil
}

// httpDownloader saves page images into dir.
type httpDownloader struct {
	client *http.Client
	dir    string
}

func (d *httpDownloader) Save(ctx context.Context, url, filename string) (string, error) {
	dir, err := filex.EnsureDir(d.dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if _, err := netx.DownloadToFile(ctx, d.client, url, path); err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	return path, nil
}

// osc52Clipboard sets the system clipboard through the OSC 52 escape,
// which most terminal emulators (and tmux with set-clipboard) honour.
// editionLocator links to a page of an edition on the API host.
type editionLocator struct {
	base *url.URL
}

func (l editionLocator) Location(date string, page int) string {
	u := l.base.JoinPath("epaper", "edition")
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

type osc52Clipboard struct {
	w io.Writer
}

func (c *osc52Clipboard) Copy(_ context.Context, text string) error {
	_, err := fmt.Fprintf(c.w, "\x1b]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(text)))
	return err
}

type writerNotifier struct {
	w io.Writer
}

func (n *writerNotifier) Notify(_ context.Context, msg string) {
	fmt.Fprintln(n.w, msg)
}

// startCommand is a test seam for launching the system opener.
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// openerCommand returns the platform command that opens a URL in the
// default application.
func openerCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// systemOpener prints by handing the image to the default viewer, which
// owns the print dialog.
type systemOpener struct{}

func (systemOpener) Print(_ context.Context, url string) error {
	name, args := openerCommand(runtime.GOOS, url)
	if err := startCommand(name, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// imageProbe reports whether url answers a HEAD request with 2xx.
var imageProbe = func(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("image unavailable: %s", resp.Status)
	}
	return nil
}
