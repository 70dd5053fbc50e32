package devapi

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/newsclient/internal/devapi/store"
)

var mediaFile = regexp.MustCompile(`^(thumb|page)-([0-9]+)(-hd)?\.png$`)

// media renders a flat-colour PNG for any page image of a stored edition.
func (s *Server) media(c echo.Context) error {
	m := mediaFile.FindStringSubmatch(c.Param("file"))
	if m == nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown media")
	}
	n, _ := strconv.Atoi(m[2])

	ed, err := s.store.Edition(c.Param("date"))
	if errors.Is(err, store.ErrNotFound) || (err == nil && (n < 1 || n > len(ed.Pages))) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown media")
	}
	if err != nil {
		return err
	}

	w, h := 120, 160
	switch {
	case m[1] == "thumb":
		w, h = 30, 40
	case m[3] != "":
		w, h = 480, 640
	}

	b, err := renderPage(n, w, h)
	if err != nil {
		return fmt.Errorf("render page %d: %w", n, err)
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.Blob(http.StatusOK, "image/png", b)
}

func renderPage(n, w, h int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill := color.RGBA{R: uint8(40 * n), G: uint8(255 - 25*n), B: 160, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
