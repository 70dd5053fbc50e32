package epaper

import "context"

// Display switches the presentation in and out of fullscreen. It reports
// the resulting state through Viewer.FullscreenChanged, which may also fire
// when the user leaves fullscreen by other means.
type Display interface {
	SetFullscreen(ctx context.Context, on bool) error
}

// Downloader stores the image at url under filename and returns the path
// it was written to.
type Downloader interface {
	Save(ctx context.Context, url, filename string) (string, error)
}

// Sharer hands a link to a native share facility.
type Sharer interface {
	Share(ctx context.Context, title, url string) error
}

// Locator builds the shareable address of a page of the edition for date.
type Locator interface {
	Location(date string, page int) string
}

type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

type Notifier interface {
	Notify(ctx context.Context, msg string)
}

type Printer interface {
	Print(ctx context.Context, url string) error
}

// Platform bundles the side-effect adapters. Any of them may be nil; the
// matching viewer action then returns ErrUnsupported.
type Platform struct {
	Display    Display
	Downloader Downloader
	Sharer     Sharer
	Locator    Locator
	Clipboard  Clipboard
	Notifier   Notifier
	Printer    Printer
}
