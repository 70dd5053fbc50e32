// Package epaper holds the navigation state of the e-paper viewer: the
// current page, per-page image load state, thumbnail strip visibility,
// fullscreen as reported by the display, and the zoom/pan transform.
//
// The viewer never touches the screen, the network or the filesystem
// itself. Side effects go through the small interfaces in platform.go so
// the same state machine drives the terminal client and the tests.
package epaper
