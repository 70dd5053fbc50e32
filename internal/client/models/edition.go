package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidEdition is returned when a page collection violates the
// dense 1..n page numbering.
var ErrInvalidEdition = errors.New("invalid edition")

// Page is one scanned newspaper page in several resolutions.
type Page struct {
	ID                  string `json:"id"`
	PageNumber          int    `json:"pageNumber"`
	ThumbnailImage      string `json:"thumbnailImage"`
	FullImage           string `json:"fullImage"`
	HighDefinitionImage string `json:"highDefinitionImage"`
	Section             string `json:"section"`
}

// Edition is the page collection published for a given date.
type Edition struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Pages []Page `json:"pages"`
}

// Normalize sorts pages by number and checks that they are numbered
// 1..len(pages) without gaps or duplicates.
func (e *Edition) Normalize() error {
	sort.SliceStable(e.Pages, func(i, j int) bool {
		return e.Pages[i].PageNumber < e.Pages[j].PageNumber
	})
	for i, p := range e.Pages {
		if p.PageNumber != i+1 {
			return fmt.Errorf("%w: page %d at position %d", ErrInvalidEdition, p.PageNumber, i+1)
		}
	}
	return nil
}
