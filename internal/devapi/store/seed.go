package store

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/newsclient/internal/client/models"
)

var sections = []string{"Front", "Nation", "World", "Business", "Sport", "Culture", "Opinion", "Back"}

// MissingThumbnailPage has no thumbnail in seeded editions.
const MissingThumbnailPage = 3

// Seed fills the store with sample categories, comments and one edition
// per day for the last days days, ending at now.
func (s *Store) Seed(now time.Time, days int) {
	for _, c := range []models.Category{
		{Name: "Politics", Slug: "politics", Description: "Parliament and government", Active: true},
		{Name: "Business", Slug: "business", Active: true},
		{Name: "Sport", Slug: "sport", Active: true},
		{Name: "Archive", Slug: "archive", Description: "Retired sections"},
	} {
		_, _ = s.CreateCategory(c)
	}

	s.AddComment("1", "Ann", "Great reporting.")
	s.AddComment("1", "Bob", "I disagree with the conclusion.")
	s.AddComment("2", "Ann", "Thanks for the update.")

	for d := 0; d < days; d++ {
		s.PutEdition(SampleEdition(now.AddDate(0, 0, -d).Format(dateLayout)))
	}
}

// SampleEdition builds an edition whose image references point at the
// server's /media route. Pages are stored in reverse order.
func SampleEdition(date string) *models.Edition {
	ed := &models.Edition{Date: date, Title: "The Daily Chronicle"}
	for n := len(sections); n >= 1; n-- {
		p := models.Page{
			ID:                  fmt.Sprintf("%s-%d", date, n),
			PageNumber:          n,
			Section:             sections[n-1],
			ThumbnailImage:      fmt.Sprintf("/media/%s/thumb-%d.png", date, n),
			FullImage:           fmt.Sprintf("/media/%s/page-%d.png", date, n),
			HighDefinitionImage: fmt.Sprintf("/media/%s/page-%d-hd.png", date, n),
		}
		if n == MissingThumbnailPage {
			p.ThumbnailImage = ""
		}
		ed.Pages = append(ed.Pages, p)
	}
	return ed
}
