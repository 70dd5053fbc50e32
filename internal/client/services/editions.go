package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/newsclient/internal/client/client"
	"github.com/dmitrijs2005/newsclient/internal/client/media"
	"github.com/dmitrijs2005/newsclient/internal/client/models"
	"github.com/dmitrijs2005/newsclient/internal/logging"
)

// DateLayout is the edition date format accepted by Load.
const DateLayout = "2006-01-02"

type EditionService interface {
	Load(ctx context.Context, date string) Result[*models.Edition]
}

type editionService struct {
	client   client.Client
	resolver media.Resolver
	log      logging.Logger
}

func NewEditionService(c client.Client, resolver media.Resolver, log logging.Logger) EditionService {
	return &editionService{client: c, resolver: resolver, log: log}
}

// Load fetches the edition for date (today's when empty), checks its page
// numbering and resolves image references. Empty references stay empty so
// the viewer can tell a missing image from a broken one.
func (s *editionService) Load(ctx context.Context, date string) Result[*models.Edition] {
	date = strings.TrimSpace(date)
	if date != "" {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return fail[*models.Edition](invalid("Please enter a date as YYYY-MM-DD"))
		}
	}

	ed, err := s.client.GetEdition(ctx, date)
	if err != nil {
		return fail[*models.Edition](err)
	}
	if len(ed.Pages) == 0 {
		return fail[*models.Edition](invalid("No e-paper is available for that date"))
	}
	if err := ed.Normalize(); err != nil {
		s.log.Warn(ctx, "edition rejected", "date", ed.Date, "error", err)
		if errors.Is(err, models.ErrInvalidEdition) {
			return fail[*models.Edition](invalid("This edition could not be displayed"))
		}
		return fail[*models.Edition](err)
	}

	for i := range ed.Pages {
		p := &ed.Pages[i]
		p.ThumbnailImage = s.resolve(ctx, p.ThumbnailImage)
		p.FullImage = s.resolve(ctx, p.FullImage)
		p.HighDefinitionImage = s.resolve(ctx, p.HighDefinitionImage)
	}
	return ok(ed)
}

func (s *editionService) resolve(ctx context.Context, ref string) string {
	if strings.TrimSpace(ref) == "" || s.resolver == nil {
		return ref
	}
	return s.resolver.Resolve(ctx, ref)
}
