package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/newsclient/internal/client/services"
)

const commentTimeLayout = "2006-01-02 15:04"

func (a *App) Comments(ctx context.Context, newsID string) error {
	res := a.commentService.List(ctx, newsID)
	if !res.Success {
		return a.fail(res.Error)
	}
	if len(res.Data) == 0 {
		fmt.Fprintln(a.out, "No comments yet")
		return nil
	}
	for _, c := range res.Data {
		author := c.Author
		if author == "" {
			author = "Anonymous"
		}
		when := ""
		if !c.CreatedAt.IsZero() {
			when = " · " + c.CreatedAt.In(time.Local).Format(commentTimeLayout)
		}
		fmt.Fprintf(a.out, "%s%s\n  %s\n", author, when, c.Content)
	}
	return nil
}

// AddComment reads a multi-line comment and posts it. The login check
// happens before the user types anything.
func (a *App) AddComment(ctx context.Context, newsID string) error {
	if !a.isLoggedIn() {
		return a.fail(services.Message(services.ErrLoginRequired))
	}

	content, err := getMultiline(a.reader, "Your comment", a.out)
	if err != nil {
		return err
	}

	res := a.commentService.Create(ctx, newsID, content)
	if !res.Success {
		return a.fail(res.Error)
	}
	fmt.Fprintln(a.out, "Comment posted")
	return nil
}
