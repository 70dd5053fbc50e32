package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/newsclient/internal/client/models"
)

// Categories lists categories. Admins see every category with its id and
// status, everyone else the public list.
func (a *App) Categories(ctx context.Context) error {
	if a.user.IsAdmin() {
		res := a.categoryService.List(ctx)
		if !res.Success {
			return a.fail(res.Error)
		}
		printCategories(a.out, res.Data, true)
		return nil
	}

	res := a.categoryService.ListPublic(ctx)
	if !res.Success {
		return a.fail(res.Error)
	}
	printCategories(a.out, res.Data, false)
	return nil
}

func printCategories(w io.Writer, cats []models.Category, admin bool) {
	if len(cats) == 0 {
		fmt.Fprintln(w, "No categories")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if admin {
		fmt.Fprintln(tw, "ID\tNAME\tSLUG\tSTATUS")
	} else {
		fmt.Fprintln(tw, "NAME\tSLUG")
	}
	for _, c := range cats {
		if admin {
			status := "inactive"
			if c.Active {
				status = "active"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Slug, status)
		} else {
			fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Slug)
		}
	}
	tw.Flush()
}

func (a *App) AddCategory(ctx context.Context) error {
	var c models.Category
	var err error

	if c.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if c.Slug, err = getSimpleText(a.reader, "Slug (empty to derive from name)", a.out); err != nil {
		return err
	}
	if c.Description, err = getSimpleText(a.reader, "Description", a.out); err != nil {
		return err
	}
	c.Active = true

	res := a.categoryService.Create(ctx, c)
	if !res.Success {
		return a.fail(res.Error)
	}
	fmt.Fprintf(a.out, "Created category %q (%s)\n", res.Data.Name, res.Data.Slug)
	return nil
}

// EditCategory prompts for new values; empty answers keep the current ones.
func (a *App) EditCategory(ctx context.Context, id string) error {
	list := a.categoryService.List(ctx)
	if !list.Success {
		return a.fail(list.Error)
	}

	c := models.Category{ID: id}
	found := false
	for _, existing := range list.Data {
		if existing.ID == id {
			c, found = existing, true
			break
		}
	}
	if !found {
		return a.fail("Category not found")
	}

	fields := []struct {
		label string
		dst   *string
	}{
		{"Name", &c.Name},
		{"Slug", &c.Slug},
		{"Description", &c.Description},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.label, *f.dst), a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = v
		}
	}

	current := "n"
	if c.Active {
		current = "y"
	}
	v, err := getSimpleText(a.reader, fmt.Sprintf("Active (y/n) [%s]", current), a.out)
	if err != nil {
		return err
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		c.Active = true
	case "n", "no":
		c.Active = false
	}

	res := a.categoryService.Update(ctx, c)
	if !res.Success {
		return a.fail(res.Error)
	}
	fmt.Fprintf(a.out, "Updated category %q\n", res.Data.Name)
	return nil
}

func (a *App) DeleteCategory(ctx context.Context, id string) error {
	yes, err := confirm(a.reader, fmt.Sprintf("Delete category %s?", id), a.out)
	if err != nil {
		return err
	}
	if !yes {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	res := a.categoryService.Delete(ctx, id)
	if !res.Success {
		return a.fail(res.Error)
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}
