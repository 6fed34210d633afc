package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/scaffold"
)

// NewCmd groups the 'new' subcommands.
type NewCmd struct {
	Post  NewPostCmd  `cmd:"" help:"Create posts/<date>-<slug>.html with an empty sidecar"`
	Draft NewDraftCmd `cmd:"" help:"Create an unpublished markdown draft"`
}

// NewPostCmd implements 'new post'.
type NewPostCmd struct {
	Title  string `arg:"" help:"Post title"`
	Src    string `short:"s" help:"Site source root" default:"."`
	Date   string `help:"Publication date (YYYY-MM-DD); defaults to today"`
	Slug   string `help:"File slug; derived from the title when empty"`
	DryRun bool   `name:"dry-run" help:"Report the file that would be created"`
}

func (n *NewPostCmd) Run(g *Global) error {
	src, err := absPath("src", n.Src)
	if err != nil {
		return err
	}
	date, err := parseDay(n.Date)
	if err != nil {
		return err
	}
	path, err := scaffold.NewPost(scratchFs(n.DryRun), src, n.Title, date, n.Slug)
	if err != nil {
		return err
	}
	g.Logger.Info("Created post", logfields.Path(path), logfields.DryRun(n.DryRun))
	fmt.Println(path)
	return nil
}

// NewDraftCmd implements 'new draft'.
type NewDraftCmd struct {
	Title  string `arg:"" help:"Draft title"`
	MD     string `name:"md" help:"Markdown drafts directory" default:"./md"`
	Date   string `help:"Created date (YYYY-MM-DD); defaults to today"`
	DryRun bool   `name:"dry-run" help:"Report the file that would be created"`
}

func (n *NewDraftCmd) Run(g *Global) error {
	dir, err := absPath("md", n.MD)
	if err != nil {
		return err
	}
	date, err := parseDay(n.Date)
	if err != nil {
		return err
	}
	path, err := scaffold.NewDraft(scratchFs(n.DryRun), dir, n.Title, date)
	if err != nil {
		return err
	}
	g.Logger.Info("Created draft", logfields.Path(path), logfields.DryRun(n.DryRun))
	fmt.Println(path)
	return nil
}

// parseDay reads a YYYY-MM-DD flag; empty means the zero time.
func parseDay(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, errors.ValidationError("date must be YYYY-MM-DD").WithContext("date", v).Build()
	}
	return t, nil
}
