package shell

import (
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"ideahub/internal/feed"
	"ideahub/internal/models"
)

func (s *Shell) feedCommands() []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name: "posts",
			Help: "list all posts",
			Func: s.cmdPosts,
		},
		{
			Name: "myposts",
			Help: "list your own posts",
			Func: s.cmdMyPosts,
		},
		{
			Name: "search",
			Help: "search <text> - search titles and content",
			Func: s.cmdSearch,
		},
		{
			Name: "filter",
			Help: "filter the listing by tags and business units",
			Func: s.cmdFilter,
		},
		{
			Name: "clear",
			Help: "clear search and filters",
			Func: s.cmdClear,
		},
		{
			Name: "show",
			Help: "show <n> - open a post with its comments",
			Func: s.cmdShow,
		},
		{
			Name: "like",
			Help: "like <n> - toggle your like on a post",
			Func: s.cmdLike,
		},
		{
			Name: "comment",
			Help: "comment <n> - add a comment to a post",
			Func: s.cmdComment,
		},
		{
			Name: "stats",
			Help: "show client metrics",
			Func: s.cmdStats,
		},
	}
}

func (s *Shell) cmdPosts(c *ishell.Context) {
	if s.requireSession(c) == nil {
		return
	}
	ctx, cancel := s.commandContext()
	defer cancel()

	result, err := s.ask(&feed.LoadAllMsg{Ctx: ctx})
	if err != nil {
		printErr(c, err)
		return
	}
	s.renderView(c, result.(*feed.View))
}

func (s *Shell) cmdMyPosts(c *ishell.Context) {
	current := s.requireSession(c)
	if current == nil {
		return
	}
	ctx, cancel := s.commandContext()
	defer cancel()

	result, err := s.ask(&feed.LoadMineMsg{Ctx: ctx, UserID: current.UserID})
	if err != nil {
		printErr(c, err)
		return
	}
	s.renderView(c, result.(*feed.View))
}

func (s *Shell) cmdSearch(c *ishell.Context) {
	query := strings.Join(c.Args, " ")
	result, err := s.ask(&feed.SetQueryMsg{Query: query})
	if err != nil {
		printErr(c, err)
		return
	}
	s.renderView(c, result.(*feed.View))
}

func (s *Shell) cmdFilter(c *ishell.Context) {
	if s.view == nil {
		c.Println("load posts first ('posts' or 'myposts')")
		return
	}
	if len(s.view.Tags) == 0 && len(s.view.Businesses) == 0 {
		c.Println("no tags or business units to filter on")
		return
	}

	var selectedTags, selectedBusinesses []string
	if len(s.view.Tags) > 0 {
		chosen := c.Checklist(s.view.Tags, "tags (space to toggle, enter to apply):", nil)
		for _, i := range chosen {
			if i >= 0 {
				selectedTags = append(selectedTags, s.view.Tags[i])
			}
		}
	}
	if len(s.view.Businesses) > 0 {
		chosen := c.Checklist(s.view.Businesses, "business units:", nil)
		for _, i := range chosen {
			if i >= 0 {
				selectedBusinesses = append(selectedBusinesses, s.view.Businesses[i])
			}
		}
	}

	result, err := s.ask(&feed.SetFiltersMsg{Tags: selectedTags, Businesses: selectedBusinesses})
	if err != nil {
		printErr(c, err)
		return
	}
	s.renderView(c, result.(*feed.View))
}

func (s *Shell) cmdClear(c *ishell.Context) {
	result, err := s.ask(&feed.ClearFiltersMsg{})
	if err != nil {
		printErr(c, err)
		return
	}
	s.renderView(c, result.(*feed.View))
}

func (s *Shell) cmdShow(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println("usage: show <n>")
		return
	}
	listed := s.resolvePost(c.Args[0])
	if listed == nil {
		c.Println("no such post in the current listing")
		return
	}

	// The snapshot only resolves the id; the detail renders from the actor's
	// state so a like or comment just submitted shows up without a reload.
	result, err := s.ask(&feed.GetPostMsg{PostID: listed.ID})
	if err != nil {
		printErr(c, err)
		return
	}
	viewer, _ := s.store.Current()
	s.renderPost(c, result.(*models.Post), viewer)
}

func (s *Shell) cmdLike(c *ishell.Context) {
	current := s.requireSession(c)
	if current == nil {
		return
	}
	if len(c.Args) != 1 {
		c.Println("usage: like <n>")
		return
	}
	post := s.resolvePost(c.Args[0])
	if post == nil {
		c.Println("no such post in the current listing")
		return
	}

	ctx, cancel := s.commandContext()
	defer cancel()

	result, err := s.ask(&feed.ToggleLikeMsg{Ctx: ctx, PostID: post.ID, UserID: current.UserID})
	if err != nil {
		printErr(c, err)
		return
	}
	update := result.(*feed.LikeUpdated)
	if update.Liked {
		c.Printf("liked (%d likes)\n", update.Count)
	} else {
		c.Printf("like removed (%d likes)\n", update.Count)
	}
}

func (s *Shell) cmdComment(c *ishell.Context) {
	current := s.requireSession(c)
	if current == nil {
		return
	}
	if len(c.Args) < 1 {
		c.Println("usage: comment <n>")
		return
	}
	post := s.resolvePost(c.Args[0])
	if post == nil {
		c.Println("no such post in the current listing")
		return
	}

	c.Print("comment: ")
	text := c.ReadLine()

	ctx, cancel := s.commandContext()
	defer cancel()

	result, err := s.ask(&feed.AddCommentMsg{
		Ctx:        ctx,
		PostID:     post.ID,
		AuthorID:   current.UserID,
		AuthorName: current.UserName,
		Text:       text,
	})
	if err != nil {
		printErr(c, err)
		return
	}
	added := result.(*feed.CommentAdded)
	c.Printf("comment added to %q as %s\n", post.Title, added.Comment.AuthorName)
}

func (s *Shell) cmdStats(c *ishell.Context) {
	requests, errors := s.metrics.Counts()
	c.Printf("uptime: %s, requests: %d, errors: %d\n",
		s.metrics.Uptime().Round(time.Second), requests, errors)
	for name, stats := range s.metrics.Snapshot() {
		c.Printf("  %-16s %4d calls, avg %s\n", name, stats.Count, stats.Average)
	}

	if result, err := s.ask(&feed.StatsMsg{}); err == nil {
		stats := result.(*feed.Stats)
		c.Printf("feed: %d posts loaded, %d visible\n", stats.Total, stats.Visible)
	}
}
