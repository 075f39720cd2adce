package shell

import (
	"strings"

	"github.com/abiosoft/ishell"

	"ideahub/internal/apperr"
	"ideahub/internal/compose"
	"ideahub/internal/feed"
	"ideahub/internal/filter"
	"ideahub/internal/models"
	"ideahub/internal/session"
)

func (s *Shell) mutationCommands() []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name: "new",
			Help: "create a new post",
			Func: s.cmdNew,
		},
		{
			Name: "edit",
			Help: "edit <n> - edit a post you may change",
			Func: s.cmdEdit,
		},
		{
			Name: "rm",
			Help: "rm <n> - delete a post you may change",
			Func: s.cmdRm,
		},
	}
}

func (s *Shell) cmdNew(c *ishell.Context) {
	current := s.requireSession(c)
	if current == nil {
		return
	}

	draft := &compose.Draft{}
	c.Print("title: ")
	draft.Title = c.ReadLine()
	c.Print("content: ")
	draft.Content = c.ReadLine()
	c.Print("tags (comma-separated, max 5): ")
	draft.Tags = filter.SplitLabels(c.ReadLine())
	c.Print("business units (comma-separated, max 5): ")
	draft.Business = filter.SplitLabels(c.ReadLine())
	c.Print("attachment path (blank for none, max 5 MB): ")
	draft.AttachmentPath = strings.TrimSpace(c.ReadLine())

	// New posts always start as drafts; status transitions happen on edit.
	if err := draft.Validate(current); err != nil {
		printErr(c, err)
		return
	}

	for {
		ctx, cancel := s.commandContext()
		err := s.client.CreatePost(ctx, draft.Submission(current))
		cancel()
		if err == nil {
			break
		}
		// The draft survives a failed submit; nothing retyped on retry.
		printErr(c, err)
		if apperr.IsPrecondition(err) {
			// Resubmitting the same draft cannot clear a local precondition.
			return
		}
		if !confirm(c, "retry submitting the same post?") {
			return
		}
	}

	c.Println("post created")
	s.cmdPosts(c)
}

func (s *Shell) cmdEdit(c *ishell.Context) {
	current := s.requireSession(c)
	if current == nil {
		return
	}
	if len(c.Args) != 1 {
		c.Println("usage: edit <n>")
		return
	}
	listed := s.resolvePost(c.Args[0])
	if listed == nil {
		c.Println("no such post in the current listing")
		return
	}
	if !listed.CanEdit(current.UserID, current.IsModerator || current.IsAdmin) {
		c.Println("you may only edit your own posts")
		return
	}

	ctx, cancel := s.commandContext()
	defer cancel()

	// The edit flow re-fetches by id rather than trusting the listed copy.
	post, err := s.client.GetPost(ctx, listed.ID)
	if err != nil {
		printErr(c, err)
		return
	}

	draft := compose.FromPost(post)
	c.Printf("title [%s]: ", draft.Title)
	if input := c.ReadLine(); input != "" {
		draft.Title = input
	}
	c.Printf("content [%.40s...]: ", draft.Content)
	if input := c.ReadLine(); input != "" {
		draft.Content = input
	}
	c.Printf("tags [%s]: ", strings.Join(draft.Tags, ","))
	if input := c.ReadLine(); input != "" {
		draft.Tags = filter.SplitLabels(input)
	}
	c.Printf("business units [%s]: ", strings.Join(draft.Business, ","))
	if input := c.ReadLine(); input != "" {
		draft.Business = filter.SplitLabels(input)
	}

	s.promptStatus(c, draft, current)
	s.promptAttachment(c, draft, post)

	if err := draft.Validate(current); err != nil {
		printErr(c, err)
		return
	}

	for {
		ctx, cancel := s.commandContext()
		err := s.client.UpdatePost(ctx, post.ID, draft.Submission(current))
		cancel()
		if err == nil {
			break
		}
		printErr(c, err)
		if apperr.IsPrecondition(err) {
			return
		}
		if !confirm(c, "retry submitting the same edit?") {
			return
		}
	}

	c.Println("post updated")
}

// promptStatus renders the status control for moderators only; everyone else
// never sees it.
func (s *Shell) promptStatus(c *ishell.Context, draft *compose.Draft, current *session.Session) {
	if !current.IsModerator {
		return
	}
	options := make([]string, len(models.AllStatuses))
	for i, status := range models.AllStatuses {
		options[i] = status.Label()
	}
	c.Printf("status is %q\n", draft.Status.Label())
	choice := c.MultiChoice(options, "new status:")
	if choice >= 0 {
		draft.Status = models.AllStatuses[choice]
	}
}

func (s *Shell) promptAttachment(c *ishell.Context, draft *compose.Draft, post *models.Post) {
	if post.Resource != "" {
		c.Printf("current attachment: %s\n", post.Resource)
		if confirm(c, "remove it?") {
			draft.RemoveResource = true
		}
	}
	c.Print("new attachment path (blank to keep): ")
	if input := strings.TrimSpace(c.ReadLine()); input != "" {
		draft.AttachmentPath = input
		draft.RemoveResource = false
	}
}

func (s *Shell) cmdRm(c *ishell.Context) {
	current := s.requireSession(c)
	if current == nil {
		return
	}
	if len(c.Args) != 1 {
		c.Println("usage: rm <n>")
		return
	}
	post := s.resolvePost(c.Args[0])
	if post == nil {
		c.Println("no such post in the current listing")
		return
	}
	if !post.CanEdit(current.UserID, current.IsModerator || current.IsAdmin) {
		c.Println("you may only delete your own posts")
		return
	}

	if !confirm(c, "really delete \""+post.Title+"\"?") {
		c.Println("kept")
		return
	}

	ctx, cancel := s.commandContext()
	defer cancel()

	result, err := s.ask(&feed.DeletePostMsg{Ctx: ctx, PostID: post.ID})
	if err != nil {
		printErr(c, err)
		return
	}
	deleted := result.(*feed.PostDeleted)
	c.Printf("deleted %s\n", deleted.PostID)

	if viewResult, err := s.ask(&feed.ViewMsg{}); err == nil {
		s.renderView(c, viewResult.(*feed.View))
	}
}

func confirm(c *ishell.Context, question string) bool {
	c.Print(question + " [y/N] ")
	answer := strings.ToLower(strings.TrimSpace(c.ReadLine()))
	return answer == "y" || answer == "yes"
}
