// Package shell is the interactive user surface: each command is the
// terminal analogue of one of the web client's pages, driving the feed actor
// and the API client.
package shell

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/asynkron/protoactor-go/actor"

	"ideahub/internal/api"
	"ideahub/internal/apperr"
	"ideahub/internal/config"
	"ideahub/internal/feed"
	"ideahub/internal/metrics"
	"ideahub/internal/models"
	"ideahub/internal/session"
)

// Shell wires the session store, the API client and the feed actor behind an
// interactive prompt.
type Shell struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *session.FileStore
	client  *api.Client
	metrics *metrics.Collector

	system  *actor.ActorSystem
	feedPID *actor.PID

	// view is the last snapshot rendered; list indexes resolve against it.
	view *feed.View
}

func New(cfg *config.Config, log *slog.Logger, store *session.FileStore, client *api.Client, collector *metrics.Collector) *Shell {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return feed.NewFeedActor(client, log)
	})
	pid := system.Root.Spawn(props)

	return &Shell{
		cfg:     cfg,
		log:     log,
		store:   store,
		client:  client,
		metrics: collector,
		system:  system,
		feedPID: pid,
	}
}

// Run starts the interactive loop and blocks until exit.
func (s *Shell) Run() {
	sh := ishell.New()
	sh.Println("Ideahub - share and grow ideas. Type 'help' for commands.")

	for _, cmd := range s.authCommands() {
		sh.AddCmd(cmd)
	}
	for _, cmd := range s.feedCommands() {
		sh.AddCmd(cmd)
	}
	for _, cmd := range s.mutationCommands() {
		sh.AddCmd(cmd)
	}
	for _, cmd := range s.adminCommands() {
		sh.AddCmd(cmd)
	}

	sh.Run()
	s.system.Root.Stop(s.feedPID)
}

// ask sends one message to the feed actor and waits for its reply. Errors
// travel back as values, matching the actor's respond-with-error convention.
func (s *Shell) ask(msg any) (any, error) {
	future := s.system.Root.RequestFuture(s.feedPID, msg, s.cfg.RequestTimeout+5*time.Second)
	result, err := future.Result()
	if err != nil {
		return nil, err
	}
	if respErr, ok := result.(error); ok {
		return nil, respErr
	}
	return result, nil
}

// commandContext bounds one command's network work; finishing the command
// cancels anything still in flight.
func (s *Shell) commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.cfg.RequestTimeout+5*time.Second)
}

// requireSession resolves the current session or prints why there is none.
func (s *Shell) requireSession(c *ishell.Context) *session.Session {
	current, err := s.store.Current()
	if err != nil {
		c.Println("you need to log in first (try 'login')")
		return nil
	}
	if current.Expired() {
		c.Println("your session has expired, log in again")
		return nil
	}
	return current
}

// resolvePost maps a list index (1-based, as rendered) or a raw post id to a
// post from the last rendered view.
func (s *Shell) resolvePost(arg string) *models.Post {
	if s.view == nil {
		return nil
	}
	var index int
	if _, err := fmt.Sscanf(arg, "%d", &index); err == nil {
		if index >= 1 && index <= len(s.view.Posts) {
			return &s.view.Posts[index-1]
		}
		return nil
	}
	for i := range s.view.Posts {
		if s.view.Posts[i].ID == arg {
			return &s.view.Posts[i]
		}
	}
	return nil
}

func (s *Shell) renderView(c *ishell.Context, view *feed.View) {
	s.view = view
	if len(view.Posts) == 0 {
		c.Println("no posts found")
		return
	}
	for i, post := range view.Posts {
		c.Printf("%2d. [%s] %s - %s (%d likes, %d comments)\n",
			i+1, post.Status.Label(), post.Title, post.Author.Name,
			post.LikeCount(), len(post.Comments))
	}
	if view.Query != "" || len(view.SelectedTags) > 0 || len(view.SelectedBusinesses) > 0 {
		c.Printf("(%d shown; 'clear' resets search and filters)\n", len(view.Posts))
	}
}

func (s *Shell) renderPost(c *ishell.Context, post *models.Post, viewer *session.Session) {
	c.Printf("%s\n", post.Title)
	c.Printf("by %s on %s  [%s]\n", post.Author.Name, formatDate(post.Timestamp), post.Status.Label())
	if len(post.Tags) > 0 {
		c.Printf("tags: %v\n", post.Tags)
	}
	if len(post.Business) > 0 {
		c.Printf("business: %v\n", post.Business)
	}
	if post.Resource != "" {
		c.Printf("attachment: %s\n", post.Resource)
	}
	c.Println()
	c.Println(post.Content)
	c.Printf("\n%d likes\n", post.LikeCount())

	if len(post.Comments) == 0 {
		c.Println("no comments yet")
	} else {
		c.Println("comments:")
		for _, comment := range post.Comments {
			c.Printf("  %s: %s\n", comment.AuthorName, comment.Content)
		}
	}

	if viewer != nil && post.CanEdit(viewer.UserID, viewer.IsModerator || viewer.IsAdmin) {
		c.Println("\n(you can 'edit' or 'rm' this post)")
	}
}

func printErr(c *ishell.Context, err error) {
	c.Printf("error: %v\n", err)
	if apperr.IsAuthError(err) {
		c.Println("(try 'login' again)")
	}
}

// formatDate matches the listing format users of the web client know.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format("Mon, Jan 2, 2006, 03:04 PM")
}
