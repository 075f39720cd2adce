// Package feed owns the client-side post state: the canonical list as last
// fetched and the filtered view derived from it. A single actor holds both,
// so every mutation is serialized; a second action on a post cannot start
// before the prior one resolves, and no state changes before the backend
// confirms a mutation.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"

	"ideahub/internal/api"
	"ideahub/internal/apperr"
	"ideahub/internal/filter"
	"ideahub/internal/models"
)

// Message types for feed operations
type (
	// LoadAllMsg fetches the complete visible post collection, replacing
	// canonical and filtered state. Query and selections reset: each load is
	// a fresh page mount, never stale data.
	LoadAllMsg struct {
		Ctx context.Context
	}

	// LoadMineMsg fetches only the posts authored by the given user.
	LoadMineMsg struct {
		Ctx    context.Context
		UserID string
	}

	// SetQueryMsg recomputes the view for a free-text query.
	SetQueryMsg struct {
		Query string
	}

	// SetFiltersMsg recomputes the view for a tag/business selection.
	SetFiltersMsg struct {
		Tags       []string
		Businesses []string
	}

	ClearFiltersMsg struct{}

	// ViewMsg requests the current filtered snapshot.
	ViewMsg struct{}

	// GetPostMsg requests one post from the canonical list (detail view).
	GetPostMsg struct {
		PostID string
	}

	// ToggleLikeMsg flips the viewer's like membership on a post.
	ToggleLikeMsg struct {
		Ctx    context.Context
		PostID string
		UserID string
	}

	// AddCommentMsg appends a comment. Whitespace-only text is rejected
	// locally without a network call.
	AddCommentMsg struct {
		Ctx        context.Context
		PostID     string
		AuthorID   string
		AuthorName string
		Text       string
	}

	// DeletePostMsg removes a post from the backend and from both in-memory
	// lists in the same update.
	DeletePostMsg struct {
		Ctx    context.Context
		PostID string
	}

	StatsMsg struct{}
)

// View is the filtered snapshot handed to callers. Posts are value copies;
// the actor's own state is never shared.
type View struct {
	Posts              []models.Post
	Tags               []string
	Businesses         []string
	Query              string
	SelectedTags       []string
	SelectedBusinesses []string
}

type LikeUpdated struct {
	PostID string
	Liked  bool
	Count  int
}

type CommentAdded struct {
	PostID  string
	Comment models.Comment
}

type PostDeleted struct {
	PostID string
}

type Stats struct {
	Total   int
	Visible int
}

// FeedActor handles post listing, filtering, voting and commenting.
type FeedActor struct {
	client *api.Client
	log    *slog.Logger

	posts []*models.Post // canonical list, as last fetched
	view  []*models.Post // derived subset currently rendered

	query              string
	selectedTags       []string
	selectedBusinesses []string

	tags       []string // tag universe across the canonical list
	businesses []string
}

func NewFeedActor(client *api.Client, log *slog.Logger) actor.Actor {
	if log == nil {
		log = slog.Default()
	}
	return &FeedActor{
		client: client,
		log:    log,
	}
}

// Receive handles incoming messages
func (a *FeedActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		a.log.Debug("feed actor started")
	case *actor.Stopping, *actor.Stopped, *actor.Restarting:
		// lifecycle only
	case *LoadAllMsg:
		a.handleLoad(context, msg.Ctx, "")
	case *LoadMineMsg:
		a.handleLoad(context, msg.Ctx, msg.UserID)
	case *SetQueryMsg:
		a.query = msg.Query
		a.recompute()
		context.Respond(a.snapshot())
	case *SetFiltersMsg:
		a.selectedTags = msg.Tags
		a.selectedBusinesses = msg.Businesses
		a.recompute()
		context.Respond(a.snapshot())
	case *ClearFiltersMsg:
		a.query = ""
		a.selectedTags = nil
		a.selectedBusinesses = nil
		a.recompute()
		context.Respond(a.snapshot())
	case *ViewMsg:
		context.Respond(a.snapshot())
	case *GetPostMsg:
		a.handleGetPost(context, msg)
	case *ToggleLikeMsg:
		a.handleToggleLike(context, msg)
	case *AddCommentMsg:
		a.handleAddComment(context, msg)
	case *DeletePostMsg:
		a.handleDeletePost(context, msg)
	case *StatsMsg:
		context.Respond(&Stats{Total: len(a.posts), Visible: len(a.view)})
	default:
		a.log.Debug("feed actor: unknown message", "type", fmt.Sprintf("%T", msg))
	}
}

func (a *FeedActor) handleLoad(context actor.Context, ctx context.Context, userID string) {
	ctx = ensure(ctx)

	var posts []*models.Post
	var err error
	if userID == "" {
		posts, err = a.client.AllPosts(ctx)
	} else {
		posts, err = a.client.MyPosts(ctx, userID)
	}
	if err != nil {
		// Fall back to an empty list rather than stale data.
		a.posts = nil
		a.view = nil
		a.tags = nil
		a.businesses = nil
		a.log.Warn("loading posts failed", "error", err)
		context.Respond(err)
		return
	}

	a.posts = posts
	a.query = ""
	a.selectedTags = nil
	a.selectedBusinesses = nil
	a.tags, a.businesses = filter.Universe(posts)
	a.recompute()
	context.Respond(a.snapshot())
}

func (a *FeedActor) handleGetPost(context actor.Context, msg *GetPostMsg) {
	if post := a.find(msg.PostID); post != nil {
		copied := *post
		context.Respond(&copied)
		return
	}
	context.Respond(apperr.New(apperr.ErrNotFound, "post not found: "+msg.PostID, nil))
}

func (a *FeedActor) handleToggleLike(context actor.Context, msg *ToggleLikeMsg) {
	post := a.find(msg.PostID)
	if post == nil {
		context.Respond(apperr.New(apperr.ErrNotFound, "post not found: "+msg.PostID, nil))
		return
	}

	result, err := a.client.ToggleLike(ensure(msg.Ctx), msg.PostID, msg.UserID)
	if err != nil {
		// No optimistic update: prior state stays untouched on failure.
		a.log.Warn("like toggle failed", "post", msg.PostID, "error", err)
		context.Respond(err)
		return
	}

	// The response is authoritative. With a full likers set we adopt it
	// verbatim; otherwise membership is reconciled locally.
	if result.Likers != nil {
		post.Likes = result.Likers
	} else if result.Liked {
		if !post.LikedBy(msg.UserID) {
			post.Likes = append(post.Likes, msg.UserID)
		}
	} else {
		post.Likes = remove(post.Likes, msg.UserID)
	}

	context.Respond(&LikeUpdated{
		PostID: msg.PostID,
		Liked:  result.Liked,
		Count:  result.Count,
	})
}

func (a *FeedActor) handleAddComment(context actor.Context, msg *AddCommentMsg) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		context.Respond(apperr.New(apperr.ErrEmptyComment, "comment text is empty", nil))
		return
	}

	post := a.find(msg.PostID)
	if post == nil {
		context.Respond(apperr.New(apperr.ErrNotFound, "post not found: "+msg.PostID, nil))
		return
	}

	comment := models.Comment{
		ID:         uuid.NewString(),
		AuthorID:   msg.AuthorID,
		AuthorName: msg.AuthorName,
		Content:    text,
		Timestamp:  time.Now(),
	}
	if err := a.client.AddComment(ensure(msg.Ctx), msg.PostID, comment); err != nil {
		a.log.Warn("comment submit failed", "post", msg.PostID, "error", err)
		context.Respond(err)
		return
	}

	// Reflect the change without a full reload.
	post.Comments = append(post.Comments, comment)
	context.Respond(&CommentAdded{PostID: msg.PostID, Comment: comment})
}

func (a *FeedActor) handleDeletePost(context actor.Context, msg *DeletePostMsg) {
	if a.find(msg.PostID) == nil {
		context.Respond(apperr.New(apperr.ErrNotFound, "post not found: "+msg.PostID, nil))
		return
	}

	if err := a.client.DeletePost(ensure(msg.Ctx), msg.PostID); err != nil {
		a.log.Warn("delete failed", "post", msg.PostID, "error", err)
		context.Respond(err)
		return
	}

	// One update removes the post from both lists; no reader can observe it
	// in one and not the other.
	a.posts = removePost(a.posts, msg.PostID)
	a.view = removePost(a.view, msg.PostID)
	a.tags, a.businesses = filter.Universe(a.posts)
	context.Respond(&PostDeleted{PostID: msg.PostID})
}

// recompute derives the view conjunctively from the canonical list, never
// from a previous view.
func (a *FeedActor) recompute() {
	a.view = filter.Compose(a.posts, a.query, a.selectedTags, a.selectedBusinesses)
}

func (a *FeedActor) snapshot() *View {
	posts := make([]models.Post, len(a.view))
	for i, post := range a.view {
		posts[i] = *post
	}
	return &View{
		Posts:              posts,
		Tags:               a.tags,
		Businesses:         a.businesses,
		Query:              a.query,
		SelectedTags:       a.selectedTags,
		SelectedBusinesses: a.selectedBusinesses,
	}
}

func (a *FeedActor) find(postID string) *models.Post {
	for _, post := range a.posts {
		if post.ID == postID {
			return post
		}
	}
	return nil
}

func ensure(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func remove(values []string, value string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v != value {
			result = append(result, v)
		}
	}
	return result
}

// removePost allocates: view and canonical can share a backing array when no
// filter is active, so compacting in place would corrupt the other list.
func removePost(posts []*models.Post, postID string) []*models.Post {
	result := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if post.ID != postID {
			result = append(result, post)
		}
	}
	return result
}
