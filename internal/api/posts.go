package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"ideahub/internal/apperr"
	"ideahub/internal/models"
)

// PostSubmission is the payload for create and update. The attachment, when
// present, rides along as a multipart file part; RemoveResource is an
// explicit flag so clearing an attachment is never inferred from absence.
type PostSubmission struct {
	Author         models.Author `json:"author"`
	Title          string        `json:"title"`
	Content        string        `json:"content"`
	Tags           []string      `json:"tags"`
	Business       []string      `json:"business"`
	Status         models.Status `json:"status"`
	AttachmentPath string        `json:"-"`
	RemoveResource bool          `json:"-"`
}

// LikeResult is the like endpoint's authoritative response: the viewer's new
// membership state and the updated count, plus the full likers set when the
// backend includes it.
type LikeResult struct {
	Liked  bool     `json:"liked"`
	Count  int      `json:"likes"`
	Likers []string `json:"likers"`
}

// AllPosts fetches the complete visible post collection.
func (c *Client) AllPosts(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := c.doJSON(ctx, "all_posts", http.MethodGet, "/api/posts/all", nil, true, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// MyPosts fetches only the posts authored by the given user.
func (c *Client) MyPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	var posts []*models.Post
	path := "/api/posts/myposts?userId=" + url.QueryEscape(userID)
	if err := c.doJSON(ctx, "my_posts", http.MethodGet, path, nil, true, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches one post by id; the edit flow re-fetches rather than
// trusting whatever copy the caller has in memory.
func (c *Client) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	if err := c.doJSON(ctx, "get_post", http.MethodGet, "/api/posts/getPost/"+postID, nil, true, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost submits a new post, defaulting status to draft when unset.
func (c *Client) CreatePost(ctx context.Context, submission PostSubmission) error {
	if submission.Status == "" {
		submission.Status = models.StatusDraft
	}
	return c.submitPost(ctx, "create_post", http.MethodPost, "/api/posts", submission)
}

// UpdatePost submits an edit to the same identity.
func (c *Client) UpdatePost(ctx context.Context, postID string, submission PostSubmission) error {
	return c.submitPost(ctx, "update_post", http.MethodPut, "/api/posts/"+postID, submission)
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.doJSON(ctx, "delete_post", http.MethodDelete, "/api/posts/"+postID, nil, true, nil)
}

// ToggleLike flips like membership for (post, user). The endpoint is
// idempotent per pair; the response is authoritative.
func (c *Client) ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error) {
	var result LikeResult
	path := "/api/posts/like/" + postID + "/by/" + userID
	if err := c.doJSON(ctx, "toggle_like", http.MethodPut, path, nil, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddComment appends a comment to a post's comment sub-resource.
func (c *Client) AddComment(ctx context.Context, postID string, comment models.Comment) error {
	payload := map[string]models.Comment{"comment": comment}
	return c.doJSON(ctx, "add_comment", http.MethodPut, "/api/posts/addComment/"+postID, payload, true, nil)
}

// submitPost picks the encoding: plain JSON without an attachment, multipart
// (post JSON field plus binary file part) with one.
func (c *Client) submitPost(ctx context.Context, operation, method, path string, submission PostSubmission) error {
	if submission.AttachmentPath == "" {
		payload := map[string]any{"post": submission}
		if submission.RemoveResource {
			payload["removeResource"] = true
		}
		return c.doJSON(ctx, operation, method, path, payload, true, nil)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	postJSON, err := json.Marshal(submission)
	if err != nil {
		return apperr.New(apperr.ErrInvalidInput, operation+": encoding post", err)
	}
	if err := writer.WriteField("post", string(postJSON)); err != nil {
		return apperr.New(apperr.ErrInvalidInput, operation+": building form", err)
	}
	if submission.RemoveResource {
		if err := writer.WriteField("removeResource", strconv.FormatBool(true)); err != nil {
			return apperr.New(apperr.ErrInvalidInput, operation+": building form", err)
		}
	}

	file, err := os.Open(submission.AttachmentPath)
	if err != nil {
		return apperr.New(apperr.ErrInvalidInput, operation+": opening attachment", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(submission.AttachmentPath))
	if err != nil {
		return apperr.New(apperr.ErrInvalidInput, operation+": building form", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return apperr.New(apperr.ErrInvalidInput, operation+": reading attachment", err)
	}
	if err := writer.Close(); err != nil {
		return apperr.New(apperr.ErrInvalidInput, operation+": building form", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return apperr.New(apperr.ErrInvalidInput, operation+": building request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, operation, true, nil)
}
