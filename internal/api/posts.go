package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/scamalert/alertpro/internal/errs"
)

// FetchFeedPage retrieves one page of the complaint feed.
func (c *Client) FetchFeedPage(ctx context.Context, page int) (FeedPage, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{"page": []string{strconv.Itoa(page)}}
	var out FeedPage
	if err := c.get(ctx, "/api/complaints/feed", query, &out); err != nil {
		return FeedPage{}, err
	}
	return out, nil
}

// FetchPost retrieves a single complaint by id.
func (c *Client) FetchPost(ctx context.Context, id PostID) (Post, error) {
	var out Post
	if err := c.get(ctx, "/api/complaints/"+strconv.FormatInt(id.Base, 10), nil, &out); err != nil {
		return Post{}, err
	}
	return out, nil
}

// FetchUserPosts retrieves the posts shown on a profile screen.
func (c *Client) FetchUserPosts(ctx context.Context, userID int64) ([]Post, error) {
	var out []Post
	if err := c.get(ctx, "/api/users/"+strconv.FormatInt(userID, 10)+"/complaints", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchSavedPosts retrieves the viewer's saved complaints.
func (c *Client) FetchSavedPosts(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := c.get(ctx, "/api/complaints/saved", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProfile retrieves the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (User, error) {
	var out User
	if err := c.get(ctx, "/api/profile", nil, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// GetUser retrieves a profile by id.
func (c *Client) GetUser(ctx context.Context, userID int64) (User, error) {
	var out User
	if err := c.get(ctx, "/api/users/"+strconv.FormatInt(userID, 10), nil, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// UpdateProfile applies the non-nil fields of patch to the viewer's profile.
func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (User, error) {
	var out User
	if err := c.postJSON(ctx, "/api/profile/update", patch, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// LikePost records a like on the base post.
func (c *Client) LikePost(ctx context.Context, id PostID) error {
	return c.postAction(ctx, id, "like")
}

// UnlikePost removes a like from the base post.
func (c *Client) UnlikePost(ctx context.Context, id PostID) error {
	return c.postAction(ctx, id, "unlike")
}

// SavePost bookmarks the base post for the viewer.
func (c *Client) SavePost(ctx context.Context, id PostID) error {
	return c.postAction(ctx, id, "save")
}

// UnsavePost removes a bookmark from the base post.
func (c *Client) UnsavePost(ctx context.Context, id PostID) error {
	return c.postAction(ctx, id, "unsave")
}

// Repost shares an existing complaint to the viewer's followers.
func (c *Client) Repost(ctx context.Context, id PostID) error {
	return c.postAction(ctx, id, "repost")
}

// DeleteComplaint deletes a post the viewer owns, or undoes the viewer's
// repost when id carries a repost instance.
func (c *Client) DeleteComplaint(ctx context.Context, id PostID) error {
	return c.postJSON(ctx, "/api/complaints/"+id.String()+"/delete", nil, nil)
}

func (c *Client) postAction(ctx context.Context, id PostID, action string) error {
	if id.IsZero() {
		return fmt.Errorf("%w: post id required", errs.ErrValidation)
	}
	path := "/api/complaints/" + strconv.FormatInt(id.Base, 10) + "/" + action
	return c.postJSON(ctx, path, nil, nil)
}

// FollowUser subscribes the viewer to userID's posts.
func (c *Client) FollowUser(ctx context.Context, userID int64) error {
	return c.userAction(ctx, userID, "follow")
}

// UnfollowUser removes the subscription.
func (c *Client) UnfollowUser(ctx context.Context, userID int64) error {
	return c.userAction(ctx, userID, "unfollow")
}

func (c *Client) userAction(ctx context.Context, userID int64, action string) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user id required", errs.ErrValidation)
	}
	path := "/api/users/" + strconv.FormatInt(userID, 10) + "/" + action
	return c.postJSON(ctx, path, nil, nil)
}

// GetComments retrieves the comment thread for a post.
func (c *Client) GetComments(ctx context.Context, id PostID) ([]Comment, error) {
	var out []Comment
	path := "/api/complaints/" + strconv.FormatInt(id.Base, 10) + "/comments"
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddComment appends a comment to the base post. Empty text is rejected
// before any request is issued.
func (c *Client) AddComment(ctx context.Context, id PostID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: comment text required", errs.ErrValidation)
	}
	path := "/api/complaints/" + strconv.FormatInt(id.Base, 10) + "/comments"
	return c.postJSON(ctx, path, map[string]string{"text": text}, nil)
}

// MarqueeMessage retrieves the emergency banner text shown above the feed.
func (c *Client) MarqueeMessage(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.get(ctx, "/api/emergency/marquee", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// EmergencyContacts retrieves the emergency contact directory.
func (c *Client) EmergencyContacts(ctx context.Context) ([]EmergencyContact, error) {
	var out []EmergencyContact
	if err := c.get(ctx, "/api/emergency/contacts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
