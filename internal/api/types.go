package api

import "time"

// User mirrors the profile payload embedded in posts and returned by
// /api/users/{id} and /api/profile.
type User struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profile_image_url"`
	CoverImageURL   string `json:"cover_image_url"`
	Bio             string `json:"bio"`
	Followers       int    `json:"followers"`
	Following       int    `json:"following"`
	IsFollowing     bool   `json:"is_following"`
}

// DisplayName returns "First Last", falling back to the username.
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return "@" + u.Username
	}
	return name
}

// AttachmentKind selects the renderer and the upload MIME type.
type AttachmentKind string

const (
	AttachmentImage    AttachmentKind = "image"
	AttachmentVideo    AttachmentKind = "video"
	AttachmentAudio    AttachmentKind = "audio"
	AttachmentDocument AttachmentKind = "document"
)

// Attachment is a locally picked or remotely hosted media reference. Remote
// attachments must not be re-uploaded when a complaint is edited.
type Attachment struct {
	Kind      AttachmentKind `json:"file_type"`
	URL       string         `json:"file_url"`
	LocalPath string         `json:"-"`
	IsRemote  bool           `json:"-"`
}

// Post mirrors a complaint entry from the feed, saved and user-post endpoints.
type Post struct {
	ID               PostID       `json:"id"`
	User             User         `json:"user"`
	Text             string       `json:"text_content"`
	Files            []Attachment `json:"files"`
	Liked            bool         `json:"liked"`
	Saved            bool         `json:"saved"`
	Likes            int          `json:"likes"`
	Comments         int          `json:"comments"`
	Reposts          int          `json:"reposts"`
	RepostedByUserID int64        `json:"reposted_by_user_id"`
	CreatedAt        string       `json:"created_at"`
}

// FeedPage mirrors /api/complaints/feed.
type FeedPage struct {
	Items   []Post `json:"items"`
	HasMore bool   `json:"has_more"`
}

// Comment mirrors one entry of /api/complaints/{id}/comments.
type Comment struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// Notification belongs to exactly one lifecycle bucket at fetch time.
type Notification struct {
	ID        int64              `json:"id"`
	Type      string             `json:"type"`
	Seen      bool               `json:"seen"`
	User      User               `json:"user"`
	Complaint *NotificationPost  `json:"complaint"`
	CreatedAt string             `json:"created_at"`
}

// NotificationPost is the complaint summary attached to a notification.
type NotificationPost struct {
	ID   PostID `json:"id"`
	Text string `json:"text"`
	File string `json:"file"`
}

// NotificationPage mirrors /api/notifications?page=N. Only Earlier grows
// across pages; New and Today are replaced wholesale on refresh.
type NotificationPage struct {
	New     []Notification `json:"new"`
	Today   []Notification `json:"today"`
	Earlier []Notification `json:"earlier"`
}

// EmergencyContact mirrors one entry of /api/emergency/contacts.
type EmergencyContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Kind  string `json:"kind"`
}

// ProfilePatch carries the editable profile fields for UpdateProfile.
// Nil fields are omitted and left unchanged server side.
type ProfilePatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Username  *string `json:"username,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// Message describes the labels the notification screen renders per type.
func (n Notification) Message() string {
	switch n.Type {
	case "like":
		return "liked your post."
	case "comment":
		return "commented on your post."
	case "repost":
		return "reposted your post."
	case "follow":
		return "started following you."
	case "new_post":
		return "posted a new complaint."
	case "own_post":
		return "Your post is live!"
	default:
		return "sent you a notification."
	}
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (n Notification) ParsedCreatedAt() time.Time { return parseTime(n.CreatedAt) }

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (p Post) ParsedCreatedAt() time.Time { return parseTime(p.CreatedAt) }

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
