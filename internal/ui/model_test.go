package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/scamalert/alertpro/internal/api"
	"github.com/scamalert/alertpro/internal/social"
	"github.com/scamalert/alertpro/internal/state"
)

func newTestModel(t *testing.T, handler http.Handler) *Model {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	return newModel(Options{
		Context:     context.Background(),
		Client:      client,
		Store:       &state.Store{},
		Cache:       social.NewCache(),
		Bus:         social.NewBus(),
		SessionPath: filepath.Join(t.TempDir(), "session.toml"),
		PrefsPath:   filepath.Join(t.TempDir(), "prefs.toml"),
		ThemeName:   "Amber",
		Log:         zap.NewNop().Sugar(),
	})
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestResubscribe_DedupsPostsAndAuthors(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())

	author := api.User{ID: 7, Username: "sam"}
	posts := []api.Post{
		{ID: api.PostID{Base: 1}, User: author},
		{ID: api.PostID{Base: 2}, User: author},
		{ID: api.PostID{Base: 2, Instance: 1, Reposted: true}, User: author},
	}

	m.resubscribe(posts)

	if got := m.bus.SubscriberCount(social.UserRef(7), social.FieldFollowing); got != 1 {
		t.Fatalf("follow subscriptions for shared author = %d, want 1", got)
	}
	if got := m.bus.SubscriberCount(social.PostRef(2), social.FieldLiked); got != 1 {
		t.Fatalf("like subscriptions for shared base post = %d, want 1", got)
	}

	// A later refresh replaces, never stacks, the subscriptions.
	m.resubscribe(posts)
	if got := m.bus.SubscriberCount(social.UserRef(7), social.FieldFollowing); got != 1 {
		t.Fatalf("follow subscriptions after refresh = %d, want 1", got)
	}
}

func TestDeletePost_OwnPostAndOwnRepost(t *testing.T) {
	var paths []string
	m := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	m.viewerID = 9

	// Own post: the base complaint is deleted.
	_, cmd := m.deletePost(api.Post{ID: api.PostID{Base: 42}, User: api.User{ID: 9}})
	if cmd == nil {
		t.Fatal("deletePost returned no command for an owned post")
	}
	if msg, ok := cmd().(deleteDoneMsg); !ok || msg.err != nil {
		t.Fatalf("delete settled with %v", msg)
	}

	// Own repost of someone else's post: only the repost entry goes away.
	repost := api.Post{
		ID:               api.PostID{Base: 42, Instance: 1, Reposted: true},
		User:             api.User{ID: 3},
		RepostedByUserID: 9,
	}
	_, cmd = m.deletePost(repost)
	if cmd == nil {
		t.Fatal("deletePost returned no command for an owned repost")
	}
	cmd()

	// Someone else's post: refused locally, no request issued.
	_, cmd = m.deletePost(api.Post{ID: api.PostID{Base: 50}, User: api.User{ID: 3}})
	if cmd != nil {
		t.Fatal("deletePost issued a command for a foreign post")
	}
	if m.alert == "" {
		t.Fatal("no alert shown for refused delete")
	}

	want := []string{"/api/complaints/42/delete", "/api/complaints/42-1/delete"}
	if len(paths) != len(want) || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
}

func TestForgotPasswordFlow(t *testing.T) {
	var paths []string
	m := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	m.emailInput.SetValue("user@example.com")

	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlF})
	if cmd == nil {
		t.Fatal("ctrl+f produced no command")
	}
	if _, _ = m.Update(cmd()); m.current != viewResetPassword {
		t.Fatalf("view after reset email = %d, want reset screen", m.current)
	}

	m.newPasswordInput.SetValue("hunter2!")
	_, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command on the reset screen")
	}
	if _, _ = m.Update(cmd()); m.current != viewLogin {
		t.Fatalf("view after password reset = %d, want login", m.current)
	}

	want := []string{"/api/auth/forgot-password", "/api/auth/reset-password"}
	if len(paths) != len(want) || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
}

func TestEditProfile_SavesPatchAndUploadsAvatar(t *testing.T) {
	avatar := filepath.Join(t.TempDir(), "avatar.jpg")
	if err := os.WriteFile(avatar, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("write avatar: %v", err)
	}

	var gotPatch map[string]string
	var uploadPath string
	m := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/profile/update":
			_ = json.NewDecoder(r.Body).Decode(&gotPatch)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(api.User{ID: 9, FirstName: "Ana", Bio: "new bio"})
		case "/api/profile/image":
			uploadPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))

	m.profile = api.User{ID: 9, FirstName: "Ana", LastName: "Reyes", Bio: "old bio"}
	m.profileUserID = 0
	m.current = viewProfile

	if _, _ = m.handleKey(keyRune('e')); m.current != viewEditProfile {
		t.Fatalf("view after e = %d, want edit profile", m.current)
	}
	if got := m.editInputs[editFieldFirst].Value(); got != "Ana" {
		t.Fatalf("first name prefilled = %q, want Ana", got)
	}

	m.editInputs[editFieldBio].SetValue("new bio")
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("ctrl+s produced no command")
	}
	msg := cmd()
	saved, ok := msg.(profileSavedMsg)
	if !ok || saved.err != nil {
		t.Fatalf("save settled with %#v", msg)
	}
	if gotPatch["bio"] != "new bio" || gotPatch["first_name"] != "Ana" {
		t.Fatalf("patch = %v, want bio and first_name", gotPatch)
	}

	m.current = viewEditProfile
	m.editInputs[editFieldImagePath].SetValue(avatar)
	_, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlU})
	if cmd == nil {
		t.Fatal("ctrl+u produced no command")
	}
	if msg, ok := cmd().(uploadDoneMsg); !ok || msg.err != nil {
		t.Fatalf("upload settled with %#v", msg)
	}
	if uploadPath != "/api/profile/image" {
		t.Fatalf("upload path = %q, want /api/profile/image", uploadPath)
	}
}

func TestMarkRead_FailureAlertNamesTheAction(t *testing.T) {
	m := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/notifications":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(api.NotificationPage{
				New: []api.Notification{{ID: 7, Type: "like"}},
			})
		default:
			http.Error(w, "down", http.StatusInternalServerError)
		}
	}))

	cmd := m.refreshNotifs()
	if _, _ = m.Update(cmd()); len(m.notifs.All()) != 1 {
		t.Fatalf("notifications loaded = %d, want 1", len(m.notifs.All()))
	}
	m.current = viewNotifications

	_, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	_, _ = m.Update(cmd())

	if !strings.HasPrefix(m.alert, "Mark read:") {
		t.Fatalf("alert = %q, want single-notification failure prefix", m.alert)
	}
}
