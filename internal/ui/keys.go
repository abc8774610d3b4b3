package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scamalert/alertpro/internal/api"
	"github.com/scamalert/alertpro/internal/prefs"
	"github.com/scamalert/alertpro/internal/social"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.helpOpen {
		m.helpOpen = false
		return m, nil
	}

	// Screens with focused text inputs swallow most keys.
	switch m.current {
	case viewLogin:
		return m.handleLoginKey(msg)
	case viewOTP:
		return m.handleOTPKey(msg)
	case viewCompose:
		return m.handleComposeKey(msg)
	case viewComments:
		return m.handleCommentsKey(msg)
	case viewResetPassword:
		return m.handleResetKey(msg)
	case viewEditProfile:
		return m.handleEditProfileKey(msg)
	}

	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "?":
		m.helpOpen = true
		return m, nil
	case "T":
		return m.cycleTheme()
	case "1":
		m.current = viewFeed
		m.busy = true
		return m, m.refreshFeed()
	case "2":
		m.current = viewNotifications
		m.busy = true
		return m, m.refreshNotifs()
	case "3":
		m.current = viewSaved
		m.busy = true
		return m, m.loadSaved()
	case "4":
		m.current = viewProfile
		m.profileUserID = 0
		m.busy = true
		return m, m.loadProfile(0)
	case "5":
		m.current = viewContacts
		m.busy = true
		return m, m.loadContacts()
	case "n":
		m.current = viewCompose
		m.composeInput.Focus()
		return m, nil
	case "L":
		return m.logout()
	}

	switch m.current {
	case viewFeed:
		return m.handleListKey(key, &m.feedCursor, m.feed.Items())
	case viewSaved:
		return m.handleListKey(key, &m.savedCursor, m.saved)
	case viewProfile:
		if key == "e" && m.profileUserID == 0 {
			return m.openEditProfile()
		}
		return m.handleListKey(key, &m.profileCursor, m.profilePosts)
	case viewNotifications:
		return m.handleNotifKey(key)
	case viewContacts:
		moveCursor(key, &m.contactCursor, len(m.contacts))
		return m, nil
	}

	return m, nil
}

// handleListKey covers every post list: navigation plus the social actions on
// the selected post.
func (m *Model) handleListKey(key string, cursor *int, posts []api.Post) (tea.Model, tea.Cmd) {
	if moveCursor(key, cursor, len(posts)) {
		// Reaching the end of the feed pulls the next page in.
		if m.current == viewFeed && *cursor >= len(posts)-3 && !m.feed.Exhausted() {
			return m, m.loadMoreFeed()
		}
		return m, nil
	}

	if key == "r" {
		m.busy = true
		switch m.current {
		case viewFeed:
			return m, m.refreshFeed()
		case viewSaved:
			return m, m.loadSaved()
		case viewProfile:
			return m, m.loadProfile(m.profileUserID)
		}
		m.busy = false
		return m, nil
	}

	if len(posts) == 0 || *cursor >= len(posts) {
		return m, nil
	}
	post := posts[*cursor]

	switch key {
	case "l":
		m.toggle(post, social.FieldLiked)
	case "s":
		m.toggle(post, social.FieldSaved)
	case "f":
		m.toggle(post, social.FieldFollowing)
	case "R":
		return m, m.doRepost(post.ID)
	case "enter", "c":
		m.busy = true
		return m, m.loadComments(post)
	case "u":
		m.current = viewProfile
		m.profileUserID = post.User.ID
		m.busy = true
		return m, m.loadProfile(post.User.ID)
	case "d":
		return m.deletePost(post)
	}
	return m, nil
}

// deletePost deletes the selected post when the viewer owns it, or undoes the
// viewer's repost of it.
func (m *Model) deletePost(post api.Post) (tea.Model, tea.Cmd) {
	switch {
	case post.ID.Reposted && post.RepostedByUserID == m.viewerID:
		return m, m.doDelete(post.ID)
	case post.User.ID == m.viewerID:
		return m, m.doDelete(api.PostID{Base: post.ID.Base})
	default:
		m.setAlert("You can only delete your own posts")
		return m, nil
	}
}

func (m *Model) openEditProfile() (tea.Model, tea.Cmd) {
	values := []string{m.profile.FirstName, m.profile.LastName, m.profile.Bio, ""}
	for i := range m.editInputs {
		m.editInputs[i].SetValue(values[i])
		m.editInputs[i].Blur()
	}
	m.editFocus = 0
	m.editInputs[0].Focus()
	m.current = viewEditProfile
	return m, nil
}

func (m *Model) handleNotifKey(key string) (tea.Model, tea.Cmd) {
	all := m.notifs.All()
	if moveCursor(key, &m.notifCursor, len(all)) {
		if m.notifCursor >= len(all)-3 && !m.notifs.Exhausted() {
			return m, m.loadMoreNotifs()
		}
		return m, nil
	}

	switch key {
	case "r":
		m.busy = true
		return m, m.refreshNotifs()
	case "enter":
		if m.notifCursor < len(all) {
			n := all[m.notifCursor]
			m.notifs.MarkSeen(n.ID)
			return m, m.markRead(n.ID)
		}
	case "a":
		m.notifs.MarkAllSeen()
		return m, m.markAllRead()
	}
	return m, nil
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.emailInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.emailInput.Blur()
			m.passwordInput.Focus()
		}
		return m, nil
	case "ctrl+o":
		email := strings.TrimSpace(m.emailInput.Value())
		if email == "" {
			m.setAlert("Enter your email first")
			return m, nil
		}
		m.busy = true
		return m, m.sendOTP(email)
	case "ctrl+f":
		email := strings.TrimSpace(m.emailInput.Value())
		if email == "" {
			m.setAlert("Enter your email first")
			return m, nil
		}
		m.busy = true
		return m, m.doForgotPassword(email)
	case "enter":
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		if email == "" || password == "" {
			m.setAlert("Email and password are required")
			return m, nil
		}
		m.busy = true
		return m, m.doLogin(email, password)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleOTPKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.current = viewLogin
		return m, nil
	case "enter":
		m.busy = true
		return m, m.verifyOTP(strings.TrimSpace(m.emailInput.Value()), strings.TrimSpace(m.otpInput.Value()))
	}
	var cmd tea.Cmd
	m.otpInput, cmd = m.otpInput.Update(msg)
	return m, cmd
}

func (m *Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.current = viewFeed
		m.composeInput.Blur()
		return m, nil
	case "ctrl+s":
		text := strings.TrimSpace(m.composeInput.Value())
		if text == "" {
			m.setAlert("Nothing to post")
			return m, nil
		}
		m.busy = true
		return m, m.doCompose(text)
	}
	var cmd tea.Cmd
	m.composeInput, cmd = m.composeInput.Update(msg)
	return m, cmd
}

func (m *Model) handleCommentsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.current = viewFeed
		m.commentInput.Blur()
		return m, nil
	case "tab":
		if m.commentInput.Focused() {
			m.commentInput.Blur()
		} else {
			m.commentInput.Focus()
		}
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.commentInput.Value())
		if text == "" {
			return m, nil
		}
		return m, m.submitComment(m.commentsPost, text)
	case "l":
		if !m.commentInput.Focused() {
			m.toggle(m.commentsPost, social.FieldLiked)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

func (m *Model) handleResetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.current = viewLogin
		return m, nil
	case "enter":
		password := m.newPasswordInput.Value()
		if password == "" {
			m.setAlert("Enter a new password")
			return m, nil
		}
		m.busy = true
		return m, m.doResetPassword(strings.TrimSpace(m.emailInput.Value()), password)
	}
	var cmd tea.Cmd
	m.newPasswordInput, cmd = m.newPasswordInput.Update(msg)
	return m, cmd
}

// Profile edit field order: first name, last name, bio, image path.
const (
	editFieldFirst = iota
	editFieldLast
	editFieldBio
	editFieldImagePath
)

func (m *Model) handleEditProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.current = viewProfile
		return m, nil
	case "tab", "shift+tab", "down", "up":
		delta := 1
		if msg.String() == "shift+tab" || msg.String() == "up" {
			delta = len(m.editInputs) - 1
		}
		m.editInputs[m.editFocus].Blur()
		m.editFocus = (m.editFocus + delta) % len(m.editInputs)
		m.editInputs[m.editFocus].Focus()
		return m, nil
	case "ctrl+s":
		first := strings.TrimSpace(m.editInputs[editFieldFirst].Value())
		last := strings.TrimSpace(m.editInputs[editFieldLast].Value())
		bio := strings.TrimSpace(m.editInputs[editFieldBio].Value())
		patch := api.ProfilePatch{FirstName: &first, LastName: &last, Bio: &bio}
		m.busy = true
		return m, m.saveProfile(patch)
	case "ctrl+u", "ctrl+k":
		path := strings.TrimSpace(m.editInputs[editFieldImagePath].Value())
		if path == "" {
			m.setAlert("Enter an image path first")
			return m, nil
		}
		m.busy = true
		if msg.String() == "ctrl+u" {
			return m, m.uploadAvatar(path)
		}
		return m, m.uploadCover(path)
	}
	var cmd tea.Cmd
	m.editInputs[m.editFocus], cmd = m.editInputs[m.editFocus].Update(msg)
	return m, cmd
}

func (m *Model) cycleTheme() (tea.Model, tea.Cmd) {
	name := nextThemeName(m.theme.Name)
	m.theme = themeByName(name)
	m.styles = m.theme.Styles()
	p := prefs.Load(m.prefsPath)
	p.Theme = name
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warnw("persist prefs failed", "error", err)
	}
	return m, nil
}

// moveCursor applies vi-style navigation, reporting whether the key was
// consumed.
func moveCursor(key string, cursor *int, length int) bool {
	switch key {
	case "j", "down":
		if *cursor < length-1 {
			*cursor++
		}
		return true
	case "k", "up":
		if *cursor > 0 {
			*cursor--
		}
		return true
	case "g", "home":
		*cursor = 0
		return true
	case "G", "end":
		if length > 0 {
			*cursor = length - 1
		}
		return true
	}
	return false
}
