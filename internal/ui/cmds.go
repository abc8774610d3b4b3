package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scamalert/alertpro/internal/api"
	"github.com/scamalert/alertpro/internal/session"
	"github.com/scamalert/alertpro/internal/social"
)

func (m *Model) refreshFeed() tea.Cmd {
	return func() tea.Msg {
		_, err := m.feed.Refresh(m.ctx)
		return feedMsg{err: err}
	}
}

func (m *Model) loadMoreFeed() tea.Cmd {
	return func() tea.Msg {
		_, err := m.feed.LoadMore(m.ctx)
		return feedMsg{err: err}
	}
}

func (m *Model) loadSaved() tea.Cmd {
	return func() tea.Msg {
		posts, err := m.client.FetchSavedPosts(m.ctx)
		return savedMsg{posts: posts, err: err}
	}
}

func (m *Model) refreshNotifs() tea.Cmd {
	return func() tea.Msg {
		return notifsMsg{err: m.notifs.Refresh(m.ctx)}
	}
}

func (m *Model) loadMoreNotifs() tea.Cmd {
	return func() tea.Msg {
		return notifsMsg{err: m.notifs.LoadMore(m.ctx)}
	}
}

// loadProfile fetches the viewer's profile when userID is zero, otherwise the
// given user's public profile.
func (m *Model) loadProfile(userID int64) tea.Cmd {
	return func() tea.Msg {
		var (
			user api.User
			err  error
		)
		if userID == 0 {
			user, err = m.client.GetProfile(m.ctx)
		} else {
			user, err = m.client.GetUser(m.ctx, userID)
		}
		if err != nil {
			return profileMsg{err: err}
		}
		posts, err := m.client.FetchUserPosts(m.ctx, user.ID)
		if err != nil {
			return profileMsg{err: err}
		}
		return profileMsg{user: user, posts: posts}
	}
}

func (m *Model) loadContacts() tea.Cmd {
	return func() tea.Msg {
		list, err := m.client.EmergencyContacts(m.ctx)
		return contactsMsg{list: list, err: err}
	}
}

func (m *Model) loadComments(post api.Post) tea.Cmd {
	return func() tea.Msg {
		list, err := m.client.GetComments(m.ctx, post.ID)
		return commentsMsg{post: post, list: list, err: err}
	}
}

func (m *Model) submitComment(post api.Post, text string) tea.Cmd {
	return func() tea.Msg {
		return commentDoneMsg{post: post, err: m.client.AddComment(m.ctx, post.ID, text)}
	}
}

func (m *Model) doLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.Login(m.ctx, email, password)
		return loginMsg{res: res, err: err}
	}
}

func (m *Model) sendOTP(email string) tea.Cmd {
	return func() tea.Msg {
		return otpSentMsg{err: m.client.RequestOTP(m.ctx, email)}
	}
}

func (m *Model) verifyOTP(email, code string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.VerifyOTP(m.ctx, email, code)
		return loginMsg{res: res, err: err}
	}
}

func (m *Model) doRepost(id api.PostID) tea.Cmd {
	return func() tea.Msg {
		return repostDoneMsg{err: m.client.Repost(m.ctx, id)}
	}
}

func (m *Model) doCompose(text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.client.CreateComplaint(m.ctx, text, nil)
		return composeDoneMsg{err: err}
	}
}

func (m *Model) markAllRead() tea.Cmd {
	return func() tea.Msg {
		return markAllDoneMsg{err: m.client.MarkAllRead(m.ctx)}
	}
}

func (m *Model) markRead(id int64) tea.Cmd {
	return func() tea.Msg {
		return markReadDoneMsg{err: m.client.MarkNotificationRead(m.ctx, id)}
	}
}

func (m *Model) doForgotPassword(email string) tea.Cmd {
	return func() tea.Msg {
		return forgotSentMsg{err: m.client.ForgotPassword(m.ctx, email)}
	}
}

func (m *Model) doResetPassword(email, newPassword string) tea.Cmd {
	return func() tea.Msg {
		return resetDoneMsg{err: m.client.ResetPassword(m.ctx, email, newPassword)}
	}
}

// doDelete removes a post the viewer owns, or undoes the viewer's repost when
// id carries a repost instance.
func (m *Model) doDelete(id api.PostID) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{err: m.client.DeleteComplaint(m.ctx, id)}
	}
}

func (m *Model) saveProfile(patch api.ProfilePatch) tea.Cmd {
	return func() tea.Msg {
		user, err := m.client.UpdateProfile(m.ctx, patch)
		return profileSavedMsg{user: user, err: err}
	}
}

func (m *Model) uploadAvatar(path string) tea.Cmd {
	return func() tea.Msg {
		return uploadDoneMsg{label: "Avatar", err: m.client.UploadProfileImage(m.ctx, path)}
	}
}

func (m *Model) uploadCover(path string) tea.Cmd {
	return func() tea.Msg {
		return uploadDoneMsg{label: "Cover", err: m.client.UploadCoverImage(m.ctx, path)}
	}
}

func (m *Model) finishLogin(res api.LoginResult, err error) (tea.Model, tea.Cmd) {
	m.busy = false
	if err != nil {
		m.setAlert("Login: " + err.Error())
		return m, nil
	}

	m.client.SetToken(res.Token)
	m.viewerID = res.User.ID
	m.sess.Token = res.Token
	m.sess.Email = strings.TrimSpace(m.emailInput.Value())
	if saveErr := session.Save(m.sessionPath, m.sess); saveErr != nil {
		m.log.Warnw("persist session failed", "error", saveErr)
	}

	m.passwordInput.SetValue("")
	m.otpInput.SetValue("")
	m.current = viewFeed
	m.busy = true
	return m, m.refreshFeed()
}

func (m *Model) logout() (tea.Model, tea.Cmd) {
	if err := session.Clear(m.sessionPath, m.sess); err != nil {
		m.log.Warnw("clear session failed", "error", err)
	}
	m.sess.Token = ""
	m.sess.Email = ""
	m.client.SetToken("")
	m.cache.Clear()
	m.current = viewLogin
	m.emailInput.Focus()
	m.passwordInput.Blur()
	m.loginFocus = 0
	return m, nil
}

// toggle routes a field flip on the selected post (or its author) through the
// optimistic engine.
func (m *Model) toggle(post api.Post, field social.Field) {
	var (
		ref  social.Ref
		call social.RemoteCall
	)
	switch field {
	case social.FieldLiked:
		ref = social.PostRef(post.ID.Base)
		call = func(ctx context.Context, value bool) error {
			if value {
				return m.client.LikePost(ctx, post.ID)
			}
			return m.client.UnlikePost(ctx, post.ID)
		}
	case social.FieldSaved:
		ref = social.PostRef(post.ID.Base)
		call = func(ctx context.Context, value bool) error {
			if value {
				return m.client.SavePost(ctx, post.ID)
			}
			return m.client.UnsavePost(ctx, post.ID)
		}
	case social.FieldFollowing:
		ref = social.UserRef(post.User.ID)
		call = func(ctx context.Context, value bool) error {
			if value {
				return m.client.FollowUser(ctx, post.User.ID)
			}
			return m.client.UnfollowUser(ctx, post.User.ID)
		}
	default:
		return
	}

	if err := m.engine.Toggle(m.ctx, ref, field, call); err != nil {
		m.setAlert(err.Error())
	}
}
