package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading…"
	}

	var body string
	switch m.current {
	case viewLogin:
		body = m.renderLogin()
	case viewOTP:
		body = m.renderOTP()
	case viewFeed:
		body = m.renderPosts("Feed", m.feed.Items(), m.feedCursor, m.feed.Exhausted())
	case viewSaved:
		body = m.renderPosts("Saved", m.saved, m.savedCursor, true)
	case viewProfile:
		body = m.renderProfile()
	case viewNotifications:
		body = m.renderNotifications()
	case viewContacts:
		body = m.renderContacts()
	case viewCompose:
		body = m.renderCompose()
	case viewComments:
		body = m.renderComments()
	case viewResetPassword:
		body = m.renderResetPassword()
	case viewEditProfile:
		body = m.renderEditProfile()
	}

	if m.helpOpen {
		body = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

func (m *Model) renderHeader() string {
	snap := m.store.Snapshot()

	parts := []string{m.styles.Logo.Render("scam alert pro")}

	if snap.IsOffline() {
		parts = append(parts, m.styles.Offline.Render("● OFFLINE"))
	} else if m.busy {
		parts = append(parts, m.styles.MutedText.Render(m.spin.View()+"loading"))
	}

	if snap.Marquee != "" {
		parts = append(parts, m.styles.Marquee.Render("⚠ "+truncate(snap.Marquee, m.width/2)))
	}

	unread := snap.Unread
	if m.current == viewNotifications {
		unread = m.notifs.Unread()
	}
	if unread > 0 {
		parts = append(parts, m.styles.Badge.Render(fmt.Sprintf("%d new", unread)))
	}

	return m.styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m *Model) renderFooter() string {
	if m.alert != "" {
		return m.styles.Alert.Width(m.width).Render(m.alert)
	}

	var hints string
	switch m.current {
	case viewLogin:
		hints = "enter login · ctrl+o email code · ctrl+f forgot password · tab switch field · esc quit"
	case viewOTP:
		hints = "enter verify · esc back"
	case viewResetPassword:
		hints = "enter set password · esc back"
	case viewEditProfile:
		hints = "tab next field · ctrl+s save · ctrl+u avatar · ctrl+k cover · esc back"
	case viewCompose:
		hints = "ctrl+s post · esc cancel"
	case viewComments:
		hints = "enter send · tab focus input · l like · esc back"
	case viewNotifications:
		hints = "j/k move · enter mark read · a mark all · r refresh · ? help"
	default:
		hints = "j/k move · l like · s save · f follow · R repost · enter comments · ? help"
	}
	return m.styles.Footer.Width(m.width).Render(hints)
}

func (m *Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Sign in") + "\n\n")
	b.WriteString(m.emailInput.View() + "\n")
	b.WriteString(m.passwordInput.View() + "\n\n")
	b.WriteString(m.styles.MutedText.Render("ctrl+o to sign in with an emailed code instead"))
	return m.centered(b.String())
}

func (m *Model) renderOTP() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Enter the code we emailed you") + "\n\n")
	b.WriteString(m.otpInput.View() + "\n\n")
	b.WriteString(m.styles.MutedText.Render(strings.TrimSpace(m.emailInput.Value())))
	return m.centered(b.String())
}

func (m *Model) renderCompose() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("New complaint") + "\n\n")
	b.WriteString(m.composeInput.View())
	return b.String()
}

func (m *Model) renderResetPassword() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Set a new password") + "\n\n")
	b.WriteString(m.newPasswordInput.View() + "\n\n")
	b.WriteString(m.styles.MutedText.Render(strings.TrimSpace(m.emailInput.Value())))
	return m.centered(b.String())
}

func (m *Model) renderEditProfile() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Edit profile") + "\n\n")
	for i := range m.editInputs {
		b.WriteString(m.editInputs[i].View() + "\n")
	}
	b.WriteString("\n" + m.styles.MutedText.Render("ctrl+s saves · ctrl+u/ctrl+k upload the image path as avatar/cover"))
	return b.String()
}

func (m *Model) renderContacts() string {
	if len(m.contacts) == 0 {
		return m.emptyState("No emergency contacts available.")
	}
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Emergency contacts") + "\n\n")
	for i, c := range m.contacts {
		line := fmt.Sprintf("%-24s %-16s %s", truncate(c.Name, 24), c.Phone, m.styles.MutedText.Render(c.Kind))
		if i == m.contactCursor {
			line = m.styles.Selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) renderHelp() string {
	help := strings.Join([]string{
		m.styles.Accent.Render("Keys"),
		"",
		"1/2/3/4/5   feed · notifications · saved · profile · contacts",
		"j/k g/G     move within a list",
		"l s f       like · save · follow (applied instantly)",
		"R           repost",
		"d           delete own post or undo own repost",
		"enter / c   open comments",
		"u           open author profile",
		"e           edit profile (on your own profile)",
		"n           new complaint",
		"r           refresh",
		"T           cycle theme",
		"L           log out",
		"q           quit",
	}, "\n")
	return m.styles.Help.Render(help)
}

func (m *Model) emptyState(text string) string {
	return "\n" + m.styles.MutedText.Render("  "+text)
}

func (m *Model) centered(content string) string {
	if m.width <= 0 {
		return content
	}
	return lipgloss.Place(m.width, max(m.height-2, lipgloss.Height(content)),
		lipgloss.Center, lipgloss.Center, content)
}
