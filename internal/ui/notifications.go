package ui

import (
	"strings"
	"time"

	"github.com/scamalert/alertpro/internal/api"
)

// renderNotifications renders the three lifecycle buckets. The index walks
// the same flattened order the cursor uses.
func (m *Model) renderNotifications() string {
	all := m.notifs.All()
	if len(all) == 0 {
		if m.busy {
			return m.emptyState("Loading…")
		}
		return m.emptyState("No notifications.")
	}

	buckets := []struct {
		label string
		items []api.Notification
	}{
		{"New", m.notifs.Fresh()},
		{"Today", m.notifs.Today()},
		{"Earlier", m.notifs.Earlier()},
	}

	var b strings.Builder
	now := time.Now()
	index := 0
	for _, bucket := range buckets {
		if len(bucket.items) == 0 {
			continue
		}
		b.WriteString(m.styles.Accent.Render(bucket.label) + "\n")
		for _, n := range bucket.items {
			b.WriteString(m.renderNotification(n, index == m.notifCursor, now))
			b.WriteString("\n")
			index++
		}
	}
	if !m.notifs.Exhausted() {
		b.WriteString(m.styles.MutedText.Render("  ↓ more"))
	}
	return b.String()
}

func (m *Model) renderNotification(n api.Notification, selected bool, now time.Time) string {
	marker := " "
	if !n.Seen {
		marker = m.styles.Danger.Render("●")
	}

	line := marker + " " + m.styles.Text.Bold(true).Render(n.User.DisplayName()) +
		" " + n.Message() +
		"  " + m.styles.MutedText.Render(timeAgo(n.ParsedCreatedAt(), now))
	if n.Complaint != nil && n.Complaint.Text != "" {
		line += "\n   " + m.styles.MutedText.Render(truncate(firstLine(n.Complaint.Text), m.width-8))
	}
	if selected {
		return m.styles.Selected.Render(line)
	}
	return line
}

func (m *Model) renderComments() string {
	p := m.commentsPost
	var b strings.Builder
	b.WriteString(m.renderCard(p, false, time.Now()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Accent.Render("Comments") + "\n")

	if len(m.comments) == 0 {
		b.WriteString(m.styles.MutedText.Render("  Be the first to comment.") + "\n")
	}
	now := time.Now()
	for _, c := range m.comments {
		b.WriteString("  " + m.styles.Text.Bold(true).Render("@"+c.Username) + " " +
			m.styles.MutedText.Render(timeAgo(parseCommentTime(c), now)) + "\n")
		b.WriteString("  " + truncate(c.Text, m.width-4) + "\n")
	}

	b.WriteString("\n" + m.commentInput.View())
	return b.String()
}

func parseCommentTime(c api.Comment) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, c.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}
