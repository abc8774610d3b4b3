package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/scamalert/alertpro/internal/api"
	"github.com/scamalert/alertpro/internal/social"
)

// renderPosts renders a scrolling list of complaint cards. Counts and toggle
// marks come from the cache, not the fetched payload, so every screen shows
// the same numbers the instant a toggle lands.
func (m *Model) renderPosts(title string, posts []api.Post, cursor int, exhausted bool) string {
	if len(posts) == 0 {
		if m.busy {
			return m.emptyState("Loading…")
		}
		return m.emptyState("Nothing here yet.")
	}

	visible := m.visibleRows()
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := min(start+visible, len(posts))

	var b strings.Builder
	b.WriteString(m.styles.Accent.Render(title) + "\n")
	now := time.Now()
	for i := start; i < end; i++ {
		b.WriteString(m.renderCard(posts[i], i == cursor, now))
		b.WriteString("\n")
	}
	if !exhausted && end == len(posts) {
		b.WriteString(m.styles.MutedText.Render("  ↓ more"))
	}
	return b.String()
}

func (m *Model) renderCard(p api.Post, selected bool, now time.Time) string {
	st, _ := m.cache.Get(social.PostRef(p.ID.Base))
	userSt, _ := m.cache.Get(social.UserRef(p.User.ID))

	name := p.User.DisplayName()
	if userSt.Following {
		name += " " + m.styles.Success.Render("✓")
	}

	header := m.styles.Text.Bold(true).Render(name) + "  " +
		m.styles.MutedText.Render("@"+p.User.Username+" · "+timeAgo(p.ParsedCreatedAt(), now))
	if p.ID.Reposted {
		header = m.styles.MutedText.Render("↻ reposted") + "\n" + header
	}

	width := min(m.width-6, 100)
	text := truncate(firstLine(p.Text), width)

	like := "♡"
	if st.Liked {
		like = m.styles.Danger.Render("♥")
	}
	save := "⚑"
	if st.Saved {
		save = m.styles.Accent.Render("⚑")
	}
	counts := fmt.Sprintf("%s %d   💬 %d   ↻ %d   %s",
		like, st.LikeCount, st.CommentCount, st.RepostCount, save)

	lines := []string{header, text}
	if !m.compact && len(p.Files) > 0 {
		lines = append(lines, m.styles.MutedText.Render(plural(len(p.Files), "attachment")))
	}
	lines = append(lines, counts)

	card := strings.Join(lines, "\n")
	style := m.styles.CardBorder.Width(width)
	if selected {
		style = style.BorderForeground(m.styles.Accent.GetForeground())
	}
	return style.Render(card)
}

func (m *Model) renderProfile() string {
	u := m.profile
	if u.ID == 0 {
		if m.busy {
			return m.emptyState("Loading…")
		}
		return m.emptyState("Profile unavailable.")
	}

	st, _ := m.cache.Get(social.UserRef(u.ID))
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render(u.DisplayName()) + "  " +
		m.styles.MutedText.Render("@"+u.Username) + "\n")
	if u.Bio != "" {
		b.WriteString(m.styles.Text.Render(truncate(u.Bio, m.width-4)) + "\n")
	}
	stats := fmt.Sprintf("%s · %s", plural(u.Followers, "follower"), fmt.Sprintf("%d following", u.Following))
	if m.profileUserID != 0 && st.Following {
		stats += " · " + m.styles.Success.Render("following ✓")
	}
	b.WriteString(m.styles.MutedText.Render(stats) + "\n\n")
	b.WriteString(m.renderPosts("Posts", m.profilePosts, m.profileCursor, true))
	return b.String()
}

func (m *Model) visibleRows() int {
	rows := (m.height - 4) / 6
	if rows < 1 {
		return 1
	}
	return rows
}
