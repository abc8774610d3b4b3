package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/scamalert/alertpro/internal/api"
	"github.com/scamalert/alertpro/internal/config"
	"github.com/scamalert/alertpro/internal/session"
	"github.com/scamalert/alertpro/internal/social"
	"github.com/scamalert/alertpro/internal/state"
)

// view identifies the active screen.
type view int

const (
	viewLogin view = iota
	viewOTP
	viewFeed
	viewNotifications
	viewSaved
	viewProfile
	viewContacts
	viewCompose
	viewComments
	viewResetPassword
	viewEditProfile
)

const (
	uiTickInterval = 2 * time.Second
	alertDuration  = 5 * time.Second
)

// Model is the bubbletea model for the whole application.
type Model struct {
	ctx         context.Context
	client      *api.Client
	store       *state.Store
	cache       *social.Cache
	bus         *social.Bus
	engine      *social.Engine
	cfg         *config.Config
	log         *zap.SugaredLogger
	sess        session.Session
	sessionPath string
	prefsPath   string

	results   chan social.Result
	busEvents chan busEvent

	theme   Theme
	styles  Styles
	compact bool
	width   int
	height  int

	current  view
	helpOpen bool
	busy     bool
	alert    string
	alertSet time.Time

	// Feed / saved / profile lists.
	feed          *social.Pager[api.Post]
	feedCursor    int
	saved         []api.Post
	savedCursor   int
	profile       api.User
	profileUserID int64 // 0 means the viewer's own profile
	profilePosts  []api.Post
	profileCursor int
	viewerID      int64

	// Notifications.
	notifs      *social.NotificationFeed
	notifCursor int

	// Comments overlay.
	commentsPost api.Post
	comments     []api.Comment
	commentInput textinput.Model

	// Emergency contacts.
	contacts      []api.EmergencyContact
	contactCursor int

	// Auth inputs.
	emailInput       textinput.Model
	passwordInput    textinput.Model
	otpInput         textinput.Model
	newPasswordInput textinput.Model
	loginFocus       int

	// Profile edit inputs, in tab order.
	editInputs []textinput.Model
	editFocus  int

	// Compose.
	composeInput textarea.Model

	spin spinner.Model

	// Cancels for per-post bus subscriptions of the visible feed.
	busCancels []func()
}

// busEvent is a cross-screen cache change forwarded from the bus so the
// program re-renders even when the change originated off the update loop.
type busEvent struct {
	ref   social.Ref
	field social.Field
	value bool
}

type (
	tickMsg        time.Time
	resultMsg      social.Result
	busEventMsg    busEvent
	feedMsg        struct{ err error }
	savedMsg       struct {
		posts []api.Post
		err   error
	}
	notifsMsg  struct{ err error }
	profileMsg struct {
		user  api.User
		posts []api.Post
		err   error
	}
	contactsMsg struct {
		list []api.EmergencyContact
		err  error
	}
	commentsMsg struct {
		post api.Post
		list []api.Comment
		err  error
	}
	loginMsg struct {
		res api.LoginResult
		err error
	}
	otpSentMsg     struct{ err error }
	repostDoneMsg  struct{ err error }
	composeDoneMsg struct{ err error }
	commentDoneMsg struct {
		post api.Post
		err  error
	}
	markAllDoneMsg  struct{ err error }
	markReadDoneMsg struct{ err error }
	forgotSentMsg   struct{ err error }
	resetDoneMsg    struct{ err error }
	deleteDoneMsg   struct{ err error }
	profileSavedMsg struct {
		user api.User
		err  error
	}
	uploadDoneMsg struct {
		label string
		err   error
	}
)

func newModel(opts Options) *Model {
	theme := themeByName(opts.ThemeName)

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	otp := textinput.New()
	otp.Placeholder = "6-digit code"
	otp.CharLimit = 6

	comment := textinput.New()
	comment.Placeholder = "add a comment"
	comment.CharLimit = 500

	newPassword := textinput.New()
	newPassword.Placeholder = "new password"
	newPassword.EchoMode = textinput.EchoPassword
	newPassword.CharLimit = 120

	compose := textarea.New()
	compose.Placeholder = "Describe the scam…"
	compose.CharLimit = 2000

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	pageSize := social.DefaultPageSize
	if opts.Config != nil && opts.Config.PageSize > 0 {
		pageSize = opts.Config.PageSize
	}

	m := &Model{
		ctx:         opts.Context,
		client:      opts.Client,
		store:       opts.Store,
		cache:       opts.Cache,
		bus:         opts.Bus,
		cfg:         opts.Config,
		log:         opts.Log,
		sess:        opts.Session,
		sessionPath: opts.SessionPath,
		prefsPath:   opts.PrefsPath,
		results:     make(chan social.Result, 32),
		busEvents:   make(chan busEvent, 32),
		theme:       theme,
		styles:      theme.Styles(),
		compact:     opts.Compact,
		current:     viewLogin,

		emailInput:       email,
		passwordInput:    password,
		otpInput:         otp,
		newPasswordInput: newPassword,
		commentInput:     comment,
		composeInput:     compose,
		spin:             spin,
	}

	for _, placeholder := range []string{"first name", "last name", "bio", "image path (for uploads)"} {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 200
		m.editInputs = append(m.editInputs, in)
	}

	m.engine = social.NewEngine(social.EngineOptions{
		Cache:  opts.Cache,
		Bus:    opts.Bus,
		Policy: social.NoRollback,
		Log:    opts.Log,
		Notify: func(r social.Result) {
			select {
			case m.results <- r:
			default:
			}
		},
	})

	m.feed = social.NewPager(
		func(ctx context.Context, page int) ([]api.Post, error) {
			fp, err := opts.Client.FetchFeedPage(ctx, page)
			if err != nil {
				return nil, err
			}
			return fp.Items, nil
		},
		func(p api.Post) string { return p.ID.Key() },
		pageSize,
	)

	m.notifs = social.NewNotificationFeed(opts.Client.FetchNotificationsPage, pageSize)

	if opts.Session.Authenticated() {
		m.current = viewFeed
		m.busy = true
	}

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick(), m.listenResults(), m.listenBus(), m.spin.Tick}
	if m.current == viewFeed {
		cmds = append(cmds, m.refreshFeed())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.composeInput.SetWidth(min(msg.Width-4, 100))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if m.alert != "" && time.Since(m.alertSet) > alertDuration {
			m.alert = ""
		}
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case resultMsg:
		if msg.Err != nil {
			m.setAlert("Action failed, will not retry: " + msg.Err.Error())
		}
		return m, m.listenResults()

	case busEventMsg:
		// A cache entry changed outside the update loop; re-render picks up
		// the new counts from the cache.
		return m, m.listenBus()

	case feedMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert("Feed: " + msg.err.Error())
			return m, nil
		}
		m.seedPosts(m.feed.Items())
		m.resubscribe(m.feed.Items())
		m.clampCursors()
		return m, nil

	case savedMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert("Saved: " + msg.err.Error())
			return m, nil
		}
		m.saved = msg.posts
		m.seedPosts(msg.posts)
		m.clampCursors()
		return m, nil

	case notifsMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert("Notifications: " + msg.err.Error())
		}
		m.clampCursors()
		return m, nil

	case profileMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert("Profile: " + msg.err.Error())
			return m, nil
		}
		m.profile = msg.user
		m.profilePosts = msg.posts
		if m.profileUserID == 0 {
			m.viewerID = msg.user.ID
		}
		m.cache.Put(social.UserRef(msg.user.ID), social.EntityState{Following: msg.user.IsFollowing})
		m.seedPosts(msg.posts)
		m.clampCursors()
		return m, nil

	case contactsMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert("Contacts: " + msg.err.Error())
			return m, nil
		}
		m.contacts = msg.list
		return m, nil

	case commentsMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert("Comments: " + msg.err.Error())
			return m, nil
		}
		m.commentsPost = msg.post
		m.comments = msg.list
		m.current = viewComments
		m.commentInput.SetValue("")
		return m, nil

	case loginMsg:
		return m.finishLogin(msg.res, msg.err)

	case otpSentMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert("OTP: " + msg.err.Error())
			return m, nil
		}
		m.current = viewOTP
		m.otpInput.SetValue("")
		m.otpInput.Focus()
		return m, nil

	case repostDoneMsg:
		if msg.err != nil {
			m.setAlert("Repost: " + msg.err.Error())
			return m, nil
		}
		m.setAlert("Reposted")
		m.busy = true
		return m, m.refreshFeed()

	case composeDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert("Post: " + msg.err.Error())
			return m, nil
		}
		m.composeInput.SetValue("")
		m.current = viewFeed
		m.busy = true
		return m, m.refreshFeed()

	case commentDoneMsg:
		if msg.err != nil {
			m.setAlert("Comment: " + msg.err.Error())
			return m, nil
		}
		m.commentInput.SetValue("")
		if st, ok := m.cache.Get(social.PostRef(msg.post.ID.Base)); ok {
			st.CommentCount++
			m.cache.Put(social.PostRef(msg.post.ID.Base), st)
		}
		return m, m.loadComments(msg.post)

	case markAllDoneMsg:
		if msg.err != nil {
			m.setAlert("Mark all read: " + msg.err.Error())
		}
		return m, nil

	case markReadDoneMsg:
		if msg.err != nil {
			m.setAlert("Mark read: " + msg.err.Error())
		}
		return m, nil

	case forgotSentMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert("Password reset: " + msg.err.Error())
			return m, nil
		}
		m.current = viewResetPassword
		m.newPasswordInput.SetValue("")
		m.newPasswordInput.Focus()
		m.setAlert("Reset email sent, choose a new password")
		return m, nil

	case resetDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert("Password reset: " + msg.err.Error())
			return m, nil
		}
		m.newPasswordInput.SetValue("")
		m.current = viewLogin
		m.setAlert("Password updated, sign in")
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.setAlert("Delete: " + msg.err.Error())
			return m, nil
		}
		m.setAlert("Deleted")
		m.busy = true
		switch m.current {
		case viewProfile:
			return m, m.loadProfile(m.profileUserID)
		case viewSaved:
			return m, m.loadSaved()
		default:
			return m, m.refreshFeed()
		}

	case profileSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert("Profile: " + msg.err.Error())
			return m, nil
		}
		m.profile = msg.user
		m.current = viewProfile
		m.setAlert("Profile updated")
		return m, m.loadProfile(0)

	case uploadDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setAlert(msg.label + ": " + msg.err.Error())
			return m, nil
		}
		m.setAlert(msg.label + " uploaded")
		return m, nil
	}

	return m, nil
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(uiTickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) listenResults() tea.Cmd {
	return func() tea.Msg { return resultMsg(<-m.results) }
}

func (m *Model) listenBus() tea.Cmd {
	return func() tea.Msg { return busEventMsg(<-m.busEvents) }
}

func (m *Model) setAlert(text string) {
	m.alert = text
	m.alertSet = time.Now()
}

// seedPosts writes server truth for the given posts into the cache. Repost
// entries share the base complaint's cache slot, so a like on either card
// lands on the same counters.
func (m *Model) seedPosts(posts []api.Post) {
	for _, p := range posts {
		m.cache.Put(social.PostRef(p.ID.Base), social.EntityState{
			Liked:        p.Liked,
			Saved:        p.Saved,
			LikeCount:    p.Likes,
			CommentCount: p.Comments,
			RepostCount:  p.Reposts,
		})
		if p.User.ID != 0 {
			m.cache.Put(social.UserRef(p.User.ID), social.EntityState{
				Following: p.User.IsFollowing,
			})
		}
	}
}

// resubscribe replaces the per-post bus subscriptions with ones for the
// currently loaded feed, so settles and rollbacks from the engine redraw the
// visible cards.
func (m *Model) resubscribe(posts []api.Post) {
	for _, cancel := range m.busCancels {
		cancel()
	}
	m.busCancels = m.busCancels[:0]

	forward := func(ref social.Ref, field social.Field) func(bool) {
		return func(value bool) {
			select {
			case m.busEvents <- busEvent{ref: ref, field: field, value: value}:
			default:
			}
		}
	}

	seenPosts := map[int64]bool{}
	seenUsers := map[int64]bool{}
	for _, p := range posts {
		if !seenPosts[p.ID.Base] {
			seenPosts[p.ID.Base] = true
			ref := social.PostRef(p.ID.Base)
			m.busCancels = append(m.busCancels,
				m.bus.Subscribe(ref, social.FieldLiked, forward(ref, social.FieldLiked)),
				m.bus.Subscribe(ref, social.FieldSaved, forward(ref, social.FieldSaved)),
			)
		}
		if p.User.ID != 0 && !seenUsers[p.User.ID] {
			seenUsers[p.User.ID] = true
			userRef := social.UserRef(p.User.ID)
			m.busCancels = append(m.busCancels,
				m.bus.Subscribe(userRef, social.FieldFollowing, forward(userRef, social.FieldFollowing)),
			)
		}
	}
}

func (m *Model) clampCursors() {
	m.feedCursor = clamp(m.feedCursor, len(m.feed.Items()))
	m.savedCursor = clamp(m.savedCursor, len(m.saved))
	m.profileCursor = clamp(m.profileCursor, len(m.profilePosts))
	m.notifCursor = clamp(m.notifCursor, len(m.notifs.All()))
	m.contactCursor = clamp(m.contactCursor, len(m.contacts))
}

func clamp(cursor, length int) int {
	if length == 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}
