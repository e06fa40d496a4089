package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/judgeLC/VupPlaylist-sub000/internal/client"
	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	SetupView
	SongListView
	AddSongView
)

// songItem adapts a [models.Song] to [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) Title() string { return i.song.Title }

func (i songItem) Description() string {
	parts := []string{}
	if i.song.Artist != "" {
		parts = append(parts, i.song.Artist)
	}
	if i.song.Genre != "" {
		parts = append(parts, i.song.Genre)
	}
	if i.song.Note != "" {
		parts = append(parts, i.song.Note)
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " · ")
}

func (i songItem) FilterValue() string { return i.song.Title + " " + i.song.Artist }

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	flow   *client.LoginFlow
	api    *client.APIClient
	view   ViewState
	width  int
	height int

	passwordInput textinput.Model
	setupInput    textinput.Model
	titleInput    textinput.Model
	artistInput   textinput.Model
	addFocus      int

	songList list.Model
	songs    []models.Song
	genres   map[string]string // genre id -> display name

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates the admin panel model; the first command it issues runs
// the auth check.
func NewModel(ctx context.Context, flow *client.LoginFlow, api *client.APIClient) Model {
	password := textinput.New()
	password.Placeholder = "管理密码"
	password.EchoMode = textinput.EchoPassword
	password.Focus()

	setup := textinput.New()
	setup.Placeholder = "新密码（至少8位，含大小写、数字、符号）"
	setup.EchoMode = textinput.EchoPassword

	title := textinput.New()
	title.Placeholder = "歌曲名"
	artist := textinput.New()
	artist.Placeholder = "歌手"

	delegate := list.NewDefaultDelegate()
	songList := list.New([]list.Item{}, delegate, 0, 0)
	songList.Title = "歌单"
	songList.SetShowHelp(false)

	return Model{
		ctx:           ctx,
		flow:          flow,
		api:           api,
		view:          LoginView,
		passwordInput: password,
		setupInput:    setup,
		titleInput:    title,
		artistInput:   artist,
		songList:      songList,
		genres:        map[string]string{},
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init implements [tea.Model].
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkAuth())
}

func (m Model) checkAuth() tea.Cmd {
	return func() tea.Msg {
		state, err := m.flow.CheckAuth(m.ctx)
		return authCheckedMsg(state, err)
	}
}

func (m Model) login(password string) tea.Cmd {
	return func() tea.Msg {
		state, err := m.flow.SubmitPassword(m.ctx, password)
		return loggedInMsg(state, err)
	}
}

func (m Model) setPassword(newPassword string) tea.Cmd {
	return func() tea.Msg {
		state, err := m.flow.SubmitNewPassword(m.ctx, newPassword, "")
		return passwordSetMsg(state, err)
	}
}

func (m Model) fetchSongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.api.Songs(m.ctx)
		return songsFetchedMsg(songs, err)
	}
}

func (m Model) addSong(title, artist string) tea.Cmd {
	return func() tea.Msg {
		song, err := m.api.AddSong(m.ctx, models.Song{Title: title, Artist: artist})
		return songAddedMsg(song, err)
	}
}

func (m Model) deleteSong(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.api.DeleteSong(m.ctx, id)
		return songDeletedMsg(id, err)
	}
}

func (m Model) logout() tea.Cmd {
	return func() tea.Msg {
		m.flow.Logout(m.ctx)
		return loggedOutMsg()
	}
}

// Update implements [tea.Model].
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.FocusMsg:
		// Terminal regained focus: re-pull, mirroring the focus trigger on
		// the web display page.
		if m.view == SongListView {
			return m, m.fetchSongs()
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case Msg:
		return m.updateMsg(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) && m.view != AddSongView {
		return m, tea.Quit
	}

	switch m.view {
	case LoginView:
		if msg.Type == tea.KeyEnter {
			password := m.passwordInput.Value()
			m.status = "登录中..."
			return m, m.login(password)
		}
	case SetupView:
		if msg.Type == tea.KeyEnter {
			m.status = "设置密码中..."
			return m, m.setPassword(m.setupInput.Value())
		}
	case SongListView:
		switch {
		case key.Matches(msg, m.keys.add):
			m.view = AddSongView
			m.addFocus = 0
			m.titleInput.SetValue("")
			m.artistInput.SetValue("")
			m.titleInput.Focus()
			m.artistInput.Blur()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.delete):
			if item, ok := m.songList.SelectedItem().(songItem); ok {
				m.status = fmt.Sprintf("删除《%s》...", item.song.Title)
				return m, m.deleteSong(item.song.ID)
			}
		case key.Matches(msg, m.keys.refresh):
			return m, m.fetchSongs()
		case key.Matches(msg, m.keys.logout):
			return m, m.logout()
		}
	case AddSongView:
		switch msg.Type {
		case tea.KeyEsc:
			m.view = SongListView
			return m, nil
		case tea.KeyTab, tea.KeyShiftTab:
			m.addFocus = (m.addFocus + 1) % 2
			if m.addFocus == 0 {
				m.titleInput.Focus()
				m.artistInput.Blur()
			} else {
				m.artistInput.Focus()
				m.titleInput.Blur()
			}
			return m, textinput.Blink
		case tea.KeyEnter:
			title := strings.TrimSpace(m.titleInput.Value())
			if title == "" {
				m.err = fmt.Errorf("歌曲名不能为空")
				return m, nil
			}
			m.status = "添加中..."
			return m, m.addSong(title, strings.TrimSpace(m.artistInput.Value()))
		}
	}

	return m.updateInputs(msg)
}

func (m Model) updateMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgAuthChecked, MsgLoggedIn, MsgPasswordSet:
		result := msg.data.(flowResult)
		m.status = ""
		if result.err != nil {
			m.err = result.err
			return m, nil
		}
		m.err = nil
		switch result.state {
		case client.StateNeedsFirstTimeSetup:
			m.view = SetupView
			m.setupInput.Focus()
			m.passwordInput.Blur()
			return m, textinput.Blink
		case client.StateLoginForm:
			m.view = LoginView
			m.passwordInput.Focus()
			return m, textinput.Blink
		case client.StateRedirecting:
			m.view = SongListView
			return m, m.fetchSongs()
		}
		return m, nil

	case MsgSongsFetched:
		data := msg.data.(struct {
			songs []models.Song
			err   error
		})
		m.status = ""
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.songs = data.songs
		items := make([]list.Item, len(data.songs))
		for i, s := range data.songs {
			items[i] = songItem{song: s}
		}
		return m, m.songList.SetItems(items)

	case MsgSongAdded:
		data := msg.data.(struct {
			song *models.Song
			err  error
		})
		m.status = ""
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.view = SongListView
		return m, m.fetchSongs()

	case MsgSongDeleted:
		data := msg.data.(struct {
			id  int64
			err error
		})
		m.status = ""
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		return m, m.fetchSongs()

	case MsgLoggedOut:
		m.view = LoginView
		m.passwordInput.SetValue("")
		m.passwordInput.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch m.view {
	case LoginView:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
		cmds = append(cmds, cmd)
	case SetupView:
		m.setupInput, cmd = m.setupInput.Update(msg)
		cmds = append(cmds, cmd)
	case AddSongView:
		m.titleInput, cmd = m.titleInput.Update(msg)
		cmds = append(cmds, cmd)
		m.artistInput, cmd = m.artistInput.Update(msg)
		cmds = append(cmds, cmd)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements [tea.Model].
func (m Model) View() string {
	var b strings.Builder

	switch m.view {
	case LoginView:
		b.WriteString(styles.title.Render("VupPlaylist 管理后台"))
		b.WriteString("\n")
		b.WriteString(m.passwordInput.View())
		b.WriteString("\n\n")
		b.WriteString(styles.help.Render("enter 登录 · q 退出"))
	case SetupView:
		b.WriteString(styles.title.Render("首次使用 · 设置管理密码"))
		b.WriteString("\n")
		b.WriteString(styles.warn.Render("密码设置完成前，后台处于不受保护状态"))
		b.WriteString("\n\n")
		b.WriteString(m.setupInput.View())
		b.WriteString("\n\n")
		b.WriteString(styles.help.Render("enter 确认 · q 退出"))
	case SongListView:
		b.WriteString(m.songList.View())
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
	case AddSongView:
		b.WriteString(styles.title.Render("添加歌曲"))
		b.WriteString("\n")
		b.WriteString(m.titleInput.View())
		b.WriteString("\n")
		b.WriteString(m.artistInput.View())
		b.WriteString("\n\n")
		b.WriteString(styles.help.Render("tab 切换 · enter 保存 · esc 返回"))
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render(m.status))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(m.err.Error()))
	}

	return b.String()
}
