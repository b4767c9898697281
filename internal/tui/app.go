package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/fernlabs/fern/internal/api"
	"github.com/fernlabs/fern/internal/state"
	"github.com/fernlabs/fern/internal/tui/keys"
	"github.com/fernlabs/fern/internal/tui/model"
	"github.com/fernlabs/fern/internal/tui/views"
)

// statusSource is the slice of a binding the status bar consumes.
type statusSource interface {
	Loading() bool
	Err() string
}

// changeSource is the re-render half of a binding.
type changeSource interface {
	Changes() <-chan struct{}
}

// App is the main TUI application shell. All rendering reads from the
// state store; mutations go through Ops and come back as bus events.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	ops      *state.Ops
	store    *state.Store
	registry *keys.Registry
	flash    *model.Flash

	cyclesBind  *state.Binding[state.ListPage, []api.Cycle]
	medsBind    *state.Binding[state.ListPage, []api.Medication]
	chatsBind   *state.Binding[state.ListPage, []api.ChatSession]
	partnerBind *state.Binding[struct{}, *api.PartnerLink]
	commBind    *state.Binding[state.ListPage, []api.Community]

	// pageStatus resolves the frontmost page to the binding whose
	// loading/error the status bar renders.
	pageStatus map[string]statusSource

	statusBar   *views.StatusBar
	loginView   *views.LoginView
	cycleList   *views.CycleList
	medList     *views.MedicationList
	chatList    *views.ChatList
	chatThread  *views.ChatThread
	composer    *views.Composer
	partnerView *views.PartnerView
	commList    *views.CommunityList
	postList    *views.PostList

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(ops *state.Ops, s *state.Store, profileName string) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:         tview.NewApplication(),
		pages:       tview.NewPages(),
		ops:         ops,
		store:       s,
		registry:    keys.NewRegistry(),
		flash:       &model.Flash{},
		statusBar:   views.NewStatusBar(),
		loginView:   views.NewLoginView(),
		cycleList:   views.NewCycleList(),
		medList:     views.NewMedicationList(),
		chatList:    views.NewChatList(),
		chatThread:  views.NewChatThread(),
		composer:    views.NewComposer(),
		partnerView: views.NewPartnerView(),
		commList:    views.NewCommunityList(),
		postList:    views.NewPostList(),
		ctx:         ctx,
		cancel:      cancel,
	}

	a.cyclesBind = ops.CyclesBinding()
	a.medsBind = ops.MedicationsBinding()
	a.chatsBind = ops.ChatSessionsBinding()
	a.partnerBind = ops.PartnerBinding()
	a.commBind = ops.CommunitiesBinding()
	a.pageStatus = map[string]statusSource{
		"cycles":      a.cyclesBind,
		"meds":        a.medsBind,
		"chats":       a.chatsBind,
		"chat":        a.chatsBind,
		"partner":     a.partnerBind,
		"communities": a.commBind,
		"posts":       a.commBind,
	}

	a.statusBar.SetProfile(profileName)
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})
	a.registry.AddGlobal("cycles", &keys.Action{
		Rune: 'c', Key: tcell.KeyRune,
		Description: "c:cycles", Visible: true,
		Handler: func() { a.showCycles() },
	})
	a.registry.AddGlobal("meds", &keys.Action{
		Rune: 'm', Key: tcell.KeyRune,
		Description: "m:meds", Visible: true,
		Handler: func() { a.showMedications() },
	})
	a.registry.AddGlobal("companion", &keys.Action{
		Rune: 't', Key: tcell.KeyRune,
		Description: "t:talk", Visible: true,
		Handler: func() { a.showChats() },
	})
	a.registry.AddGlobal("partner", &keys.Action{
		Rune: 'p', Key: tcell.KeyRune,
		Description: "p:partner", Visible: true,
		Handler: func() { a.showPartner() },
	})
	a.registry.AddGlobal("communities", &keys.Action{
		Rune: 'o', Key: tcell.KeyRune,
		Description: "o:communities", Visible: true,
		Handler: func() { a.showCommunities() },
	})
	a.registry.AddGlobal("logout", &keys.Action{
		Rune: 'Q', Key: tcell.KeyRune,
		Description: "Q:logout", Visible: false,
		Handler: func() { a.logout() },
	})

	a.registry.AddView("meds", "logdose", &keys.Action{
		Rune: 'l', Key: tcell.KeyRune,
		Description: "l:log dose", Visible: true,
		Handler: func() { a.logDose() },
	})
	a.registry.AddView("chats", "new", &keys.Action{
		Rune: 'n', Key: tcell.KeyRune,
		Description: "n:new", Visible: true,
		Handler: func() { a.newChatSession() },
	})
	a.registry.AddView("chats", "delete", &keys.Action{
		Rune: 'd', Key: tcell.KeyRune,
		Description: "d:delete", Visible: true,
		Handler: func() { a.deleteChatSession() },
	})
	a.registry.AddView("partner", "unlink", &keys.Action{
		Rune: 'u', Key: tcell.KeyRune,
		Description: "u:unlink", Visible: true,
		Handler: func() { a.unlinkPartner() },
	})
	a.registry.AddView("communities", "join", &keys.Action{
		Rune: 'j', Key: tcell.KeyRune,
		Description: "j:join", Visible: true,
		Handler: func() { a.joinCommunity() },
	})
	a.registry.AddView("communities", "leave", &keys.Action{
		Rune: 'v', Key: tcell.KeyRune,
		Description: "v:leave", Visible: true,
		Handler: func() { a.leaveCommunity() },
	})
}

func (a *App) setupCallbacks() {
	a.loginView.SetOnLogin(func(email, password string) {
		a.loginView.SetBusy(true)
		go func() {
			res := a.ops.Login(a.ctx, email, password)
			a.app.QueueUpdateDraw(func() {
				a.loginView.SetBusy(false)
				if !res.OK {
					a.loginView.ShowError(res.Err)
					return
				}
				a.enterMain()
			})
		}()
	})

	a.loginView.SetOnSignup(func(name, email, password string) {
		a.loginView.SetBusy(true)
		go func() {
			res := a.ops.Register(a.ctx, api.RegisterRequest{Name: name, Email: email, Password: password})
			a.app.QueueUpdateDraw(func() {
				a.loginView.SetBusy(false)
				if !res.OK {
					a.loginView.ShowError(res.Err)
					return
				}
				a.enterMain()
			})
		}()
	})

	a.chatList.SetSelectedFunc(func(row, col int) {
		id := a.chatList.SelectedSession()
		if id != "" {
			a.openChat(id)
		}
	})

	a.commList.SetSelectedFunc(func(row, col int) {
		id := a.commList.SelectedCommunity()
		if id != "" {
			a.openPosts(id)
		}
	})

	a.composer.SetOnSend(func(text string) {
		selected := a.store.SelectedChatSession()
		if selected == nil {
			return
		}
		id := selected.ID
		go func() {
			res := a.ops.SendMessage(a.ctx, id, text)
			if !res.OK {
				a.flash.Set("Send failed: "+res.Err, 5*time.Second)
			}
		}()
	})

	a.partnerView.SetOnInvite(func(email string) {
		go func() {
			res := a.ops.InvitePartner(a.ctx, email)
			if !res.OK {
				a.flash.Set("Invite failed: "+res.Err, 5*time.Second)
			}
		}()
	})
	a.partnerView.SetOnAccept(func(code string) {
		go func() {
			res := a.ops.AcceptPartnerInvite(a.ctx, code)
			if !res.OK {
				a.flash.Set("Accept failed: "+res.Err, 5*time.Second)
			}
		}()
	})

	a.postList.SetOnPost(func(content string) {
		communityID, _ := a.store.Posts()
		if communityID == "" {
			return
		}
		go func() {
			res := a.ops.CreatePost(a.ctx, communityID, content)
			if !res.OK {
				a.flash.Set("Post failed: "+res.Err, 5*time.Second)
			}
		}()
	})
}

func (a *App) setupLayout() {
	chatFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.chatThread, 0, 1, false).
		AddItem(a.composer, 1, 0, false)

	a.pages.AddPage("login", a.loginView, true, true)
	a.pages.AddPage("cycles", a.cycleList, true, false)
	a.pages.AddPage("meds", a.medList, true, false)
	a.pages.AddPage("chats", a.chatList, true, false)
	a.pages.AddPage("chat", chatFlex, true, false)
	a.pages.AddPage("partner", a.partnerView, true, false)
	a.pages.AddPage("communities", a.commList, true, false)
	a.pages.AddPage("posts", a.postList, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case "chat":
				a.showChats()
				return nil
			case "posts":
				a.showCommunities()
				return nil
			}
		}

		// Let text input widgets handle all keys normally.
		focused := a.app.GetFocus()
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}
		if _, ok := focused.(*tview.Button); ok {
			return event
		}
		if currentPage == "login" {
			return event
		}

		// 'i' focuses the composer on the conversation page.
		if currentPage == "chat" && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			a.app.SetFocus(a.composer.InputField)
			return nil
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}

		return event
	})
}

// Run starts the TUI application.
func (a *App) Run() error {
	a.startEventLoop()

	if a.store.Session().IsAuthenticated {
		a.enterMain()
	}

	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.cyclesBind.Close()
	a.medsBind.Close()
	a.chatsBind.Close()
	a.partnerBind.Close()
	a.commBind.Close()
	a.app.Stop()
}

// enterMain switches from the auth page to the cycle list and kicks
// off the initial loads.
func (a *App) enterMain() {
	a.showCycles()
	go func() {
		_ = a.ops.FetchCurrentCycle(a.ctx)
		_ = a.ops.LoadChatSessions(a.ctx, 1, 50)
	}()
}

func (a *App) showCycles() {
	a.pages.SwitchToPage("cycles")
	a.app.SetFocus(a.cycleList)
	go a.cyclesBind.Execute(a.ctx, state.ListPage{Page: 1, Limit: 50})
}

func (a *App) showMedications() {
	a.pages.SwitchToPage("meds")
	a.app.SetFocus(a.medList)
	go a.medsBind.Execute(a.ctx, state.ListPage{Page: 1, Limit: 50})
}

func (a *App) showChats() {
	a.pages.SwitchToPage("chats")
	a.app.SetFocus(a.chatList)
	go a.chatsBind.Execute(a.ctx, state.ListPage{Page: 1, Limit: 50})
}

func (a *App) showPartner() {
	a.pages.SwitchToPage("partner")
	a.app.SetFocus(a.partnerView.Input())
	go a.partnerBind.Execute(a.ctx, struct{}{})
}

func (a *App) showCommunities() {
	a.pages.SwitchToPage("communities")
	a.app.SetFocus(a.commList)
	go a.commBind.Execute(a.ctx, state.ListPage{Page: 1, Limit: 50})
}

func (a *App) openChat(id string) {
	go func() {
		res := a.ops.OpenChatSession(a.ctx, id)
		if !res.OK {
			a.flash.Set("Open failed: "+res.Err, 5*time.Second)
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.pages.SwitchToPage("chat")
			a.app.SetFocus(a.composer.InputField)
			a.refresh()
		})
	}()
}

func (a *App) openPosts(id string) {
	name := a.commList.SelectedCommunityName()
	go func() {
		res := a.ops.LoadPosts(a.ctx, id, 1, 50)
		if !res.OK {
			a.flash.Set("Load failed: "+res.Err, 5*time.Second)
			return
		}
		a.app.QueueUpdateDraw(func() {
			_, posts := a.store.Posts()
			a.postList.Update(name, posts.Items)
			a.pages.SwitchToPage("posts")
			a.app.SetFocus(a.postList.Input())
		})
	}()
}

func (a *App) newChatSession() {
	go func() {
		res := a.ops.CreateChatSession(a.ctx, "")
		if !res.OK {
			a.flash.Set("Create failed: "+res.Err, 5*time.Second)
		}
	}()
}

func (a *App) deleteChatSession() {
	id := a.chatList.SelectedSession()
	if id == "" {
		return
	}
	go func() {
		res := a.ops.DeleteChatSession(a.ctx, id)
		if !res.OK {
			a.flash.Set("Delete failed: "+res.Err, 5*time.Second)
		}
	}()
}

func (a *App) logDose() {
	id := a.medList.SelectedMedication()
	if id == "" {
		return
	}
	go func() {
		res := a.ops.LogDose(a.ctx, id)
		if res.OK {
			a.flash.Set("Dose logged", 3*time.Second)
		} else {
			a.flash.Set("Log failed: "+res.Err, 5*time.Second)
		}
	}()
}

func (a *App) unlinkPartner() {
	go func() {
		res := a.ops.UnlinkPartner(a.ctx)
		if !res.OK {
			a.flash.Set("Unlink failed: "+res.Err, 5*time.Second)
		}
	}()
}

func (a *App) joinCommunity() {
	id := a.commList.SelectedCommunity()
	if id == "" {
		return
	}
	go func() {
		res := a.ops.JoinCommunity(a.ctx, id)
		if !res.OK {
			a.flash.Set("Join failed: "+res.Err, 5*time.Second)
		}
	}()
}

func (a *App) leaveCommunity() {
	id := a.commList.SelectedCommunity()
	if id == "" {
		return
	}
	go func() {
		res := a.ops.LeaveCommunity(a.ctx, id)
		if !res.OK {
			a.flash.Set("Leave failed: "+res.Err, 5*time.Second)
		}
	}()
}

func (a *App) logout() {
	go func() {
		a.ops.Logout(a.ctx)
		a.app.QueueUpdateDraw(func() {
			a.pages.SwitchToPage("login")
			a.app.SetFocus(a.loginView.Form())
		})
	}()
}

// startEventLoop redraws the frontmost page whenever a binding signals
// a status or domain change. Binding signals replace polling: the UI
// only repaints when something actually changed, plus a slow tick for
// the clock and flash expiry.
func (a *App) startEventLoop() {
	redraw := make(chan struct{}, 1)
	forward := func(ch <-chan struct{}) {
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-ch:
				select {
				case redraw <- struct{}{}:
				default:
				}
			}
		}
	}
	for _, b := range []changeSource{a.cyclesBind, a.medsBind, a.chatsBind, a.partnerBind, a.commBind} {
		go forward(b.Changes())
	}

	ticker := time.NewTicker(10 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-redraw:
			case <-ticker.C:
			}
			a.app.QueueUpdateDraw(a.refresh)
		}
	}()
}

// refresh rerenders the frontmost page from the store. Must run on the
// UI goroutine.
func (a *App) refresh() {
	currentPage, _ := a.pages.GetFrontPage()

	if src, ok := a.pageStatus[currentPage]; ok {
		a.statusBar.SetRequestStatus(src.Loading(), src.Err())
	}
	a.statusBar.SetFlash(a.flash.Get())

	switch currentPage {
	case "cycles":
		col := a.store.Cycles()
		a.cycleList.Update(col.Items, col.Total, a.store.CurrentCycle())
	case "meds":
		col := a.store.Medications()
		a.medList.Update(col.Items, col.Total)
	case "chats":
		col := a.store.ChatSessions()
		a.chatList.Update(col.Items, col.Total)
	case "chat":
		selected := a.store.SelectedChatSession()
		typing := false
		if selected != nil {
			typing = a.store.IsTyping(selected.ID)
		}
		a.chatThread.Update(selected, typing)
	case "partner":
		a.partnerView.Update(a.store.PartnerLink())
	case "communities":
		col := a.store.Communities()
		a.commList.Update(col.Items, col.Total)
	case "posts":
		_, posts := a.store.Posts()
		name := ""
		if c := a.store.SelectedCommunity(); c != nil {
			name = c.Name
		}
		a.postList.Update(name, posts.Items)
	}
}
