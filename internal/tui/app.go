// Package tui is the terminal user interface shell.
package tui

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/wolfpackhq/wolfpack/internal/bus"
	"github.com/wolfpackhq/wolfpack/internal/conversation"
	"github.com/wolfpackhq/wolfpack/internal/invite"
	"github.com/wolfpackhq/wolfpack/internal/platform/auth"
	"github.com/wolfpackhq/wolfpack/internal/platform/docstore"
	"github.com/wolfpackhq/wolfpack/internal/roles"
	"github.com/wolfpackhq/wolfpack/internal/roster"
	"github.com/wolfpackhq/wolfpack/internal/session"
	"github.com/wolfpackhq/wolfpack/internal/tui/keys"
	"github.com/wolfpackhq/wolfpack/internal/tui/model"
	"github.com/wolfpackhq/wolfpack/internal/tui/ui"
	"github.com/wolfpackhq/wolfpack/internal/tui/views"
	"github.com/wolfpackhq/wolfpack/internal/upload"
)

const flashDuration = 5 * time.Second

// Page names.
const (
	pageSplash = "splash"
	pageLogin  = "login"
	pageSignup = "signup"
	pageInvite = "invite"
	pageGroups = "groups"
	pageChat   = "chat"
	pageAttach = "attach"
)

// App is the main TUI application shell. All state mutation happens on the
// tview event loop via QueueUpdateDraw; background goroutines only feed it.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	registry *keys.Registry
	flash    *model.Flash
	theme    *ui.Theme

	manager   *session.Manager
	gate      *session.Gate
	directory *roster.Directory
	uploader  *upload.Uploader
	invites   *invite.Client
	roles     *roles.Resolver
	docs      docstore.Client
	bus       *bus.Bus
	logger    *zap.Logger

	splash    *views.Splash
	login     *views.Login
	signup    *views.Signup
	inviteV   *views.Invite
	groupList *views.GroupList
	thread    *views.MessageThread
	composer  *views.Composer
	attach    *views.AttachPrompt
	statusBar *views.StatusBar

	splashFor time.Duration
	ready     bool // splash finished, gate changes route immediately

	conv        *conversation.Conversation
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
}

// Config is the App's construction dependencies.
type Config struct {
	Manager     *session.Manager
	Gate        *session.Gate
	Directory   *roster.Directory
	Uploader    *upload.Uploader
	Invites     *invite.Client
	Roles       *roles.Resolver
	Docs        docstore.Client
	Bus         *bus.Bus
	Logger      *zap.Logger
	SplashDelay time.Duration
}

// NewApp creates the TUI application.
func NewApp(cfg Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		registry:  keys.NewRegistry(),
		flash:     &model.Flash{},
		theme:     theme,
		manager:   cfg.Manager,
		gate:      cfg.Gate,
		directory: cfg.Directory,
		uploader:  cfg.Uploader,
		invites:   cfg.Invites,
		roles:     cfg.Roles,
		docs:      cfg.Docs,
		bus:       cfg.Bus,
		logger:    cfg.Logger,
		splashFor: cfg.SplashDelay,
		statusBar: views.NewStatusBar(),
	}

	a.splash = views.NewSplash(theme)
	a.login = views.NewLogin(theme,
		func() { a.showPage(pageSignup, a.signup) },
		func() { a.showPage(pageInvite, a.inviteV) })
	a.signup = views.NewSignup(theme, func() { a.showPage(pageLogin, a.login) })
	a.inviteV = views.NewInvite(theme, func() { a.showPage(pageLogin, a.login) })
	a.groupList = views.NewGroupList(theme)
	a.thread = views.NewMessageThread(theme)
	a.composer = views.NewComposer()
	a.attach = views.NewAttachPrompt(theme)

	a.ctx = ctx
	a.cancel = cancel

	a.setupCallbacks()
	a.setupBindings()
	a.setupLayout()
	return a
}

func (a *App) setupCallbacks() {
	a.login.SetOnSubmit(func(email, password string) {
		go func() {
			if err := a.manager.SignIn(a.ctx, email, password); err != nil {
				a.flashAuthError(err)
			}
		}()
	})

	a.signup.SetOnSubmit(func(email, password, code string) {
		go func() {
			err := a.manager.SignUp(a.ctx, email, password, code)
			if errors.Is(err, session.ErrInvalidCode) {
				a.setFlash("That invitation code isn't valid.")
				return
			}
			if err != nil {
				a.flashAuthError(err)
			}
		}()
	})

	a.inviteV.SetOnSubmit(func(token, password string) {
		go func() {
			if err := a.invites.Accept(a.ctx, token, password); err != nil {
				a.logger.Warn("invite acceptance failed", zap.Error(err))
				a.setFlash("Couldn't accept the invitation. Please try again.")
				return
			}
			a.app.QueueUpdateDraw(func() {
				a.inviteV.Reset()
				a.showPage(pageLogin, a.login)
				a.flash.Set("Invitation accepted. Sign in with your new password.", flashDuration)
				a.statusBar.SetFlash(a.flash.Get())
			})
		}()
	})

	a.groupList.SetSelectedFunc(func(row, col int) {
		if g, ok := a.groupList.Selected(); ok {
			a.openGroup(g)
		}
	})

	a.composer.SetOnSend(func(text string) {
		conv := a.conv
		if conv == nil {
			return
		}
		go func() {
			if err := conv.Send(a.ctx, text, ""); err != nil {
				a.setFlash("Send failed: " + err.Error())
				return
			}
			// Clear the draft only once the write is confirmed.
			a.app.QueueUpdateDraw(func() { a.composer.SetText("") })
		}()
	})

	a.attach.SetOnSubmit(func(path string) { a.sendAttachment(path) })
	a.attach.SetOnCancel(func() {
		a.pages.HidePage(pageAttach)
		a.app.SetFocus(a.thread)
	})
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})
	a.registry.AddPage(pageGroups, "signout", &keys.Action{
		Rune: 'x', Key: tcell.KeyRune,
		Description: "x:sign out", Visible: true,
		Handler: func() {
			go func() {
				if err := a.manager.SignOut(a.ctx); err != nil {
					a.setFlash("Sign out failed: " + err.Error())
				}
			}()
		},
	})
	a.registry.AddPage(pageChat, "attach", &keys.Action{
		Rune: 'a', Key: tcell.KeyRune,
		Description: "a:attach image", Visible: true,
		Handler: func() {
			a.attach.Reset()
			a.pages.ShowPage(pageAttach)
			a.app.SetFocus(a.attach)
		},
	})
}

func (a *App) setupLayout() {
	chatFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.thread, 0, 1, false).
		AddItem(a.composer, 1, 0, false)

	attachFlex := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(a.attach, 3, 0, true).
			AddItem(nil, 0, 1, false), 60, 0, true).
		AddItem(nil, 0, 1, false)

	a.pages.AddPage(pageSplash, a.splash, true, true)
	a.pages.AddPage(pageLogin, a.login, true, false)
	a.pages.AddPage(pageSignup, a.signup, true, false)
	a.pages.AddPage(pageInvite, a.inviteV, true, false)
	a.pages.AddPage(pageGroups, a.groupList, true, false)
	a.pages.AddPage(pageChat, chatFlex, true, false)
	a.pages.AddPage(pageAttach, attachFlex, true, false)
	a.pages.HidePage(pageAttach)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape && currentPage == pageChat {
			a.closeGroup()
			return nil
		}

		// Form pages and text inputs get all keys; a 'q' typed into the
		// email field must not quit the application.
		switch currentPage {
		case pageLogin, pageSignup, pageInvite:
			return event
		}
		focused := a.app.GetFocus()
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}

		// 'i' focuses the composer (only when not already in an input field).
		if currentPage == pageChat && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			a.app.SetFocus(a.composer.InputField)
			return nil
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}
		return event
	})
}

// Run starts the TUI. The splash screen shows for the configured delay, then
// the gate's current state picks the first real page.
func (a *App) Run() error {
	ch, unsubscribe := a.bus.Subscribe("", 64)
	a.unsubscribe = unsubscribe
	go a.consumeEvents(ch)

	time.AfterFunc(a.splashFor, func() {
		a.app.QueueUpdateDraw(func() {
			a.ready = true
			a.route(a.gate.Current())
		})
	})

	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.app.Stop()
}

// consumeEvents applies bus events to the UI. Runs off the event loop; every
// mutation goes through QueueUpdateDraw.
func (a *App) consumeEvents(ch <-chan bus.Event) {
	for {
		select {
		case <-a.ctx.Done():
			return
		case evt := <-ch:
			a.handleEvent(evt)
		}
	}
}

func (a *App) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.KindSessionStateChanged:
		change, ok := evt.Payload.(session.StateChange)
		if !ok {
			return
		}
		a.app.QueueUpdateDraw(func() {
			if a.ready {
				a.route(change.To)
			}
		})
	case bus.KindRosterUpdated:
		groups, ok := evt.Payload.([]roster.Group)
		if !ok {
			return
		}
		a.app.QueueUpdateDraw(func() { a.groupList.Update(groups) })
	case bus.KindRosterError:
		a.setFlash("Couldn't refresh your groups. Showing the last known list.")
	case bus.KindConversationSnapshot:
		msgs, ok := evt.Payload.([]conversation.ViewMessage)
		if !ok {
			return
		}
		a.app.QueueUpdateDraw(func() {
			if page, _ := a.pages.GetFrontPage(); page == pageChat {
				a.thread.Update(msgs)
			}
		})
	case bus.KindConversationError:
		a.setFlash("Couldn't refresh messages. Showing the last known timeline.")
	}
}

// route switches the front page to match the gate state.
func (a *App) route(state session.State) {
	switch state {
	case session.SignedIn:
		a.onSignedIn()
	case session.SignedOut:
		a.onSignedOut()
	}
}

func (a *App) onSignedIn() {
	sess := a.manager.Current()
	if sess == nil {
		return
	}
	a.statusBar.SetIdentity(sess.Email, "")
	a.statusBar.SetState(string(session.SignedIn))
	a.showPage(pageGroups, a.groupList)

	go func() {
		if err := a.directory.Start(a.ctx, sess.UID); err != nil {
			a.logger.Error("group directory start failed", zap.Error(err))
			a.setFlash("Couldn't load your groups.")
		}
		role, err := a.roles.Role(a.ctx, sess.UID)
		if err != nil {
			a.logger.Warn("role lookup failed", zap.Error(err))
			return
		}
		a.app.QueueUpdateDraw(func() { a.statusBar.SetIdentity(sess.Email, role) })
	}()
}

func (a *App) onSignedOut() {
	if a.conv != nil {
		a.conv.Close()
		a.conv = nil
	}
	a.directory.Stop()
	a.groupList.Update(nil)
	a.thread.Update(nil)
	a.statusBar.SetIdentity("", "")
	a.statusBar.SetState(string(session.SignedOut))
	a.login.Reset()
	a.showPage(pageLogin, a.login)
}

// openGroup opens the conversation for g and switches to the chat page.
func (a *App) openGroup(g roster.Group) {
	sess := a.manager.Current()
	if sess == nil {
		return
	}

	conv := conversation.New(a.docs, a.bus, a.logger, sess.UID)
	go func() {
		if err := conv.Open(a.ctx, g.ID); err != nil {
			a.logger.Error("open conversation failed", zap.String("group", g.ID), zap.Error(err))
			a.setFlash("Couldn't open " + g.Name + ".")
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.conv = conv
			a.thread.SetGroupName(g.Name)
			// The initial snapshot may have landed before the page switch;
			// render whatever the conversation already holds.
			a.thread.Update(conv.Messages())
			a.composer.SetText("")
			a.showPage(pageChat, a.thread)
		})
	}()
}

// closeGroup releases the open conversation and returns to the directory.
func (a *App) closeGroup() {
	if a.conv != nil {
		a.conv.Close()
		a.conv = nil
	}
	a.showPage(pageGroups, a.groupList)
}

// sendAttachment uploads the image at path and sends it as a message.
func (a *App) sendAttachment(path string) {
	conv := a.conv
	if conv == nil {
		return
	}
	a.pages.HidePage(pageAttach)
	a.app.SetFocus(a.thread)

	go func() {
		f, err := os.Open(path)
		if err != nil {
			a.setFlash("Couldn't read " + path + ".")
			return
		}
		defer func() { _ = f.Close() }()

		url, err := a.uploader.Upload(a.ctx, f)
		if err != nil {
			a.logger.Warn("attachment upload failed", zap.Error(err))
			a.setFlash("Image upload failed. Nothing was sent.")
			return
		}
		if err := conv.Send(a.ctx, "", url); err != nil {
			a.setFlash("Send failed: " + err.Error())
		}
	}()
}

func (a *App) showPage(name string, focus tview.Primitive) {
	a.pages.SwitchToPage(name)
	a.app.SetFocus(focus)
}

// setFlash sets a flash message from any goroutine.
func (a *App) setFlash(msg string) {
	a.flash.Set(msg, flashDuration)
	a.app.QueueUpdateDraw(func() { a.statusBar.SetFlash(a.flash.Get()) })
}

func (a *App) flashAuthError(err error) {
	var ae *auth.Error
	if errors.As(err, &ae) {
		a.setFlash(ae.UserMessage())
		return
	}
	a.setFlash("Something went wrong. Please try again.")
}
