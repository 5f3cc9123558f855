// Package app wires the intake conversation, the admin review and the journal into the bot runtime.
package app

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/tking/ebookbot/core/bootstrap"
	"github.com/tking/ebookbot/core/logger"
	coretelegram "github.com/tking/ebookbot/core/telegram"
	"github.com/tking/ebookbot/core/telegram/commands"
	"github.com/tking/ebookbot/core/telegram/router"
	"github.com/tking/ebookbot/core/telegram/state"
	"github.com/tking/ebookbot/internal/intake"
	"github.com/tking/ebookbot/internal/journal"
	"github.com/tking/ebookbot/internal/order"
	"github.com/tking/ebookbot/internal/review"
	"github.com/tking/ebookbot/internal/transport"
)

// App owns the process-wide pending-request store and session manager.
type App struct {
	cfg     *Config
	infra   *bootstrap.Result
	journal journal.Journal

	store    *order.MemoryStore
	sessions state.Manager

	tr           transport.Transport
	conversation *intake.Conversation
	decider      *review.Decider
}

// New creates the application. infra may be nil when no database is configured.
func New(cfg *Config, infra *bootstrap.Result) *App {
	a := &App{
		cfg:      cfg,
		infra:    infra,
		journal:  journal.Noop{},
		store:    order.NewMemoryStore(),
		sessions: state.NewMemoryManager(),
	}
	if infra != nil && infra.DB != nil {
		a.journal = journal.NewRepository(infra.DB)
	}
	return a
}

// Close releases infrastructure opened during bootstrap.
func (a *App) Close() error {
	return a.infra.Close()
}

// TelegramRunOptions builds the bot and everything routed through it.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	bot, err := coretelegram.NewBot(a.cfg.CoreConfig())
	if err != nil {
		return coretelegram.RunOptions{}, err
	}
	return a.runOptions(bot, transport.NewTelebot(bot))
}

func (a *App) runOptions(bot *tele.Bot, tr transport.Transport) (coretelegram.RunOptions, error) {
	adminChatID := a.cfg.Telegram.AdminID

	a.tr = tr
	a.conversation = intake.New(intake.Options{
		Store:       a.store,
		Sessions:    a.sessions,
		Transport:   tr,
		Dispatcher:  review.NewDispatcher(tr, adminChatID),
		SupportLink: a.cfg.Review.SupportLink,
	})
	a.conversation.Register(a.sessions)
	a.decider = review.NewDecider(review.DeciderOptions{
		Store:       a.store,
		Transport:   tr,
		Journal:     a.journal,
		AdminChatID: adminChatID,
		SupportLink: a.cfg.Review.SupportLink,
		AccessLink:  a.cfg.Review.AccessLink,
	})

	reg, err := a.registry()
	if err != nil {
		return coretelegram.RunOptions{}, err
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminChatID: adminChatID})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{AdminChatID: adminChatID}))
	routes = append(routes, router.MessageRoutes(a.sessions, reg, router.MessageOptions{})...)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Bot:         bot,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			logger.Info(ctx, "app", "wire.summary",
				slog.String("status", "ok"),
				slog.Int("commands", len(rt.Registry.Commands())),
				slog.Bool("journal", a.journal.Enabled()),
			)
			return nil
		},
		OnStop: func(ctx context.Context, _ coretelegram.Runtime) error {
			// pending requests are not persisted and are lost here
			logger.Info(ctx, "app", "pending.dropped",
				slog.String("status", "ok"),
				slog.Int("pending_count", a.store.Len()),
				slog.Int("sessions", a.sessions.Len()),
			)
			return nil
		},
	}, nil
}

func (a *App) registry() (*coretelegram.Registry, error) {
	reg := coretelegram.NewRegistry()
	cmds := []struct {
		name string
		cmd  commands.Command
	}{
		{"/start", commands.Command{Handler: a.conversation.Start, Description: "Request ebook access"}},
		{"/cancel", commands.Command{Handler: a.conversation.Cancel, Description: "Cancel the current request"}},
		{"/myid", commands.Command{Handler: a.myID, Description: "Show your chat ID"}},
		{"/pending", commands.Command{Handler: a.pending, Description: "List pending requests", AdminOnly: true, Hidden: true}},
		{"/history", commands.Command{Handler: a.history, Description: "Show recent decisions", AdminOnly: true, Hidden: true}},
	}
	for _, c := range cmds {
		if err := reg.RegisterCommand(c.name, c.cmd); err != nil {
			return nil, err
		}
	}
	for _, action := range review.Actions {
		if err := reg.RegisterCallback(string(action), a.decider.HandleCallback); err != nil {
			return nil, err
		}
	}
	reg.SetFallback(a.fallback)
	return reg, nil
}
