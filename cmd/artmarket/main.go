// Package main реализует консольный клиент арт-маркетплейса.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mmeshcher/artmarket-system/internal/admin"
	"github.com/mmeshcher/artmarket-system/internal/api"
	"github.com/mmeshcher/artmarket-system/internal/cart"
	"github.com/mmeshcher/artmarket-system/internal/catalog"
	"github.com/mmeshcher/artmarket-system/internal/checkout"
	"github.com/mmeshcher/artmarket-system/internal/config"
	"github.com/mmeshcher/artmarket-system/internal/guard"
	"github.com/mmeshcher/artmarket-system/internal/session"
)

var Version = "dev"

// app связывает все сервисы клиента: сессию, guard, корзину и API.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	session  *session.Store
	client   *api.Client
	guard    *guard.Guard
	cart     *cart.Coordinator
	checkout *checkout.Service
	catalog  *catalog.Service
	admin    *admin.Service
}

// newApp собирает клиент и восстанавливает сохранённую сессию.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if os.Getenv("ARTMARKET_DEBUG") != "" {
		logger, _ = zap.NewDevelopment()
	}

	sess := session.NewStore(cfg.TokenFile, logger)
	client := api.NewClient(cfg.APIAddress, sess)
	sess.Bind(client)

	g := guard.New(sess)
	coordinator := cart.NewCoordinator(client, sess, logger)
	coordinator.Bind()

	a := &app{
		cfg:      cfg,
		logger:   logger,
		session:  sess,
		client:   client,
		guard:    g,
		cart:     coordinator,
		checkout: checkout.NewService(client, coordinator, g, logger),
		catalog:  catalog.NewService(client, logger),
		admin:    admin.NewService(client, g, logger),
	}

	if err := sess.Init(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if a.session.IsAuthenticated() {
		if err := coordinator.Load(ctx); err != nil {
			logger.Warn("load cart", zap.Error(err))
		}
	}

	return a, nil
}

func (a *app) close() {
	a.session.Close()
	_ = a.logger.Sync()
}

// errText возвращает текст ошибки для пользователя: серверное сообщение,
// когда оно есть, иначе общий текст.
func errText(err error) string {
	if msg := api.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}

// denied печатает перенаправление, которое выдал guard, и сообщает,
// можно ли продолжать.
func denied(d guard.Decision) bool {
	switch d.Kind {
	case guard.DecisionAllow:
		return false
	case guard.DecisionPending:
		fmt.Println("session is still being restored, try again")
	default:
		fmt.Printf("redirect to %s\n", d.Target)
	}
	return true
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "artmarket",
		Short:   "Artmarket - console client for the art marketplace",
		Version: Version,
	}

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())

	rootCmd.AddCommand(productsCmd())
	rootCmd.AddCommand(productCmd())
	rootCmd.AddCommand(artistsCmd())
	rootCmd.AddCommand(artistCmd())
	rootCmd.AddCommand(categoriesCmd())

	rootCmd.AddCommand(cartCmd())
	rootCmd.AddCommand(checkoutCmd())

	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(orderCmd())
	rootCmd.AddCommand(cancelCmd())

	rootCmd.AddCommand(adminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
