// Command feedctl is a terminal front end for the socialfeed API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"socialfeed/internal/client"
	"socialfeed/internal/client/localstore"
	"socialfeed/internal/client/notify"
	"socialfeed/internal/config"
	"socialfeed/internal/logger"

	"github.com/spf13/pflag"
)

const usage = `usage: feedctl <command> [flags] [args]

commands:
  login, register, logout, whoami
  users, posts, post, user-posts, feed, watch
  new-post, delete-post
  like, unlike, liked, comment, comments
  follow, unfollow, following
  profile, avatar, banner, delete-account, sort
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	toast := notify.New(
		notify.WithLogger(log),
		notify.WithSink(func(msg string) { fmt.Fprintln(os.Stderr, msg) }),
	)

	store, err := localstore.OpenSQLite(cfg.StatePath)
	if err != nil {
		toast.ShowError(err)
		return 1
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(cfg.APIURL, store,
		client.WithLogger(log),
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		client.WithNavigator(client.NavigatorFunc(func(path string) {
			log.Debugw("navigate", "path", path)
		})),
	)

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	a := &app{api: api, cfg: cfg, log: log, out: os.Stdout}
	if cmd.needsSession {
		if err := api.AuthenticateByStorage(ctx); err != nil {
			if errors.Is(err, client.ErrNoStoredSession) {
				err = errors.New("not logged in: run feedctl login")
			}
			toast.ShowError(err)
			return 1
		}
	}

	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	if err := cmd.run(ctx, a, fs, args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		toast.ShowError(err)
		return 1
	}
	return 0
}
