package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	goversion "github.com/caarlos0/go-version"
	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/common/logger"
	commonredis "github.com/jeerawut3427/personal-system/common/redis"
	"github.com/jeerawut3427/personal-system/internal/app"
	"github.com/jeerawut3427/personal-system/internal/config"
	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/session"
	"github.com/jeerawut3427/personal-system/internal/store"
	"github.com/jeerawut3427/personal-system/internal/transport"
	"github.com/jeerawut3427/personal-system/internal/view"
)

var (
	version   = "0.1.0"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""

	envFile     = flag.String("env", ".env", "Path to a .env file")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(buildVersion().String())
		return
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load(*envFile)

	var (
		log *zap.Logger
		err error
	)
	if cfg.Log.File != "" {
		log, err = logger.NewFileLogger(cfg.Log.File, cfg.Log.Level, "personal-system")
	} else {
		log, err = logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "personal-system")
	}
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kv, closeKV, err := openSessionKV(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeKV()
	sessions := session.NewStore(kv)

	var rejected atomic.Bool
	client := transport.NewClient(cfg.API.BaseURL, cfg.API.Path, sessions, log,
		transport.WithTimeout(cfg.API.Timeout),
		transport.WithUnauthorizedHandler(func() { rejected.Store(true) }),
	)

	out := os.Stdout
	in := bufio.NewScanner(os.Stdin)
	notify := &console{w: out}

	for ctx.Err() == nil {
		rejected.Store(false)
		a, err := app.New(ctx, app.Deps{
			Client:      client,
			Sessions:    sessions,
			Notifier:    notify,
			Out:         out,
			Logger:      log,
			ExportDir:   cfg.ExportDir,
			PageSize:    cfg.PageSize,
			IdleTimeout: cfg.InactivityTimeout,
			LogoutGrace: cfg.LogoutGrace,
			OnLogout:    func() { fmt.Fprintln(out, "ออกจากระบบแล้ว") },
		})
		if errors.Is(err, app.ErrNotLoggedIn) {
			if !login(ctx, in, out, client) {
				return nil
			}
			continue
		}
		if err != nil {
			return err
		}

		quit := repl(ctx, a, in, out, &rejected)
		_ = a.Logout(context.Background())
		if quit {
			return nil
		}
	}
	return nil
}

func openSessionKV(ctx context.Context, cfg *config.Config) (store.KV, func(), error) {
	if cfg.Session.Backend != "redis" {
		return store.NewFileKV(cfg.Session.File), func() {}, nil
	}
	rc, err := commonredis.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return store.NewRedisKV(rc, cfg.Session.RedisPrefix), func() { _ = rc.Close() }, nil
}

// login prompts until a login succeeds. It returns false at end of input.
func login(ctx context.Context, in *bufio.Scanner, out io.Writer, client *transport.Client) bool {
	for ctx.Err() == nil {
		fmt.Fprint(out, "Username: ")
		if !in.Scan() {
			return false
		}
		username := strings.TrimSpace(in.Text())
		fmt.Fprint(out, "Password: ")
		if !in.Scan() {
			return false
		}
		password := in.Text()
		if username == "" || password == "" {
			fmt.Fprintln(out, "กรุณากรอก Username และ Password")
			continue
		}
		if _, err := client.Login(ctx, username, password); err != nil {
			fmt.Fprintln(out, err.Error())
			continue
		}
		return true
	}
	return false
}

func repl(ctx context.Context, a *app.App, in *bufio.Scanner, out io.Writer, rejected *atomic.Bool) (quit bool) {
	viewer := a.Viewer()
	fmt.Fprintln(out, view.Welcome(viewer))
	printTabs(out, viewer)
	_ = a.Reload(ctx)

	for {
		if a.LoggedOut() || rejected.Load() {
			return false
		}
		fmt.Fprintf(out, "%s> ", a.Current().Tab())
		if !in.Scan() {
			return true
		}
		a.Touch()
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		switch cmd, args := splitCommand(line); cmd {
		case "quit", "exit":
			return true
		case "logout":
			_ = a.Logout(ctx)
			return false
		default:
			// everything else was already shown as a notice
			err := dispatch(ctx, a, out, cmd, args)
			if errors.Is(err, errUsage) || errors.Is(err, app.ErrPaneNotAllowed) || errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(out, err.Error())
			}
		}
	}
}

func printTabs(w io.Writer, viewer domain.User) {
	for _, t := range view.Tabs(viewer) {
		fmt.Fprintf(w, "  %-16s %s\n", t.Pane.Tab(), t.Label)
	}
}

// console prints notices on the terminal.
type console struct {
	w io.Writer
}

func (c *console) Success(msg string) { fmt.Fprintln(c.w, "[สำเร็จ] "+msg) }
func (c *console) Failure(msg string) { fmt.Fprintln(c.w, "[ผิดพลาด] "+msg) }

func buildVersion() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("personal-system", "Personnel status reporting client", ""),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
