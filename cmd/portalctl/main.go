// Command portalctl drives the payment portal from a terminal: it signs in
// against the payments API, shows the dashboard, uploads proofs and performs
// the return redirect once the subscription is active.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/payportal/internal/portal/service"
	"github.com/aussiebroadwan/payportal/internal/portal/store/drivers/memory"
	"github.com/aussiebroadwan/payportal/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/payportal/pkg/portalsdk"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

const usage = `usage: portalctl [flags] <command> [command flags]

commands:
  login      -email E [-password P]   sign in (password also read from PORTAL_PASSWORD)
  register   -email E [-password P]   create an account and sign in
  logout                              forget the stored session
  dashboard  [-pay P -amount A] [-return URL]
                                      show the dashboard; waits for the return redirect
  submit     -file F [-product P -amount A] [-pay P -amount A]
                                      upload a proof of payment

flags:
`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type options struct {
	apiURL    string
	stateFile string
	locale    string
	delay     time.Duration
	verbose   bool
}

func run(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("portalctl", flag.ContinueOnError)
	flags.SetOutput(out)
	flags.Usage = func() {
		fmt.Fprint(flags.Output(), usage)
		flags.PrintDefaults()
	}

	var opts options
	flags.StringVar(&opts.apiURL, "api", os.Getenv("PORTAL_API_URL"), "payments API base URL")
	flags.StringVar(&opts.stateFile, "state", defaultStateFile(), "file holding the session")
	flags.StringVar(&opts.locale, "locale", envOr("PORTAL_LOCALE", service.DefaultLocale), "message language (es, en)")
	flags.DurationVar(&opts.delay, "redirect-delay", service.DefaultRedirectDelay, "delay before the return redirect")
	flags.BoolVar(&opts.verbose, "v", false, "log to stderr")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("missing command")
	}
	if opts.apiURL == "" {
		return errors.New("-api or PORTAL_API_URL is required")
	}

	c, err := newCLI(opts, out)
	if err != nil {
		return err
	}
	defer c.close()

	cmd, rest := flags.Arg(0), flags.Args()[1:]
	switch cmd {
	case "login":
		return c.login(ctx, rest, false)
	case "register":
		return c.login(ctx, rest, true)
	case "logout":
		return c.logout(ctx)
	case "dashboard":
		return c.dashboard(ctx, rest)
	case "submit":
		return c.submit(ctx, rest)
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

type cli struct {
	out     io.Writer
	env     *terminalEnv
	portal  *service.Portal
	session *service.SessionStore
	closeFn func() error
}

func newCLI(opts options, w io.Writer) (*cli, error) {
	out := &syncWriter{w: w}

	if err := os.MkdirAll(filepath.Dir(opts.stateFile), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	durable, err := sqlite.NewStore(fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", opts.stateFile))
	if err != nil {
		return nil, fmt.Errorf("open state file: %w", err)
	}
	if err := durable.ApplyMigrations(); err != nil {
		_ = durable.Close()
		return nil, fmt.Errorf("migrate state file: %w", err)
	}

	logger := slogx.Discard()
	if opts.verbose {
		logger = slogx.New(slogx.Config{Service: "portalctl", Level: "debug", Format: "text", Output: os.Stderr})
	}

	env := newTerminalEnv(durable, memory.NewStore(time.Now), out)
	portal := service.New(service.Config{
		API:           service.SDKAPI{Client: portalsdk.NewSDKClient(opts.apiURL)},
		Messages:      service.MessagesFor(opts.locale),
		Logger:        logger,
		RedirectDelay: opts.delay,
	})

	return &cli{
		out:     out,
		env:     env,
		portal:  portal,
		session: portal.Session(env),
		closeFn: durable.Close,
	}, nil
}

func (c *cli) close() { _ = c.closeFn() }

func defaultStateFile() string {
	if v := os.Getenv("PORTALCTL_STATE"); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "portalctl.db"
	}
	return filepath.Join(dir, "payportal", "portalctl.db")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
