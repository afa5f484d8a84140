package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/naveenspark/storefront/internal/config"
	"github.com/naveenspark/storefront/internal/logging"
	"github.com/naveenspark/storefront/internal/session"
	"github.com/naveenspark/storefront/internal/tui"
	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Println("storefront " + version)
			return nil
		case "help", "--help", "-h":
			printHelp(os.Stdout)
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	app, err := newCLI(cfg, log, os.Stdin, os.Stdout, os.Getenv)
	if err != nil {
		return err
	}
	defer app.close()

	if len(args) == 0 {
		return app.runTUI()
	}
	return app.dispatch(args)
}

// cli wires config, store, transport and session for one process.
type cli struct {
	cfg     config.Config
	log     *zap.Logger
	client  *client.Client
	session *session.Controller
	closer  io.Closer
	in      *bufio.Reader
	out     io.Writer
	getenv  func(string) string
}

func newCLI(cfg config.Config, log *zap.Logger, in io.Reader, out io.Writer, getenv func(string) string) (*cli, error) {
	store, closer, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	c := client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout), client.WithLogger(log))
	sc := session.NewController(store, c, session.WithLogger(log))
	return &cli{
		cfg:     cfg,
		log:     log,
		client:  c,
		session: sc,
		closer:  closer,
		in:      bufio.NewReader(in),
		out:     out,
		getenv:  getenv,
	}, nil
}

func openStore(cfg config.Config) (session.Store, io.Closer, error) {
	if cfg.Store != config.StoreSQLite {
		return session.NewFileStore(cfg.Home), nil, nil
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", cfg.Home, err)
	}
	s, err := session.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open session db: %w", err)
	}
	return s, s, nil
}

func (c *cli) close() {
	if c.closer != nil {
		c.closer.Close() //nolint:errcheck
	}
}

func (c *cli) dispatch(args []string) error {
	switch args[0] {
	case "login":
		return c.runLogin(args[1:])
	case "logout":
		return c.runLogout()
	case "whoami":
		return c.runWhoami()
	case "register":
		return c.runRegister(args[1:])
	case "forgot-password":
		return c.runForgotPassword(args[1:])
	case "reset-password":
		return c.runResetPassword(args[1:])
	}
	printHelp(c.out)
	return fmt.Errorf("unknown command %q", args[0])
}

func (c *cli) runTUI() error {
	app := tui.NewApp(c.client, c.session, c.cfg.WebURL, version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// password reads STOREFRONT_PASSWORD, falling back to one line of stdin.
func (c *cli) password(prompt string) (string, error) {
	if pw := c.getenv("STOREFRONT_PASSWORD"); pw != "" {
		return pw, nil
	}
	fmt.Fprint(c.out, prompt) //nolint:errcheck
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) runLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.out)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("login: --email is required")
	}
	pw, err := c.password("Password: ")
	if err != nil {
		return err
	}

	c.session.Rehydrate()
	res := c.session.Login(context.Background(), client.Credentials{Email: *email, Password: pw})
	if !res.OK {
		return errors.New(res.Error)
	}
	printWelcome(c.out, *res.User)
	return nil
}

func (c *cli) runLogout() error {
	st := c.session.Rehydrate()
	c.session.Logout()
	if st.User == nil {
		fmt.Fprintln(c.out, "Already logged out.") //nolint:errcheck
		return nil
	}
	fmt.Fprintln(c.out, "Logged out.") //nolint:errcheck
	return nil
}

func (c *cli) runWhoami() error {
	st := c.session.Rehydrate()
	if st.User == nil {
		fmt.Fprintln(c.out, "Not logged in. Run: storefront login --email you@example.com") //nolint:errcheck
		return nil
	}

	u, err := c.session.RefreshUserFromServer(context.Background())
	switch {
	case client.IsStatus(err, http.StatusUnauthorized):
		c.session.Logout()
		fmt.Fprintln(c.out, "Session expired. Please log in again.") //nolint:errcheck
		return nil
	case err != nil:
		// Keep the cached profile; the server may just be unreachable.
		c.log.Warn("whoami refresh failed", zap.Error(err))
		fmt.Fprintf(c.out, "(offline: %s)\n", client.MessageOf(err, "could not reach server")) //nolint:errcheck
		u = st.User
	}
	printUser(c.out, *u)
	return nil
}

func (c *cli) runRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(c.out)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	role := fs.String("role", string(domain.RoleUser), "USER or SELLER")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pw, err := c.password("Choose a password: ")
	if err != nil {
		return err
	}

	res := c.session.Register(context.Background(), client.Registration{
		Name:     *name,
		Email:    *email,
		Password: pw,
		Role:     domain.Role(strings.ToUpper(*role)),
	})
	if !res.OK {
		return errors.New(res.Error)
	}
	fmt.Fprintf(c.out, "Account created for %s. Run: storefront login --email %s\n", *email, *email) //nolint:errcheck
	return nil
}

func (c *cli) runForgotPassword(args []string) error {
	fs := flag.NewFlagSet("forgot-password", flag.ContinueOnError)
	fs.SetOutput(c.out)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("forgot-password: --email is required")
	}
	if err := c.client.ForgotPassword(context.Background(), *email); err != nil {
		return errors.New(client.MessageOf(err, "could not send reset link"))
	}
	fmt.Fprintln(c.out, "If the email exists, a reset link has been sent.") //nolint:errcheck
	return nil
}

func (c *cli) runResetPassword(args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	fs.SetOutput(c.out)
	token := fs.String("token", "", "token from the reset email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" {
		return errors.New("reset-password: --token is required")
	}
	pw, err := c.password("New password: ")
	if err != nil {
		return err
	}
	if len(pw) < 6 {
		return errors.New("reset-password: password must be at least 6 characters")
	}
	if err := c.client.ResetPassword(context.Background(), *token, pw); err != nil {
		return errors.New(client.MessageOf(err, "password reset failed"))
	}
	fmt.Fprintln(c.out, "Password updated. You can log in now.") //nolint:errcheck
	return nil
}
