// Package invitectl implements the invitectl command.
package invitectl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/app"
	"github.com/aussiebroadwan/lectern/internal/auth/notify"
	"github.com/aussiebroadwan/lectern/internal/auth/service"
	"github.com/aussiebroadwan/lectern/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/lectern/pkg/authsdk"
	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
	"github.com/caarlos0/env/v11"
)

const (
	CommandCreateInvite = "create-invite"
	CommandVerify       = "verify"
	CommandList         = "list"
)

const usage = `usage: invitectl <command> [flags]

commands:
  create-invite -email <address> -course <id> [-base-url <url>] [-notify]
  verify        -token <token> [-remote <url>]
  list          -course <id>

Run "invitectl <command> -h" for the flags of a command.`

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

type Config struct {
	Command string

	DatabaseFile  string
	PepperFile    string
	MasterKeyPath string
	PublicURL     string

	Email    string
	CourseID string
	Token    string

	// Remote verifies against a running server instead of the database.
	Remote string

	// Notify sends the invite through the NOTIFY_CHANNEL channels as well.
	Notify bool
}

// ParseConfig reads the command and its flags. Defaults come from the same
// environment variables the server uses.
func ParseConfig(args []string, lookup EnvLookup) (Config, error) {
	if len(args) == 0 {
		return Config{}, errors.New(usage)
	}

	cfg := Config{
		Command:       args[0],
		DatabaseFile:  envOrDefault(lookup, "LECTERN_DATABASE_FILE", "lectern.db"),
		PepperFile:    envOrDefault(lookup, "LECTERN_PEPPER_FILE", "pepper"),
		MasterKeyPath: envOrDefault(lookup, "LECTERN_MASTER_KEY_PATH", "master.key"),
		PublicURL:     envOrDefault(lookup, "LECTERN_PUBLIC_URL", "http://localhost:8080"),
	}

	fs := flag.NewFlagSet("invitectl "+cfg.Command, flag.ContinueOnError)
	fs.StringVar(&cfg.DatabaseFile, "db", cfg.DatabaseFile, "sqlite database file")
	fs.StringVar(&cfg.PepperFile, "pepper", cfg.PepperFile, "password pepper file")
	fs.StringVar(&cfg.MasterKeyPath, "master-key", cfg.MasterKeyPath, "invite token master key file")

	switch cfg.Command {
	case CommandCreateInvite:
		fs.StringVar(&cfg.Email, "email", "", "invitee email address")
		fs.StringVar(&cfg.CourseID, "course", "", "course id")
		fs.StringVar(&cfg.PublicURL, "base-url", cfg.PublicURL, "base of the acceptance link")
		fs.BoolVar(&cfg.Notify, "notify", false, "also send the invite through the configured channels")
	case CommandVerify:
		fs.StringVar(&cfg.Token, "token", "", "invite token")
		fs.StringVar(&cfg.Remote, "remote", "", "verify against a running server at this URL")
	case CommandList:
		fs.StringVar(&cfg.CourseID, "course", "", "course id")
	case "-h", "-help", "--help", "help":
		return Config{}, errors.New(usage)
	default:
		return Config{}, fmt.Errorf("unknown command %q\n\n%s", cfg.Command, usage)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Command {
	case CommandCreateInvite:
		if c.Email == "" || c.CourseID == "" {
			return errors.New("create-invite: -email and -course are required")
		}
	case CommandVerify:
		if c.Token == "" {
			return errors.New("verify: -token is required")
		}
	case CommandList:
		if c.CourseID == "" {
			return errors.New("list: -course is required")
		}
	}
	return nil
}

// Run executes the command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	if cfg.Command == CommandVerify && cfg.Remote != "" {
		return verifyRemote(ctx, cfg, out)
	}

	cryptox.SetPepperPath(cfg.PepperFile)
	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
	} else if cfg.Command == CommandCreateInvite {
		fmt.Fprintln(errOut, "warning: no master key file, this invite cannot be reissued or re-sent from another process")
	}

	st, err := sqlite.NewStore(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()
	if err := st.ApplyMigrations(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	invites := &service.InviteService{
		Store:       st,
		Notifier:    discardNotifier{},
		Provisioner: &service.AccountProvisioner{Store: st},
		PublicURL:   cfg.PublicURL,
	}
	courses := &service.CourseService{Store: st}

	switch cfg.Command {
	case CommandCreateInvite:
		if cfg.Notify {
			d, err := newDispatcher(errOut)
			if err != nil {
				return err
			}
			defer d.Stop(true, notify.DefaultTimeout)
			invites.Notifier = d
		}
		return createInvite(ctx, cfg, invites, courses, out)
	case CommandVerify:
		return verifyLocal(ctx, cfg, invites, out)
	case CommandList:
		return listInvites(ctx, cfg, invites, courses, out)
	}
	return fmt.Errorf("unknown command %q", cfg.Command)
}

// createInvite issues on behalf of the course owner, so an existing pending
// invite is handed back rather than duplicated.
func createInvite(ctx context.Context, cfg Config, invites *service.InviteService, courses *service.CourseService, out io.Writer) error {
	course, err := courses.Get(ctx, cfg.CourseID)
	if err != nil {
		return err
	}

	issued, err := invites.Issue(ctx, service.IssueInviteParams{
		Email:    cfg.Email,
		CourseID: course.ID,
		IssuerID: course.OwnerID,
	})
	if err != nil {
		return err
	}

	if issued.Reused {
		fmt.Fprintln(out, "A pending invite already exists:")
	} else {
		fmt.Fprintln(out, "Invite created:")
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  email:\t%s\n", issued.Invite.Email)
	fmt.Fprintf(tw, "  course:\t%s\n", course.Title)
	fmt.Fprintf(tw, "  link:\t%s\n", issued.AcceptanceURL)
	fmt.Fprintf(tw, "  expires:\t%s\n", issued.Invite.ExpiresAt.Format(time.RFC3339))
	return tw.Flush()
}

func verifyLocal(ctx context.Context, cfg Config, invites *service.InviteService, out io.Writer) error {
	v, err := invites.Verify(ctx, cfg.Token)
	if err != nil && !errors.Is(err, service.ErrInviteNotFound) {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "status:\t%s\n", v.Status)
	if v.Status != service.VerifyNotFound {
		fmt.Fprintf(tw, "email:\t%s\n", v.Invite.Email)
		fmt.Fprintf(tw, "course:\t%s\n", v.Course.Title)
		fmt.Fprintf(tw, "expires:\t%s\n", v.Invite.ExpiresAt.Format(time.RFC3339))
		fmt.Fprintf(tw, "account exists:\t%t\n", v.AccountExists)
	}
	return tw.Flush()
}

func verifyRemote(ctx context.Context, cfg Config, out io.Writer) error {
	v, err := authsdk.NewSDKClient(cfg.Remote).VerifyInvite(ctx, cfg.Token)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "status:\t%s\n", v.Status)
	if v.Status != authsdk.VerifyStatusNotFound {
		fmt.Fprintf(tw, "email:\t%s\n", v.Email)
		fmt.Fprintf(tw, "course:\t%s\n", v.CourseTitle)
		if v.ExpiresAt != nil {
			fmt.Fprintf(tw, "expires:\t%s\n", v.ExpiresAt.Format(time.RFC3339))
		}
		fmt.Fprintf(tw, "account exists:\t%t\n", v.AccountExists)
	}
	return tw.Flush()
}

func listInvites(ctx context.Context, cfg Config, invites *service.InviteService, courses *service.CourseService, out io.Writer) error {
	course, err := courses.Get(ctx, cfg.CourseID)
	if err != nil {
		return err
	}

	views, err := invites.ListForCourse(ctx, course.ID, course.OwnerID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tSTATE\tEXPIRES\tLINK")
	for _, v := range views {
		link := v.AcceptanceURL
		if link == "" {
			link = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			v.Invite.ID, v.Invite.Email, v.State, v.Invite.ExpiresAt.Format(time.RFC3339), link)
	}
	return tw.Flush()
}

// newDispatcher builds the server's notification channels from the
// environment.
func newDispatcher(errOut io.Writer) (*notify.Dispatcher, error) {
	var nc app.NotifyConfig
	if err := env.Parse(&nc); err != nil {
		return nil, fmt.Errorf("parse notify env: %w", err)
	}
	logger := slogx.New(slogx.Config{Service: "invitectl", Level: "info", Format: "text", Output: errOut})
	n, err := app.BuildNotifier(nc, logger)
	if err != nil {
		return nil, err
	}
	return notify.NewDispatcher(n, notify.DefaultTimeout), nil
}

// discardNotifier is used when the operator only wants the link printed.
type discardNotifier struct{}

func (discardNotifier) Dispatch(context.Context, notify.Message)     {}
func (discardNotifier) Deliver(context.Context, notify.Message) bool { return false }

func envOrDefault(lookup EnvLookup, key, fallback string) string {
	if lookup == nil {
		return fallback
	}
	if v, ok := lookup(key); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return fallback
}
