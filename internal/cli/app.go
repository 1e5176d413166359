package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/config"
	"github.com/mrchypark/pocketbase-go-skill/internal/journal"
	"github.com/mrchypark/pocketbase-go-skill/internal/logging"
	"github.com/mrchypark/pocketbase-go-skill/internal/pocketbase"
	"github.com/mrchypark/pocketbase-go-skill/internal/reconcile"
	"github.com/mrchypark/pocketbase-go-skill/internal/store"
)

// Command names.
const (
	CmdApply            = "apply"
	CmdDump             = "dump"
	CmdCreateCollection = "create_collection"
	CmdAddField         = "add_field"
	CmdDeleteField      = "delete_field"
	CmdHistory          = "history"
)

// ErrPartialApply is returned by apply under --strict when any collection
// failed.
var ErrPartialApply = errors.New("some collections failed to apply")

// App runs one pbmigrate command.
type App struct {
	cfg    *config.Config
	cmd    *config.Command
	logger logging.Logger
	store  store.Store
	out    io.Writer
	errOut io.Writer
	reader *bufio.Reader

	newClient   func(cfg *config.Config, logger logging.Logger) pocketbase.Client
	openJournal func(ctx context.Context, path string) (journal.Journal, error)
	now         func() time.Time
}

// NewApp builds an App writing results to stdout and logs and prompts to
// stderr.
func NewApp(cfg *config.Config, cmd *config.Command, stdout, stderr io.Writer) (*App, error) {
	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, stderr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}

	return &App{
		cfg:    cfg,
		cmd:    cmd,
		logger: logger,
		store: store.Open(store.S3Config{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		}),
		out:         stdout,
		errOut:      stderr,
		reader:      bufio.NewReader(os.Stdin),
		newClient:   newHTTPClient,
		openJournal: openJournal,
		now:         time.Now,
	}, nil
}

func newHTTPClient(cfg *config.Config, logger logging.Logger) pocketbase.Client {
	return pocketbase.NewHTTPClient(cfg.URL, pocketbase.Options{
		Timeout:        cfg.RequestTimeout,
		PageSize:       cfg.PageSize,
		HealthAttempts: cfg.HealthAttempts,
		HealthInterval: cfg.HealthInterval,
	}, logger)
}

func openJournal(ctx context.Context, path string) (journal.Journal, error) {
	if path == "" {
		return journal.Nop{}, nil
	}
	return journal.Open(ctx, path)
}

// Run executes the command and returns the process exit code.
func (a *App) Run(ctx context.Context) int {
	if err := a.run(ctx); err != nil {
		a.logger.Error(ctx, "command failed", "command", a.cmd.Name, "error", err)
		errorColor.Fprintf(a.errOut, "error: %v\n", err)
		return 1
	}
	return 0
}

func (a *App) run(ctx context.Context) error {
	switch a.cmd.Name {
	case CmdApply:
		return a.apply(ctx)
	case CmdDump:
		return a.dump(ctx)
	case CmdCreateCollection:
		return a.createCollection(ctx)
	case CmdAddField:
		return a.addField(ctx)
	case CmdDeleteField:
		return a.deleteField(ctx)
	case CmdHistory:
		return a.history(ctx)
	default:
		fmt.Fprint(a.errOut, config.Usage)
		return fmt.Errorf("unknown command %q: %w", a.cmd.Name, common.ErrInvalidInput)
	}
}

// credentials returns the admin identity and secret, prompting for missing
// ones when stdin is a terminal.
func (a *App) credentials() (string, string, error) {
	email, password := a.cfg.Email, a.cfg.Password
	if email != "" && password != "" {
		return email, password, nil
	}
	if !stdinIsTerminal() {
		return "", "", common.ErrMissingCredentials
	}

	if email == "" {
		v, err := GetSimpleText(a.reader, "Admin email", a.errOut)
		if err != nil {
			return "", "", fmt.Errorf("read email: %w", err)
		}
		email = v
	}
	if password == "" {
		pw, err := GetPassword("Admin password", a.errOut)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(pw)
		clear(pw)
	}

	if email == "" || password == "" {
		return "", "", common.ErrMissingCredentials
	}
	return email, password, nil
}

// connect authenticates against the backend and returns a reconciler bound
// to the session.
func (a *App) connect(ctx context.Context) (*reconcile.Reconciler, error) {
	email, password, err := a.credentials()
	if err != nil {
		return nil, err
	}

	client := a.newClient(a.cfg, a.logger)
	if _, err := client.Authenticate(ctx, email, password); err != nil {
		return nil, fmt.Errorf("authenticate against %s: %w", a.cfg.URL, err)
	}
	a.logger.Info(ctx, "authenticated", "url", a.cfg.URL)

	return reconcile.New(client, a.logger), nil
}

// mutate connects, runs fn and records the outcome in the journal. The
// journal is best effort: failing to write it is logged, not returned.
func (a *App) mutate(ctx context.Context, fn func(ctx context.Context, r *reconcile.Reconciler) ([]journal.Item, error)) error {
	run := journal.NewRun(a.cmd.Name, a.cfg.URL, a.now())
	a.logger = a.logger.With("run_id", run.ID.String(), "command", a.cmd.Name)

	r, err := a.connect(ctx)
	if err != nil {
		return err
	}

	items, err := fn(ctx, r)
	run.Finish(a.now(), items, err)
	a.record(ctx, run)
	return err
}

func (a *App) record(ctx context.Context, run journal.Run) {
	j, err := a.openJournal(ctx, a.cfg.JournalPath)
	if err != nil {
		a.logger.Warn(ctx, "journal unavailable, run not recorded", "error", err)
		return
	}
	defer j.Close()

	if err := j.Record(ctx, run); err != nil {
		a.logger.Warn(ctx, "failed to record run", "error", err)
		return
	}
	a.logger.Debug(ctx, "run recorded", "status", run.Status, "items", len(run.Items))
}
