package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jmpegna/setlist-to-playlist/internal/services"
	"github.com/jmpegna/setlist-to-playlist/internal/setlist"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
	"github.com/jmpegna/setlist-to-playlist/internal/store"
	"github.com/jmpegna/setlist-to-playlist/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	spotify    services.OAuthService
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Spotify    services.OAuthService
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		spotify:    opts.Spotify,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, downloadCommand, playlistCommand, reportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used to redirect logs while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// recordStore opens the JSON record store at the configured setlists directory.
func (r *Runner) recordStore() (*store.FileStore, error) {
	return store.NewFileStore(r.config.Global.SetlistsDir)
}

// openLedger opens the sqlite run ledger. The caller closes the returned database.
func (r *Runner) openLedger() (*sql.DB, *store.ResolutionRepository, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	return db, store.NewResolutionRepository(db), nil
}

// buildEngine wires the resolver, record store and ledger into a ConcertEngine.
// The returned database is non-nil only when a ledger was opened and must be
// closed by the caller.
func (r *Runner) buildEngine() (*tasks.ConcertEngine, *sql.DB, error) {
	if r.catalog == nil {
		return nil, nil, fmt.Errorf("%w: setlist.fm service not initialized (set credentials.setlistfm.api_key)", shared.ErrServiceUnavailable)
	}

	records, err := r.recordStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open record store: %w", err)
	}

	db, ledger, err := r.openLedger()
	if err != nil {
		r.logger.Warn("run ledger unavailable, resolutions will not be recorded", "error", err)
		db, ledger = nil, nil
	}

	resolver := setlist.NewResolver(r.catalog, nil, r.logger)
	engine := tasks.NewConcertEngine(resolver, r.spotify, records, ledgerOrNil(ledger), r.logger)

	return engine, db, nil
}

// ledgerOrNil avoids handing the engine a typed nil behind the Ledger interface.
func ledgerOrNil(ledger *store.ResolutionRepository) tasks.Ledger {
	if ledger == nil {
		return nil
	}
	return ledger
}

// connectSpotify authenticates the Spotify service with the token stored in config.
func (r *Runner) connectSpotify(ctx context.Context) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized (set credentials.spotify.client_id and client_secret)", shared.ErrServiceUnavailable)
	}

	token := r.config.Credentials.Spotify.Token()
	if token == nil {
		return fmt.Errorf("%w: no stored tokens, run 'auth' first", shared.ErrNotAuthenticated)
	}

	return r.spotify.OAuthenticate(ctx, token)
}

// saveTokens updates the runner's config with new OAuth tokens and persists it to disk.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("config is nil")
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
