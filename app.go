package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// Options carries the command line parameters of the App.
type Options struct {
	ConfigFile string
	EnvFile    string
	Query      string
	OneShot    bool
	Width      int // columns, one-shot mode only
}

type AppProvider interface {
	Run() error
	Serve(cancel context.CancelFunc) func() error
	Stop(context.Context, context.Context) func() error
}

type App struct {
	logger   *zap.Logger
	config   *Config
	options  Options
	fetcher  BookFetcher
	model    *SearchModel
	program  *tea.Program
	out      io.Writer
	cleanups []func()
}

// NewApp provides an instance of App.
func NewApp(opts Options) (AppProvider, error) {
	config, err := LoadAndInitConfigs(opts.ConfigFile, opts.EnvFile, GitCommit, GitTag, BuildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %s", err)
	}

	logFile, err := NewRSyncWriter(config, NewClock(config.IsProduction))
	if err != nil {
		return nil, err
	}
	closer := func() {
		if cerr := logFile.Close(); cerr != nil {
			fmt.Fprintln(os.Stderr, "error during closing of log file: ", cerr)
		}
	}

	// The interactive screen owns the terminal, logs go to the file only.
	var console io.Writer
	if opts.OneShot {
		console = os.Stderr
	}
	logger, flusher := SetupLogging(config, logFile, console)

	shutdownTracing, err := SetupTracing(context.Background(), config)
	if err != nil {
		closer()
		return nil, err
	}

	fetcher := NewHTTPCatalog(logger, &config.Catalog, nil, NewIDsHandler())

	app := &App{
		logger:  logger,
		config:  config,
		options: opts,
		fetcher: fetcher,
		out:     os.Stdout,
		cleanups: []func(){
			func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracing(ctx); err != nil {
					logger.Error("failed to shutdown tracing", zap.Error(err))
				}
			},
			func() {
				if err := flusher(); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			},
			closer,
		},
	}

	if !opts.OneShot {
		app.model = NewSearchModel(logger, config, NewClock(config.IsProduction), fetcher)
		app.program = tea.NewProgram(app.model, tea.WithAltScreen())
		app.model.Attach(app.program)
	}

	return app, nil
}

// Run starts the search screen and a goroutine which is responsible to stop it.
func (app *App) Run() error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sCtx, cancel := context.WithCancel(nCtx)
	defer cancel()
	g, gCtx := errgroup.WithContext(sCtx)

	g.Go(app.Serve(cancel))
	g.Go(app.Stop(nCtx, gCtx))

	err := g.Wait()
	app.logger.Info("booksearch stopped",
		zap.String("catalog.url", app.config.Catalog.BaseURL),
		zap.Error(err),
	)
	return err
}

// Clean calls all registered cleanups functions.
func (app *App) Clean() {
	for _, f := range app.cleanups {
		f()
	}
}

// Serve runs the interactive screen or the one-shot search. Its returned
// error will be caught by the errorgroup. cancel releases the stopper.
func (app *App) Serve(cancel context.CancelFunc) func() error {
	return func() error {
		defer cancel()
		app.logger.Info("booksearch starting",
			zap.String("catalog.url", app.config.Catalog.BaseURL),
			zap.Bool("app.oneshot", app.options.OneShot),
		)

		if app.options.OneShot {
			width := app.options.Width
			if width <= 0 {
				width = TerminalWidth(os.Stdout)
			}
			view, state := RunOnce(app.logger, app.config, app.fetcher, app.options.Query, width)
			fmt.Fprintln(app.out, view)
			if state.Err != "" {
				return ErrFetchBooks
			}
			return nil
		}

		_, err := app.program.Run()
		app.model.Close()
		app.logger.Info("search session ended", app.model.Pane().Stats().Fields()...)
		return err
	}
}

// Stop listens for the group context and quits the screen when
// requested by a signal. We explicitly return `nil` to allow the
// errorgroup catches only the `Serve` method result.
func (app *App) Stop(nCtx, gCtx context.Context) func() error {
	return func() error {
		<-gCtx.Done()

		if nCtx.Err() != nil {
			app.logger.Info("booksearch stopping. reason: requested to stop")
			if app.program != nil {
				app.program.Quit()
			}
		} else {
			app.logger.Info("booksearch stopping. reason: session finished")
		}
		return nil
	}
}

// TerminalWidth returns the columns of f when it is a terminal, 80 otherwise.
func TerminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
