package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-telegram/bot"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/NethercraftMC5608/DepotDownloaderModified/config"
	"github.com/NethercraftMC5608/DepotDownloaderModified/internal/depot"
	"github.com/NethercraftMC5608/DepotDownloaderModified/internal/progress"
)

const (
	configFilename   = "depotdl-config.yml"
	errorLogFilename = "error.log"
)

// application holds all the state for the program
type application struct {
	config      *config.AppConfig // Configuration settings
	logFile     *os.File          // File handle for error logging
	logWriter   io.Writer         // Writer for logging (stdout or progress container)
	pbp         *mpb.Progress     // Progress bar manager
	bar         *mpb.Bar          // Bar tracking the depot percentage
	telegramBot *bot.Bot          // Optional notification bot
}

func main() {
	app, err := Setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if app.logFile != nil {
		defer app.logFile.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app.initTelegram()

	if app.config.ShowProgress {
		app.pbp = mpb.New(mpb.WithAutoRefresh(), mpb.WithOutput(color.Output))
		app.logWriter = app.pbp // keep log lines from clobbering the bar
		app.bar = app.pbp.AddBar(100,
			mpb.PrependDecorators(
				decor.Name("depot "+app.config.AppID+" "),
				decor.Percentage(),
			),
		)
	}

	app.LogInfo(fmt.Sprintf("Downloading depot %s (manifest %s)", app.config.AppID, app.config.ManifestID))

	sup := &depot.Supervisor{
		BinaryPath: app.config.DownloaderPath,
		Out:        app.logWriter,
		OnUpdate:   app.trackProgress,
	}
	job := depot.Job{
		AppID:      app.config.AppID,
		ManifestID: app.config.ManifestID,
		Username:   app.config.Username,
		Password:   app.config.Password,
	}

	runErr := sup.Run(ctx, job)

	if app.pbp != nil {
		if runErr != nil && app.bar != nil {
			app.bar.Abort(true)
		}
		app.pbp.Shutdown()
		app.logWriter = color.Output
	}

	if runErr != nil {
		app.notifyTelegram(context.Background(), fmt.Sprintf("❌ Depot %s download failed: %v", app.config.AppID, runErr))
		app.FatalError("depot", runErr)
	}
	app.notifyTelegram(context.Background(), fmt.Sprintf("✅ Depot %s download finished", app.config.AppID))
}

// trackProgress feeds watcher updates into the progress bar.
func (app *application) trackProgress(rec progress.Record) {
	if app.bar == nil {
		return
	}
	pct := int64(rec.Percentage)
	if pct > 100 {
		pct = 100
	}
	app.bar.SetCurrent(pct)
}
