package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/NethercraftMC5608/DepotDownloaderModified/config"
)

// Setup loads the configuration from next to the executable and prepares
// the error log when enabled.
func Setup() (*application, error) {
	configPath, err := ExecutableDirFilePath(configFilename)
	if err != nil {
		return nil, fmt.Errorf("locate config: %w", err)
	}

	cfg, err := config.Parse(configPath)
	if err != nil {
		return nil, err
	}

	app := &application{
		config:    cfg,
		logWriter: color.Output,
	}

	if cfg.WriteErrorLog {
		logPath, err := ExecutableDirFilePath(errorLogFilename)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, fmt.Errorf("open error log: %w", err)
		}
		app.logFile = f
	}

	return app, nil
}

// ExecutableDirFilePath returns the path of a file that sits next to the
// running executable.
func ExecutableDirFilePath(fileName string) (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(execPath), fileName), nil
}

func (app *application) LogError(caller string, err error) {
	message := fmt.Sprintf("%s: %v", caller, err)
	if app.logFile != nil {
		fmt.Fprintf(app.logFile, "[%s] %s\n", time.Now().Format(time.DateTime), message)
	}
	color.New(color.FgRed).Fprintln(app.logWriter, "ERROR: "+message)
}

func (app *application) LogInfo(message string) {
	fmt.Fprintln(app.logWriter, message)
}

func (app *application) FatalError(caller string, err error) {
	app.LogError(caller, err)
	os.Exit(1)
}
