package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

const DefaultDownloaderPath = "./DepotDownloader"

// AppConfig holds the settings for a single depot download run.
type AppConfig struct {
	AppID          string `yaml:"app_id"`
	ManifestID     string `yaml:"manifest_id"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	DownloaderPath string `yaml:"downloader_path"`
	ShowProgress   bool   `yaml:"show_progress"`
	WriteErrorLog  bool   `yaml:"write_error_log"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
}

// Parse loads configuration from a YAML file, applies DEPOTDL_* environment
// overrides, and validates required fields. A missing config file is not an
// error; the environment alone can supply everything.
func Parse(filePath string) (*AppConfig, error) {
	cfg := AppConfig{
		DownloaderPath: DefaultDownloaderPath,
		ShowProgress:   true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) loadFromEnv() error {
	if v := os.Getenv("DEPOTDL_APP_ID"); v != "" {
		c.AppID = v
	}
	if v := os.Getenv("DEPOTDL_MANIFEST_ID"); v != "" {
		c.ManifestID = v
	}
	if v := os.Getenv("DEPOTDL_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("DEPOTDL_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("DEPOTDL_DOWNLOADER_PATH"); v != "" {
		c.DownloaderPath = v
	}
	if v := os.Getenv("DEPOTDL_SHOW_PROGRESS"); v != "" {
		c.ShowProgress = v == "true" || v == "1"
	}
	if v := os.Getenv("DEPOTDL_WRITE_ERROR_LOG"); v != "" {
		c.WriteErrorLog = v == "true" || v == "1"
	}
	if v := os.Getenv("DEPOTDL_TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse DEPOTDL_TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	return nil
}

// validate checks field presence only; the values themselves are passed
// through to DepotDownloader untouched.
func (c *AppConfig) validate() error {
	if c.AppID == "" {
		return errors.New("config: app_id is required")
	}
	if c.ManifestID == "" {
		return errors.New("config: manifest_id is required")
	}
	if c.Username == "" {
		return errors.New("config: username is required")
	}
	if c.Password == "" {
		return errors.New("config: password is required")
	}
	return nil
}
