package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the log attribute key for errors.
	KeyError = "err"

	// KeyDal is the log attribute key for the data access layer name.
	KeyDal = "dal"

	// KeyGuild is the log attribute key for guild IDs.
	KeyGuild = "guild_id"

	// KeyChannel is the log attribute key for channel IDs.
	KeyChannel = "channel_id"

	// KeyUser is the log attribute key for user IDs.
	KeyUser = "user_id"

	// KeyTicket is the log attribute key for ticket numbers.
	KeyTicket = "ticket_id"

	// KeyCategory is the log attribute key for ticket category names.
	KeyCategory = "category"
)

// EnvLogLevel is the environment variable for the log level.
const EnvLogLevel = `LOG_LEVEL`

// Name is the name of the application the logger is created for.
type Name string

// Config is the configuration for the common logger.
type Config struct {
	// appName is the name of the application.
	appName string

	// level is the minimum level that is logged.
	level slog.Level
}

// NewConfig creates a new logging configuration. The level is taken from LOG_LEVEL when set.
func NewConfig(name Name) *Config {
	c := &Config{
		appName: string(name),
		level:   slog.LevelInfo,
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(strings.ToUpper(lvl))); err == nil {
			c.level = l
		}
	}

	return c
}

// CommonLogger returns a JSON logger writing to stdout and sets it as the default logger.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("logging config is nil")
	} else if c.appName == "" {
		return nil, fmt.Errorf("app name is empty")
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: c.level == slog.LevelDebug,
		Level:     c.level,
	})

	l := slog.New(h).With(slog.String("app", c.appName))
	slog.SetDefault(l)
	return l, nil
}
