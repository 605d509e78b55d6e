package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/siyuan-infoblox/imports-order/pkg/config"
	"github.com/siyuan-infoblox/imports-order/pkg/errors"
	"github.com/siyuan-infoblox/imports-order/pkg/utils"
)

const (
	configBaseName = ".iord"
	configFileName = configBaseName + ".yaml"

	envPrefix = "IORD"

	configFlagName        = "config"
	profileFlagName       = "profile"
	inPlaceFlagName       = "in-place"
	diffFlagName          = "diff"
	formatFlagName        = "format"
	parallelFlagName      = "parallel"
	caseSensitiveFlagName = "case-sensitive"
	noColorFlagName       = "no-color"
	logFileFlagName       = "log-file"
	verboseFlagName       = "verbose"
	versionFlagName       = "version"

	profileConfigKey       = "profile"
	caseSensitiveConfigKey = "case_sensitive"
	formatConfigKey        = "output.format"
	noColorConfigKey       = "output.no_color"
	parallelConfigKey      = "run.parallel"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultFormat        = "text"
	defaultLogFilename   = configBaseName + ".log"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// newViper returns a viper instance carrying the defaults and the IORD_*
// environment mapping. The config file is read later, once the checked paths
// are known.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("version", config.CurrentVersion)
	v.SetDefault(profileConfigKey, config.Auto)
	v.SetDefault(caseSensitiveConfigKey, false)
	v.SetDefault(formatConfigKey, defaultFormat)
	v.SetDefault(noColorConfigKey, false)
	v.SetDefault(parallelConfigKey, runtime.NumCPU())

	v.SetDefault(logFilenameKey, defaultLogFilename)
	v.SetDefault(logLevelKey, "info")
	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, defaultLogCompress)

	return v
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(v *viper.Viper, flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(v.BindPFlag(key, flag))
}

// readConfig reads the config file named by --config, or the nearest
// .iord.yaml above the first checked path, and returns the path it read.
// Running without a config file is fine: the presets apply.
func readConfig(v *viper.Viper, explicit string, paths []string) (string, error) {
	path := explicit
	if path == "" {
		start := "."
		if len(paths) > 0 && !strings.ContainsAny(paths[0], "*?[{") {
			start = paths[0]
		}
		path = utils.FindConfigFile(start, configFileName)
	}
	if path == "" {
		return "", nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return "", &errors.ConfigError{Option: configFlagName, Value: path, Message: errors.ErrMsgFailedToReadConfig, Cause: err}
	}
	return path, nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger points the global slog logger at a rotating log file.
//
// By default it logs at the configured level; if verbose is true it logs at Debug.
func configureLogger(v *viper.Viper, logPath string, verbose bool) *slog.Logger {
	if strings.TrimSpace(logPath) == "" {
		logPath = v.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(v.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    v.GetInt(logMaxSizeKey),
		MaxBackups: v.GetInt(logMaxBackupsKey),
		MaxAge:     v.GetInt(logMaxAgeKey),
		Compress:   v.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// isTTY reports whether f is an interactive terminal
func isTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
