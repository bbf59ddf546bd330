package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spacemeshos/smutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/bitpack/shared"
)

var (
	Version = "0.0.0"
	Commit  = ""
)

const defaultConfigFileName = "bitpack.toml"

var defaultConfigFile = filepath.Join(smutil.GetUserHomeDirectory(), "bitpack", defaultConfigFileName)

var (
	cfgFile     string
	logLevelStr string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bitpack",
	Short: "Pack and inspect bit-granular binary data",
	Long: `Bitpack packs sequences of named fields of arbitrary bit widths into
binary files through the bit-granular serialization engine, and unpacks
them back for inspection.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfigFile(); err != nil {
			return err
		}
		return initLogger()
	},
}

func Execute() {
	rootCmd.Version = fmt.Sprintf("%s+%s", Version, Commit)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevelStr, "logLevel", "info",
		"log level (debug, info, warn, error, dpanic, panic, fatal)")

	_ = viper.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("logLevel"))
}

func loadConfigFile() error {
	fileLocation := cfgFile
	if fileLocation == "" {
		fileLocation = defaultConfigFile
	}

	viper.SetConfigFile(smutil.GetCanonicalPath(fileLocation))
	if err := viper.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicitly given one is not.
		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func initLogger() error {
	var logLevel zapcore.Level
	if err := logLevel.Set(viper.GetString("logLevel")); err != nil {
		return fmt.Errorf("invalid `logLevel`; expected: a zap level, given: %q", logLevelStr)
	}

	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(logLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	var err error
	logger, err = zapCfg.Build()
	if err != nil {
		log.Fatalln("failed to initialize zap logger:", err)
	}
	return nil
}

func appLog() shared.Logger {
	return shared.ZapLogger{Log: logger.Sugar()}
}
