package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/driano7/XocoCafe-sub000/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// MustInit loads .env (optional) and config.yaml, then installs the default logger.
func MustInit() {
	envErr := godotenv.Load("./.env")
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		panic("error while loading .env file: " + envErr.Error())
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/ticket-svc")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}

	// Money is rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	SetupLogger()

	if envErr != nil {
		slog.Warn("No .env file found, using process environment")
	}
}

func SetupLogger() {
	handler := logger.NewHandler(&logger.Options{
		Level:  logger.ParseLevel(viper.GetString("logger.level")),
		Format: viper.GetString("logger.format"),
		Output: os.Stdout,
	})
	log := slog.New(handler)
	slog.SetDefault(log)
}
