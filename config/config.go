// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	seedDemoData   = pflag.Bool("seed-demo", false, "Seeds the database with demo users, tags and questions")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers = []string{"sqlite", "postgres"}
)

// SeedDemoData reports whether the --seed-demo flag was passed.
func SeedDemoData() bool {
	return *seedDemoData
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("security.rate_limit", "security_rate_limit")

	v.BindEnv("mail.mode", "mail_mode")
	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender_address", "mail_sender_address")
	v.BindEnv("mail.password", "mail_password")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")

	v.SetDefault("security.rate_limit", 20)

	v.SetDefault("mail.mode", "mock")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("rate limit must be bigger than 0")
	}

	switch v.GetString("mail.mode") {
	case "smtp":
		{
			if v.GetString("mail.host") == "" {
				return errors.New("mail host can't be empty")
			}
			if v.GetInt("mail.port") <= 0 {
				return errors.New("invalid mail port provided")
			}
			if v.GetString("mail.sender_address") == "" {
				return errors.New("mail sender address can't be empty")
			}
		}
	case "mock":
		{
			fmt.Println("[WARNING]: Mail is running in mock mode. Verification emails are recorded in memory and exposed over the API instead of being delivered")
		}
	default:
		return errors.New("invalid mail mode provided")
	}

	return nil
}
