package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug     bool
	TestMode  bool
	Env       string // DEV (local; default), TEST, QA, PROD
	Build     string
	AppName   string
	SecretKey string

	DefaultFromEmail mail.Address

	// RosterPath is the CSV file backing the student roster.
	RosterPath string
	// ModelPath is the pre-trained dropout classifier artifact.
	ModelPath string

	Operator struct {
		Username     string
		Password     string // plain; dev only
		PasswordHash string // bcrypt; takes precedence over Password
	}

	Server struct {
		Host            string
		Addr            string
		DebugHost       string
		ShutdownTimeout time.Duration

		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	Alerts struct {
		Enabled   bool
		Recipient string
		RiskLabel string
	}

	RollbarToken   string
	SendgridApiKey string
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Dropwatch")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w#2poq5-r)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("rosterPath", "students.csv")
	v.SetDefault("modelPath", filepath.Join("config", "dropout_model.json"))
	v.SetDefault("operatorUsername", "admin")
	v.SetDefault("operatorPassword", "")
	v.SetDefault("operatorPasswordHash", "")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugHost", "localhost:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("alertsEnabled", false)
	v.SetDefault("alertsRecipient", "")
	v.SetDefault("alertsRiskLabel", "High Risk")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:     v.GetBool("debug"),
		TestMode:  env == "TEST",
		Env:       env,
		Build:     v.GetString("build"),
		AppName:   v.GetString("appName"),
		SecretKey: v.GetString("secretKey"),

		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},

		RosterPath: absFromRoot(v.GetString("rosterPath")),
		ModelPath:  absFromRoot(v.GetString("modelPath")),

		RollbarToken:   v.GetString("rollbarToken"),
		SendgridApiKey: v.GetString("sendgridApiKey"),
	}
	conf.Operator.Username = v.GetString("operatorUsername")
	conf.Operator.Password = v.GetString("operatorPassword")
	conf.Operator.PasswordHash = v.GetString("operatorPasswordHash")
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Addr = v.GetString("serverAddr")
	conf.Server.DebugHost = v.GetString("serverDebugHost")
	conf.Server.ShutdownTimeout = v.GetDuration("serverShutdownTimeout")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")
	conf.Server.JWTRefreshExpirationDelta = v.GetDuration("jwtRefreshExpirationDelta")
	conf.Alerts.Enabled = v.GetBool("alertsEnabled")
	conf.Alerts.Recipient = v.GetString("alertsRecipient")
	conf.Alerts.RiskLabel = v.GetString("alertsRiskLabel")
	return conf
}

func absFromRoot(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(Getwd(), path)
}
