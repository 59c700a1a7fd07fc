package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug    bool
	TestMode bool
	Env      string // DEV (local; default), TEST, QA, PROD
	Build    string
	AppName  string
	WorkDir  string

	// DataFile is the path of the local text store holding the serialized
	// school list.
	DataFile string

	// ScanHold is how long a scan result stays on display; identifier
	// deliveries within this window are dropped so consecutive frames of the
	// same code cannot check a student in twice.
	ScanHold time.Duration

	RollbarToken string

	Server struct {
		Host            string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Chamada Escolar")
	conf.SetDefault("build", "dev")
	conf.SetDefault("dataFile", "")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("scanHold", 2*time.Second)
	conf.SetDefault("serverHost", "0.0.0.0:8000")
	conf.SetDefault("serverDebugHost", "0.0.0.0:4000")
	conf.SetDefault("serverReadTimeout", 5*time.Second)
	conf.SetDefault("serverWriteTimeout", 5*time.Second)
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		Env:          env,
		Build:        conf.GetString("build"),
		AppName:      conf.GetString("appName"),
		WorkDir:      wd,
		DataFile:     conf.GetString("dataFile"),
		RollbarToken: conf.GetString("rollbarToken"),
		ScanHold:     conf.GetDuration("scanHold"),
	}
	if c.DataFile == "" {
		c.DataFile = filepath.Join(wd, "chamada.json")
	}
	c.Server.Host = conf.GetString("serverHost")
	c.Server.DebugHost = conf.GetString("serverDebugHost")
	c.Server.ReadTimeout = conf.GetDuration("serverReadTimeout")
	c.Server.WriteTimeout = conf.GetDuration("serverWriteTimeout")
	c.Server.ShutdownTimeout = conf.GetDuration("serverShutdownTimeout")
	return c
}
