package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "ASSISTANT_"

type Application struct {
	Host      string    `koanf:"host"`
	Server    Server    `koanf:"server"`
	Google    Google    `koanf:"google"`
	Gemini    Gemini    `koanf:"gemini"`
	Scheduler Scheduler `koanf:"scheduler"`
	Store     Store     `koanf:"store"`
	Database  Database  `koanf:"db"`
	Cors      Cors      `koanf:"cors"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
	// RedirectUrl defaults to Host + "/oauth2callback" when empty.
	RedirectUrl string `koanf:"redirecturl"`
}

type Gemini struct {
	ApiKey  string `koanf:"apikey"`
	Model   string `koanf:"model"`
	BaseUrl string `koanf:"baseurl"`
}

type Scheduler struct {
	// Timezone is an IANA zone name. Empty means TZ, then UTC.
	Timezone       string        `koanf:"timezone"`
	Timeout        time.Duration `koanf:"timeout"`
	DefaultSummary string        `koanf:"defaultsummary"`
}

type Store struct {
	// Driver is "memory" or "postgres".
	Driver string `koanf:"driver"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Cors struct {
	AllowedOrigins []string `koanf:"allowedorigins"`
}

func Defaults() Application {
	return Application{
		Host: "http://localhost:3000",
		Server: Server{
			Addr: ":3000",
		},
		Gemini: Gemini{
			Model:   "gemini-1.5-flash",
			BaseUrl: "https://generativelanguage.googleapis.com",
		},
		Scheduler: Scheduler{
			Timeout:        60 * time.Second,
			DefaultSummary: "Meeting",
		},
		Store: Store{
			Driver: "memory",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "assistant",
			Pass:   "",
			Name:   "assistant",
			Schema: "assistant",
		},
		Cors: Cors{
			AllowedOrigins: []string{"*"},
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			if k == "cors.allowedorigins" {
				return k, strings.Split(v, ",")
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// OAuthRedirectUrl is the callback registered with the Google OAuth client.
func (a Application) OAuthRedirectUrl() string {
	if a.Google.RedirectUrl != "" {
		return a.Google.RedirectUrl
	}
	return strings.TrimRight(a.Host, "/") + "/oauth2callback"
}

// ResolveLocation returns the zone events are created in.
func (s Scheduler) ResolveLocation() (*time.Location, error) {
	name := s.Timezone
	if name == "" {
		name = os.Getenv("TZ")
	}
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("could not load location for timezone %s: %w", name, err)
	}
	return loc, nil
}
