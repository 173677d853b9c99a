package config

import (
	"errors"
	"flag"
	"net"
	"regexp"
	"strconv"
)

type Config struct {
	Addr        string
	DBUrl       string
	AdminUser   string
	AdminPass   string
	TokenSecret string
	AIUrl       string
	AIKey       string
	AIModel     string
	Debug       bool
}

func ParseFlags() (cfg Config, err error) {
	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 80, "listen port number (default 80)")
	flag.StringVar(&cfg.DBUrl, "db-url", "qforms.sqlite", "path to SQLite3 DB file (default qforms.sqlite)")
	flag.StringVar(&cfg.AdminUser, "admin-user", "admin", "admin login username (default admin)")
	flag.StringVar(&cfg.AdminPass, "admin-pass", "", "admin login password")
	flag.StringVar(&cfg.TokenSecret, "token-secret", "", "secret key for session cookie signing")
	flag.StringVar(&cfg.AIUrl, "ai-url", "https://api.openai.com/v1", "base URL of the chat completions API")
	flag.StringVar(&cfg.AIKey, "ai-key", "", "API key for the chat completions API")
	flag.StringVar(&cfg.AIModel, "ai-model", "gpt-3.5-turbo", "chat completions model name")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))

	if cfg.AdminPass == "" {
		err = errors.New("missing parameter -admin-pass")
		return
	}
	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
