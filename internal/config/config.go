package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

type Server struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Debug        bool   `toml:"debug_mode"`
	TgBotEnabled bool   `toml:"tg_bot_enabled"`
	SqliteFile   string `toml:"sqlite_file"`
}

type Auth struct {
	SqliteFile     string `toml:"sqlite_file"`
	Token          string `toml:"token"`
	Expiration     string `toml:"expiration"`
	RootPassword   string `toml:"root_password"`
	PasswordPepper string `toml:"password_pepper"`
	Rules          []Rule `toml:"rules"`
}

// Rule allows listed roles to hit paths matching Path (a regexp) with the
// given methods. "*" matches any method or role.
type Rule struct {
	Name   string   `toml:"name"`
	Path   string   `toml:"path"`
	Method []string `toml:"method"`
	Allow  []string `toml:"allow"`
}

type TgBot struct {
	TelegramApiToken string `toml:"telegram_api_token"`
	SqliteFile       string `toml:"sqlite_file"`
}

type Config struct {
	Server Server `toml:"server"`
	Auth   Auth   `toml:"auth"`
	TgBot  TgBot
}

// New reads configs/server.toml and configs/bot.toml. Secrets can be
// overridden from the environment so they stay out of the config files.
func New() (Config, error) {
	return load("configs/server.toml", "configs/bot.toml")
}

// NewFromFiles is New with explicit paths, for tests and the e2e harness.
func NewFromFiles(serverPath, botPath string) (Config, error) {
	return load(serverPath, botPath)
}

func load(serverPath, botPath string) (Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(serverPath, &cfg)
	if err != nil {
		return Config{}, err
	}

	var tgBotCfg TgBot
	_, err = toml.DecodeFile(botPath, &tgBotCfg)
	if err != nil {
		return Config{}, err
	}
	cfg.TgBot = tgBotCfg

	if token := os.Getenv("TELEGRAM_APITOKEN"); token != "" {
		cfg.TgBot.TelegramApiToken = token
	}
	if secret := os.Getenv("AUTH_TOKEN_SECRET"); secret != "" {
		cfg.Auth.Token = secret
	}
	if rootPassword := os.Getenv("ROOT_PASSWORD"); rootPassword != "" {
		cfg.Auth.RootPassword = rootPassword
	}
	return cfg, nil
}
