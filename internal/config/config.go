package config

import (
	"errors"
	"strings"
	"time"

	"github.com/hdang/siteadmin/params"
	"github.com/spf13/viper"
)

const (
	DefaultListenAddr    = ":3000"
	DefaultSessionMaxAge = 24 * time.Hour
	EnvProduction        = "production"
)

var ErrMissingSessionSecret = errors.New("session secret is required in production")

type MySQLConfig struct {
	Dsn             string `mapstructure:"dsn"`
	TablePrefix     string `mapstructure:"tablePrefix"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns"`
	MaxOpenConns    int    `mapstructure:"maxOpenConns"`
	ConnMaxIdleTime int    `mapstructure:"connMaxIdleTime"`
	ConnMaxLifetime int    `mapstructure:"connMaxLifetime"`
}

type SessionConfig struct {
	Secret         string        `mapstructure:"secret"`
	SessionMaxAge  time.Duration `mapstructure:"sessionMaxAge"`
	CookieName     string        `mapstructure:"cookieName"`
	CookieHttpOnly bool          `mapstructure:"cookieHttpOnly"`
	CookieSecure   bool          `mapstructure:"cookieSecure"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// PasswordEncrypted is the password sealed with the session secret; it
	// takes precedence over Password when set.
	PasswordEncrypted string `mapstructure:"passwordEncrypted"`
	From              string `mapstructure:"from"`
}

type MailConfig struct {
	Backend string     `mapstructure:"backend"`
	To      string     `mapstructure:"to"` // contact-form recipient
	SMTP    SMTPConfig `mapstructure:"smtp"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	PoolSize int    `mapstructure:"poolSize"`
}

type ContentConfig struct {
	UpstreamURL string `mapstructure:"upstreamURL"` // WordPress REST endpoint base
}

type Config struct {
	Debug        bool          `mapstructure:"debug"`
	Environment  string        `mapstructure:"environment"`
	SiteName     string        `mapstructure:"siteName"`
	BaseURL      string        `mapstructure:"baseURL"`
	ListenAddr   string        `mapstructure:"listenAddr"`
	AllowOrigins []string      `mapstructure:"allowOrigins"`
	Session      SessionConfig `mapstructure:"session"`
	MySQL        MySQLConfig   `mapstructure:"mysql"`
	Redis        RedisConfig   `mapstructure:"redis"`
	Mail         MailConfig    `mapstructure:"mail"`
	Content      ContentConfig `mapstructure:"content"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Session.SessionMaxAge == 0 {
		c.Session.SessionMaxAge = DefaultSessionMaxAge
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = params.SessionCookieName
	}
	// Refusing to serve traffic with an unsigned session token space is the
	// whole point of the secret; only dev gets a generated one.
	if c.Session.Secret == "" && c.IsProduction() {
		return ErrMissingSessionSecret
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
