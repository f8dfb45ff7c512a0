package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "SMARTMART_CONFIG_FILE"
	envPrefix         = "SMARTMART"
	secretMask        = "******"
)

type rateLimit struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type auth struct {
	SessionSecret   string        `mapstructure:"session_secret"`
	FederatedSecret string        `mapstructure:"federated_secret"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	ResetURL        string        `mapstructure:"reset_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type smtp struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type tls struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

func (t tls) Enabled() bool {
	return t.CA != "" || t.Cert != "" || t.Key != ""
}

type topics struct {
	Notifications string `mapstructure:"notifications"`
}

type consumers struct {
	NotificationsGroup string `mapstructure:"notifications_group"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	TLS                tls       `mapstructure:"tls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

// Enabled reports whether the notification channel is configured.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type Config struct {
	LogLevel        slog.Level `mapstructure:"log_level"`
	LogFile         string     `mapstructure:"log_file"`
	HTTPServerAddr  string     `mapstructure:"http_server_addr"`
	RateLimit       rateLimit  `mapstructure:"rate_limit"`
	AdminToken      string     `mapstructure:"admin_token"`
	RemoteDB        string     `mapstructure:"remote_db"`
	LocalCachePath  string     `mapstructure:"local_cache_path"`
	RefreshSchedule string     `mapstructure:"refresh_schedule"`
	Auth            auth       `mapstructure:"auth"`
	SMTP            smtp       `mapstructure:"smtp"`
	Broker          broker     `mapstructure:"broker"`
}

var defaults = map[string]any{
	"log_level":                            "info",
	"log_file":                             "",
	"http_server_addr":                     ":8080",
	"rate_limit.rps":                       100.0,
	"rate_limit.burst":                     200,
	"admin_token":                          "",
	"remote_db":                            "postgres://localhost:5432/smartmart",
	"local_cache_path":                     "smartmart.db",
	"refresh_schedule":                     "",
	"auth.session_secret":                  "",
	"auth.federated_secret":                "",
	"auth.session_ttl":                     "720h",
	"auth.reset_url":                       "",
	"auth.timeout":                         "15s",
	"smtp.host":                            "",
	"smtp.port":                            587,
	"smtp.username":                        "",
	"smtp.password":                        "",
	"smtp.from":                            "",
	"broker.seed_brokers":                  []string{},
	"broker.schema_registry_urls":          []string{},
	"broker.tls.ca":                        "",
	"broker.tls.cert":                      "",
	"broker.tls.key":                       "",
	"broker.topics.notifications":          "notifications",
	"broker.consumers.notifications_group": "smartmart-notifications",
}

func Load() Config {
	cfg, err := load(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// load reads path when it is set, then applies SMARTMART_* environment
// overrides on top of the defaults.
func load(path string) (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return secretMask
}

// maskDSN hides the password of a postgres URL.
func maskDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return mask(dsn)
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return dsn
	}
	return scheme + "://" + user + ":" + secretMask + "@" + host
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	LogFile=%q
	HTTPServerAddr=%q
	RateLimit: RPS=%v Burst=%d
	AdminToken=%q
	RemoteDB=%q
	LocalCachePath=%q
	RefreshSchedule=%q

	Auth:
		SessionSecret=%q
		FederatedSecret=%q
		SessionTTL=%s
		ResetURL=%q
		Timeout=%s

	SMTP:
		Host=%q
		Port=%d
		Username=%q
		Password=%q
		From=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		Notifications=%q
	Consumers:
		NotificationsGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.LogFile,
		c.HTTPServerAddr,
		c.RateLimit.RPS,
		c.RateLimit.Burst,
		mask(c.AdminToken),
		maskDSN(c.RemoteDB),
		c.LocalCachePath,
		c.RefreshSchedule,
		mask(c.Auth.SessionSecret),
		mask(c.Auth.FederatedSecret),
		c.Auth.SessionTTL,
		c.Auth.ResetURL,
		c.Auth.Timeout,
		c.SMTP.Host,
		c.SMTP.Port,
		c.SMTP.Username,
		mask(c.SMTP.Password),
		c.SMTP.From,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.Notifications,
		c.Broker.Consumers.NotificationsGroup,
	)
}
