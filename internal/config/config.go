package config

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"github.com/vytor/trelloflash/internal/session"
	"github.com/vytor/trelloflash/internal/trello"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "TRELLOFLASH_"

type Config struct {
	Addr             string        `koanf:"addr" validate:"required"`
	DBPath           string        `koanf:"db_path" validate:"required"`
	LogLevel         string        `koanf:"log_level" validate:"required,oneof=DEBUG INFO WARN WARNING ERROR"`
	TrelloAPIKey     string        `koanf:"trello_api_key" validate:"required"`
	TrelloBaseURL    string        `koanf:"trello_base_url" validate:"required,url"`
	RequestTimeout   time.Duration `koanf:"request_timeout" validate:"min=1s"`
	MoveWorkerCount  int           `koanf:"move_worker_count" validate:"min=1,max=32"`
	MoveQueueSize    int           `koanf:"move_queue_size" validate:"min=1"`
	CardAmounts      []int         `koanf:"card_amounts" validate:"dive,min=1"`
	DefaultMode      string        `koanf:"default_mode" validate:"required,selection_mode"`
	DefaultCardCount int           `koanf:"default_card_count" validate:"min=1"`
	SessionIdleTTL   time.Duration `koanf:"session_idle_ttl" validate:"min=1m"`
}

// Flags registers every configuration key on fs with its default value.
// Flag names use dashes; they map onto the underscore keys.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "optional YAML config file")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("db-path", "file:trelloflash.db", "SQLite database path")
	fs.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	fs.String("trello-api-key", "", "Trello application key")
	fs.String("trello-base-url", trello.DefaultBaseURL, "Trello REST API base URL")
	fs.Duration("request-timeout", trello.DefaultTimeout, "timeout for a single Trello request")
	fs.Int("move-worker-count", 2, "workers moving answered cards")
	fs.Int("move-queue-size", 64, "pending card moves before new ones are rejected")
	fs.String("card-amounts", "5,10,20,30,50", "card amount presets offered per list")
	fs.String("default-mode", session.Random.String(), "selection mode used when none was chosen yet")
	fs.Int("default-card-count", 10, "card count used when none was chosen yet")
	fs.Duration("session-idle-ttl", 30*time.Minute, "idle time after which a loaded session is dropped")
}

// Load builds the configuration from flag defaults, an optional YAML file,
// .env plus TRELLOFLASH_* environment variables and explicitly set flags,
// in increasing order of precedence.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("trelloflash", pflag.ContinueOnError)
	Flags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	k := koanf.New(".")

	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	// Unchanged flags only fill keys no earlier source provided.
	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load flags: %w", err)
	}

	amounts, err := parseAmounts(k.Get("card_amounts"))
	if err != nil {
		return Config{}, fmt.Errorf("card_amounts: %w", err)
	}

	cfg := Config{
		Addr:             k.String("addr"),
		DBPath:           k.String("db_path"),
		LogLevel:         strings.ToUpper(k.String("log_level")),
		TrelloAPIKey:     k.String("trello_api_key"),
		TrelloBaseURL:    k.String("trello_base_url"),
		RequestTimeout:   k.Duration("request_timeout"),
		MoveWorkerCount:  k.Int("move_worker_count"),
		MoveQueueSize:    k.Int("move_queue_size"),
		CardAmounts:      amounts,
		DefaultMode:      k.String("default_mode"),
		DefaultCardCount: k.Int("default_card_count"),
		SessionIdleTTL:   k.Duration("session_idle_ttl"),
	}
	return cfg, cfg.Validate()
}

// parseAmounts accepts "5,10,20" from flags and env, or a YAML list.
func parseAmounts(v any) ([]int, error) {
	var parts []string
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		parts = strings.Split(t, ",")
	case []any:
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
	case []int:
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported value %v", v)
	}

	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})
	_ = v.RegisterValidation("selection_mode", func(fl validator.FieldLevel) bool {
		_, err := session.ParseMode(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate reports every invalid key by its configuration name.
func (c Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := fe.Namespace()
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return name + " cannot be empty"
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, fe.Param())
	case "url":
		return name + " must be a URL"
	case "selection_mode":
		return fmt.Sprintf("%s %q is not a selection mode", name, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}
