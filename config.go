package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	SpreadsheetID string   `yaml:"spreadsheet_id"`
	Sources       []Source `yaml:"sources"`
	SourceDir     string   `yaml:"source_dir"`

	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
	CachePath       string `yaml:"cache_path"`

	OutputDir    string `yaml:"output_dir"`
	ExportPrefix string `yaml:"export_prefix"`
	TopStations  int    `yaml:"top_stations"`
	SummaryFrom  string `yaml:"summary_from"`
	SummaryTo    string `yaml:"summary_to"`

	ThemeRulesPath string `yaml:"theme_rules_path"`
	PlantRulesPath string `yaml:"plant_rules_path"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`

	WatchSchedule string `yaml:"watch_schedule"`
	Timezone      string `yaml:"timezone"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig(path string) Config {
	var cfg Config

	// Load from config.yaml if it exists
	if path == "" {
		path = "config.yaml"
		if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
			path = envPath
		}
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", path, err)
		}
		log.Printf("Loaded config from %s", path)
	}

	// Env vars override YAML values
	envOverride(&cfg.SpreadsheetID, "SPREADSHEET_ID")
	envOverride(&cfg.SourceDir, "SOURCE_DIR")
	envOverrideInt(&cfg.CacheTTLMinutes, "CACHE_TTL_MINUTES")
	envOverride(&cfg.CachePath, "CACHE_PATH")
	envOverride(&cfg.OutputDir, "OUTPUT_DIR")
	envOverride(&cfg.ExportPrefix, "EXPORT_PREFIX")
	envOverrideInt(&cfg.TopStations, "TOP_STATIONS")
	envOverride(&cfg.SummaryFrom, "SUMMARY_FROM")
	envOverride(&cfg.SummaryTo, "SUMMARY_TO")
	envOverride(&cfg.ThemeRulesPath, "THEME_RULES_PATH")
	envOverride(&cfg.PlantRulesPath, "PLANT_RULES_PATH")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.WatchSchedule, "WATCH_SCHEDULE")
	envOverride(&cfg.Timezone, "TIMEZONE")

	if list := os.Getenv("SOURCES"); list != "" {
		cfg.Sources = nil
		for _, entry := range strings.Split(list, ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			gid, name, found := strings.Cut(entry, ":")
			if !found {
				log.Fatalf("invalid SOURCES entry '%s': want gid:name", entry)
			}
			cfg.Sources = append(cfg.Sources, Source{
				GID:  strings.TrimSpace(gid),
				Name: strings.TrimSpace(name),
			})
		}
	}

	// Defaults
	if cfg.CacheTTLMinutes == 0 {
		cfg.CacheTTLMinutes = 10
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./reports"
	}
	if cfg.ExportPrefix == "" {
		cfg.ExportPrefix = "ezs"
	}
	if cfg.TopStations == 0 {
		cfg.TopStations = 5
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	// Validate required fields
	if cfg.SpreadsheetID == "" && cfg.SourceDir == "" {
		log.Fatalf("Required config 'spreadsheet_id' or 'source_dir' is not set (via config.yaml or env var)")
	}
	if len(cfg.Sources) == 0 {
		log.Fatalf("Required config 'sources' is not set (via config.yaml or SOURCES env var)")
	}
	names := make(map[string]bool, len(cfg.Sources))
	for _, src := range cfg.Sources {
		if src.Name == "" {
			log.Fatalf("invalid source (gid '%s'): name must not be empty", src.GID)
		}
		if names[src.Name] {
			log.Fatalf("invalid sources: duplicate name '%s'", src.Name)
		}
		names[src.Name] = true
	}

	if cfg.CacheTTLMinutes < 0 {
		log.Fatalf("invalid cache_ttl_minutes '%d': must be >= 0", cfg.CacheTTLMinutes)
	}
	if cfg.TopStations < 1 {
		log.Fatalf("invalid top_stations '%d': must be >= 1", cfg.TopStations)
	}

	var summaryFrom, summaryTo time.Time
	if cfg.SummaryFrom != "" {
		m, err := time.Parse("2006-01", cfg.SummaryFrom)
		if err != nil {
			log.Fatalf("invalid summary_from '%s': want YYYY-MM", cfg.SummaryFrom)
		}
		summaryFrom = m
	}
	if cfg.SummaryTo != "" {
		m, err := time.Parse("2006-01", cfg.SummaryTo)
		if err != nil {
			log.Fatalf("invalid summary_to '%s': want YYYY-MM", cfg.SummaryTo)
		}
		summaryTo = m
	}
	if !summaryFrom.IsZero() && !summaryTo.IsZero() && summaryTo.Before(summaryFrom) {
		log.Fatalf("invalid summary window: %s is after %s", cfg.SummaryFrom, cfg.SummaryTo)
	}

	if cfg.WatchSchedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(cfg.WatchSchedule); err != nil {
			log.Fatalf("invalid watch_schedule '%s': %v", cfg.WatchSchedule, err)
		}
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

// SlackConfigured reports whether report delivery to Slack is set up.
func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}
