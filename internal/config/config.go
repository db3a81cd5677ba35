package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "AIML_WEEKLY_CONFIG"

	logLevelEnv        = "LOG_LEVEL"
	agentModeEnv       = "AGENT_MODE"
	cohereKeyEnv       = "COHERE_API_KEY"
	cohereModelEnv     = "COHERE_MODEL"
	serpstackKeyEnv    = "SERPSTACK_API_KEY"
	wpTokenEnv         = "WORDPRESS_ACCESS_TOKEN"
	wpSiteIDEnv        = "WORDPRESS_SITE_ID"
	wpClientIDEnv      = "WORDPRESS_CLIENT_ID"
	wpClientSecretEnv  = "WORDPRESS_CLIENT_SECRET"
	wpRedirectURIEnv   = "WORDPRESS_REDIRECT_URI"
	publishEnv         = "PUBLISH"
)

// Config holds every setting the pipeline needs. It is constructed once at
// process start and passed by reference; no component reads the environment
// on its own.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Newsletter NewsletterConfig `yaml:"newsletter"`
	LLM        LLMConfig        `yaml:"llm"`
	Serpstack  SerpstackConfig  `yaml:"serpstack"`
	WordPress  WordPressConfig  `yaml:"wordpress"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// NewsletterConfig tunes the per-run item collection.
type NewsletterConfig struct {
	Query    string `yaml:"query"`
	MaxItems int    `yaml:"maxItems"`
}

// LLMConfig selects and parameterizes the text-generation backend.
type LLMConfig struct {
	Mode        string `yaml:"mode"` // "cohere" or "ollama"
	CohereModel string `yaml:"cohereModel"`
	CohereKey   string `yaml:"cohereApiKey"`
	OllamaURL   string `yaml:"ollamaUrl"`
	OllamaModel string `yaml:"ollamaModel"`
}

// SerpstackConfig wires the keyed news search API.
type SerpstackConfig struct {
	APIKey string `yaml:"apiKey"`
}

// WordPressConfig covers both publishing and the one-time OAuth2 flow.
type WordPressConfig struct {
	SiteID       string `yaml:"siteId"`
	AccessToken  string `yaml:"accessToken"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	RedirectURI  string `yaml:"redirectUri"`
	Publish      bool   `yaml:"publish"`
}

// Load reads .env, the YAML file named by AIML_WEEKLY_CONFIG (if present), and
// environment overrides, in that order of increasing precedence.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(agentModeEnv); v != "" {
		c.LLM.Mode = strings.ToLower(v)
	}
	if v := os.Getenv(cohereKeyEnv); v != "" {
		c.LLM.CohereKey = v
	}
	if v := os.Getenv(cohereModelEnv); v != "" {
		c.LLM.CohereModel = v
	}
	if v := os.Getenv(serpstackKeyEnv); v != "" {
		c.Serpstack.APIKey = v
	}
	if v := os.Getenv(wpTokenEnv); v != "" {
		c.WordPress.AccessToken = v
	}
	if v := os.Getenv(wpSiteIDEnv); v != "" {
		c.WordPress.SiteID = v
	}
	if v := os.Getenv(wpClientIDEnv); v != "" {
		c.WordPress.ClientID = v
	}
	if v := os.Getenv(wpClientSecretEnv); v != "" {
		c.WordPress.ClientSecret = v
	}
	if v := os.Getenv(wpRedirectURIEnv); v != "" {
		c.WordPress.RedirectURI = v
	}
	if v := os.Getenv(publishEnv); v != "" {
		c.WordPress.Publish = strings.EqualFold(v, "true")
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Newsletter.Query != "" {
		base.Newsletter.Query = override.Newsletter.Query
	}
	if override.Newsletter.MaxItems > 0 {
		base.Newsletter.MaxItems = override.Newsletter.MaxItems
	}

	if override.LLM.Mode != "" {
		base.LLM.Mode = override.LLM.Mode
	}
	if override.LLM.CohereModel != "" {
		base.LLM.CohereModel = override.LLM.CohereModel
	}
	if override.LLM.CohereKey != "" {
		base.LLM.CohereKey = override.LLM.CohereKey
	}
	if override.LLM.OllamaURL != "" {
		base.LLM.OllamaURL = override.LLM.OllamaURL
	}
	if override.LLM.OllamaModel != "" {
		base.LLM.OllamaModel = override.LLM.OllamaModel
	}

	if override.Serpstack.APIKey != "" {
		base.Serpstack.APIKey = override.Serpstack.APIKey
	}

	if override.WordPress.SiteID != "" {
		base.WordPress.SiteID = override.WordPress.SiteID
	}
	if override.WordPress.AccessToken != "" {
		base.WordPress.AccessToken = override.WordPress.AccessToken
	}
	if override.WordPress.ClientID != "" {
		base.WordPress.ClientID = override.WordPress.ClientID
	}
	if override.WordPress.ClientSecret != "" {
		base.WordPress.ClientSecret = override.WordPress.ClientSecret
	}
	if override.WordPress.RedirectURI != "" {
		base.WordPress.RedirectURI = override.WordPress.RedirectURI
	}
	if override.WordPress.Publish {
		base.WordPress.Publish = true
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Newsletter: NewsletterConfig{
			Query:    "artificial intelligence machine learning",
			MaxItems: 6,
		},
		LLM: LLMConfig{
			Mode:        "cohere",
			CohereModel: "command-r-plus",
			OllamaURL:   "http://localhost:11434/api/generate",
			OllamaModel: "phi3",
		},
		WordPress: WordPressConfig{
			RedirectURI: "http://localhost:8000/callback",
			Publish:     false,
		},
	}
}
