package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/u1i/crewai-debate/pkg/llm"
	"github.com/u1i/crewai-debate/pkg/types"
)

// DefaultMaxRounds is used when MAX_DEBATE_ROUNDS is absent or invalid.
const DefaultMaxRounds = 5

// ConfigError reports a missing or unusable configuration value.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Key, e.Reason)
}

// Config holds all application configuration
type Config struct {
	OpenRouter OpenRouterConfig
	MaxRounds  int
	LogDir     string
	Roles      RolesConfig
	Stream     StreamConfig
}

// OpenRouterConfig holds the completion-service credentials and endpoint.
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
}

// RolesConfig holds the three participant configurations.
type RolesConfig struct {
	Proponent types.ParticipantConfig
	Opponent  types.ParticipantConfig
	Moderator types.ParticipantConfig
}

// StreamConfig holds the optional Kafka event sink configuration. The
// sink is disabled when no seed brokers are set.
type StreamConfig struct {
	SeedBrokers []string
	Topic       string
	SASL        SASLConfig
	TLSEnabled  bool
}

// SASLConfig holds SASL authentication configuration
type SASLConfig struct {
	Mechanism string
	Username  string
	Password  string
}

// Enabled reports whether the event stream sink should be created.
func (c StreamConfig) Enabled() bool {
	return len(c.SeedBrokers) > 0
}

// Built-in participant defaults. Every field can be overridden per role
// via {ROLE}_MODEL, {ROLE}_NAME, {ROLE}_GOAL and {ROLE}_BACKSTORY.
var defaultRoles = RolesConfig{
	Proponent: types.ParticipantConfig{
		Role:  types.RoleProponent,
		Name:  "Proponent",
		Model: "openai/gpt-5.1",
		Goal: "Build the strongest possible argument for the given topic. " +
			"Use logical reasoning, evidence, and persuasive techniques to construct a compelling case.",
		Backstory: "You are a skilled debater and advocate with expertise in constructing " +
			"well-reasoned arguments. Your goal is to present the most convincing case possible, " +
			"using facts, logic, and rhetorical techniques to support your position.",
	},
	Opponent: types.ParticipantConfig{
		Role:  types.RoleOpponent,
		Name:  "Opponent",
		Model: "anthropic/claude-sonnet-4.5",
		Goal: "Find every flaw, logical fallacy, and weak point in the Proponent's argument. " +
			"Challenge assumptions, identify gaps, and expose weaknesses.",
		Backstory: "You are a critical thinker and skilled critic with a keen eye for " +
			"identifying logical fallacies, weak reasoning, and unsupported claims. Your role " +
			"is to rigorously examine arguments and expose their vulnerabilities.",
	},
	Moderator: types.ParticipantConfig{
		Role:  types.RoleModerator,
		Name:  "Moderator",
		Model: "google/gemini-2.5-pro",
		Goal: "Monitor the debate quality and decide when sufficient discussion has occurred. " +
			"Then provide a balanced, comprehensive summary.",
		Backstory: "You are an impartial moderator with expertise in managing debates and " +
			"synthesizing complex discussions. You evaluate after each round whether the debate " +
			"has reached sufficient depth, decide if more rounds are needed, and provide a fair, " +
			"balanced summary that captures the key points, strengths, and weaknesses of each " +
			"position when the debate concludes.",
	},
}

// Load loads configuration from a .env file (if present) and the process
// environment. It fails with a ConfigError when the API credential is
// missing, before any completion call can be made.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load()

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return nil, &ConfigError{Key: "OPENROUTER_API_KEY", Reason: "not set"}
	}

	baseURL := os.Getenv("OPENROUTER_BASE_URL")
	if baseURL == "" {
		baseURL = llm.DefaultBaseURL
	}

	maxRounds := DefaultMaxRounds
	if raw := os.Getenv("MAX_DEBATE_ROUNDS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			maxRounds = n
		}
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	cfg := &Config{
		OpenRouter: OpenRouterConfig{
			APIKey:  apiKey,
			BaseURL: baseURL,
		},
		MaxRounds: maxRounds,
		LogDir:    logDir,
		Roles: RolesConfig{
			Proponent: loadRole("PROPONENT", defaultRoles.Proponent),
			Opponent:  loadRole("OPPONENT", defaultRoles.Opponent),
			Moderator: loadRole("MODERATOR", defaultRoles.Moderator),
		},
		Stream: loadStream(),
	}

	return cfg, nil
}

// loadRole applies {prefix}_MODEL/_NAME/_GOAL/_BACKSTORY overrides on top
// of the built-in defaults for one role.
func loadRole(prefix string, def types.ParticipantConfig) types.ParticipantConfig {
	cfg := def
	if v := os.Getenv(prefix + "_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv(prefix + "_NAME"); v != "" {
		cfg.Name = v
	}
	if v := os.Getenv(prefix + "_GOAL"); v != "" {
		cfg.Goal = v
	}
	if v := os.Getenv(prefix + "_BACKSTORY"); v != "" {
		cfg.Backstory = v
	}
	return cfg
}

func loadStream() StreamConfig {
	var brokers []string
	if raw := os.Getenv("SEED_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	topic := os.Getenv("STREAM_TOPIC")
	if topic == "" {
		topic = "debate-events"
	}

	tlsEnabled, _ := strconv.ParseBool(os.Getenv("TLS_ENABLED"))

	return StreamConfig{
		SeedBrokers: brokers,
		Topic:       topic,
		SASL: SASLConfig{
			Mechanism: os.Getenv("SASL_MECHANISM"),
			Username:  os.Getenv("SASL_USERNAME"),
			Password:  os.Getenv("SASL_PASSWORD"),
		},
		TLSEnabled: tlsEnabled,
	}
}
