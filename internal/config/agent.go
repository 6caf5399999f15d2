package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "CHASER_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "CHASER_AGENT_BASE_URL"
	EnvAgentToken        = "CHASER_AGENT_TOKEN"
	EnvAgentDeployment   = "CHASER_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "CHASER_AGENT_API_VERSION"
	EnvAgentAuthType     = "CHASER_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "CHASER_AGENT_MODEL_NAME"
)

// AgentConfig aliases the go-agents configuration so the root Config can
// carry it as a toml section.
type AgentConfig = gaconfig.AgentConfig

// FinalizeAgent applies the three-phase finalize to a go-agents config:
// library defaults, environment variable overrides, and validation.
func FinalizeAgent(c *AgentConfig) error {
	loadAgentDefaults(c)
	loadAgentEnv(c)
	return validateAgent(c)
}

// MergeAgent overwrites non-zero fields from overlay.
func MergeAgent(c, overlay *AgentConfig) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Provider != nil {
		if c.Provider == nil {
			c.Provider = overlay.Provider
		} else {
			if overlay.Provider.Name != "" {
				c.Provider.Name = overlay.Provider.Name
			}
			if overlay.Provider.BaseURL != "" {
				c.Provider.BaseURL = overlay.Provider.BaseURL
			}
			for k, v := range overlay.Provider.Options {
				if c.Provider.Options == nil {
					c.Provider.Options = make(map[string]any)
				}
				c.Provider.Options[k] = v
			}
		}
	}
	if overlay.Model != nil {
		if c.Model == nil {
			c.Model = overlay.Model
		} else if overlay.Model.Name != "" {
			c.Model.Name = overlay.Model.Name
		}
	}
}

func loadAgentDefaults(c *AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *AgentConfig) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func validateAgent(c *AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
