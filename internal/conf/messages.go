package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MessagesConfig contains user-facing message templates loaded from YAML
type MessagesConfig struct {
	// Welcome is appended after the personalized greeting
	Welcome string `yaml:"welcome"`

	// AdminNotification is the header of the new-request note sent to admins
	AdminNotification string `yaml:"admin_notification"`

	// HourlyHeader is the hourly report header; %s is the report time
	HourlyHeader string `yaml:"hourly_header"`

	// PeriodHeader is the period report header; %s is the report time
	PeriodHeader string `yaml:"period_header"`
}

// DefaultMessagesConfig returns the built-in message templates
func DefaultMessagesConfig() *MessagesConfig {
	return &MessagesConfig{
		Welcome:           "🎉 Welcome to our group! Feel free to say hello.",
		AdminNotification: "📝 New join request:",
		HourlyHeader:      "📊 Stats for the last hour (%s):",
		PeriodHeader:      "📈 Stats for the reporting period (%s):",
	}
}

// LoadMessagesConfig loads message templates from a YAML file
func LoadMessagesConfig(configPath string) (*MessagesConfig, error) {
	// Try multiple paths
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/messages.yaml",
			"./configs/messages.yaml",
			"/etc/joinwarden/messages.yaml",
		}
		// Add path relative to executable
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "messages.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	var err error

	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err = os.ReadFile(p)
		if err == nil {
			loadedPath = p
			break
		}
	}

	if data == nil {
		// Return default config if no file found
		fmt.Println("[Config] No messages.yaml found, using defaults")
		return DefaultMessagesConfig(), nil
	}

	fmt.Printf("[Config] Loading messages from: %s\n", loadedPath)

	var config MessagesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse messages.yaml: %w", err)
	}

	config.fillDefaults()
	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *MessagesConfig) fillDefaults() {
	defaults := DefaultMessagesConfig()

	if c.Welcome == "" {
		c.Welcome = defaults.Welcome
	}
	if c.AdminNotification == "" {
		c.AdminNotification = defaults.AdminNotification
	}
	if c.HourlyHeader == "" {
		c.HourlyHeader = defaults.HourlyHeader
	}
	if c.PeriodHeader == "" {
		c.PeriodHeader = defaults.PeriodHeader
	}
}
