package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joinwarden/joinwarden/internal/biz/usecase"
)

// Config represents application configuration
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// Approval configuration
	Approval ApprovalConfig

	// Stats configuration
	Stats StatsConfig

	// Messages configuration (loaded from YAML)
	Messages *MessagesConfig

	// Debug mode
	Debug bool
}

// TelegramConfig contains Telegram configuration
type TelegramConfig struct {
	Token string
}

// ApprovalConfig contains auto-approval configuration
type ApprovalConfig struct {
	Delay        time.Duration // Wait before auto-approving a join request
	NotifyAdmins bool          // Notify chat admins about new requests
}

// StatsConfig contains statistics configuration
type StatsConfig struct {
	DBPath          string
	HourlyInterval  time.Duration // Rolling hourly report cadence
	PeriodInterval  time.Duration // Longer rolling report cadence
	PersistInterval time.Duration // Snapshot-to-disk cadence
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Auto-approval delay
	approveDelaySec := 600
	if val := os.Getenv("AUTO_APPROVE_DELAY"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			approveDelaySec = parsed
		}
	}

	// Admin notification toggle
	notifyAdmins := os.Getenv("ADMIN_NOTIFICATION") != "false"

	// Stats DB path
	statsDBPath := os.Getenv("STATS_DB_PATH")
	if statsDBPath == "" {
		homeDir, _ := os.UserHomeDir()
		statsDBPath = filepath.Join(homeDir, ".joinwarden", "stats.db")
	}

	// Report cadences
	hourlyMin := 60
	if val := os.Getenv("REPORT_HOURLY_MINUTES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			hourlyMin = parsed
		}
	}

	periodHr := 8
	if val := os.Getenv("REPORT_PERIOD_HOURS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			periodHr = parsed
		}
	}

	persistMin := 5
	if val := os.Getenv("STATS_PERSIST_MINUTES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			persistMin = parsed
		}
	}

	// Load message templates from YAML
	messagesConfigPath := os.Getenv("MESSAGES_CONFIG_PATH")
	messages, _ := LoadMessagesConfig(messagesConfigPath)

	return &Config{
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Approval: ApprovalConfig{
			Delay:        time.Duration(approveDelaySec) * time.Second,
			NotifyAdmins: notifyAdmins,
		},
		Stats: StatsConfig{
			DBPath:          statsDBPath,
			HourlyInterval:  time.Duration(hourlyMin) * time.Minute,
			PeriodInterval:  time.Duration(periodHr) * time.Hour,
			PersistInterval: time.Duration(persistMin) * time.Minute,
		},
		Messages: messages,
		Debug:    os.Getenv("DEBUG") == "true",
	}
}

// ToLifecycleConfig converts to the join-workflow configuration
func (c *Config) ToLifecycleConfig() usecase.LifecycleConfig {
	messages := c.Messages
	if messages == nil {
		messages = DefaultMessagesConfig()
	}
	return usecase.LifecycleConfig{
		ApproveDelay:   c.Approval.Delay,
		NotifyAdmins:   c.Approval.NotifyAdmins,
		WelcomeMessage: messages.Welcome,
		NotifyHeader:   messages.AdminNotification,
	}
}

// ToReportConfig converts to the report formatting configuration
func (c *Config) ToReportConfig() usecase.ReportConfig {
	messages := c.Messages
	if messages == nil {
		messages = DefaultMessagesConfig()
	}
	return usecase.ReportConfig{
		HourlyHeader: messages.HourlyHeader,
		PeriodHeader: messages.PeriodHeader,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return &ConfigError{Field: "TELEGRAM_BOT_TOKEN", Message: "required"}
	}
	if c.Approval.Delay <= 0 {
		return &ConfigError{Field: "AUTO_APPROVE_DELAY", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
