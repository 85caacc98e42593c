package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("AUTO_APPROVE_DELAY", "")
	t.Setenv("ADMIN_NOTIFICATION", "")
	t.Setenv("STATS_DB_PATH", "")
	t.Setenv("REPORT_HOURLY_MINUTES", "")
	t.Setenv("REPORT_PERIOD_HOURS", "")
	t.Setenv("STATS_PERSIST_MINUTES", "")
	t.Setenv("DEBUG", "")

	config := LoadFromEnv()

	if config.Telegram.Token != "test-token" {
		t.Errorf("Token = %q", config.Telegram.Token)
	}
	if config.Approval.Delay != 600*time.Second {
		t.Errorf("Default approval delay = %v, want 10m", config.Approval.Delay)
	}
	if !config.Approval.NotifyAdmins {
		t.Error("Admin notification should default to enabled")
	}
	if config.Stats.HourlyInterval != 60*time.Minute {
		t.Errorf("Hourly interval = %v, want 1h", config.Stats.HourlyInterval)
	}
	if config.Stats.PeriodInterval != 8*time.Hour {
		t.Errorf("Period interval = %v, want 8h", config.Stats.PeriodInterval)
	}
	if config.Stats.PersistInterval != 5*time.Minute {
		t.Errorf("Persist interval = %v, want 5m", config.Stats.PersistInterval)
	}
	if config.Stats.DBPath == "" {
		t.Error("Stats DB path should fall back to the home directory default")
	}
	if config.Debug {
		t.Error("Debug should default to off")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("AUTO_APPROVE_DELAY", "30")
	t.Setenv("ADMIN_NOTIFICATION", "false")
	t.Setenv("STATS_DB_PATH", "/tmp/warden.db")
	t.Setenv("REPORT_HOURLY_MINUTES", "15")
	t.Setenv("REPORT_PERIOD_HOURS", "24")
	t.Setenv("STATS_PERSIST_MINUTES", "1")
	t.Setenv("DEBUG", "true")

	config := LoadFromEnv()

	if config.Approval.Delay != 30*time.Second {
		t.Errorf("Approval delay = %v, want 30s", config.Approval.Delay)
	}
	if config.Approval.NotifyAdmins {
		t.Error("ADMIN_NOTIFICATION=false should disable notifications")
	}
	if config.Stats.DBPath != "/tmp/warden.db" {
		t.Errorf("DB path = %q", config.Stats.DBPath)
	}
	if config.Stats.HourlyInterval != 15*time.Minute {
		t.Errorf("Hourly interval = %v, want 15m", config.Stats.HourlyInterval)
	}
	if config.Stats.PeriodInterval != 24*time.Hour {
		t.Errorf("Period interval = %v, want 24h", config.Stats.PeriodInterval)
	}
	if !config.Debug {
		t.Error("DEBUG=true should enable debug mode")
	}
}

func TestLoadFromEnv_MalformedNumberKeepsDefault(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("AUTO_APPROVE_DELAY", "soon")

	config := LoadFromEnv()
	if config.Approval.Delay != 600*time.Second {
		t.Errorf("Malformed delay should keep the default, got %v", config.Approval.Delay)
	}
}

func TestValidate(t *testing.T) {
	config := &Config{
		Telegram: TelegramConfig{Token: "test-token"},
		Approval: ApprovalConfig{Delay: time.Minute},
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Valid config rejected: %v", err)
	}

	config.Telegram.Token = ""
	if err := config.Validate(); err == nil {
		t.Error("Missing token should fail validation")
	}

	config.Telegram.Token = "test-token"
	config.Approval.Delay = 0
	if err := config.Validate(); err == nil {
		t.Error("Zero approval delay should fail validation")
	}
}

func TestLoadMessagesConfig_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	content := "welcome: \"Glad you made it!\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	messages, err := LoadMessagesConfig(path)
	if err != nil {
		t.Fatalf("Failed to load messages: %v", err)
	}

	if messages.Welcome != "Glad you made it!" {
		t.Errorf("Welcome = %q", messages.Welcome)
	}
	defaults := DefaultMessagesConfig()
	if messages.AdminNotification != defaults.AdminNotification {
		t.Errorf("Missing fields should fall back to defaults, got %q", messages.AdminNotification)
	}
	if messages.HourlyHeader != defaults.HourlyHeader {
		t.Errorf("HourlyHeader = %q", messages.HourlyHeader)
	}
}

func TestLoadMessagesConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	if err := os.WriteFile(path, []byte("welcome: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadMessagesConfig(path); err == nil {
		t.Error("Malformed YAML should be rejected")
	}
}

func TestToLifecycleConfig(t *testing.T) {
	config := &Config{
		Approval: ApprovalConfig{Delay: 2 * time.Minute, NotifyAdmins: true},
		Messages: &MessagesConfig{
			Welcome:           "hi",
			AdminNotification: "note",
		},
	}

	lc := config.ToLifecycleConfig()
	if lc.ApproveDelay != 2*time.Minute || !lc.NotifyAdmins {
		t.Errorf("Lifecycle config = %+v", lc)
	}
	if lc.WelcomeMessage != "hi" || lc.NotifyHeader != "note" {
		t.Errorf("Message templates not carried over: %+v", lc)
	}

	// Nil messages fall back to the built-in templates
	config.Messages = nil
	lc = config.ToLifecycleConfig()
	if lc.WelcomeMessage != DefaultMessagesConfig().Welcome {
		t.Errorf("Nil messages should use defaults, got %q", lc.WelcomeMessage)
	}
}
