package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("SCHEDULER_INTERVAL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Kolkata", cfg.App.Timezone)
	assert.Equal(t, 60*time.Second, cfg.Scheduler.Interval)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.BotStaleAfter)
	assert.Equal(t, 50, cfg.Scheduler.BotPollBatch)
	assert.Equal(t, "https://coachlink360.aux-rolplay.com/api", cfg.AuxBot.BaseURL)
	assert.Equal(t, "coachlink", cfg.NATS.SubjectPrefix)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TWILIO_TEMPLATE_SID", "HX123")
	t.Setenv("SCHEDULER_INTERVAL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "HX123", cfg.Twilio.TemplateSID)
	assert.Equal(t, 60*time.Second, cfg.Scheduler.Interval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad timezone", mutate: func(c *Config) { c.App.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "zero interval", mutate: func(c *Config) { c.Scheduler.Interval = 0 }, wantErr: true},
		{name: "default secret in production", mutate: func(c *Config) {
			c.Server.Environment = "production"
			c.JWT.AdminSecret = "change-me-admin-secret"
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				App:       AppConfig{Timezone: "UTC"},
				Scheduler: SchedulerConfig{Interval: time.Minute, BotPollBatch: 50},
				JWT:       JWTConfig{AdminSecret: "s3cret"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
