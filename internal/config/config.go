package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config stores runtime configuration for the voice command front end.
type Config struct {
	HTTP        HTTPConfig
	Backend     BackendConfig
	Engine      EngineConfig
	Interpret   InterpretConfig
	Apps        AppsConfig
	Permissions PermissionsConfig
}

type HTTPConfig struct {
	Addr string
}

type BackendConfig struct {
	BaseURL   string
	QueueSize int
}

type EngineConfig struct {
	URL         string
	DialTimeout time.Duration
}

type InterpretConfig struct {
	PhoneRegion string
}

type AppsConfig struct {
	Installed  []string
	MapsAppID  string
	MediaAppID string
	ChatAppID  string
}

type PermissionsConfig struct {
	Granted []string
	Denied  []string
	// NotificationsGated mirrors host OS versions that require an explicit
	// notification permission.
	NotificationsGated bool
}

// Load resolves configuration from environment variables and defaults.
func Load() Config {
	cfg := Config{
		HTTP: HTTPConfig{
			Addr: envOrDefault("VOICEDASH_HTTP_ADDR", ":8080"),
		},
		Backend: BackendConfig{
			BaseURL:   envOrDefault("VOICEDASH_BACKEND_BASE_URL", "http://localhost:3001"),
			QueueSize: envOrDefaultInt("VOICEDASH_REPORT_QUEUE_SIZE", 16),
		},
		Engine: EngineConfig{
			URL:         envOrDefault("VOICEDASH_ENGINE_URL", "ws://localhost:3002/listen"),
			DialTimeout: time.Duration(envOrDefaultInt("VOICEDASH_ENGINE_DIAL_TIMEOUT_MS", 5000)) * time.Millisecond,
		},
		Interpret: InterpretConfig{
			PhoneRegion: envOrDefault("VOICEDASH_PHONE_REGION", "US"),
		},
		Apps: AppsConfig{
			Installed: envOrDefaultList("VOICEDASH_INSTALLED_APPS",
				"com.google.android.apps.maps", "com.spotify.music", "com.whatsapp"),
			MapsAppID:  envOrDefault("VOICEDASH_MAPS_APP_ID", "com.google.android.apps.maps"),
			MediaAppID: envOrDefault("VOICEDASH_MEDIA_APP_ID", "com.spotify.music"),
			ChatAppID:  envOrDefault("VOICEDASH_CHAT_APP_ID", "com.whatsapp"),
		},
		Permissions: PermissionsConfig{
			Granted: envOrDefaultList("VOICEDASH_PERMISSIONS_GRANTED",
				"record_audio", "call_phone", "send_sms"),
			Denied:             envOrDefaultList("VOICEDASH_PERMISSIONS_DENIED"),
			NotificationsGated: envOrDefaultBool("VOICEDASH_NOTIFICATIONS_GATED", false),
		},
	}

	if cfg.Backend.QueueSize <= 0 {
		cfg.Backend.QueueSize = 16
	}
	if cfg.Engine.DialTimeout <= 0 {
		cfg.Engine.DialTimeout = 5 * time.Second
	}

	return cfg
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// envOrDefaultList reads a comma-separated list, dropping empty entries. An
// unset variable yields the fallback; a set-but-empty variable yields nil.
func envOrDefaultList(key string, fallback ...string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
