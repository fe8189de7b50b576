package config

// HookConfig describes the optional command run with every transcript.
type HookConfig struct {
	Command     string            `toml:"command"`
	Args        []string          `toml:"args"`
	Prefix      string            `toml:"prefix"` // supports ${hostname} and ${model}
	MinChars    int               `toml:"min_chars"`
	CooldownSec float64           `toml:"cooldown_sec"`
	TimeoutSec  float64           `toml:"timeout_sec"`
	QueueSize   int               `toml:"queue_size"`
	Env         map[string]string `toml:"env"`
	RedactPII   bool              `toml:"redact_pii"`
}

// Enabled reports whether a hook command is configured.
func (h HookConfig) Enabled() bool {
	return h.Command != ""
}
