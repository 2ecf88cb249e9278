package domain

// Config is the YAML schema for ~/.clai/config.yaml.
type Config struct {
	ConfigFormatVersion string      `yaml:"config_format_version"`
	Preferences         Preferences `yaml:"preferences"`
	Security            Security    `yaml:"security"`
}

// Preferences holds execution behavior knobs.
type Preferences struct {
	AutoExecuteSafe bool   `yaml:"auto_execute_safe"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	Shell           string `yaml:"shell"`
}

// Security holds classifier configuration.
type Security struct {
	PolicyFile  string `yaml:"policy_file"`
	AuditDB     string `yaml:"audit_db"`
	QuickScreen bool   `yaml:"quick_screen"`
}
