package config

// Deployment holds the nested endpoint settings section. When its URL is
// non-empty it takes priority over the flat top-level keys.
type Deployment struct {
	AppscriptURL   string `yaml:"appscript_url" koanf:"appscript_url"`
	AppscriptToken string `yaml:"appscript_token" koanf:"appscript_token"`
}

// Server holds HTTP service settings.
type Server struct {
	Port     int    `yaml:"port" koanf:"port"`
	AllowAll bool   `yaml:"allow_all" koanf:"allow_all"`
	DataDir  string `yaml:"data_dir" koanf:"data_dir"`
}

// Config is the top-level intake configuration, corresponding to .intake.yml.
type Config struct {
	Deployment Deployment `yaml:"deployment" koanf:"deployment"`

	// Flat fallbacks for deployments that keep the secrets at the top level.
	AppscriptURL   string `yaml:"appscript_url" koanf:"appscript_url"`
	AppscriptToken string `yaml:"appscript_token" koanf:"appscript_token"`

	UserSheet    string `yaml:"user_sheet" koanf:"user_sheet"`
	ConfigSheet  string `yaml:"config_sheet" koanf:"config_sheet"`
	FetchTimeout int    `yaml:"fetch_timeout_seconds" koanf:"fetch_timeout_seconds"`
	CacheTTL     int    `yaml:"cache_ttl_seconds" koanf:"cache_ttl_seconds"`

	Server Server `yaml:"server" koanf:"server"`

	// Endpoint values taken from the environment. Kept apart from the file
	// keys so both config-file sources outrank INTAKE_APPSCRIPT_URL.
	envURL   string
	envToken string
}
