package config

import "time"

// Config is the root configuration of the bulk-create tools.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	SFTP    SFTPConfig    `yaml:"sftp"`
	Log     LogConfig     `yaml:"log"`
	Import  ImportConfig  `yaml:"import"`
}

// BackendConfig points at the bulk-create endpoint.
type BackendConfig struct {
	BaseURL           string        `yaml:"base_url"             env:"BULK_API_BASE_URL"             env-default:"http://localhost:8072" validate:"required,url"`
	Path              string        `yaml:"path"                 env:"BULK_API_PATH"                 env-default:"/admin-core-service/course/v1/bulk-create" validate:"required,startswith=/"`
	Token             string        `yaml:"token"                env:"BULK_API_TOKEN"`
	InstituteID       string        `yaml:"institute_id"         env:"BULK_API_INSTITUTE_ID"`
	Timeout           time.Duration `yaml:"timeout"              env:"BULK_API_TIMEOUT"              env-default:"2m"  validate:"gt=0"`
	ChunkSize         int           `yaml:"chunk_size"           env:"BULK_API_CHUNK_SIZE"           env-default:"100" validate:"min=1,max=1000"`
	Workers           int           `yaml:"workers"              env:"BULK_API_WORKERS"              env-default:"4"   validate:"min=1,max=32"`
	DryRunMaxAttempts int           `yaml:"dry_run_max_attempts" env:"BULK_API_DRY_RUN_MAX_ATTEMPTS" env-default:"1"   validate:"min=1,max=10"`
}

// SFTPConfig holds the drop-box used for CSV input and report output.
type SFTPConfig struct {
	Host                  string `yaml:"host"                     env:"SFTP_HOST"`
	Port                  int    `yaml:"port"                     env:"SFTP_PORT"                     env-default:"22"        validate:"min=1,max=65535"`
	User                  string `yaml:"user"                     env:"SFTP_USER"`
	Pass                  string `yaml:"pass"                     env:"SFTP_PASS"`
	InboundDir            string `yaml:"inbound_dir"              env:"SFTP_INBOUND_DIR"              env-default:"/inbound"  validate:"required"`
	OutboundDir           string `yaml:"outbound_dir"             env:"SFTP_OUTBOUND_DIR"             env-default:"/outbound" validate:"required"`
	KnownHostsPath        string `yaml:"known_hosts_path"         env:"SFTP_KNOWN_HOSTS"`
	InsecureIgnoreHostKey bool   `yaml:"insecure_ignore_host_key" env:"SFTP_INSECURE_IGNORE_HOSTKEY" env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Mode  string `yaml:"mode"  env:"LOG_MODE"  env-default:"development" validate:"oneof=development dev production prod"`
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"        validate:"oneof=debug info warn error"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	DefaultsPath string `yaml:"defaults_path" env:"BULK_DEFAULTS_PATH"`
	Combos       string `yaml:"combos"        env:"BULK_COMBOS"`
}
