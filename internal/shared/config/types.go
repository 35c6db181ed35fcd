package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// AdminUIEnabled grants admin_ui scope to credential-less same-origin requests.
	// The trust boundary is the deployment network.
	AdminUIEnabled bool `mapstructure:"admin_ui_enabled"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	// MigrationTool is goose or golang-migrate; sqlite always uses AutoMigrate.
	MigrationTool string `mapstructure:"migration_tool"`
}

// GetDSN returns the driver specific connection string.
func (d *DatabaseConfig) GetDSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			d.Host, d.Port, d.Username, d.Password, d.Database)
	case "sqlite":
		return d.Path
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC&multiStatements=true",
			d.Username, d.Password, d.Host, d.Port, d.Database)
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// APIKeyConfig binds an opaque bearer key to the agent name recorded as activity author.
type APIKeyConfig struct {
	Name string `mapstructure:"name"`
	Key  string `mapstructure:"key"`
}

type AuthConfig struct {
	APIKeys             []APIKeyConfig `mapstructure:"api_keys"`
	ReporterTokenSecret string         `mapstructure:"reporter_token_secret"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Enabled reports whether a Redis host is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

type RateLimitConfig struct {
	ReporterRequestsPerMinute int `mapstructure:"reporter_requests_per_minute"`
	ReporterRequestsPerHour   int `mapstructure:"reporter_requests_per_hour"`
}

type StorageConfig struct {
	AttachmentsDir string `mapstructure:"attachments_dir"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}
