package config

// SessionBackend selects where visitor sessions are kept.
type SessionBackend string

const (
	BackendMemory SessionBackend = "memory"
	BackendRedis  SessionBackend = "redis"
)

// Config is the top-level solfinder configuration, corresponding to .solfinder.yml.
type Config struct {
	Catalog    CatalogConfig `yaml:"catalog" koanf:"catalog"`
	AppVersion string        `yaml:"app_version" koanf:"app_version"`
	DataDir    string        `yaml:"data_dir" koanf:"data_dir"`
	Server     ServerConfig  `yaml:"server" koanf:"server"`
	Sessions   SessionConfig `yaml:"sessions" koanf:"sessions"`
	Log        LogConfig     `yaml:"log" koanf:"log"`
}

// CatalogConfig says where the catalog document lives. URL wins over Path
// when both are set; publishing always writes Path.
type CatalogConfig struct {
	URL   string `yaml:"url" koanf:"url"`
	Path  string `yaml:"path" koanf:"path"`
	Watch bool   `yaml:"watch" koanf:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port" koanf:"port"`
	AllowAllOrigins bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	AllowedOrigins  []string `yaml:"allowed_origins" koanf:"allowed_origins"`
	AdminToken      string   `yaml:"admin_token" koanf:"admin_token"`
}

// SessionConfig holds session store settings.
type SessionConfig struct {
	Backend       SessionBackend `yaml:"backend" koanf:"backend"`
	TTLMinutes    int            `yaml:"ttl_minutes" koanf:"ttl_minutes"`
	RedisAddr     string         `yaml:"redis_addr" koanf:"redis_addr"`
	RedisPassword string         `yaml:"redis_password" koanf:"redis_password"`
	RedisDB       int            `yaml:"redis_db" koanf:"redis_db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	File  string `yaml:"file" koanf:"file"`
	JSON  bool   `yaml:"json" koanf:"json"`
}
