package redis

import "time"

// Config contains all available configuration options for Redis.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	// KeyPrefix namespaces archive keys so one Redis can serve several
	// deployments.
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"pagekit:session:"`
	// ArchiveTTL bounds how long an archived session may wait to be
	// reloaded. Zero keeps records until overwritten.
	ArchiveTTL time.Duration `env:"REDIS_ARCHIVE_TTL" envDefault:"72h"`
}
