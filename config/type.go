package config

type Config struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
	NATSURL  string `mapstructure:"nats_url"`
	RedisURL string `mapstructure:"redis_url"`

	UsernameBlacklist []string `mapstructure:"username_blacklist"`
	MaxUsernameLength int      `mapstructure:"max_username_length"`
	MaxMessageLength  int      `mapstructure:"max_message_length"`
}
