package config

type RedisConfig struct {
	Address   string
	Username  string
	Password  string
	DB        int
	UseTLS    bool
	QueueName string
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Address:   getEnv("REDIS_ADDR", "localhost:6379"),
		Username:  getEnv("REDIS_USERNAME", ""),
		Password:  getEnv("REDIS_PASSWORD", ""),
		DB:        getEnvInt("REDIS_DB", 0),
		UseTLS:    getEnvBool("REDIS_USE_TLS", false),
		QueueName: getEnv("REDIS_QUEUE_NAME", "deep_analysis_jobs"),
	}
}
