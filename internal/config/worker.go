package config

type WorkerConfig struct {
	Concurrency int
}

func loadWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Concurrency: getEnvInt("WORKER_CONCURRENCY", 5),
	}
}
