package config

type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type AuthConfig struct {
	JWTSecret   string
	FrontendURL string
	Providers   map[string]ProviderConfig
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:   getEnv("JWT_SECRET", "super-secret-key-change-it"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Providers: map[string]ProviderConfig{
			"github": {
				ClientID:     getEnv("GITHUB_CLIENT_ID", ""),
				ClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
				RedirectURL:  getEnv("GITHUB_REDIRECT_URL", "http://localhost:8080/api/v1/auth/github/callback"),
			},
		},
	}
}
