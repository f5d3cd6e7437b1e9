package server

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds everything the daemon needs to run. Values come from an
// optional YAML file with SOLWALLET_* environment overrides.
type Config struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	RPCEndpoint     string        `mapstructure:"rpc_endpoint"`
	JupiterBaseURL  string        `mapstructure:"jupiter_base_url"`
	DBPath          string        `mapstructure:"db_path"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	WatcherInterval time.Duration `mapstructure:"watcher_interval"`
}

// LoadConfig reads configuration from dir/solwallet.yml if present,
// then applies environment overrides (e.g. SOLWALLET_LISTEN_ADDR). An
// empty dir skips the file and uses defaults plus environment only.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("rpc_endpoint", "")
	v.SetDefault("jupiter_base_url", "")
	v.SetDefault("db_path", "solwallet.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("watcher_interval", 30*time.Second)

	v.SetEnvPrefix("SOLWALLET")
	v.AutomaticEnv()

	if dir != "" {
		v.SetConfigName("solwallet")
		v.SetConfigType("yml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config file")
			}
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return cfg, nil
}
