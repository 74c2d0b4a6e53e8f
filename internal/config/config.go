// /internal/config/config.go
package config

import (
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

func Get(key string) string {
	return os.Getenv(key)
}

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`

	AudioNodeHost     string `env:"AUDIO_NODE_HOST" envDefault:"localhost"`
	AudioNodePort     int    `env:"AUDIO_NODE_PORT" envDefault:"2333"`
	AudioNodePassword string `env:"AUDIO_NODE_PASSWORD,required"`
	AudioNodeSecure   bool   `env:"AUDIO_NODE_SECURE" envDefault:"false"`

	VoiceJoinTimeout  time.Duration `env:"VOICE_JOIN_TIMEOUT" envDefault:"10s"`
	InitSlashCommands bool          `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	DeveloperID       string        `env:"DEVELOPER_ID"`
}

func New() *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	return &cfg
}
