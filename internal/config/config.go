package config

import (
	"github.com/youthfc/team-manager-service/internal/logger"
)

// ServerConfig covers the HTTP listener and cross-origin policy.
type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// FirestoreConfig identifies the backing document store project. When
// CredentialsJSON is empty the client falls back to application default
// credentials.
type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsJSON string `mapstructure:"credentials_json"`
}

type Config struct {
	Logger    logger.LoggerConfig `mapstructure:"logger"`
	Server    ServerConfig        `mapstructure:"server"`
	Firestore FirestoreConfig     `mapstructure:"firestore"`
}
