package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{Host: "localhost", Port: 5432},
		},
		Broker: BrokerConfig{
			Type: "kafka",
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				GroupID: "modguard",
			},
		},
		Platform: PlatformConfig{
			BaseURL:      "http://localhost:9000",
			ModChannelID: "mods",
		},
	}
}

func TestValidateStatic_ValidConfig(t *testing.T) {
	require.NoError(t, ValidateStatic(validConfig()))
}

func TestValidateStatic_RejectsBadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	err := ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestValidateStatic_RejectsUnknownBroker(t *testing.T) {
	cfg := validConfig()
	cfg.Broker.Type = "rabbitmq"
	err := ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker.type")
}

func TestValidateStatic_RequiresPostgresHost(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Postgres.Host = ""
	err := ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.host")
}

func TestValidateStatic_RequiresPlatformGateway(t *testing.T) {
	cfg := validConfig()
	cfg.Platform.BaseURL = ""
	err := ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "platform.base_url")

	cfg = validConfig()
	cfg.Platform.ModChannelID = ""
	err = ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "platform.mod_channel_id")
}
