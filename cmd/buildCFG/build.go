package buildCFG

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"confreg/internal/mailer"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) *ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		log.Warn().Msg("server.port not set, defaulting to 8080")
		port = "8080"
	}
	return &ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	host := cfg.GetString("database.host")
	port := cfg.GetInt("database.port")
	user := cfg.GetString("database.user")
	password := cfg.GetString("database.password")
	name := cfg.GetString("database.name")

	if host == "" || user == "" || name == "" {
		return "", nil, nil, fmt.Errorf("database host, user and name must be configured")
	}
	if port == 0 {
		port = 5432
	}

	masterDSN := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		user, password, host, port, name,
	)

	maxOpen := cfg.GetInt("database.max_open_conns")
	if maxOpen == 0 {
		maxOpen = 10
	}
	maxIdle := cfg.GetInt("database.max_idle_conns")
	if maxIdle == 0 {
		maxIdle = 5
	}
	lifetime := cfg.GetInt("database.conn_max_lifetime_minutes")
	if lifetime == 0 {
		lifetime = 30
	}

	opts := &dbpg.Options{
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: time.Duration(lifetime) * time.Minute,
	}

	log.Info().Str("host", host).Str("database", name).Msg("database config loaded")
	return masterDSN, nil, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (*RabbitConfig, error) {
	url := cfg.GetString("rabbit.url")
	if url == "" {
		return nil, fmt.Errorf("rabbit.url must be configured")
	}

	exchange := cfg.GetString("rabbit.exchange")
	if exchange == "" {
		exchange = "registrations.exchange"
	}
	queue := cfg.GetString("rabbit.queue")
	if queue == "" {
		queue = "registrations.email"
	}

	return &RabbitConfig{Url: url, Exchange: exchange, Queue: queue}, nil
}

func BuildSMTPConfig(cfg *config.Config, log *zerolog.Logger) *mailer.SMTPConfig {
	smtp := &mailer.SMTPConfig{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetInt("smtp.port"),
		From:     cfg.GetString("smtp.from"),
		Password: cfg.GetString("smtp.password"),
	}
	if smtp.Port == 0 {
		smtp.Port = 587
	}
	if !smtp.Enabled() {
		log.Warn().Msg("SMTP not configured, confirmation emails will be skipped")
	}
	return smtp
}
