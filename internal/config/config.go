package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

type Config struct {
	App      App      `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	Storage  Storage  `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Auth     Auth     `mapstructure:",squash"`
	Backup   Backup   `mapstructure:",squash"`
	CORS     CORS     `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Storage struct {
	DataDir        string              `mapstructure:"data_dir"`
	Datasets       []string            `mapstructure:"datasets"`
	SchemaPolicy   domain.SchemaPolicy `mapstructure:"schema_policy"`
	MaxUploadBytes int64               `mapstructure:"max_upload_bytes"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Enabled  bool   `mapstructure:"database_enabled"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	Enabled           bool          `mapstructure:"auth_enabled"`
	Secret            string        `mapstructure:"auth_secret"`
	AdminUser         string        `mapstructure:"auth_admin_user"`
	AdminPasswordHash string        `mapstructure:"auth_admin_password_hash"`
	TokenTTL          time.Duration `mapstructure:"auth_token_ttl"`
}

type Backup struct {
	Dir          string `mapstructure:"backup_dir"`
	CronSchedule string `mapstructure:"backup_cron"`
	Enabled      bool   `mapstructure:"backup_enabled"`
	Retention    int    `mapstructure:"backup_retention"`
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_ENV", "development")

	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("DATASETS", "supermarket,videogames")
	viper.SetDefault("SCHEMA_POLICY", string(domain.SchemaPolicyUnion))
	viper.SetDefault("MAX_UPLOAD_BYTES", 32<<20) // 32 MiB

	viper.SetDefault("DATABASE_ENABLED", false)
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/dashboard?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_ADMIN_USER", "admin")
	viper.SetDefault("AUTH_ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("BACKUP_DIR", "data/backups")
	viper.SetDefault("BACKUP_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("BACKUP_ENABLED", false)
	viper.SetDefault("BACKUP_RETENTION", 7)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8050")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// EnabledDatasets retorna a configuração dos datasets habilitados, na ordem de DATASETS
func (c *Config) EnabledDatasets() ([]domain.Dataset, error) {
	catalog := domain.Catalog()

	datasets := make([]domain.Dataset, 0, len(c.Storage.Datasets))
	for _, name := range c.Storage.Datasets {
		ds, ok := catalog[name]
		if !ok {
			return nil, fmt.Errorf("dataset desconhecido em DATASETS: %s", name)
		}
		datasets = append(datasets, ds)
	}

	return datasets, nil
}

func (c *Config) normalize() error {
	datasets := make([]string, 0, len(c.Storage.Datasets))
	for _, name := range c.Storage.Datasets {
		name = strings.TrimSpace(name)
		if name != "" {
			datasets = append(datasets, name)
		}
	}
	c.Storage.Datasets = datasets

	switch c.Storage.SchemaPolicy {
	case domain.SchemaPolicyUnion, domain.SchemaPolicyStrict:
	case "":
		c.Storage.SchemaPolicy = domain.SchemaPolicyUnion
	default:
		return fmt.Errorf("SCHEMA_POLICY inválida: %s", c.Storage.SchemaPolicy)
	}

	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES deve ser positivo")
	}

	if c.Backup.Retention < 0 {
		c.Backup.Retention = 0
	}

	if c.Auth.Enabled && c.Auth.AdminPasswordHash == "" {
		logrus.Warn("AUTH_ENABLED ativo sem AUTH_ADMIN_PASSWORD_HASH, nenhum login será aceito")
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
