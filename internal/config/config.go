// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/agrichain/subscription-platform/internal/models"
)

// Config общая структура для хранения настроек сервиса.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitConnection        `yaml:"rabbit_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Paystack                `yaml:"paystack"`
	Plans                   `yaml:"plans"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// RabbitConnection структура для настройки подключения к rabbitmq.
type RabbitConnection struct {
	AddressRabbit string        `yaml:"addressrabbit"`
	Retries       int           `yaml:"retries" env-default:"5"`
	RetryDelay    time.Duration `yaml:"retry_delay" env-default:"3s"`
}

// JWTToken структура для проверки токенов identity-провайдера.
type JWTToken struct {
	JWTSecretKey string `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
}

// Paystack структура для настройки клиента платёжного шлюза.
type Paystack struct {
	SecretKey   string        `yaml:"secret_key" env:"PAYSTACK_SECRET_KEY"`
	APIURL      string        `yaml:"api_url" env-default:"https://api.paystack.co"`
	CallbackURL string        `yaml:"callback_url"`
	Currency    string        `yaml:"currency" env-default:"XOF"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
}

// Plans структура для переопределения каталога планов.
// Нулевые значения означают "взять значение по умолчанию".
type Plans struct {
	ProducerAmount       int `yaml:"producer_amount"`
	ProducerPeriodYears  int `yaml:"producer_period_years"`
	ProducerPeriodMonths int `yaml:"producer_period_months"`
	BuyerAmount          int `yaml:"buyer_amount"`
	BuyerPeriodYears     int `yaml:"buyer_period_years"`
	BuyerPeriodMonths    int `yaml:"buyer_period_months"`
}

// Catalog собирает каталог планов: дефолты, поверх них значения из конфига.
func (p Plans) Catalog() models.Catalog {
	catalog := models.DefaultCatalog()
	producer := catalog[models.PlanProducer]
	if p.ProducerAmount > 0 {
		producer.Amount = p.ProducerAmount
	}
	if p.ProducerPeriodYears > 0 || p.ProducerPeriodMonths > 0 {
		producer.PeriodYears = p.ProducerPeriodYears
		producer.PeriodMonths = p.ProducerPeriodMonths
	}
	catalog[models.PlanProducer] = producer

	buyer := catalog[models.PlanBuyer]
	if p.BuyerAmount > 0 {
		buyer.Amount = p.BuyerAmount
	}
	if p.BuyerPeriodYears > 0 || p.BuyerPeriodMonths > 0 {
		buyer.PeriodYears = p.BuyerPeriodYears
		buyer.PeriodMonths = p.BuyerPeriodMonths
	}
	catalog[models.PlanBuyer] = buyer

	return catalog
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, при ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
