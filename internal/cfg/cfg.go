package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DefaultCategories: фиксированный список категорий, из которого выбирает форма редактирования.
var DefaultCategories = []string{"Electronics", "Furniture", "Clothing", "Books", "Appliances"}

// Config содержит конфигурацию всех компонентов приложения.
// Db, Redis, Minio и Kafka заполняются только для STORE_BACKEND=postgres.
type Config struct {
	Store  *StoreCfg
	Http   *HTTPConfig
	Grpc   *GRPCConfig
	Db     *PGDBCfg
	Redis  *RedisCfg
	Minio  *MinIOCfg
	Kafka  *KafkaCfg
	Outbox *OutboxCfg
}

type StoreCfg struct {
	Backend            string   // postgres | memory
	Categories         []string // допустимые категории
	FreeTextCategories bool     // разрешить произвольную категорию
	SeedDemoData       bool     // заполнить in-memory хранилище демо-данными
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	SwaggerURL   string
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
	RemoteAddr  string // адрес сервера для консоли; если пуст, консоль работает с локальным хранилищем
}

type PGDBCfg struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// DSN возвращает строку подключения в формате key=value.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ProductTTL  time.Duration
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки MinIO
	BucketName        string // Бакет для выгрузок каталога
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	ExportPrefix      string // Префикс ключей CSV-выгрузок
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type OutboxCfg struct {
	BatchSize    int
	PollInterval time.Duration
}

// LoadDotEnv подгружает .env, если файл существует. Переменные окружения процесса имеют приоритет.
func LoadDotEnv(log logger.Logger) {
	if _, err := os.Stat(".env"); err != nil {
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Warnf("failed to load .env file: %v", err)
		return
	}

	log.Infof(".env file loaded")
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	store, err := loadStoreCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	outbox, err := loadOutboxCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	config := &Config{
		Store:  store,
		Http:   http,
		Grpc:   loadGRPCConfig(),
		Outbox: outbox,
	}

	if store.Backend == BackendMemory {
		return config, nil
	}

	if config.Db, err = loadPGDBCfg(log); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if config.Redis, err = loadRedisCfg(log); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if config.Minio, err = loadMinIOCfg(log); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if config.Kafka, err = loadKafkaCfg(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return config, nil
}

func loadStoreCfg(log logger.Logger) (*StoreCfg, error) {
	backend := strings.ToLower(getEnvOrDefault("STORE_BACKEND", BackendPostgres))
	if backend != BackendPostgres && backend != BackendMemory {
		err := fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, backend)
		log.Errorf(err, "invalid STORE_BACKEND")
		return nil, err
	}

	categories := DefaultCategories
	if raw := getEnv("PRODUCT_CATEGORIES"); raw != "" {
		categories = splitList(raw)
	}

	freeText, err := strconv.ParseBool(getEnvOrDefault("FREE_TEXT_CATEGORIES", "false"))
	if err != nil {
		log.Errorf(err, "invalid FREE_TEXT_CATEGORIES")
		return nil, err
	}

	seed, err := strconv.ParseBool(getEnvOrDefault("SEED_DEMO_DATA", "true"))
	if err != nil {
		log.Errorf(err, "invalid SEED_DEMO_DATA")
		return nil, err
	}

	return &StoreCfg{
		Backend:            backend,
		Categories:         categories,
		FreeTextCategories: freeText,
		SeedDemoData:       seed,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		SwaggerURL:   getEnvOrDefault("SWAGGER_URL", "http://localhost:"+port+"/swagger/doc.json"),
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
		RemoteAddr:  os.Getenv("INVENTORY_GRPC_ADDR"),
	}
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost           = "localhost"
		defaultPort           = "5432"
		defaultSSLMode        = "disable"
		defaultMigrationsPath = "file://db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:           getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:           getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:           user,
		Password:       password,
		DBName:         dbName,
		SSLMode:        getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultProductTTL   = 3 * time.Minute
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	productTTL, err := parseDurationEnv("PRODUCT_TTL", defaultProductTTL)
	if err != nil {
		log.Errorf(err, "invalid PRODUCT_TTL")
		return nil, err
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     max(readTimeout, writeTimeout),
		ProductTTL:  productTTL,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL       = false
		defaultEndpoint     = "minio:9000"
		defaultBucket       = "inventory-exports"
		defaultExportPrefix = "exports"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		ExportPrefix:      getEnvOrDefault("EXPORT_PREFIX", defaultExportPrefix),
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokerStr := getEnv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}

	topic := getEnv("KAFKA_TOPIC")
	if topic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC environment variable is required")
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           splitList(brokerStr),
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadOutboxCfg(log logger.Logger) (*OutboxCfg, error) {
	const (
		defaultBatchSize    = 10
		defaultPollInterval = 30 * time.Second
	)

	batchSize, err := parseIntEnv("OUTBOX_BATCH_SIZE", defaultBatchSize)
	if err != nil || batchSize <= 0 {
		log.Errorf(e.ErrIncorrectEnvVariable, "invalid OUTBOX_BATCH_SIZE")
		return nil, e.Wrap("OUTBOX_BATCH_SIZE", e.ErrIncorrectEnvVariable)
	}

	pollInterval, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", defaultPollInterval)
	if err != nil {
		log.Errorf(err, "invalid OUTBOX_POLL_INTERVAL")
		return nil, err
	}

	return &OutboxCfg{
		BatchSize:    batchSize,
		PollInterval: pollInterval,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

// splitList разбивает строку по запятым, отбрасывая пустые элементы.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}

	return result
}
