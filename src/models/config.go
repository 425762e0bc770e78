package models

// MConfig Structure
type MConfig struct {
	Name            string         `yaml:"name"`
	Host            string         `yaml:"host"`
	Port            int            `yaml:"port"`
	LogLevel        string         `yaml:"log_level"`
	GrpcHost        string         `yaml:"grpc_host"`
	GrpcPort        int            `yaml:"grpc_port"`
	DefaultLanguage string         `yaml:"default_language"`
	Storage         MStorageConfig `yaml:"storage"`
	Network         MNetworkConfig `yaml:"network"`
	Polling         MPollingConfig `yaml:"polling"`
	Redis           MRedisConfig   `yaml:"redis"`
	Kafka           MKafkaConfig   `yaml:"kafka"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	StateKey           string `yaml:"state_key"` // key of the persisted local-state blob
}

type MNetworkConfig struct {
	BaseURL        string `yaml:"base_url"`
	RequestTimeout int    `yaml:"timeout"` // seconds, 0 = no timeout
	UserAgent      string `yaml:"user_agent"`
}

type MPollingConfig struct {
	WarmupSeconds   *float64 `yaml:"warmup_seconds"` // nil = not set, 0 is a valid warmup
	IntervalSeconds float64  `yaml:"interval_seconds"`
	BlockListSize   int      `yaml:"block_list_size"`
}

type MRedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	Prefix     string `yaml:"prefix"`
}

type MKafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}
