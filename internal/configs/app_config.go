package configs

type Configs struct {
	// App configuration
	AppName               string  `mapstructure:"app_name"`
	AppEnv                string  `mapstructure:"app_env"`
	AppLogLevel           string  `mapstructure:"app_log_level"`
	AppMetricSamplingRate float64 `mapstructure:"app_metric_sampling_rate"`
	AppPort               int     `mapstructure:"app_port"`

	// MySQL configuration
	MysqlDbName         string `mapstructure:"mysql_db_name"`
	MysqlMasterHost     string `mapstructure:"mysql_master_host"`
	MysqlMasterPassword string `mapstructure:"mysql_master_password"`
	MysqlMasterPort     int    `mapstructure:"mysql_master_port"`
	MysqlMasterUsername string `mapstructure:"mysql_master_username"`
	MysqlSlaveHost      string `mapstructure:"mysql_slave_host"`
	MysqlSlavePassword  string `mapstructure:"mysql_slave_password"`
	MysqlSlavePort      int    `mapstructure:"mysql_slave_port"`
	MysqlSlaveUsername  string `mapstructure:"mysql_slave_username"`

	// Kafka configuration
	KafkaBootstrapServers string `mapstructure:"kafka_bootstrap_servers"`
	KafkaOrderTopic       string `mapstructure:"kafka_order_topic"`

	// Order path tunables. Zero means "use package default".
	OrderLockTimeoutMs  int `mapstructure:"order_lock_timeout_ms"`
	OrderStockSpinLimit int `mapstructure:"order_stock_spin_limit"`

	// Cache tunables
	CacheShopTtlMinutes    int `mapstructure:"cache_shop_ttl_minutes"`
	CacheEmptyTtlSeconds   int `mapstructure:"cache_empty_ttl_seconds"`
	CacheRebuildLockTtlSec int `mapstructure:"cache_rebuild_lock_ttl_sec"`

	// Auth tunables
	LoginCodeTtlMinutes  int `mapstructure:"login_code_ttl_minutes"`
	LoginTokenTtlMinutes int `mapstructure:"login_token_ttl_minutes"`
}
