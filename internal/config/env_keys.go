package config

// Environment Variable Keys
const (
	// EnvConfigDir 定義 config.yaml 所在目錄 (預設 ./config)
	EnvConfigDir = "CONFIG_DIR"

	// EnvAppEnv 定義應用程式執行環境 (local, dev, prod)
	EnvAppEnv = "APP_ENV"

	// EnvControlPort 定義控制通道 (CreateGame) 的 Port
	EnvControlPort = "CONTROL_PORT"

	// EnvHealthPort 定義 gRPC health Port
	EnvHealthPort = "HEALTH_PORT"

	// EnvAdvertiseHost 定義公告給 Client 的 host
	EnvAdvertiseHost = "ADVERTISE_HOST"

	// EnvGamePortStart 定義 Session Port 範圍起點
	EnvGamePortStart = "GAME_PORT_START"

	// EnvGamePortEnd 定義 Session Port 範圍終點 (含)
	EnvGamePortEnd = "GAME_PORT_END"

	// EnvGameIdleTimeout 定義閒置回收門檻 (秒)
	EnvGameIdleTimeout = "GAME_IDLE_TIMEOUT_SEC"

	// EnvGameReapInterval 定義閒置檢查間隔 (秒)
	EnvGameReapInterval = "GAME_REAP_INTERVAL_SEC"

	// EnvRedisAddr 定義 Redis 服務地址 (host:port)，設定後啟用 Session Directory
	EnvRedisAddr = "REDIS_ADDR"

	// EnvRedisPassword 定義 Redis 密碼
	EnvRedisPassword = "REDIS_PASSWORD"

	// EnvMySQLHost 定義 MySQL 主機，設定後啟用 Session History
	EnvMySQLHost = "MYSQL_HOST"

	// EnvMySQLUser 定義 MySQL 使用者
	EnvMySQLUser = "MYSQL_USER"

	// EnvMySQLDB 定義 MySQL 資料庫名稱
	EnvMySQLDB = "MYSQL_DB"

	// EnvMySQLPort 定義 MySQL Port
	EnvMySQLPort = "MYSQL_PORT"

	// EnvMySQLPassword 定義 MySQL 密碼
	EnvMySQLPassword = "MYSQL_PASSWORD"
)
