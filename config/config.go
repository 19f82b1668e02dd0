package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

// AppConfig는 게이트웨이의 전체 설정이다. 컴포넌트들은 전역 상태 대신
// 이 구조체(또는 하위 구조체)를 생성 시점에 주입받는다.
type AppConfig struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	MongoURI string         `yaml:"mongo_uri"`
	MongoDB  string         `yaml:"mongo_db"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	Watch    WatchConfig    `yaml:"watch"`
}

// WatchConfig는 그룹 레지스트리 백그라운드 감시자 설정이다.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
	// IntervalSeconds가 0이면 30초를 사용한다.
	IntervalSeconds int `yaml:"interval_seconds"`
	// PageSize가 0이면 100을 사용한다.
	PageSize int `yaml:"page_size"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"` // 예: ":8080"
	// AllowedOrigins는 CORS 허용 오리진 목록이다. 비어 있으면 전체 허용.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// UpstreamConfig는 기관 리포지터리 REST 백엔드 연결 설정이다.
type UpstreamConfig struct {
	// BaseURL 예: http://repo_service:8080/server
	BaseURL string `yaml:"base_url"`
	// TimeoutSeconds가 0이면 10초를 사용한다.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	// ListTTLSeconds는 목록 캐시 항목의 만료 시간이다. 0이면 기본값 5분.
	ListTTLSeconds int `yaml:"list_ttl_seconds"`
}

type KafkaConfig struct {
	Brokers string `yaml:"brokers"`
	Enabled bool   `yaml:"enabled"`
}

// FeedsConfig는 OpenSearch 피드 관련 로컬 설정이다.
// enabled/svccontext 자체는 원격 설정 저장소에서 읽고, 여기는
// 원격 조회 실패 시의 폴백과 플래그 캐시 TTL만 둔다.
type FeedsConfig struct {
	FallbackServiceContext string `yaml:"fallback_service_context"`
	FlagCacheTTLSeconds    int    `yaml:"flag_cache_ttl_seconds"`
	PreviewLimit           int    `yaml:"preview_limit"`
}

var config *AppConfig

// Load는 .env와 config.yaml을 읽어 설정을 구성한다.
// 반환된 구조체는 호출자가 각 컴포넌트에 명시적으로 주입한다.
func Load() (*AppConfig, error) {
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		return nil, fmt.Errorf("config read: %w", err)
	}

	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config parse: %w", err)
	}

	// 환경변수가 파일 설정을 덮어쓴다.
	if v := os.Getenv("REPO_SERVICE_BASE_URL"); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); v != "" {
		c.Kafka.Brokers = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.MongoURI = v
	}

	applyDefaults(&c)

	config = &c
	return &c, nil
}

func applyDefaults(c *AppConfig) {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		c.Upstream.TimeoutSeconds = 10
	}
	if c.Feeds.FallbackServiceContext == "" {
		c.Feeds.FallbackServiceContext = "opensearch"
	}
	if c.Feeds.FlagCacheTTLSeconds <= 0 {
		c.Feeds.FlagCacheTTLSeconds = 60
	}
	if c.Feeds.PreviewLimit == 0 {
		c.Feeds.PreviewLimit = 20
	}
	if c.Watch.IntervalSeconds <= 0 {
		c.Watch.IntervalSeconds = 30
	}
	if c.Watch.PageSize <= 0 {
		c.Watch.PageSize = 100
	}
}

// GetConfig는 마지막으로 Load된 설정을 반환한다.
// 주입이 어려운 최하위 인프라(로깅 등)에서만 사용한다.
func GetConfig() AppConfig {
	if config == nil {
		c, err := Load()
		if err != nil {
			panic(err)
		}
		return *c
	}
	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
