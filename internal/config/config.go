package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode 啟動模式
type Mode string

const (
	// ModeCLI 互動式選單
	ModeCLI Mode = "cli"
	// ModeGRPC gRPC Server
	ModeGRPC Mode = "grpc"
)

// Engine 帳本實作
type Engine string

const (
	// EngineMutex Level 1: RWMutex
	EngineMutex Engine = "mutex"
	// EngineLMAX Level 2: Single Writer
	EngineLMAX Engine = "lmax"
)

// DefaultPath 預設設定檔位置
const DefaultPath = "config/config.yaml"

type Config struct {
	Mode   Mode         `yaml:"mode"`
	Engine Engine       `yaml:"engine"`
	GRPC   GRPCConfig   `yaml:"grpc"`
	Log    LogConfig    `yaml:"log"`
	Ledger LedgerConfig `yaml:"ledger"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"` // 監聽地址，例如 ":50051"
}

type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text", "json"
}

type LedgerConfig struct {
	DefaultLastN int `yaml:"default_last_n"` // 查詢交易時的預設筆數
	QueueSize    int `yaml:"queue_size"`     // LMAX 輸送帶容量
}

// Default 回傳全部使用預設值的設定
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load 讀取 YAML 設定檔並補全預設值
//
// 參數:
//
//	path: 設定檔路徑
//
// 回傳:
//
//	Config: 設定
//	error: 讀檔、解析或驗證錯誤 (檔案不存在時 errors.Is(err, fs.ErrNotExist))
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOrDefault 與 Load 相同，但檔案不存在時回傳預設值
// found 表示是否真的讀到檔案
func LoadOrDefault(path string) (cfg Config, found bool, err error) {
	cfg, err = Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}

// Parse 解析 YAML 內容
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults 補全預設配置 (如果 yaml 沒寫)
func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeCLI
	}
	if c.Engine == "" {
		c.Engine = EngineMutex
	}
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Ledger.DefaultLastN <= 0 {
		c.Ledger.DefaultLastN = 10
	}
	if c.Ledger.QueueSize <= 0 {
		c.Ledger.QueueSize = 1024
	}
}

// Validate 檢查列舉欄位
func (c Config) Validate() error {
	switch c.Mode {
	case ModeCLI, ModeGRPC:
	default:
		return fmt.Errorf("invalid mode %q", c.Mode)
	}
	switch c.Engine {
	case EngineMutex, EngineLMAX:
	default:
		return fmt.Errorf("invalid engine %q", c.Engine)
	}
	return nil
}
