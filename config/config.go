// Package config 加载 StackVault 命令行的配置：配置文件 + STACKVAULT_ 环境变量。
//
// SDK 各个包不读取配置，只接收这里转换出的普通结构体。
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/stackvault/client-sdk-go/client"
	"github.com/stackvault/client-sdk-go/services"
	"github.com/stackvault/client-sdk-go/services/storage"
	"github.com/stackvault/client-sdk-go/utils"
	"github.com/stackvault/client-sdk-go/wallet"
)

// EnvPrefix 环境变量前缀，例如 STACKVAULT_PINATA_JWT
const EnvPrefix = "STACKVAULT"

// Config 应用配置
type Config struct {
	Node     NodeConfig     `mapstructure:"node"`
	Contract ContractConfig `mapstructure:"contract"`
	Pinata   PinataConfig   `mapstructure:"pinata"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Log      LogConfig      `mapstructure:"log"`
}

// NodeConfig 节点配置
type NodeConfig struct {
	URL          string `mapstructure:"url"`
	Network      string `mapstructure:"network"`
	Timeout      int    `mapstructure:"timeout"`       // 秒
	WaitTimeout  int    `mapstructure:"wait_timeout"`  // 秒
	PollInterval int    `mapstructure:"poll_interval"` // 毫秒
	MaxRetries   int    `mapstructure:"max_retries"`
}

// ContractConfig 合约寻址
type ContractConfig struct {
	Address    string `mapstructure:"address"`
	Module     string `mapstructure:"module"`
	Collection string `mapstructure:"collection"`
}

// PinataConfig 文件固定服务
type PinataConfig struct {
	JWT        string `mapstructure:"jwt"`
	APIURL     string `mapstructure:"api_url"`
	GatewayURL string `mapstructure:"gateway_url"`
	Timeout    int    `mapstructure:"timeout"`
}

// WalletConfig 钱包
type WalletConfig struct {
	KeystoreDir string `mapstructure:"keystore_dir"`
	Address     string `mapstructure:"address"`
	BridgeURL   string `mapstructure:"bridge_url"`
	Password    string `mapstructure:"password"`
}

// LogConfig 日志
type LogConfig struct {
	Level string `mapstructure:"level"`
	Debug bool   `mapstructure:"debug"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("node.url", client.DefaultEndpoint)
	v.SetDefault("node.network", wallet.NetworkTestnet)
	v.SetDefault("node.timeout", 30)
	v.SetDefault("node.wait_timeout", 60)
	v.SetDefault("node.poll_interval", 1000)
	v.SetDefault("node.max_retries", 3)

	v.SetDefault("contract.address", services.DefaultModuleAddress)
	v.SetDefault("contract.module", services.DefaultModuleName)
	v.SetDefault("contract.collection", services.DefaultCollectionName)

	v.SetDefault("pinata.jwt", "")
	v.SetDefault("pinata.api_url", storage.DefaultAPIURL)
	v.SetDefault("pinata.gateway_url", storage.DefaultGatewayURL)
	v.SetDefault("pinata.timeout", 120)

	v.SetDefault("wallet.keystore_dir", "./keystore")
	v.SetDefault("wallet.address", "")
	v.SetDefault("wallet.bridge_url", "")
	v.SetDefault("wallet.password", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.debug", false)
}

// Load 读取配置
//
// path 为空时在当前目录查找 stackvault.{toml,yaml,json}，找不到则只用默认值和环境变量；
// path 非空时文件必须存在。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("stackvault")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验必填项
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Node.URL) == "" {
		return errors.New("config: node.url is required")
	}
	if strings.TrimSpace(c.Node.Network) == "" {
		return errors.New("config: node.network is required")
	}
	if strings.TrimSpace(c.Contract.Address) == "" {
		return errors.New("config: contract.address is required")
	}
	if !utils.IsValidAddress(c.Contract.Address) {
		return fmt.Errorf("config: contract.address %q is not a valid account address", c.Contract.Address)
	}
	if c.Wallet.Address != "" && !utils.IsValidAddress(c.Wallet.Address) {
		return fmt.Errorf("config: wallet.address %q is not a valid account address", c.Wallet.Address)
	}
	if c.Node.MaxRetries < 0 {
		return fmt.Errorf("config: node.max_retries must not be negative, got %d", c.Node.MaxRetries)
	}
	return nil
}

// ClientConfig 节点客户端配置
func (c *Config) ClientConfig(logger client.Logger) *client.Config {
	retry := client.DefaultRetryConfig()
	retry.MaxRetries = c.Node.MaxRetries
	return &client.Config{
		Endpoint:     c.Node.URL,
		Timeout:      c.Node.Timeout,
		Retry:        retry,
		WaitTimeout:  c.Node.WaitTimeout,
		PollInterval: c.Node.PollInterval,
		Debug:        c.Log.Debug,
		Logger:       logger,
	}
}

// ContractConfig 合约寻址配置
func (c *Config) ContractConfig() services.ContractConfig {
	return services.ContractConfig{
		ModuleAddress:  c.Contract.Address,
		ModuleName:     c.Contract.Module,
		CollectionName: c.Contract.Collection,
	}.WithDefaults()
}

// StorageConfig 上传客户端配置
func (c *Config) StorageConfig(logger client.Logger) storage.Config {
	return storage.Config{
		JWT:        c.Pinata.JWT,
		APIURL:     c.Pinata.APIURL,
		GatewayURL: c.Pinata.GatewayURL,
		Timeout:    c.Pinata.Timeout,
		Logger:     logger,
	}
}

// NewLogger 按日志配置创建 zap logger：debug 使用开发格式，否则使用生产格式
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	if c.Debug {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	if c.Level != "" {
		level, err := zap.ParseAtomicLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("config: log.level: %w", err)
		}
		zc.Level = level
	}
	return zc.Build()
}
