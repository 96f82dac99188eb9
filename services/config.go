package services

import (
	"fmt"
	"strings"
)

// 默认合约部署（测试网）
const (
	DefaultModuleAddress  = "0xac972fb1d1d89c57c5538d4c948345c8dbb08d5ab00a741894553463398c0576"
	DefaultModuleName     = "RealEstateToken"
	DefaultCollectionName = "RealEstateCollection"
)

// ContractConfig 合约寻址配置，为各个 Service 提供模块地址、模块名和集合资源名
//
// **说明**：
// - 所有字段为空时采用默认测试网部署
// - 只做字符串拼接，不校验链上是否存在
type ContractConfig struct {
	// ModuleAddress 发布合约的账户地址
	ModuleAddress string

	// ModuleName Move 模块名
	ModuleName string

	// CollectionName 持有人账户下的代币集合资源名
	CollectionName string
}

// DefaultContractConfig 返回默认合约配置
func DefaultContractConfig() ContractConfig {
	return ContractConfig{
		ModuleAddress:  DefaultModuleAddress,
		ModuleName:     DefaultModuleName,
		CollectionName: DefaultCollectionName,
	}
}

// WithDefaults 用默认值补齐空字段
func (c ContractConfig) WithDefaults() ContractConfig {
	d := DefaultContractConfig()
	if strings.TrimSpace(c.ModuleAddress) != "" {
		d.ModuleAddress = strings.TrimSpace(c.ModuleAddress)
	}
	if strings.TrimSpace(c.ModuleName) != "" {
		d.ModuleName = strings.TrimSpace(c.ModuleName)
	}
	if strings.TrimSpace(c.CollectionName) != "" {
		d.CollectionName = strings.TrimSpace(c.CollectionName)
	}
	return d
}

// FullModuleName <address>::<module>
func (c ContractConfig) FullModuleName() string {
	return fmt.Sprintf("%s::%s", c.ModuleAddress, c.ModuleName)
}

// FunctionID <address>::<module>::<function>
func (c ContractConfig) FunctionID(function string) string {
	return fmt.Sprintf("%s::%s", c.FullModuleName(), function)
}

// CollectionType 集合资源的完整类型 <address>::<module>::<collection>
func (c ContractConfig) CollectionType() string {
	return fmt.Sprintf("%s::%s", c.FullModuleName(), c.CollectionName)
}
