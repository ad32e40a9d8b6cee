// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Conf 在 Init 之后可用。
var Conf Config

// Config 与 configs/config.yaml 的结构一一对应。
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Tree          TreeConfig          `mapstructure:"tree"`
	Authz         AuthzConfig         `mapstructure:"authz"`
	Cron          CronConfig          `mapstructure:"cron"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 中 AutoMigrate 为 true 时启动即建表。
type MySQLConfig struct {
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
	RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
}

// LogConfig 的 Format 取 "console" 或 "json"。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig 的 Brokers 为逗号分隔的地址列表。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type ElasticsearchConfig struct {
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// MinIOConfig 存放商品图片所在的桶。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// TreeConfig 按实体类型配置层级结构的校验规则。
type TreeConfig struct {
	Department TreeKindConfig `mapstructure:"department"`
	Permission TreeKindConfig `mapstructure:"permission"`
	Category   TreeKindConfig `mapstructure:"category"`
}

// TreeKindConfig 描述一种层级实体的建树选项。
// MaxDepth <= 0 表示不限层数；Separator 为空时使用 " / "。
type TreeKindConfig struct {
	Strict    bool   `mapstructure:"strict"`
	MaxDepth  int    `mapstructure:"max_depth"`
	Separator string `mapstructure:"separator"`
}

// AuthzConfig 存储 casbin 鉴权相关的配置。
type AuthzConfig struct {
	// SuperRole 是拥有全部权限的角色编码。
	SuperRole string `mapstructure:"super_role"`
	// BootstrapAdmin 是启动时自动授予超级角色的用户名，为空则跳过。
	BootstrapAdmin string `mapstructure:"bootstrap_admin"`
}

// CronConfig 使用标准 5 段 cron 表达式。
type CronConfig struct {
	ReindexSpec string `mapstructure:"reindex_spec"`
}

// Init 读取 YAML 配置到 Conf。环境变量 MALL_<段>_<键> 优先于文件，
// 例如 MALL_DATABASE_MYSQL_DSN、MALL_JWT_SECRET。
func Init(configPath string) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
	if err := c.Validate(); err != nil {
		panic(err)
	}
	Conf = c
}

var defaults = map[string]interface{}{
	"server.port":             "8081",
	"server.mode":             "release",
	"tree.category.max_depth": 3,
	"authz.super_role":        "admin",
	"kafka.group_id":          "mall-admin-go-indexer",
	"cron.reindex_spec":       "0 3 * * *",
}

// Validate 检查启动必需的配置项。
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret 不能为空")
	}
	if c.JWT.AccessTokenExpireHours <= 0 || c.JWT.RefreshTokenExpireDays <= 0 {
		return errors.New("config: token 有效期必须为正数")
	}
	if c.Database.MySQL.DSN == "" {
		return errors.New("config: database.mysql.dsn 不能为空")
	}
	for kind, t := range map[string]TreeKindConfig{
		"department": c.Tree.Department,
		"permission": c.Tree.Permission,
		"category":   c.Tree.Category,
	} {
		if t.MaxDepth < 0 {
			return fmt.Errorf("config: tree.%s.max_depth 不能为负数", kind)
		}
	}
	return nil
}
