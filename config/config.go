package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 存儲所有配置信息
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// 數據庫配置
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	// Redis配置
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Telegram 機器人配置
	TelegramBotToken      string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramWebhookSecret string `mapstructure:"TELEGRAM_WEBHOOK_SECRET"`
	OwnerChatID           string `mapstructure:"OWNER_CHAT_ID"`

	// 時區配置，提醒與進度統計都以此時區計算
	Timezone string `mapstructure:"TIMEZONE"`

	// 內部接口認證配置
	InternalAuthToken string `mapstructure:"INTERNAL_AUTH_TOKEN"`
}

// LoadConfig 從環境變數或配置文件加載配置
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// 允許配置文件不存在，此時會從環境變數中讀取
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if config.Timezone == "" {
		config.Timezone = "Asia/Taipei"
	}
	return
}

// GetDBConnString 返回數據庫連接字符串
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRedisConnString 返回Redis連接字符串
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// Location 返回配置的本地時區
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("無效的時區配置 %q: %v", c.Timezone, err)
	}
	return loc, nil
}
