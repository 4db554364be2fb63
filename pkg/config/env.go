package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvConfig docker-compose 与集成测试共用的环境变量
type EnvConfig struct {
	// 数据库配置
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	// Redis 配置
	RedisAddr     string
	RedisPassword string

	// MinIO 配置
	MinioRootUser     string
	MinioRootPassword string
	MinioBucket       string
	MinioEndpoint     string

	// 浏览器
	ChromiumWSEndpoint string
}

// LoadEnvConfig 加载环境变量配置
func LoadEnvConfig() *EnvConfig {
	return &EnvConfig{
		PostgresHost:     getEnv("POSTGRES_HOST", "127.0.0.1"),
		PostgresPort:     getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:     getEnv("POSTGRES_USER", "exb"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "exb123"),
		PostgresDB:       getEnv("POSTGRES_DB", "exb_admin"),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		MinioRootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin123"),
		MinioBucket:       getEnv("MINIO_BUCKET", "exb-museum"),
		MinioEndpoint:     getEnv("MINIO_ENDPOINT", "http://localhost:9000"),

		ChromiumWSEndpoint: getEnv("CHROMIUM_WS_ENDPOINT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// PostgresDSN lib/pq 连接串
func (c *EnvConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// ToEnvFile 将配置导出为环境变量文件格式
func (c *EnvConfig) ToEnvFile() string {
	var builder strings.Builder

	builder.WriteString("# 数据库配置\n")
	builder.WriteString(fmt.Sprintf("POSTGRES_HOST=%s\n", c.PostgresHost))
	builder.WriteString(fmt.Sprintf("POSTGRES_PORT=%d\n", c.PostgresPort))
	builder.WriteString(fmt.Sprintf("POSTGRES_USER=%s\n", c.PostgresUser))
	builder.WriteString(fmt.Sprintf("POSTGRES_PASSWORD=%s\n", c.PostgresPassword))
	builder.WriteString(fmt.Sprintf("POSTGRES_DB=%s\n", c.PostgresDB))
	builder.WriteString("\n")

	builder.WriteString("# Redis 配置\n")
	builder.WriteString(fmt.Sprintf("REDIS_ADDR=%s\n", c.RedisAddr))
	builder.WriteString(fmt.Sprintf("REDIS_PASSWORD=%s\n", c.RedisPassword))
	builder.WriteString("\n")

	builder.WriteString("# MinIO 配置\n")
	builder.WriteString(fmt.Sprintf("MINIO_ROOT_USER=%s\n", c.MinioRootUser))
	builder.WriteString(fmt.Sprintf("MINIO_ROOT_PASSWORD=%s\n", c.MinioRootPassword))
	builder.WriteString(fmt.Sprintf("MINIO_BUCKET=%s\n", c.MinioBucket))
	builder.WriteString(fmt.Sprintf("MINIO_ENDPOINT=%s\n", c.MinioEndpoint))
	builder.WriteString("\n")

	builder.WriteString("# 浏览器\n")
	builder.WriteString(fmt.Sprintf("CHROMIUM_WS_ENDPOINT=%s\n", c.ChromiumWSEndpoint))

	return builder.String()
}
