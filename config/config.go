package config

import (
	"os"

	"gorm.io/gorm"
)

var DataBase *gorm.DB

func InitializeConfig() error {
	NewLoggerService()
	if err := ConnectDatabase(); err != nil {
		return err
	}
	if len(os.Getenv("REDIS_HOST")) > 0 {
		if err := NewCacheService(); err != nil {
			return err
		}
	}
	if len(os.Getenv("INFLUXDB_URL")) > 0 {
		if err := NewInfluxDB(); err != nil {
			return err
		}
	}

	return nil
}
