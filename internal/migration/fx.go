package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/zinari/zinari/internal/config"
	"github.com/zinari/zinari/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.DefaultCompanyID != 0 {
			return seed.EnsureDefaultCompanyWithID(conn, snowflake.ID(cfg.DefaultCompanyID))
		}
		return seed.EnsureDefaultCompany(conn)
	}),
)
