package db

import (
	"context"
	"fmt"

	"shop/internal/config"
	"shop/internal/domain/model"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
// DB_DRIVERでpostgres/sqliteを切り替える。
func Connect(ctx context.Context, cfg config.Config, lg *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported db driver: %q", cfg.DBDriver)
	}

	gormDB, err := Open(dialector, lg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	//sqliteは書き込みが1本なので直列化
	if cfg.DBDriver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return gormDB, nil
}

// Open はTranslateErrorとzapロガー付きで開く。
func Open(dialector gorm.Dialector, lg *zap.Logger) (*gorm.DB, error) {
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(lg),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return gormDB, nil
}

// busy_timeoutを付けておく
func SQLiteDSN(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Migrate はテーブルを作成/更新する。
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.Product{},
		&model.User{},
		&model.Session{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	)
}

// Checker は/healthz用の疎通確認
type Checker struct {
	db *gorm.DB
}

func NewChecker(gormDB *gorm.DB) *Checker {
	return &Checker{db: gormDB}
}

func (c *Checker) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
