package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// MigrationsTable 课表库的迁移版本表，与同库其他服务的迁移记录互不干扰
const MigrationsTable = "timetable_schema_migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations 将课表库结构升级到内嵌迁移的最新版本
//
// dirty 状态（上次迁移中途失败）直接拒绝启动，需人工修复后用 migrate force 清除。
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}
	latest, err := latestVersion(src)
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	from, dirty, err := schemaVersion(m)
	if err != nil {
		return err
	}
	if dirty {
		logger.Error("课表库迁移处于 dirty 状态，拒绝启动", zap.Uint("version", from))
		return fmt.Errorf("迁移版本 %d 处于 dirty 状态，需人工修复", from)
	}
	if from > latest {
		// 不自动降级
		logger.Warn("数据库结构版本高于当前程序", zap.Uint("schema", from), zap.Uint("embedded", latest))
		return nil
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("课表库结构已是最新", zap.Uint("version", from))
			return nil
		}
		return fmt.Errorf("执行迁移失败（起始版本 %d）: %w", from, err)
	}

	to, _, err := schemaVersion(m)
	if err != nil {
		return err
	}
	logger.Info("课表库迁移已应用",
		zap.Uint("from", from),
		zap.Uint("to", to),
		zap.String("table", MigrationsTable),
	)
	return nil
}

// schemaVersion 当前已应用的版本；全新数据库记为 0
func schemaVersion(m *migrate.Migrate) (uint, bool, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("读取迁移版本失败: %w", err)
	}
	return v, dirty, nil
}

// latestVersion 内嵌迁移中的最高版本，要求每个版本都带有 down 文件
func latestVersion(src source.Driver) (uint, error) {
	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("内嵌迁移为空: %w", err)
	}
	for {
		down, _, err := src.ReadDown(v)
		if err != nil {
			return 0, fmt.Errorf("迁移 %d 缺少 down 文件: %w", v, err)
		}
		down.Close()
		next, err := src.Next(v)
		if errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("遍历迁移失败: %w", err)
		}
		v = next
	}
}
