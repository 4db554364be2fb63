package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/exb-museum/exb-admin/app/store"
	"github.com/exb-museum/exb-admin/pkg/register"
	"github.com/exb-museum/exb-admin/pkg/sqlstore"
	"github.com/exb-museum/exb-admin/pkg/types"
)

//go:embed *.sql
var CreateTableFiles embed.FS

func init() {
	sq.StatementBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

var provider = &Provider{
	stores: &Stores{},
}

func GetProvider() *Provider {
	return provider
}

type Provider struct {
	*sqlstore.SqlProvider
	stores  *Stores
	coreRef *CoreRef
}

// CoreRef 用于延迟获取 core 实例，避免循环依赖
type CoreRef struct {
	getCacheFunc func() types.Cache
}

type Stores struct {
	store.SysUserStore
	store.SysUserRoleStore
	store.SysUserPostStore
	store.SysRoleMenuStore
	store.SysRoleDeptStore
	store.SysDeptStore
	store.SysRoleStore
	store.SysMenuStore
	store.SysPostStore
	store.SysDictTypeStore
	store.SysDictDataStore
	store.SysConfigStore
	store.SysNoticeStore
	store.SysLogininforStore
	store.SysOperLogStore
	store.SysJobStore
	store.SysJobLogStore

	store.ExbMuseumStore
	store.ExbMuseumHallStore
	store.ExbExhibitionStore
	store.ExbExhibitionUnitStore
	store.ExbCollectionStore
	store.ExbActivityStore
	store.ExbReservationStore
	store.ExbMuseumMediaStore
	store.ExbWxUserStore
}

type RegisterKey struct{}

func MustSetup(m sqlstore.ConnectConfig, s ...sqlstore.ConnectConfig) func() *Provider {
	provider.SqlProvider = sqlstore.MustSetupProvider(m, s...)
	registerStores(provider)

	return func() *Provider {
		return provider
	}
}

// NewWithSqlProvider 测试时基于已有连接创建独立的 Provider
func NewWithSqlProvider(p *sqlstore.SqlProvider) *Provider {
	res := &Provider{
		SqlProvider: p,
		stores:      &Stores{},
	}
	registerStores(res)
	return res
}

func registerStores(p *Provider) {
	for _, f := range register.ResolveFuncHandlers[*Provider](RegisterKey{}) {
		f(p)
	}
}

// Install 按文件名顺序执行尚未执行过的迁移文件
func (p *Provider) Install() error {
	// 确保迁移记录表存在
	if err := p.ensureMigrationTable(); err != nil {
		return err
	}

	files, err := CreateTableFiles.ReadDir(".")
	if err != nil {
		return err
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		// 检查文件是否已经执行过
		executed, err := p.isFileExecuted(file.Name())
		if err != nil {
			return err
		}
		if executed {
			continue
		}

		sql, err := CreateTableFiles.ReadFile(file.Name())
		if err != nil {
			return err
		}

		if err = p.executeSQLFile(string(sql), file.Name()); err != nil {
			return err
		}

		if err = p.markFileExecuted(file.Name()); err != nil {
			return err
		}
	}
	return nil
}

// ensureMigrationTable 确保迁移记录表存在
func (p *Provider) ensureMigrationTable() error {
	createTableSQL := `
CREATE TABLE IF NOT EXISTS ` + types.TABLE_SCHEMA_MIGRATIONS.Name() + ` (
    filename VARCHAR(255) PRIMARY KEY,
    executed_at BIGINT NOT NULL
);`
	_, err := p.SqlProvider.GetMaster().Exec(createTableSQL)
	return err
}

// isFileExecuted 检查文件是否已经执行过
func (p *Provider) isFileExecuted(filename string) (bool, error) {
	var count int
	err := p.SqlProvider.GetReplica().Get(&count,
		"SELECT COUNT(*) FROM "+types.TABLE_SCHEMA_MIGRATIONS.Name()+" WHERE filename = $1", filename)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// markFileExecuted 标记文件为已执行
func (p *Provider) markFileExecuted(filename string) error {
	_, err := p.SqlProvider.GetMaster().Exec(
		"INSERT INTO "+types.TABLE_SCHEMA_MIGRATIONS.Name()+" (filename, executed_at) VALUES ($1, $2) ON CONFLICT (filename) DO NOTHING",
		filename, time.Now().Unix())
	return err
}

// executeSQLFile 整个文件在一次 Exec 中执行
func (p *Provider) executeSQLFile(content, filename string) error {
	slog.Info("execute migration", slog.String("file", filename))
	if _, err := p.SqlProvider.GetMaster().Exec(content); err != nil {
		return fmt.Errorf("failed to execute %s, %w", filename, err)
	}
	return nil
}

func (p *Provider) SysUserStore() store.SysUserStore {
	return p.stores.SysUserStore
}

func (p *Provider) SysUserRoleStore() store.SysUserRoleStore {
	return p.stores.SysUserRoleStore
}

func (p *Provider) SysUserPostStore() store.SysUserPostStore {
	return p.stores.SysUserPostStore
}

func (p *Provider) SysRoleMenuStore() store.SysRoleMenuStore {
	return p.stores.SysRoleMenuStore
}

func (p *Provider) SysRoleDeptStore() store.SysRoleDeptStore {
	return p.stores.SysRoleDeptStore
}

func (p *Provider) SysDeptStore() store.SysDeptStore {
	return p.stores.SysDeptStore
}

func (p *Provider) SysRoleStore() store.SysRoleStore {
	return p.stores.SysRoleStore
}

func (p *Provider) SysMenuStore() store.SysMenuStore {
	return p.stores.SysMenuStore
}

func (p *Provider) SysPostStore() store.SysPostStore {
	return p.stores.SysPostStore
}

func (p *Provider) SysDictTypeStore() store.SysDictTypeStore {
	return p.stores.SysDictTypeStore
}

func (p *Provider) SysDictDataStore() store.SysDictDataStore {
	return p.stores.SysDictDataStore
}

func (p *Provider) SysConfigStore() store.SysConfigStore {
	return p.stores.SysConfigStore
}

func (p *Provider) SysNoticeStore() store.SysNoticeStore {
	return p.stores.SysNoticeStore
}

func (p *Provider) SysLogininforStore() store.SysLogininforStore {
	return p.stores.SysLogininforStore
}

func (p *Provider) SysOperLogStore() store.SysOperLogStore {
	return p.stores.SysOperLogStore
}

func (p *Provider) SysJobStore() store.SysJobStore {
	return p.stores.SysJobStore
}

func (p *Provider) SysJobLogStore() store.SysJobLogStore {
	return p.stores.SysJobLogStore
}

func (p *Provider) ExbMuseumStore() store.ExbMuseumStore {
	return p.stores.ExbMuseumStore
}

func (p *Provider) ExbMuseumHallStore() store.ExbMuseumHallStore {
	return p.stores.ExbMuseumHallStore
}

func (p *Provider) ExbExhibitionStore() store.ExbExhibitionStore {
	return p.stores.ExbExhibitionStore
}

func (p *Provider) ExbExhibitionUnitStore() store.ExbExhibitionUnitStore {
	return p.stores.ExbExhibitionUnitStore
}

func (p *Provider) ExbCollectionStore() store.ExbCollectionStore {
	return p.stores.ExbCollectionStore
}

func (p *Provider) ExbActivityStore() store.ExbActivityStore {
	return p.stores.ExbActivityStore
}

func (p *Provider) ExbReservationStore() store.ExbReservationStore {
	return p.stores.ExbReservationStore
}

func (p *Provider) ExbMuseumMediaStore() store.ExbMuseumMediaStore {
	return p.stores.ExbMuseumMediaStore
}

func (p *Provider) ExbWxUserStore() store.ExbWxUserStore {
	return p.stores.ExbWxUserStore
}

// Cache 配置与字典缓存使用
func (p *Provider) Cache() types.Cache {
	if p.coreRef != nil && p.coreRef.getCacheFunc != nil {
		return p.coreRef.getCacheFunc()
	}
	// 返回一个空的 cache 实现作为fallback
	return &EmptyCache{}
}

// SetCacheFunc 设置获取 cache 的函数
func (p *Provider) SetCacheFunc(getCacheFunc func() types.Cache) {
	if p.coreRef == nil {
		p.coreRef = &CoreRef{}
	}
	p.coreRef.getCacheFunc = getCacheFunc
}

// EmptyCache 空的 cache 实现，用作 fallback
type EmptyCache struct{}

func (c *EmptyCache) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (c *EmptyCache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	return nil
}

func (c *EmptyCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}

func (c *EmptyCache) Del(ctx context.Context, keys ...string) error {
	return nil
}
