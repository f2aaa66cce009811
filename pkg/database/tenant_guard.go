package database

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ── 租户上下文 ──

type tenantCtxKey struct{}
type skipTenantCtxKey struct{}

const tenantColumn = "organization_id"

// WithOrganization 将当前请求的组织 ID 写入 context
func WithOrganization(ctx context.Context, organizationID string) context.Context {
	return context.WithValue(ctx, tenantCtxKey{}, organizationID)
}

// OrganizationFromContext 读取 context 中的组织 ID
func OrganizationFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tenantCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// WithoutTenantScope 显式跳过租户过滤（登录按邮箱查用户、运维 CLI）
func WithoutTenantScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipTenantCtxKey{}, true)
}

func shouldSkipTenantScope(ctx context.Context) bool {
	v, ok := ctx.Value(skipTenantCtxKey{}).(bool)
	return ok && v
}

// TenantGuardPlugin 为含 organization_id 列的模型自动追加租户过滤条件
//
// 注意：
//   - Raw SQL 不经过该插件，必须手动带上 organization_id
//   - Repository 层依然显式传入组织 ID，插件只是第二道防线
type TenantGuardPlugin struct{}

// NewTenantGuardPlugin 创建租户隔离插件
func NewTenantGuardPlugin() *TenantGuardPlugin { return &TenantGuardPlugin{} }

// Name 实现 gorm.Plugin
func (p *TenantGuardPlugin) Name() string { return "tenant_guard" }

// Initialize 实现 gorm.Plugin，在查询/更新/删除前注册回调
func (p *TenantGuardPlugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("tenant_guard:query", tenantGuardCallback); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("tenant_guard:row", tenantGuardCallback); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenant_guard:update", tenantGuardCallback); err != nil {
		return err
	}
	return db.Callback().Delete().Before("gorm:delete").Register("tenant_guard:delete", tenantGuardCallback)
}

func tenantGuardCallback(db *gorm.DB) {
	if db == nil || db.Statement == nil || db.Statement.Context == nil {
		return
	}
	ctx := db.Statement.Context
	if shouldSkipTenantScope(ctx) {
		return
	}
	orgID := OrganizationFromContext(ctx)
	if orgID == "" || db.Statement.Schema == nil {
		return
	}
	if db.Statement.Schema.LookUpField(tenantColumn) == nil {
		return
	}
	if whereHasTenant(db.Statement.Clauses["WHERE"]) {
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: db.Statement.Table, Name: tenantColumn},
				Value:  orgID,
			},
		},
	})
}

func whereHasTenant(c clause.Clause) bool {
	if c.Expression == nil {
		return false
	}
	w, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, e := range w.Exprs {
		if exprHasTenant(e) {
			return true
		}
	}
	return false
}

func exprHasTenant(e clause.Expression) bool {
	switch v := e.(type) {
	case clause.Eq:
		return colIsTenant(v.Column)
	case clause.Neq:
		return colIsTenant(v.Column)
	case clause.IN:
		return colIsTenant(v.Column)
	case clause.AndConditions:
		for _, x := range v.Exprs {
			if exprHasTenant(x) {
				return true
			}
		}
		return false
	case clause.OrConditions:
		for _, x := range v.Exprs {
			if exprHasTenant(x) {
				return true
			}
		}
		return false
	case clause.Expr:
		return strings.Contains(strings.ToLower(v.SQL), tenantColumn)
	case clause.NamedExpr:
		return strings.Contains(strings.ToLower(v.SQL), tenantColumn)
	default:
		return false
	}
}

func colIsTenant(col any) bool {
	switch c := col.(type) {
	case string:
		return strings.EqualFold(c, tenantColumn)
	case clause.Column:
		return strings.EqualFold(c.Name, tenantColumn)
	default:
		return false
	}
}
