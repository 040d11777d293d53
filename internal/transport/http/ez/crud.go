package ez

import (
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	resp "resume-backend/internal/transport/http/response"
	"resume-backend/pkg/utils"
)

// CrudHooks 业务钩子
type CrudHooks[T any] struct {
	BeforeCreate func(c *gin.Context, m *T) error
	BeforeUpdate func(c *gin.Context, m *T) error
	ScopeList    func(c *gin.Context, q *gorm.DB) *gorm.DB
	AfterGet     func(c *gin.Context, m *T)
}

// CrudConfig 行级按 owner 过滤的泛型 CRUD。
// 非本人的行一律 404（按归属过滤，避免泄露存在性）。
type CrudConfig[T any] struct {
	DB    *gorm.DB
	Group *gin.RouterGroup // 已挂鉴权中间件的分组
	Path  string
	New   func() *T

	Hooks CrudHooks[T]

	IDField    string // 默认 "ID"
	OwnerField string // 默认 "OwnerID"，其次 "UserID"

	IDGen   func() string // 默认 utils.NewID
	OrderBy string        // 默认 created_at DESC
}

func (c *CrudConfig[T]) idCandidates() []string {
	if c.IDField != "" {
		return []string{c.IDField, "ID"}
	}
	return []string{"ID"}
}

func (c *CrudConfig[T]) ownerCandidates() []string {
	if c.OwnerField != "" {
		return []string{c.OwnerField, "OwnerID", "UserID"}
	}
	return []string{"OwnerID", "UserID"}
}

func stringFieldPtr(obj any, candidates []string) (*string, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return nil, false
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // 未导出字段跳过
			continue
		}
		for _, cand := range candidates {
			if f.Name == cand {
				fv := v.Field(i)
				if fv.Kind() == reflect.String && fv.CanSet() {
					return fv.Addr().Interface().(*string), true
				}
			}
		}
	}
	return nil, false
}

func readField(obj any, candidates []string) (string, bool) {
	p, ok := stringFieldPtr(obj, candidates)
	if !ok {
		return "", false
	}
	return *p, true
}

func writeField(obj any, candidates []string, val string) bool {
	p, ok := stringFieldPtr(obj, candidates)
	if !ok {
		return false
	}
	*p = val
	return true
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// Crud 注册 POST/GET/GET:id/PUT:id/DELETE:id 五个接口，模型无需实现任何接口
func Crud[T any](cfg CrudConfig[T]) {
	if cfg.IDGen == nil {
		cfg.IDGen = utils.NewID
	}
	if cfg.OrderBy == "" {
		cfg.OrderBy = "created_at DESC"
	}

	idNames := cfg.idCandidates()
	ownerNames := cfg.ownerCandidates()

	ownerOf := func(c *gin.Context) (string, bool) {
		uid := c.GetString("userId")
		if uid == "" {
			resp.Fail(c, http.StatusUnauthorized, "unauthorized")
			return "", false
		}
		return uid, true
	}

	// Create
	cfg.Group.POST(cfg.Path, func(c *gin.Context) {
		uid, ok := ownerOf(c)
		if !ok {
			return
		}
		m := cfg.New()
		if err := c.ShouldBindJSON(m); err != nil {
			resp.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		// id 永远服务端生成，请求体带了也作废
		if !writeField(m, idNames, cfg.IDGen()) {
			resp.Fail(c, http.StatusInternalServerError, "id field not found")
			return
		}
		if !writeField(m, ownerNames, uid) {
			resp.Fail(c, http.StatusInternalServerError, "owner field not found")
			return
		}
		if cfg.Hooks.BeforeCreate != nil {
			if err := cfg.Hooks.BeforeCreate(c, m); err != nil {
				WriteErr(c, err)
				return
			}
		}
		if err := cfg.DB.WithContext(c).Create(m).Error; err != nil {
			WriteErr(c, Internal("create failed", err))
			return
		}
		if cfg.Hooks.AfterGet != nil {
			cfg.Hooks.AfterGet(c, m)
		}
		resp.OK(c, http.StatusCreated, gin.H{"item": m})
	})

	// List（仅本人的行）
	cfg.Group.GET(cfg.Path, func(c *gin.Context) {
		uid, ok := ownerOf(c)
		if !ok {
			return
		}
		page := atoiDefault(c.Query("page"), 1)
		size := atoiDefault(c.Query("size"), 20)
		if size > 100 {
			size = 20
		}

		ownerFilter := cfg.New()
		if !writeField(ownerFilter, ownerNames, uid) {
			resp.Fail(c, http.StatusInternalServerError, "owner field not found")
			return
		}

		q := cfg.DB.WithContext(c).Model(cfg.New()).Where(ownerFilter)
		if cfg.Hooks.ScopeList != nil {
			q = cfg.Hooks.ScopeList(c, q)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			WriteErr(c, Internal("count failed", err))
			return
		}
		var items []T
		if err := q.Order(cfg.OrderBy).Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
			WriteErr(c, Internal("list failed", err))
			return
		}
		if cfg.Hooks.AfterGet != nil {
			for i := range items {
				cfg.Hooks.AfterGet(c, &items[i])
			}
		}
		resp.OK(c, http.StatusOK, gin.H{"list": items, "total": total, "page": page, "size": size})
	})

	// Get
	cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
		uid, ok := ownerOf(c)
		if !ok {
			return
		}
		filter := cfg.New()
		_ = writeField(filter, idNames, c.Param("id"))
		_ = writeField(filter, ownerNames, uid)

		m := cfg.New()
		if err := cfg.DB.WithContext(c).Where(filter).First(m).Error; err != nil {
			resp.Fail(c, http.StatusNotFound, "not found")
			return
		}
		if cfg.Hooks.AfterGet != nil {
			cfg.Hooks.AfterGet(c, m)
		}
		resp.OK(c, http.StatusOK, gin.H{"item": m})
	})

	// Update
	cfg.Group.PUT(cfg.Path+"/:id", func(c *gin.Context) {
		uid, ok := ownerOf(c)
		if !ok {
			return
		}
		id := c.Param("id")

		// 过滤条件只含 id+owner；用查出来的整行当条件会把时间戳
		// 也带进 WHERE，精度不一致时更新会静默落空
		filter := cfg.New()
		_ = writeField(filter, idNames, id)
		_ = writeField(filter, ownerNames, uid)

		in := cfg.New()
		if err := c.ShouldBindJSON(in); err != nil {
			resp.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		// ID/Owner 不可被请求体改写
		_ = writeField(in, idNames, id)
		_ = writeField(in, ownerNames, uid)

		if cfg.Hooks.BeforeUpdate != nil {
			if err := cfg.Hooks.BeforeUpdate(c, in); err != nil {
				WriteErr(c, err)
				return
			}
		}
		res := cfg.DB.WithContext(c).Model(cfg.New()).Where(filter).Updates(in)
		if res.Error != nil {
			WriteErr(c, Internal("update failed", res.Error))
			return
		}
		if res.RowsAffected == 0 {
			resp.Fail(c, http.StatusNotFound, "not found")
			return
		}
		if cfg.Hooks.AfterGet != nil {
			cfg.Hooks.AfterGet(c, in)
		}
		resp.OK(c, http.StatusOK, gin.H{"item": in})
	})

	// Delete
	cfg.Group.DELETE(cfg.Path+"/:id", func(c *gin.Context) {
		uid, ok := ownerOf(c)
		if !ok {
			return
		}
		filter := cfg.New()
		_ = writeField(filter, idNames, c.Param("id"))
		_ = writeField(filter, ownerNames, uid)

		res := cfg.DB.WithContext(c).Where(filter).Delete(cfg.New())
		if res.Error != nil {
			WriteErr(c, Internal("delete failed", res.Error))
			return
		}
		if res.RowsAffected == 0 {
			resp.Fail(c, http.StatusNotFound, "not found")
			return
		}
		resp.OK(c, http.StatusOK, gin.H{"id": c.Param("id")})
	})
}
