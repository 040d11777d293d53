package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resume-backend/internal/core/auth"
	"resume-backend/internal/domain"
	"resume-backend/internal/service"
	"resume-backend/internal/transport/http/handler"
	"resume-backend/internal/transport/http/router"
)

func init() { gin.SetMode(gin.TestMode) }

// --- 内存仓储 ---

type memUserRepo struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	order []string
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{byID: map[string]*domain.User{}} }

func (m *memUserRepo) Create(u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	norm := domain.NormalizeEmail(u.Email)
	for _, ex := range m.byID {
		if ex.Email == norm {
			return domain.ErrEmailTaken
		}
	}
	u.Email = norm
	u.CreatedAt = time.Now()
	cp := *u
	m.byID[u.ID] = &cp
	m.order = append(m.order, u.ID)
	return nil
}

func (m *memUserRepo) FindByID(id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByEmail(email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	norm := domain.NormalizeEmail(email)
	for _, u := range m.byID {
		if u.Email == norm {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) List(offset, limit int) ([]domain.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for i := offset; i < len(m.order) && len(out) < limit; i++ {
		out = append(out, *m.byID[m.order[i]])
	}
	return out, int64(len(m.order)), nil
}

func (m *memUserRepo) Update(u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	u.Email = domain.NormalizeEmail(u.Email)
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUserRepo) SoftDelete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.byID, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

type memNavRepo struct {
	mu    sync.Mutex
	items map[string]*domain.NavItem
}

func newMemNavRepo() *memNavRepo { return &memNavRepo{items: map[string]*domain.NavItem{}} }

func (m *memNavRepo) Create(n *domain.NavItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *n
	m.items[n.ID] = &cp
	return nil
}

func (m *memNavRepo) FindByID(id string) (*domain.NavItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNavItemNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNavRepo) list(visibleOnly bool) []domain.NavItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.NavItem
	for _, n := range m.items {
		if visibleOnly && !n.Visible {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func (m *memNavRepo) ListVisible() ([]domain.NavItem, error) { return m.list(true), nil }
func (m *memNavRepo) ListAll() ([]domain.NavItem, error)     { return m.list(false), nil }

func (m *memNavRepo) Update(n *domain.NavItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[n.ID]; !ok {
		return domain.ErrNavItemNotFound
	}
	cp := *n
	m.items[n.ID] = &cp
	return nil
}

func (m *memNavRepo) SoftDelete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNavItemNotFound
	}
	delete(m.items, id)
	return nil
}

// --- 测试环境 ---

type env struct {
	api   *gin.Engine
	admin *gin.Engine
	users *memUserRepo
	nav   *memNavRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := zap.NewNop()
	jwter, err := auth.NewJWTer("fixture-secret", "resume-backend", time.Hour)
	require.NoError(t, err)
	policy := auth.NewPolicy("root@example.com")

	users := newMemUserRepo()
	nav := newMemNavRepo()
	userSvc := service.NewUserService(users, jwter, policy)
	navSvc := service.NewNavigationService(nav, nil)
	navH := handler.NewNavigationHandler(navSvc, log)

	api := router.NewAPIEngine(router.APIDeps{
		Log:   log,
		JWTer: jwter,
		Auth:  handler.NewAuthHandler(userSvc, log),
		Me:    handler.NewMeHandler(userSvc, log),
		Nav:   navH,
	})
	admin := router.NewAdminEngine(router.AdminDeps{
		Log:    log,
		JWTer:  jwter,
		Policy: policy,
		Users:  users,
		User:   handler.NewAdminUserHandler(userSvc, log),
		Nav:    navH,
	})
	return &env{api: api, admin: admin, users: users, nav: nav}
}

func do(r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

// 注册 → 登录 → /me → 管理端拒绝非管理员，跑通整条链路
func TestAuthFlow(t *testing.T) {
	e := newEnv(t)

	// 注册
	w, body := do(e.api, http.MethodPost, "/auth/register", "",
		gin.H{"email": "alice@example.com", "password": "pw123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, body["ok"])
	tokenA, _ := body["token"].(string)
	require.NotEmpty(t, tokenA)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	_, leaked := user["passwordHash"]
	assert.False(t, leaked, "passwordHash must never be serialized")
	userID := user["id"].(string)

	// 登录拿第二枚令牌
	w, body = do(e.api, http.MethodPost, "/auth/login", "",
		gin.H{"email": "alice@example.com", "password": "pw123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tokenB := body["token"].(string)
	require.NotEmpty(t, tokenB)

	// 两枚令牌都可用
	for _, tok := range []string{tokenA, tokenB} {
		w, body = do(e.api, http.MethodGet, "/me", tok, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		me := body["user"].(map[string]any)
		assert.Equal(t, userID, me["id"])
		assert.Equal(t, "alice@example.com", me["email"])
	}

	// 垃圾令牌
	w, _ = do(e.api, http.MethodGet, "/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 非管理员动管理端 → 403 而不是 401
	w, _ = do(e.admin, http.MethodPatch, "/admin/users/"+userID, tokenA,
		gin.H{"plan": "pro"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterValidationAndConflict(t *testing.T) {
	e := newEnv(t)

	w, _ := do(e.api, http.MethodPost, "/auth/register", "", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(e.api, http.MethodPost, "/auth/register", "", gin.H{"password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(e.api, http.MethodPost, "/auth/register", "",
		gin.H{"email": "alice@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code)

	// 大小写不同也算重复
	w, body := do(e.api, http.MethodPost, "/auth/register", "",
		gin.H{"email": "ALICE@Example.com", "password": "pw2"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["ok"])
}

func TestRegisterBootstrapAdmin(t *testing.T) {
	e := newEnv(t)

	w, body := do(e.api, http.MethodPost, "/auth/register", "",
		gin.H{"email": "Root@Example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, domain.RoleSuperAdmin, user["role"])
}

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)

	_, _ = do(e.api, http.MethodPost, "/auth/register", "",
		gin.H{"email": "alice@example.com", "password": "pw123"})

	w, body := do(e.api, http.MethodPost, "/auth/login", "",
		gin.H{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", body["error"])

	w, _ = do(e.api, http.MethodPost, "/auth/login", "",
		gin.H{"email": "nobody@example.com", "password": "pw123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(e.api, http.MethodPost, "/auth/login", "", gin.H{"email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMePatch(t *testing.T) {
	e := newEnv(t)

	_, body := do(e.api, http.MethodPost, "/auth/register", "",
		gin.H{"email": "alice@example.com", "password": "pw"})
	tok := body["token"].(string)

	w, _ := do(e.api, http.MethodPatch, "/me", tok, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(e.api, http.MethodPatch, "/me", tok, gin.H{"fullName": "Alice A."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Alice A.", body["user"].(map[string]any)["fullName"])

	w, _ = do(e.api, http.MethodPatch, "/me", "", gin.H{"fullName": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// 令牌仍有效但账号已删 → /me 401
func TestMeAfterAccountDeleted(t *testing.T) {
	e := newEnv(t)

	_, body := do(e.api, http.MethodPost, "/auth/register", "",
		gin.H{"email": "alice@example.com", "password": "pw"})
	tok := body["token"].(string)
	uid := body["user"].(map[string]any)["id"].(string)

	require.NoError(t, e.users.SoftDelete(uid))

	w, body := do(e.api, http.MethodGet, "/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "user not found", body["error"])
}

func adminToken(t *testing.T, e *env) string {
	t.Helper()
	_, body := do(e.api, http.MethodPost, "/auth/register", "",
		gin.H{"email": "root@example.com", "password": "pw"})
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestAdminUserCRUD(t *testing.T) {
	e := newEnv(t)
	tok := adminToken(t, e)

	// 创建
	w, body := do(e.admin, http.MethodPost, "/admin/users", tok,
		gin.H{"email": "bob@example.com", "password": "pw", "role": "viewer", "plan": "pro"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bob := body["user"].(map[string]any)
	assert.Equal(t, domain.RoleViewer, bob["role"])
	bobID := bob["id"].(string)

	// 重复邮箱
	w, _ = do(e.admin, http.MethodPost, "/admin/users", tok,
		gin.H{"email": "bob@example.com", "password": "pw"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 非法角色
	w, _ = do(e.admin, http.MethodPost, "/admin/users", tok,
		gin.H{"email": "c@example.com", "password": "pw", "role": "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 列表
	w, body = do(e.admin, http.MethodGet, "/admin/users", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, body["total"])

	// 更新
	w, body = do(e.admin, http.MethodPatch, "/admin/users/"+bobID, tok,
		gin.H{"plan": "enterprise"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "enterprise", body["user"].(map[string]any)["plan"])

	// 空补丁
	w, _ = do(e.admin, http.MethodPatch, "/admin/users/"+bobID, tok, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 目标不存在
	w, _ = do(e.admin, http.MethodPatch, "/admin/users/missing", tok, gin.H{"plan": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 删除
	w, _ = do(e.admin, http.MethodDelete, "/admin/users/"+bobID, tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(e.admin, http.MethodDelete, "/admin/users/"+bobID, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRejectsWrongScheme(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Basic xyz")
	w := httptest.NewRecorder()
	e.admin.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNavigation(t *testing.T) {
	e := newEnv(t)
	tok := adminToken(t, e)

	// 空列表也要 200
	w, body := do(e.api, http.MethodGet, "/navigation", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ok"])

	// 管理端创建：一条可见一条隐藏
	w, body = do(e.admin, http.MethodPost, "/admin/navigation", tok,
		gin.H{"label": "Home", "url": "/", "sortOrder": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	homeID := body["item"].(map[string]any)["id"].(string)

	w, _ = do(e.admin, http.MethodPost, "/admin/navigation", tok,
		gin.H{"label": "Hidden", "url": "/h", "visible": false})
	require.Equal(t, http.StatusCreated, w.Code)

	// 缺字段
	w, _ = do(e.admin, http.MethodPost, "/admin/navigation", tok, gin.H{"label": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 前台只见可见项
	w, body = do(e.api, http.MethodGet, "/navigation", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Home", items[0].(map[string]any)["label"])

	// 管理端看全量
	w, body = do(e.admin, http.MethodGet, "/admin/navigation", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["items"].([]any), 2)

	// 改可见性
	w, _ = do(e.admin, http.MethodPatch, "/admin/navigation/"+homeID, tok,
		gin.H{"visible": false})
	require.Equal(t, http.StatusOK, w.Code)
	w, body = do(e.api, http.MethodGet, "/navigation", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["items"])

	// 删除
	w, _ = do(e.admin, http.MethodDelete, "/admin/navigation/"+homeID, tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(e.admin, http.MethodDelete, "/admin/navigation/"+homeID, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
