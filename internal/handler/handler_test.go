package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mall-admin-go/internal/config"
	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/tree"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Department{}, &model.Role{}, &model.User{}))
	return db
}

func newDepartmentRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	svc := service.NewDepartmentService(db, repository.NewTreeRepository[model.Department](db), repository.NewUserRepository(db), config.TreeKindConfig{MaxDepth: 3})
	h := NewDepartmentHandler(svc)

	r := gin.New()
	g := r.Group("/departments")
	g.GET("/tree", h.Tree)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/path", h.Path)
	g.GET("/:id/descendants", h.Descendants)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r, db
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func createDept(t *testing.T, r http.Handler, parentID, name string) string {
	t.Helper()
	code, env := do(t, r, http.MethodPost, "/departments", gin.H{"parentId": parentID, "name": name})
	require.Equal(t, http.StatusOK, code, env.Message)
	var d model.Department
	require.NoError(t, json.Unmarshal(env.Data, &d))
	return d.ID
}

func TestDepartmentRoutes_StatusMapping(t *testing.T) {
	r, _ := newDepartmentRouter(t)
	root := createDept(t, r, "", "总部")
	mid := createDept(t, r, root, "研发部")
	leaf := createDept(t, r, mid, "后端组")

	code, env := do(t, r, http.MethodGet, "/departments/"+leaf+"/path", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"path":"总部 / 研发部 / 后端组"}`, leaf), string(env.Data))

	// 环
	code, _ = do(t, r, http.MethodPut, "/departments/"+root, gin.H{"parentId": leaf, "name": "总部"})
	assert.Equal(t, http.StatusBadRequest, code)

	// 自挂载
	code, _ = do(t, r, http.MethodPut, "/departments/"+root, gin.H{"parentId": root, "name": "总部"})
	assert.Equal(t, http.StatusBadRequest, code)

	// 超过三层
	code, _ = do(t, r, http.MethodPost, "/departments", gin.H{"parentId": leaf, "name": "第四层"})
	assert.Equal(t, http.StatusBadRequest, code)

	// 父节点不存在
	code, _ = do(t, r, http.MethodPost, "/departments", gin.H{"parentId": "nope", "name": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	// 仍有子节点
	code, env = do(t, r, http.MethodDelete, "/departments/"+root, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, http.StatusConflict, env.Code)

	code, _ = do(t, r, http.MethodGet, "/departments/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, r, http.MethodPost, "/departments", gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, r, http.MethodGet, "/departments/"+root+"/descendants", nil)
	assert.Equal(t, http.StatusOK, code)
	var ids []string
	require.NoError(t, json.Unmarshal(env.Data, &ids))
	assert.ElementsMatch(t, []string{mid, leaf}, ids)
}

func TestDepartmentRoutes_TreeFilter(t *testing.T) {
	r, _ := newDepartmentRouter(t)
	root := createDept(t, r, "", "总部")
	createDept(t, r, root, "研发部")

	code, env := do(t, r, http.MethodGet, "/departments/tree?name=研发", nil)
	require.Equal(t, http.StatusOK, code)
	var nodes []model.DepartmentNode
	require.NoError(t, json.Unmarshal(env.Data, &nodes))
	require.Len(t, nodes, 1)
	assert.Equal(t, "研发部", nodes[0].Name)

	code, _ = do(t, r, http.MethodGet, "/departments/tree?status=7", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDepartmentRoutes_DeleteInUse(t *testing.T) {
	r, db := newDepartmentRouter(t)
	root := createDept(t, r, "", "总部")
	require.NoError(t, db.Create(&model.User{Username: "u1", Password: "x", DeptID: &root, Status: model.StatusEnabled}).Error)

	code, env := do(t, r, http.MethodDelete, "/departments/"+root, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Message, "users")
}

func TestErrorStatus(t *testing.T) {
	orphans := multierr.Combine(
		&tree.OrphanRecordError{ID: "a", ParentID: "x"},
		&tree.OrphanRecordError{ID: "b", ParentID: "y"},
	)
	cases := []struct {
		err  error
		want int
	}{
		{&tree.SelfParentError{ID: "a"}, http.StatusBadRequest},
		{&tree.CycleError{ID: "a", ParentID: "b"}, http.StatusBadRequest},
		{&tree.DepthExceededError{Depth: 4, MaxDepth: 3}, http.StatusBadRequest},
		{&tree.HasChildrenError{ID: "a", Count: 1}, http.StatusConflict},
		{&tree.InUseError{ID: "a", Kind: "users", Count: 2}, http.StatusConflict},
		{&tree.DuplicateIDError{ID: "a"}, http.StatusConflict},
		{&tree.CycleDetectedError{ID: "a"}, http.StatusInternalServerError},
		{orphans, http.StatusInternalServerError},
		{fmt.Errorf("update: %w", service.ErrNotFound), http.StatusNotFound},
		{service.ErrParentNotFound, http.StatusBadRequest},
		{service.ErrAlreadyExists, http.StatusConflict},
		{service.ErrOutOfStock, http.StatusConflict},
		{service.ErrInvalidCredential, http.StatusUnauthorized},
		{service.ErrUserDisabled, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		got, _ := errorStatus(c.err)
		assert.Equal(t, c.want, got, "%v", c.err)
	}

	_, msg := errorStatus(orphans)
	assert.Contains(t, msg, "2")
}
