package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	resp "resume-backend/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // 自己从 c.Param / c.Query 取
)

// AErr 带 HTTP 状态码的业务错误
type AErr struct {
	Status int
	Msg    string
	Err    error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Status: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Status: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Status: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Status: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Status: http.StatusConflict, Msg: msg} }

// Internal 对外只给笼统消息，细节留给日志
func Internal(msg string, err error) error {
	return &AErr{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Action I 入参，O 出参；Wrap 指定返回字段名（默认平铺进信封不现实，统一挂一个 key）
type Action[I any, O any] struct {
	Method  string // GET | POST | PUT | PATCH | DELETE
	Path    string
	Binder  Binder
	Key     string // 成功时输出字段名，默认 "data"
	UseTx   bool   // 是否包事务
	Handler func(c *gin.Context, db *gorm.DB, in *I) (O, error)
}

// RegisterAction 非 CRUD 接口一行注册；鉴权由分组中间件负责。
func RegisterAction[I any, O any](e EZ, db *gorm.DB, a Action[I, O]) {
	key := a.Key
	if key == "" {
		key = "data"
	}
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			resp.Fail(c, http.StatusBadRequest, bindErr.Error())
			return
		}

		run := func(tx *gorm.DB) (O, error) { return a.Handler(c, tx, &in) }
		var out O
		var err error
		if a.UseTx {
			err = db.WithContext(c).Transaction(func(tx *gorm.DB) error {
				o, e := run(tx)
				out = o
				return e
			})
		} else {
			out, err = run(db.WithContext(c))
		}

		if err != nil {
			WriteErr(c, err)
			return
		}
		status := http.StatusOK
		if c.Request.Method == http.MethodPost {
			status = http.StatusCreated
		}
		resp.OK(c, status, gin.H{key: out})
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// WriteErr AErr 按自带状态码输出，其余一律 500 笼统消息
func WriteErr(c *gin.Context, err error) {
	var ae *AErr
	if errors.As(err, &ae) {
		resp.Fail(c, ae.Status, ae.Error())
		return
	}
	_ = c.Error(err) // 进访问日志
	resp.Fail(c, http.StatusInternalServerError, "internal error")
}
