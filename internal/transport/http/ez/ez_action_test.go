package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func TestAErr(t *testing.T) {
	e := &AErr{Status: http.StatusConflict, Msg: "taken"}
	if e.Error() != "taken" {
		t.Fatalf("Error() = %q", e.Error())
	}

	inner := errors.New("boom")
	e = &AErr{Status: http.StatusInternalServerError, Err: inner}
	if e.Error() != "boom" {
		t.Fatalf("Error() = %q", e.Error())
	}
	if !errors.Is(e, inner) {
		t.Fatal("Unwrap should expose the inner error")
	}
}

func TestWriteErr(t *testing.T) {
	writeAndDecode := func(err error) (int, map[string]any) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
		WriteErr(c, err)

		var body map[string]any
		if e := json.Unmarshal(w.Body.Bytes(), &body); e != nil {
			t.Fatalf("decode: %v", e)
		}
		return w.Code, body
	}

	code, body := writeAndDecode(NotFound("not found"))
	if code != http.StatusNotFound || body["error"] != "not found" {
		t.Fatalf("AErr: code=%d body=%v", code, body)
	}
	if body["ok"] != false {
		t.Fatalf("envelope ok=%v", body["ok"])
	}

	code, body = writeAndDecode(Conflict("taken"))
	if code != http.StatusConflict || body["error"] != "taken" {
		t.Fatalf("conflict: code=%d body=%v", code, body)
	}

	// 非 AErr 的错误不能把细节带到响应里
	code, body = writeAndDecode(errors.New("pq: connection refused"))
	if code != http.StatusInternalServerError {
		t.Fatalf("code = %d", code)
	}
	if body["error"] != "internal error" {
		t.Fatalf("leaked internal detail: %v", body["error"])
	}
}
