package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pnu-resolver/app/models"
	"github.com/pnu-resolver/app/responses"
	"github.com/pnu-resolver/app/services"
	"github.com/pnu-resolver/internal/index"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ix := index.Build([]models.DistrictRecord{
		{FullName: "서울특별시 강남구 역삼동", Code10: "1168010100"},
	})
	svc := services.NewResolveService(ix, "test", zap.NewNop())
	rc := NewResolveController(svc, nil, zap.NewNop())

	r := gin.New()
	r.GET("/resolve", rc.ResolveGet)
	r.POST("/resolve", rc.ResolvePost)
	return r
}

func TestResolveGetParamAliases(t *testing.T) {
	router := testRouter(t)

	for _, param := range []string{"text", "query", "q"} {
		t.Run(param, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet,
				"/resolve?"+param+"=%EC%97%AD%EC%82%BC%EB%8F%99+123-4", nil)
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			var resp responses.ResolveResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if !resp.Result.OK || resp.Result.Pnu == nil || *resp.Result.Pnu != "1168010100001230004" {
				t.Errorf("result = %+v", resp.Result)
			}
		})
	}
}

func TestResolveGetMissingParam(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resolve", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestResolvePostSuggestOption(t *testing.T) {
	router := testRouter(t)

	body := `{"text":"역삼둥 123","options":{"suggest":false}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/resolve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp responses.ResolveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result.OK {
		t.Fatalf("result unexpectedly OK: %+v", resp.Result)
	}
	if resp.Result.Suggestions != nil {
		t.Errorf("Suggestions = %v, want none when disabled", resp.Result.Suggestions)
	}
}
