package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/hooks/internal/http/handler"
	"basegraph.app/hooks/internal/service"
)

var _ = Describe("HealthHandler", func() {
	var (
		router *gin.Engine
		svc    *mockHealthService
	)

	get := func() (*httptest.ResponseRecorder, map[string]json.RawMessage) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var body map[string]json.RawMessage
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		return w, body
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockHealthService{}
		router.GET("/health", handler.NewHealthHandler(svc).Health)
	})

	DescribeTable("always answers 200 with the storage state inline",
		func(db *bool, want string) {
			svc.report = service.HealthReport{Uptime: 1500 * time.Millisecond, DB: db}

			w, body := get()

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(string(body["ok"])).To(Equal("true"))
			Expect(string(body["uptime"])).To(Equal("1.5"))
			Expect(body).To(HaveKey("db"))
			Expect(string(body["db"])).To(Equal(want))
		},
		Entry("not configured", (*bool)(nil), "null"),
		Entry("reachable", ptr(true), "true"),
		Entry("unreachable", ptr(false), "false"),
	)
})

func ptr[T any](v T) *T {
	return &v
}
