package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/hooks/common/logger"
	"basegraph.app/hooks/internal/http/middleware"
)

var _ = Describe("Logger", func() {
	var (
		router    *gin.Engine
		buf       *bytes.Buffer
		seenReqID string
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		buf = &bytes.Buffer{}

		prev := slog.Default()
		slog.SetDefault(slog.New(logger.NewTraceHandler(slog.NewJSONHandler(buf, nil))))
		DeferCleanup(func() { slog.SetDefault(prev) })

		seenReqID = ""
		router = gin.New()
		router.Use(middleware.Logger())
		router.GET("/ping", func(c *gin.Context) {
			if id := logger.GetLogFields(c.Request.Context()).RequestID; id != nil {
				seenReqID = *id
			}
			c.String(http.StatusTeapot, "pong")
		})
	})

	It("assigns a request id and logs the request", func() {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		reqID := w.Header().Get(middleware.RequestIDHeader)
		Expect(reqID).NotTo(BeEmpty())
		Expect(seenReqID).To(Equal(reqID))

		var entry map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
		Expect(entry).To(HaveKeyWithValue("msg", "http request"))
		Expect(entry).To(HaveKeyWithValue("level", "WARN"))
		Expect(entry).To(HaveKeyWithValue("path", "/ping"))
		Expect(entry).To(HaveKeyWithValue("status", float64(http.StatusTeapot)))
		Expect(entry).To(HaveKeyWithValue("request_id", reqID))
	})

	It("keeps a caller-supplied request id", func() {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.RequestIDHeader, "upstream-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal("upstream-123"))
		Expect(seenReqID).To(Equal("upstream-123"))
	})
})
