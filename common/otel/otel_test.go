package otel_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/hooks/common/otel"
	"basegraph.app/hooks/core/config"
)

var _ = Describe("Setup", func() {
	It("is disabled without an endpoint", func() {
		telemetry, err := otel.Setup(context.Background(), config.OTelConfig{ServiceName: "hooks"})

		Expect(err).NotTo(HaveOccurred())
		Expect(telemetry).To(BeNil())
	})

	It("shuts down a nil telemetry", func() {
		var telemetry *otel.Telemetry
		Expect(telemetry.Shutdown(context.Background())).To(Succeed())
	})

	It("installs providers for a configured endpoint", func() {
		ctx := context.Background()
		telemetry, err := otel.Setup(ctx, config.OTelConfig{
			Endpoint:       "http://127.0.0.1:4318/",
			ServiceName:    "hooks",
			ServiceVersion: "test",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(telemetry).NotTo(BeNil())

		shutdownCtx, cancel := context.WithCancel(ctx)
		cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	})
})

var _ = DescribeTable("ParseHeaders",
	func(in string, want map[string]string) {
		Expect(otel.ParseHeaders(in)).To(Equal(want))
	},
	Entry("empty", "", map[string]string{}),
	Entry("single", "authorization=Bearer x", map[string]string{"authorization": "Bearer x"}),
	Entry("multiple with spaces", "a=1, b = 2", map[string]string{"a": "1", "b": "2"}),
	Entry("value containing equals", "k=a=b", map[string]string{"k": "a=b"}),
	Entry("malformed pairs skipped", "novalue,=x,ok=1", map[string]string{"ok": "1"}),
)
