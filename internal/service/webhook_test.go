package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/hooks/common/logger"
	"basegraph.app/hooks/internal/model"
	"basegraph.app/hooks/internal/queue"
	"basegraph.app/hooks/internal/service"
)

var _ = Describe("DeriveEvent", func() {
	DescribeTable("type and payload precedence",
		func(body, wantType, wantPayload string) {
			draft, err := service.DeriveEvent([]byte(body))
			Expect(err).NotTo(HaveOccurred())
			Expect(draft.Type).To(Equal(wantType))
			Expect(string(draft.Payload)).To(Equal(wantPayload))
		},
		Entry("type and payload present",
			`{"type":"order.created","payload":{"id":42}}`, "order.created", `{"id":42}`),
		Entry("missing payload falls back to whole body",
			`{"type":"ping","id":7}`, "ping", `{"type":"ping","id":7}`),
		Entry("missing type uses sentinel",
			`{"payload":[1,2]}`, model.EventTypeUnknown, `[1,2]`),
		Entry("empty type uses sentinel",
			`{"type":"","payload":1}`, model.EventTypeUnknown, `1`),
		Entry("non-string type uses sentinel",
			`{"type":5,"payload":"x"}`, model.EventTypeUnknown, `"x"`),
		Entry("false payload is kept",
			`{"type":"t","payload":false}`, "t", `false`),
		Entry("zero payload is kept",
			`{"type":"t","payload":0}`, "t", `0`),
		Entry("empty string payload is kept",
			`{"type":"t","payload":""}`, "t", `""`),
		Entry("empty object payload is kept",
			`{"type":"t","payload":{}}`, "t", `{}`),
		Entry("null payload falls back to whole body",
			`{"type":"t","payload":null}`, "t", `{"type":"t","payload":null}`),
		Entry("empty body is an empty object",
			``, model.EventTypeUnknown, `{}`),
		Entry("surrounding whitespace is trimmed",
			"\n {\"a\":1} \n", model.EventTypeUnknown, `{"a":1}`),
	)

	It("passes payload bytes through untouched", func() {
		body := `{"type":"t","payload":{ "b" : 2,"a":1.50 }}`

		draft, err := service.DeriveEvent([]byte(body))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(draft.Payload)).To(Equal(`{ "b" : 2,"a":1.50 }`))
	})

	DescribeTable("rejects bodies that are not JSON objects",
		func(body string) {
			_, err := service.DeriveEvent([]byte(body))
			Expect(err).To(MatchError(service.ErrInvalidBody))
		},
		Entry("malformed", `{"type":`),
		Entry("array", `[{"type":"t"}]`),
		Entry("string", `"hello"`),
		Entry("number", `42`),
		Entry("null", `null`),
	)
})

var _ = Describe("WebhookService", func() {
	var (
		ctx      context.Context
		events   *mockEventStore
		producer *mockProducer
		svc      service.WebhookService
	)

	BeforeEach(func() {
		ctx = context.Background()
		events = &mockEventStore{}
		producer = &mockProducer{}
		svc = service.NewWebhookService(events, producer, time.Second, nil)
	})

	Describe("Ingest", func() {
		It("stores the derived event", func() {
			result, err := svc.Ingest(ctx, []byte(`{"type":"order.created","payload":{"id":42}}`))
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Event.ID).To(Equal(int64(1)))
			Expect(result.Published).To(BeTrue())

			rows := events.rows()
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Type).To(Equal("order.created"))
			Expect(string(rows[0].Payload)).To(MatchJSON(`{"id":42}`))
		})

		It("publishes the stored event with the request id", func() {
			ctx = logger.WithLogFields(ctx, logger.LogFields{RequestID: logger.Ptr("req-1")})

			_, err := svc.Ingest(ctx, []byte(`{"type":"order.created"}`))
			Expect(err).NotTo(HaveOccurred())

			Expect(producer.messages).To(ConsistOf(queue.EventMessage{
				EventID:   1,
				EventType: "order.created",
				RequestID: "req-1",
			}))
		})

		It("rejects invalid bodies without writing", func() {
			_, err := svc.Ingest(ctx, []byte(`[1,2,3]`))
			Expect(err).To(MatchError(service.ErrInvalidBody))
			Expect(events.rows()).To(BeEmpty())
		})

		It("fails with ErrStorageNotConfigured when there is no store", func() {
			svc = service.NewWebhookService(nil, producer, time.Second, nil)

			_, err := svc.Ingest(ctx, []byte(`{"type":"t"}`))
			Expect(err).To(MatchError(service.ErrStorageNotConfigured))
			Expect(producer.messages).To(BeEmpty())
		})

		It("wraps storage errors", func() {
			events.createFn = func(context.Context, *model.Event) (*model.Event, error) {
				return nil, errConnRefused
			}

			_, err := svc.Ingest(ctx, []byte(`{"type":"t"}`))
			Expect(err).To(MatchError(errConnRefused))
			Expect(err).To(MatchError(ContainSubstring("inserting event")))
			Expect(producer.messages).To(BeEmpty())
		})

		It("still succeeds when publishing fails", func() {
			producer.enqueueFn = func(context.Context, queue.EventMessage) error {
				return errors.New("redis down")
			}

			result, err := svc.Ingest(ctx, []byte(`{"type":"t"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Published).To(BeFalse())
			Expect(events.rows()).To(HaveLen(1))
		})

		It("does not let a cancelled request abort the write", func() {
			var writeErr error
			var deadline time.Time
			events.createFn = func(ctx context.Context, e *model.Event) (*model.Event, error) {
				writeErr = ctx.Err()
				deadline, _ = ctx.Deadline()
				return &model.Event{ID: 9, Type: e.Type, Payload: e.Payload}, nil
			}

			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			result, err := svc.Ingest(cancelled, []byte(`{"type":"t"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Event.ID).To(Equal(int64(9)))
			Expect(writeErr).NotTo(HaveOccurred())
			Expect(deadline).To(BeTemporally("~", time.Now().Add(time.Second), time.Second))
		})

		It("bounds the write with the query timeout", func() {
			svc = service.NewWebhookService(events, producer, 20*time.Millisecond, nil)
			events.createFn = func(ctx context.Context, _ *model.Event) (*model.Event, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}

			_, err := svc.Ingest(ctx, []byte(`{"type":"t"}`))
			Expect(err).To(MatchError(context.DeadlineExceeded))
		})

		It("persists exactly N rows with distinct ids under concurrency", func() {
			const n = 50

			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					body := fmt.Sprintf(`{"type":"t","payload":{"n":%d}}`, i)
					_, err := svc.Ingest(ctx, []byte(body))
					Expect(err).NotTo(HaveOccurred())
				}(i)
			}
			wg.Wait()

			rows := events.rows()
			Expect(rows).To(HaveLen(n))

			ids := make(map[int64]struct{}, n)
			seen := make(map[int]struct{}, n)
			for _, row := range rows {
				ids[row.ID] = struct{}{}
				var p struct{ N int }
				Expect(json.Unmarshal(row.Payload, &p)).To(Succeed())
				seen[p.N] = struct{}{}
			}
			Expect(ids).To(HaveLen(n))
			Expect(seen).To(HaveLen(n))
		})
	})
})
