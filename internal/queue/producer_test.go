package queue_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"basegraph.app/hooks/internal/queue"
)

var _ = Describe("Producer", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("noop producer accepts everything", func() {
		p := queue.NewNoopProducer()

		Expect(p.Enqueue(ctx, queue.EventMessage{EventID: 1, EventType: "t"})).To(Succeed())
		Expect(p.Close()).To(Succeed())
	})

	It("wraps redis errors", func() {
		client := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 200 * time.Millisecond,
			MaxRetries:  -1,
		})
		p := queue.NewRedisProducer(client, "hooks_events", nil)
		defer p.Close()

		err := p.Enqueue(ctx, queue.EventMessage{EventID: 1, EventType: "t", RequestID: "r"})

		Expect(err).To(MatchError(ContainSubstring("enqueue event")))
	})
})

var _ = Describe("Connect", func() {
	It("rejects a malformed url", func() {
		_, err := queue.Connect(context.Background(), "not-a-redis-url")

		Expect(err).To(MatchError(ContainSubstring("parsing redis url")))
	})

	It("fails when the server is unreachable", func() {
		_, err := queue.Connect(context.Background(), "redis://127.0.0.1:1/0")

		Expect(err).To(MatchError(ContainSubstring("pinging redis")))
	})
})
