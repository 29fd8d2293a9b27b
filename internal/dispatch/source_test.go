package dispatch_test

import (
	"context"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/statusfan/internal/dispatch"
)

var _ = Describe("StubSource", func() {
	var log *slog.Logger

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(GinkgoWriter, nil))
	})

	It("should build numbered recipients and the fixed payload", func() {
		src := dispatch.NewStubSource(4, dispatch.DefaultPayload, log)

		event, err := src.Next(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(event.Recipients).To(Equal([]dispatch.Recipient{
			{Host: "recipient_0"},
			{Host: "recipient_1"},
			{Host: "recipient_2"},
			{Host: "recipient_3"},
		}))
		Expect(event.Payload).To(Equal(dispatch.Payload{Data: "big data"}))
	})

	It("should fall back to the default recipient count", func() {
		src := dispatch.NewStubSource(0, "x", log)

		event, err := src.Next(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(event.Recipients).To(HaveLen(dispatch.DefaultRecipients))
	})

	It("should build a fresh recipient slice every call", func() {
		src := dispatch.NewStubSource(2, "x", log)

		first, _ := src.Next(context.Background())
		first.Recipients[0].Host = "mutated"

		second, _ := src.Next(context.Background())
		Expect(second.Recipients[0].Host).To(Equal("recipient_0"))
	})

	It("should fail once the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := dispatch.NewStubSource(4, "x", log).Next(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})
