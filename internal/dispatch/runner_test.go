package dispatch_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/statusfan/internal/dispatch"
	"github.com/angeloszaimis/statusfan/internal/metrics"
)

// spacing is a cron.Schedule that fires every d.
type spacing time.Duration

func (s spacing) Next(t time.Time) time.Time {
	return t.Add(time.Duration(s))
}

var _ = Describe("Runner", func() {
	var (
		log         *slog.Logger
		delivered   atomic.Int32
		broadcaster *dispatch.Broadcaster
		stub        *dispatch.StubSource
	)

	BeforeEach(func() {
		log = slog.New(slog.DiscardHandler)
		delivered.Store(0)

		transport := dispatch.TransportFunc(func(_ context.Context, _ dispatch.Recipient, _ dispatch.Payload) error {
			time.Sleep(5 * time.Millisecond)
			delivered.Add(1)
			return nil
		})
		broadcaster = dispatch.NewBroadcaster(transport, log)
		stub = dispatch.NewStubSource(4, dispatch.DefaultPayload, log)
	})

	Describe("RunCycle", func() {
		It("should broadcast the fetched event", func() {
			runner := dispatch.NewRunner(stub, broadcaster, log)

			results, err := runner.RunCycle(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(4))
			Expect(results).To(HaveEach(dispatch.Accepted))
			Expect(delivered.Load()).To(Equal(int32(4)))
		})

		It("should wrap source errors", func() {
			sourceErr := errors.New("queue closed")
			runner := dispatch.NewRunner(dispatch.SourceFunc(func(context.Context) (dispatch.Event, error) {
				return dispatch.Event{}, sourceErr
			}), broadcaster, log)

			results, err := runner.RunCycle(context.Background())
			Expect(err).To(MatchError(sourceErr))
			Expect(err.Error()).To(ContainSubstring("fetch event"))
			Expect(results).To(BeNil())
		})

		It("should refuse an event without recipients", func() {
			runner := dispatch.NewRunner(dispatch.SourceFunc(func(context.Context) (dispatch.Event, error) {
				return dispatch.Event{Payload: dispatch.Payload{Data: "x"}}, nil
			}), broadcaster, log)

			_, err := runner.RunCycle(context.Background())
			Expect(err).To(MatchError(dispatch.ErrEmptyEvent))
			Expect(delivered.Load()).To(BeZero())
		})

		It("should turn a panicking source into an error", func() {
			runner := dispatch.NewRunner(dispatch.SourceFunc(func(context.Context) (dispatch.Event, error) {
				panic("decoder exploded")
			}), broadcaster, log)

			var err error
			Expect(func() {
				_, err = runner.RunCycle(context.Background())
			}).NotTo(Panic())
			Expect(err).To(MatchError(dispatch.ErrCyclePanicked))
			Expect(err.Error()).To(ContainSubstring("decoder exploded"))
		})
	})

	Describe("Run", func() {
		It("should keep running after failed cycles", func() {
			var calls atomic.Int32
			source := dispatch.SourceFunc(func(ctx context.Context) (dispatch.Event, error) {
				switch calls.Add(1) {
				case 1:
					return dispatch.Event{}, errors.New("transient read failure")
				case 2:
					panic("malformed frame")
				default:
					return stub.Next(ctx)
				}
			})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			runner := dispatch.NewRunner(source, broadcaster, log)
			errCh := make(chan error, 1)
			go func() {
				errCh <- runner.Run(ctx)
			}()

			Eventually(delivered.Load).Should(BeNumerically(">=", 4))
			Expect(calls.Load()).To(BeNumerically(">=", 3))

			cancel()
			Eventually(errCh).Should(Receive(MatchError(context.Canceled)))
		})

		It("should return immediately for a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := dispatch.NewRunner(stub, broadcaster, log).Run(ctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(delivered.Load()).To(BeZero())
		})

		It("should pace cycles with a schedule", func() {
			var (
				mu     sync.Mutex
				starts []time.Time
			)
			source := dispatch.SourceFunc(func(ctx context.Context) (dispatch.Event, error) {
				mu.Lock()
				starts = append(starts, time.Now())
				mu.Unlock()
				return stub.Next(ctx)
			})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			runner := dispatch.NewRunner(source, broadcaster, log,
				dispatch.WithSchedule(spacing(60*time.Millisecond)))
			go runner.Run(ctx)

			Eventually(func() int {
				mu.Lock()
				defer mu.Unlock()
				return len(starts)
			}).Should(BeNumerically(">=", 2))

			mu.Lock()
			gap := starts[1].Sub(starts[0])
			mu.Unlock()
			Expect(gap).To(BeNumerically(">=", 60*time.Millisecond))
		})

		It("should count completed and failed cycles", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			collector := metrics.NewCollector(1024, log)
			collector.Start(ctx)

			var calls atomic.Int32
			source := dispatch.SourceFunc(func(ctx context.Context) (dispatch.Event, error) {
				if calls.Add(1) == 1 {
					return dispatch.Event{}, errors.New("first read fails")
				}
				return stub.Next(ctx)
			})

			runner := dispatch.NewRunner(source, broadcaster, log,
				dispatch.WithCycleMetrics(collector),
				dispatch.WithSchedule(spacing(10*time.Millisecond)))
			go runner.Run(ctx)

			Eventually(func() metrics.CycleMetrics {
				return collector.Snapshot("dispatcher").Cycles
			}).Should(And(
				HaveField("Failed", Equal(int64(1))),
				HaveField("Completed", BeNumerically(">=", 1)),
				HaveField("LastRecipients", Equal(4)),
			))
		})
	})

	Describe("ParseSchedule", func() {
		It("should treat an empty spec as no schedule", func() {
			schedule, err := dispatch.ParseSchedule("")
			Expect(err).NotTo(HaveOccurred())
			Expect(schedule).To(BeNil())
		})

		It("should parse descriptors", func() {
			schedule, err := dispatch.ParseSchedule("@every 5s")
			Expect(err).NotTo(HaveOccurred())

			now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			Expect(schedule.Next(now)).To(Equal(now.Add(5 * time.Second)))
		})

		It("should parse five-field cron expressions", func() {
			_, err := dispatch.ParseSchedule("*/5 * * * *")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject garbage", func() {
			_, err := dispatch.ParseSchedule("every now and then")
			Expect(err).To(HaveOccurred())
		})
	})
})
