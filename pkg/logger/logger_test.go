package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/statusfan/pkg/logger"
)

var _ = Describe("Logger", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	Describe("New", func() {
		DescribeTable("level filtering",
			func(level string, enabled, disabled slog.Level) {
				log := logger.New(buf, level, false, "dev", "test")
				Expect(log.Enabled(context.Background(), enabled)).To(BeTrue())
				Expect(log.Enabled(context.Background(), disabled)).To(BeFalse())
			},
			Entry("info", "info", slog.LevelInfo, slog.LevelDebug),
			Entry("warn", "warn", slog.LevelWarn, slog.LevelInfo),
			Entry("error", "error", slog.LevelError, slog.LevelWarn),
			Entry("invalid defaults to info", "loud", slog.LevelInfo, slog.LevelDebug),
		)

		It("should respect debug level", func() {
			log := logger.New(buf, "DEBUG", false, "dev", "test")
			Expect(log.Enabled(context.Background(), slog.LevelDebug)).To(BeTrue())
		})

		It("should write text records outside prod", func() {
			log := logger.New(buf, "info", false, "dev", "dispatcher")
			log.Info("Cycle statuses", slog.Int("accepted", 4))

			Expect(buf.String()).To(ContainSubstring(`msg="Cycle statuses"`))
			Expect(buf.String()).To(ContainSubstring("environment=dev"))
			Expect(buf.String()).To(ContainSubstring("component=dispatcher"))
			Expect(buf.String()).To(ContainSubstring("accepted=4"))
		})

		It("should write JSON records in prod", func() {
			log := logger.New(buf, "info", false, "prod", "aggregator")
			log.Info("Aggregated application status", slog.String("verdict", "Success"))

			var record map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
			Expect(record).To(HaveKeyWithValue("environment", "prod"))
			Expect(record).To(HaveKeyWithValue("component", "aggregator"))
			Expect(record).To(HaveKeyWithValue("verdict", "Success"))
		})

		It("should add the source location when asked", func() {
			log := logger.New(buf, "info", true, "dev", "test")
			log.Info("hello")
			Expect(buf.String()).To(ContainSubstring("source="))
		})
	})

	Describe("Discard", func() {
		It("should drop everything", func() {
			log := logger.Discard()
			Expect(log.Enabled(context.Background(), slog.LevelError)).To(BeFalse())
		})
	})
})
