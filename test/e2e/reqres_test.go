package e2e

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/abdul-hamid-achik/reqsuite/packages/core/config"
	"github.com/abdul-hamid-achik/reqsuite/packages/core/runner"
	"github.com/abdul-hamid-achik/reqsuite/packages/suite"
)

var _ = Describe("ReqRes API endpoints", Ordered, func() {
	var (
		cases  = suite.Default().Cases
		report *runner.Report
	)

	// The write cases target user 2, which the read cases fetch first, so
	// the suite runs once, in order, and each It checks its own result.
	BeforeAll(func() {
		cfg, err := config.LoadConfig("")
		Expect(err).NotTo(HaveOccurred())

		log := logrus.New()
		log.SetOutput(GinkgoWriter)

		r := runner.NewRunner(&runner.Config{
			BaseURL:      cfg.BaseURL,
			Timeout:      cfg.Timeout,
			Rate:         cfg.Rate,
			MaxRedirects: cfg.MaxRedirects,
			NoRedirects:  cfg.MaxRedirects == 0,
			Headers:      cfg.RequestHeaders(),
			Logger:       log,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		report, err = r.Run(ctx, suite.Default())
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Results).To(HaveLen(len(cases)))
		GinkgoWriter.Printf("%s against %s\n", report, report.BaseURL)
	})

	for i, tc := range cases {
		i, tc := i, tc
		It(tc.Name, func() {
			res := report.Results[i]
			Expect(res.Name).To(Equal(tc.Name))
			Expect(res.State).To(Equal(runner.StatePassed), res.FailureDetail())
			Expect(res.Status).To(Equal(tc.ExpectStatus))
		})
	}

	It("reports latency for every request", func() {
		Expect(report.Latency.Count).To(BeNumerically("==", len(cases)))
		Expect(report.Latency.P99).To(BeNumerically(">=", report.Latency.P50))
	})
})
