package service

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	DailyResetSpec   = "0 0 * * *"
	MonthlyResetSpec = "0 0 1 * *"
)

type SpendResetter interface {
	ResetDailySpend() int
	ResetMonthlySpend() int
}

// SpendResetScheduler clears the spend accumulators of every session at midnight
// and on the first of the month.
type SpendResetScheduler struct {
	cron     *cron.Cron
	resetter SpendResetter
	log      logrus.FieldLogger
}

func NewSpendResetScheduler(resetter SpendResetter, log logrus.FieldLogger, opts ...cron.Option) (*SpendResetScheduler, error) {
	s := &SpendResetScheduler{
		cron:     cron.New(opts...),
		resetter: resetter,
		log:      log,
	}
	if _, err := s.cron.AddFunc(DailyResetSpec, s.ResetDaily); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(MonthlyResetSpec, s.ResetMonthly); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SpendResetScheduler) ResetDaily() {
	n := s.resetter.ResetDailySpend()
	s.log.WithField("sessions", n).Info("daily spend reset")
}

func (s *SpendResetScheduler) ResetMonthly() {
	n := s.resetter.ResetMonthlySpend()
	s.log.WithField("sessions", n).Info("monthly spend reset")
}

func (s *SpendResetScheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *SpendResetScheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *SpendResetScheduler) Stop() {
	<-s.cron.Stop().Done()
}
