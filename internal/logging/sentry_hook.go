package logging

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// sentryCapturer is the part of *sentry.Hub the hook needs.
type sentryCapturer interface {
	CaptureException(exception error) *sentry.EventID
	CaptureMessage(message string) *sentry.EventID
}

// SentryHook forwards log entries of the configured levels to sentry.
type SentryHook struct {
	hub    sentryCapturer
	levels []logrus.Level
}

func NewSentryHook(hub sentryCapturer, levels []logrus.Level) *SentryHook {
	return &SentryHook{
		hub:    hub,
		levels: levels,
	}
}

func (h *SentryHook) Levels() []logrus.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	if err, ok := entry.Data[logrus.ErrorKey].(error); ok && err != nil {
		h.hub.CaptureException(errors.Join(errors.New(entry.Message), err))
		return nil
	}
	h.hub.CaptureMessage(entry.Message)
	return nil
}
