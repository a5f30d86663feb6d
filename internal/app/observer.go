package app

import (
	"time"

	"github.com/zeusync/toyfacade/internal/core/events/bus"
	"github.com/zeusync/toyfacade/internal/core/observability/log"
)

var _ bus.EventBusObserver = (*deliveryWatch)(nil)

// deliveryWatch reports replication events whose handlers failed. Attaching
// it also turns on the bus counters summarised when the app stops.
type deliveryWatch struct {
	logger log.Log
}

func newDeliveryWatch(logger log.Log) *deliveryWatch {
	return &deliveryWatch{logger: logger.With(log.String("component", "event_bus"))}
}

func (w *deliveryWatch) OnPublish(string, bus.Event) {}

func (w *deliveryWatch) OnDelivered(eventType string, handlers int, err error, durationMicros int64) {
	if err == nil {
		return
	}
	w.logger.Warn("Event delivery failed",
		log.String("event", eventType),
		log.Int("handlers", handlers),
		log.Duration("took", time.Duration(durationMicros)*time.Microsecond),
		log.Error(err))
}

func (w *deliveryWatch) summarize(m bus.EventBusMetrics) {
	w.logger.Info("Event bus summary",
		log.Uint64("published", m.Published),
		log.Uint64("delivered_handlers", m.DeliveredHandlers),
		log.Uint64("errors", m.Errors),
		log.Uint64("subscribers", m.SubscribersActive))
}
