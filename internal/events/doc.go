// Package events publishes order lifecycle events over watermill and
// projects them onto stored running totals.
//
// The in-process transport is a watermill gochannel; Kafka can be added
// through NewKafkaPublisher and combined with FanOut:
//
//	bus := gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
//	pub := events.FanOut{bus, kafkaPub}
//	orders := events.NewOrderPublisher(pub, logger)
//
//	projector := events.NewBalanceProjector(bus, store, logger)
//	if err := projector.Start(ctx); err != nil {
//	    return err
//	}
//
// OrderCreated events are JSON on the "orders.created" topic. The total is
// encoded as a decimal string.
package events
