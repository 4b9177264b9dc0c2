// Package ordering implements the order creation use case.
//
// A Service is built from its collaborators:
//
//	svc, err := ordering.NewService(ordering.Deps{
//	    Orders:    store,
//	    Lookups:   ordering.StorageLookups(store),
//	    Publisher: publisher,
//	    Logger:    logger,
//	})
//
// CreateOrder resolves the customer and salesperson in parallel, then each
// line's product and warehouse in parallel, builds the aggregate and hands it
// to the repository. Nothing is written when a reference is missing
// (ErrNotFound), a salesperson or warehouse is inactive (ErrRejected), or an
// input fails validation (types.ErrValidation). Repository errors are
// returned unchanged.
//
// After the order is stored the customer balance and salesperson sales are
// incremented in memory and an OrderCreated event is published. These steps
// are not rolled back; a publish failure is reported as ErrPostCreate along
// with the created order.
package ordering
