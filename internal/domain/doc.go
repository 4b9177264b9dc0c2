// Package domain holds the order aggregate and the entities it references.
//
// Customer, Product, Warehouse and Salesperson are identified by ID and
// validate their own fields. Order owns an ordered list of OrderItem values
// and derives subtotal, tax, total and remaining amount on demand:
//
//	order, _ := domain.NewOrder(number, now, customer, salesperson)
//	item, _ := domain.NewOrderItem(diesel, 2, mainWarehouse, "")
//	_ = order.AddItem(item)
//	_ = order.SetTaxType(types.TaxExternal)
//	total, _ := order.Total()
//
// Item subtotals read the live product price. When an order is loaded from
// storage each item also carries the price recorded at write time, exposed
// through PriceSnapshot.
package domain
