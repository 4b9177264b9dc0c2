// Package mcp implements the Model Context Protocol (MCP) server for orderdesk.
//
// The server exposes the order entry workflow as tools over stdio:
//   - create_order: Create an order from customer, salesperson and lines
//   - get_order: Fetch one order with lines and totals
//   - list_orders: List orders by customer, date range or unpaid balance
//   - record_payment: Set the paid amount
//   - mark_order_printed: Flag an order as printed
//   - remove_order_item: Drop a line by index
//   - delete_order: Delete an order
//   - sales_summary: Total sales over a range, this month by default
//   - list_catalog: Customers, products, warehouses or salespersons
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Stdout carries protocol messages only; logs go to stderr.
//
// # Tool: create_order
//
//	Request:
//	{
//	  "name": "create_order",
//	  "arguments": {
//	    "customer_id": "C1",
//	    "salesperson_id": "S1",
//	    "tax_type": "external",
//	    "items": [
//	      {"product_id": "P1", "quantity": 2, "warehouse_id": "W1", "specification": "drum"},
//	      {"product_id": "P2", "quantity": 1, "warehouse_id": "W1"}
//	    ]
//	  }
//	}
//
//	Response:
//	{
//	  "created": true,
//	  "order_id": "SO1760486400000042",
//	  "subtotal": 245,
//	  "tax": 12.25,
//	  "total": 257.25,
//	  "remaining": 257.25,
//	  ...
//	}
//
// When the order is stored but publishing the creation event fails, the
// response still carries the order and adds a "warning" field.
//
// # Error Codes
//
// A failed tool call is answered with a tool result marked isError. Its
// text content and its structuredContent both hold
// {"error": {"code": ..., "message": ..., "data": ...}}:
//
//	-32602  Invalid parameters, including domain validation failures
//	-32001  Order or referenced entity not found
//	-32002  Rejected by a business rule, a duplicate order number, or an
//	        order whose lines reference deleted products or warehouses
//	-32603  Internal error
package mcp
