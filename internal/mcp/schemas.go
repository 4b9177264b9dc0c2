package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func orderIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Order number as returned by create_order",
	}
}

// createOrderTool returns the tool definition for create_order
func createOrderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_order",
		Description: "Create a sales order for a customer with one or more product lines",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"customer_id": map[string]interface{}{
					"type":        "string",
					"description": "Customer id",
				},
				"salesperson_id": map[string]interface{}{
					"type":        "string",
					"description": "Salesperson id",
				},
				"tax_type": map[string]interface{}{
					"type":        "string",
					"description": "none, external (5% added) or internal (5% included)",
					"enum":        []string{"none", "external", "internal"},
					"default":     "none",
				},
				"discount": map[string]interface{}{
					"type":        "number",
					"description": "Discount subtracted from the subtotal before tax",
					"default":     0,
					"minimum":     0,
				},
				"paid_amount": map[string]interface{}{
					"type":        "number",
					"description": "Amount already paid",
					"default":     0,
					"minimum":     0,
				},
				"notes": map[string]interface{}{
					"type":        "string",
					"description": "Free text printed on the order",
				},
				"items": map[string]interface{}{
					"type":        "array",
					"description": "Order lines in display order",
					"minItems":    1,
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"product_id": map[string]interface{}{
								"type": "string",
							},
							"quantity": map[string]interface{}{
								"type":    "integer",
								"minimum": 1,
							},
							"warehouse_id": map[string]interface{}{
								"type": "string",
							},
							"specification": map[string]interface{}{
								"type":        "string",
								"description": "Packaging or grade note for the line",
							},
						},
						"required": []string{"product_id", "quantity", "warehouse_id"},
					},
				},
			},
			Required: []string{"customer_id", "salesperson_id", "items"},
		},
	}
}

// getOrderTool returns the tool definition for get_order
func getOrderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_order",
		Description: "Fetch an order with its lines and totals",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": orderIDProperty(),
			},
			Required: []string{"order_id"},
		},
	}
}

// listOrdersTool returns the tool definition for list_orders
func listOrdersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_orders",
		Description: "List orders, newest first, optionally filtered by customer, date range or unpaid balance",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"customer_id": map[string]interface{}{
					"type":        "string",
					"description": "Only orders for this customer",
				},
				"from": map[string]interface{}{
					"type":        "string",
					"description": "Range start, RFC3339 or YYYY-MM-DD",
				},
				"to": map[string]interface{}{
					"type":        "string",
					"description": "Range end, RFC3339 or YYYY-MM-DD (whole day included)",
				},
				"unpaid_only": map[string]interface{}{
					"type":        "boolean",
					"description": "Only orders with a remaining balance",
					"default":     false,
				},
			},
		},
	}
}

// recordPaymentTool returns the tool definition for record_payment
func recordPaymentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "record_payment",
		Description: "Set the amount paid on an order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": orderIDProperty(),
				"amount": map[string]interface{}{
					"type":        "number",
					"description": "Total amount paid so far",
					"minimum":     0,
				},
			},
			Required: []string{"order_id", "amount"},
		},
	}
}

// markOrderPrintedTool returns the tool definition for mark_order_printed
func markOrderPrintedTool() mcp.Tool {
	return mcp.Tool{
		Name:        "mark_order_printed",
		Description: "Flag an order as printed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": orderIDProperty(),
			},
			Required: []string{"order_id"},
		},
	}
}

// removeOrderItemTool returns the tool definition for remove_order_item
func removeOrderItemTool() mcp.Tool {
	return mcp.Tool{
		Name:        "remove_order_item",
		Description: "Remove a line from an order by its zero-based index",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": orderIDProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based line index; out of range leaves the order unchanged",
				},
			},
			Required: []string{"order_id", "index"},
		},
	}
}

// deleteOrderTool returns the tool definition for delete_order
func deleteOrderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_order",
		Description: "Delete an order and its lines",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": orderIDProperty(),
			},
			Required: []string{"order_id"},
		},
	}
}

// salesSummaryTool returns the tool definition for sales_summary
func salesSummaryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sales_summary",
		Description: "Total sales over a date range (defaults to the current month)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"from": map[string]interface{}{
					"type":        "string",
					"description": "Range start, RFC3339 or YYYY-MM-DD",
				},
				"to": map[string]interface{}{
					"type":        "string",
					"description": "Range end, RFC3339 or YYYY-MM-DD (whole day included)",
				},
			},
		},
	}
}

// listCatalogTool returns the tool definition for list_catalog
func listCatalogTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_catalog",
		Description: "List reference data used when entering orders",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type": "string",
					"enum": catalogKinds,
				},
				"active_only": map[string]interface{}{
					"type":        "boolean",
					"description": "Warehouses and salespersons only: skip inactive entries",
					"default":     false,
				},
			},
			Required: []string{"kind"},
		},
	}
}
