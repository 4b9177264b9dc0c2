package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/internal/ordering"
	"github.com/dshills/orderdesk/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeNotFound      = -32001 // Order or referenced entity does not exist
	ErrorCodeRejected      = -32002 // Business rule refused the request
)

const dateOnly = "2006-01-02"

// handleCreateOrder handles the create_order tool invocation
func (s *Server) handleCreateOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	customerID, err := requireString(args, "customer_id")
	if err != nil {
		return nil, err
	}
	salespersonID, err := requireString(args, "salesperson_id")
	if err != nil {
		return nil, err
	}

	cmd := ordering.CreateOrderCommand{
		CustomerID:    customerID,
		SalespersonID: salespersonID,
		Notes:         getStringDefault(args, "notes", ""),
		Discount:      types.NewMoney(getFloatDefault(args, "discount", 0)),
		PaidAmount:    types.NewMoney(getFloatDefault(args, "paid_amount", 0)),
	}

	if raw := getStringDefault(args, "tax_type", ""); raw != "" {
		taxType, err := types.ParseTaxType(raw)
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid tax_type", map[string]interface{}{
				"param":   "tax_type",
				"value":   raw,
				"allowed": []string{string(types.TaxNone), string(types.TaxExternal), string(types.TaxInternal)},
			})
		}
		cmd.TaxType = taxType
	}

	items, err := parseItems(args)
	if err != nil {
		return nil, err
	}
	cmd.Items = items

	order, err := s.orders.CreateOrder(ctx, cmd)
	if err != nil && !(order != nil && errors.Is(err, ordering.ErrPostCreate)) {
		return nil, toMCPError("failed to create order", err)
	}

	response, sumErr := orderDetail(order)
	if sumErr != nil {
		return nil, toMCPError("failed to summarize order", sumErr)
	}
	response["created"] = true
	if err != nil {
		response["warning"] = err.Error()
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetOrder handles the get_order tool invocation
func (s *Server) handleGetOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	order, err := s.loadOrder(ctx, request)
	if err != nil {
		return nil, err
	}

	response, err := orderDetail(order)
	if err != nil {
		return nil, toMCPError("failed to summarize order", err)
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListOrders handles the list_orders tool invocation
func (s *Server) handleListOrders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	customerID := getStringDefault(args, "customer_id", "")
	unpaidOnly := getBoolDefault(args, "unpaid_only", false)
	dateRange, hasRange, err := s.parseRange(args)
	if err != nil {
		return nil, err
	}

	var orders []*domain.Order
	switch {
	case customerID != "":
		orders, err = s.storage.FindOrdersByCustomer(ctx, customerID)
	case hasRange:
		orders, err = s.storage.FindOrdersByDateRange(ctx, dateRange)
	case unpaidOnly:
		orders, err = s.storage.FindUnpaidOrders(ctx)
	default:
		orders, err = s.storage.ListOrders(ctx)
	}
	if err != nil {
		return nil, toMCPError("failed to list orders", err)
	}

	summaries := make([]map[string]interface{}, 0, len(orders))
	for _, o := range orders {
		if hasRange && !dateRange.Includes(o.Date()) {
			continue
		}
		summary, err := orderSummary(o)
		if err != nil {
			return nil, toMCPError("failed to summarize order", err)
		}
		if unpaidOnly && summary["remaining"].(float64) <= 0 {
			continue
		}
		summaries = append(summaries, summary)
	}

	response := map[string]interface{}{
		"count":  len(summaries),
		"orders": summaries,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRecordPayment handles the record_payment tool invocation
func (s *Server) handleRecordPayment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	order, err := s.loadOrder(ctx, request)
	if err != nil {
		return nil, err
	}

	args := request.Params.Arguments.(map[string]interface{})
	amount, ok := args["amount"].(float64)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "amount parameter is required", map[string]interface{}{
			"param":  "amount",
			"reason": "missing or not a number",
		})
	}
	if err := order.SetPaidAmount(types.NewMoney(amount)); err != nil {
		return nil, toMCPError("invalid amount", err)
	}

	return s.saveAndDescribe(ctx, order)
}

// handleMarkOrderPrinted handles the mark_order_printed tool invocation
func (s *Server) handleMarkOrderPrinted(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	order, err := s.loadOrder(ctx, request)
	if err != nil {
		return nil, err
	}
	order.MarkPrinted()
	return s.saveAndDescribe(ctx, order)
}

// handleRemoveOrderItem handles the remove_order_item tool invocation
func (s *Server) handleRemoveOrderItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	order, err := s.loadOrder(ctx, request)
	if err != nil {
		return nil, err
	}

	args := request.Params.Arguments.(map[string]interface{})
	index, ok := getInt(args, "index")
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "index parameter is required", map[string]interface{}{
			"param":  "index",
			"reason": "missing or not an integer",
		})
	}
	order.RemoveItem(index)

	return s.saveAndDescribe(ctx, order)
}

// handleDeleteOrder handles the delete_order tool invocation
func (s *Server) handleDeleteOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	orderID, err := requireString(args, "order_id")
	if err != nil {
		return nil, err
	}

	if err := s.storage.DeleteOrder(ctx, orderID); err != nil {
		return nil, toMCPError("failed to delete order", err)
	}
	s.logger.Info("order deleted", zap.String("order_number", orderID))

	response := map[string]interface{}{
		"deleted":  true,
		"order_id": orderID,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSalesSummary handles the sales_summary tool invocation
func (s *Server) handleSalesSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	dateRange, hasRange, err := s.parseRange(args)
	if err != nil {
		return nil, err
	}
	if !hasRange {
		dateRange = types.ThisMonth(s.now().In(s.loc))
	}

	total, err := s.storage.TotalSalesInRange(ctx, dateRange)
	if err != nil {
		return nil, toMCPError("failed to total sales", err)
	}
	count, err := s.storage.CountOrdersInRange(ctx, dateRange)
	if err != nil {
		return nil, toMCPError("failed to count orders", err)
	}

	response := map[string]interface{}{
		"from":        dateRange.Start().Format(time.RFC3339),
		"to":          dateRange.End().Format(time.RFC3339),
		"days":        dateRange.DurationInDays(),
		"order_count": count,
		"total":       total.Amount(),
		"display":     total.String(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListCatalog handles the list_catalog tool invocation
func (s *Server) handleListCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	kind, err := requireString(args, "kind")
	if err != nil {
		return nil, err
	}
	activeOnly := getBoolDefault(args, "active_only", false)

	var entries []map[string]interface{}
	switch kind {
	case "customers":
		list, err := s.storage.ListCustomers(ctx)
		if err != nil {
			return nil, toMCPError("failed to list customers", err)
		}
		for _, c := range list {
			entries = append(entries, customerView(c))
		}
	case "products":
		list, err := s.storage.ListProducts(ctx)
		if err != nil {
			return nil, toMCPError("failed to list products", err)
		}
		for _, p := range list {
			entries = append(entries, productView(p))
		}
	case "warehouses":
		list, err := s.listWarehouses(ctx, activeOnly)
		if err != nil {
			return nil, toMCPError("failed to list warehouses", err)
		}
		for _, w := range list {
			entries = append(entries, warehouseView(w))
		}
	case "salespersons":
		list, err := s.listSalespersons(ctx, activeOnly)
		if err != nil {
			return nil, toMCPError("failed to list salespersons", err)
		}
		for _, sp := range list {
			entries = append(entries, salespersonView(sp))
		}
	default:
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid kind", map[string]interface{}{
			"param":   "kind",
			"value":   kind,
			"allowed": catalogKinds,
		})
	}

	if entries == nil {
		entries = []map[string]interface{}{}
	}
	response := map[string]interface{}{
		"kind":    kind,
		"count":   len(entries),
		"entries": entries,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

func (s *Server) listWarehouses(ctx context.Context, activeOnly bool) ([]*domain.Warehouse, error) {
	if activeOnly {
		return s.storage.ListActiveWarehouses(ctx)
	}
	return s.storage.ListWarehouses(ctx)
}

func (s *Server) listSalespersons(ctx context.Context, activeOnly bool) ([]*domain.Salesperson, error) {
	if activeOnly {
		return s.storage.ListActiveSalespersons(ctx)
	}
	return s.storage.ListSalespersons(ctx)
}

// loadOrder reads order_id from the request and fetches the order
func (s *Server) loadOrder(ctx context.Context, request mcp.CallToolRequest) (*domain.Order, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	orderID, err := requireString(args, "order_id")
	if err != nil {
		return nil, err
	}

	order, err := s.storage.GetOrder(ctx, orderID)
	if err != nil {
		return nil, toMCPError("failed to get order", err)
	}
	return order, nil
}

func (s *Server) saveAndDescribe(ctx context.Context, order *domain.Order) (*mcp.CallToolResult, error) {
	if err := s.storage.UpdateOrder(ctx, order); err != nil {
		return nil, toMCPError("failed to update order", err)
	}
	response, err := orderDetail(order)
	if err != nil {
		return nil, toMCPError("failed to summarize order", err)
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// parseRange reads the optional from/to pair. A missing bound defaults to
// the other bound's day so a single date selects that whole day.
func (s *Server) parseRange(args map[string]interface{}) (types.DateRange, bool, error) {
	rawFrom := getStringDefault(args, "from", "")
	rawTo := getStringDefault(args, "to", "")
	if rawFrom == "" && rawTo == "" {
		return types.DateRange{}, false, nil
	}
	if rawFrom == "" {
		rawFrom = rawTo
	}
	if rawTo == "" {
		rawTo = rawFrom
	}

	from, err := s.parseTime(rawFrom, false)
	if err != nil {
		return types.DateRange{}, false, newMCPError(ErrorCodeInvalidParams, "invalid from", map[string]interface{}{
			"param":  "from",
			"reason": err.Error(),
		})
	}
	to, err := s.parseTime(rawTo, true)
	if err != nil {
		return types.DateRange{}, false, newMCPError(ErrorCodeInvalidParams, "invalid to", map[string]interface{}{
			"param":  "to",
			"reason": err.Error(),
		})
	}

	r, err := types.NewDateRange(from, to)
	if err != nil {
		return types.DateRange{}, false, newMCPError(ErrorCodeInvalidParams, "invalid date range", map[string]interface{}{
			"reason": err.Error(),
		})
	}
	return r, true, nil
}

// parseTime accepts RFC3339 or YYYY-MM-DD. A bare date used as an upper
// bound extends to the last millisecond of that day.
func (s *Server) parseTime(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateOnly, value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 or %s", dateOnly)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return t, nil
}

func parseItems(args map[string]interface{}) ([]ordering.ItemInput, error) {
	raw, ok := args["items"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "items parameter is required", map[string]interface{}{
			"param":  "items",
			"reason": "missing or empty",
		})
	}

	items := make([]ordering.ItemInput, 0, len(raw))
	for i, entry := range raw {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			return nil, itemError(i, "not an object")
		}
		productID := strings.TrimSpace(getStringDefault(fields, "product_id", ""))
		if productID == "" {
			return nil, itemError(i, "product_id is required")
		}
		warehouseID := strings.TrimSpace(getStringDefault(fields, "warehouse_id", ""))
		if warehouseID == "" {
			return nil, itemError(i, "warehouse_id is required")
		}
		qty, ok := getInt(fields, "quantity")
		if !ok {
			return nil, itemError(i, "quantity must be an integer")
		}

		items = append(items, ordering.ItemInput{
			ProductID:     productID,
			Quantity:      qty,
			WarehouseID:   warehouseID,
			Specification: getStringDefault(fields, "specification", ""),
		})
	}
	return items, nil
}

func itemError(index int, reason string) error {
	return newMCPError(ErrorCodeInvalidParams, "invalid item", map[string]interface{}{
		"param":  fmt.Sprintf("items[%d]", index),
		"reason": reason,
	})
}
