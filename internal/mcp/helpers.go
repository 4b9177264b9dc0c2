package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/internal/ordering"
	"github.com/dshills/orderdesk/internal/storage"
	"github.com/dshills/orderdesk/pkg/types"
)

var catalogKinds = []string{"customers", "products", "warehouses", "salespersons"}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// toolResult renders the error as an isError tool result. The same payload
// goes into the text content and the structured content.
func (e *MCPError) toolResult() *mcp.CallToolResult {
	body := map[string]interface{}{
		"code":    e.Code,
		"message": e.Message,
	}
	if e.Data != nil {
		body["data"] = e.Data
	}
	payload := map[string]interface{}{"error": body}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.NewTextContent(formatJSON(payload))},
		StructuredContent: payload,
		IsError:           true,
	}
}

// toMCPError maps domain and storage errors onto MCP error codes
func toMCPError(message string, err error) error {
	data := map[string]interface{}{"error": err.Error()}
	switch {
	case errors.Is(err, types.ErrValidation):
		return newMCPError(ErrorCodeInvalidParams, message, data)
	case errors.Is(err, ordering.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return newMCPError(ErrorCodeNotFound, message, data)
	case errors.Is(err, ordering.ErrRejected), errors.Is(err, storage.ErrAlreadyExists),
		errors.Is(err, storage.ErrIncompleteOrder):
		return newMCPError(ErrorCodeRejected, message, data)
	default:
		return newMCPError(ErrorCodeInternalError, message, data)
	}
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// requireString extracts a non-blank string parameter
func requireString(args map[string]interface{}, key string) (string, error) {
	val, ok := args[key].(string)
	if !ok || strings.TrimSpace(val) == "" {
		return "", newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]interface{}{
			"param":  key,
			"reason": "missing or empty",
		})
	}
	return strings.TrimSpace(val), nil
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getInt extracts a whole-number parameter. Fractional values are rejected.
func getInt(args map[string]interface{}, key string) (int, bool) {
	switch val := args[key].(type) {
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return int(val), true
	case int:
		return val, true
	default:
		return 0, false
	}
}

// getFloatDefault extracts a numeric parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	if val, ok := args[key].(int); ok {
		return float64(val)
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// orderSummary is the compact listing form of an order
func orderSummary(o *domain.Order) (map[string]interface{}, error) {
	total, err := o.Total()
	if err != nil {
		return nil, err
	}
	remaining, err := o.RemainingAmount()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"order_id":      o.ID(),
		"order_date":    o.Date().Format(time.RFC3339),
		"customer_id":   o.Customer().ID(),
		"customer_name": o.Customer().Name(),
		"total":         total.Amount(),
		"paid_amount":   o.PaidAmount().Amount(),
		"remaining":     remaining.Amount(),
		"printed":       o.IsPrinted(),
		"item_count":    len(o.Items()),
		"dropped_lines": o.DroppedLines(),
	}, nil
}

// orderDetail adds totals breakdown and lines to the summary
func orderDetail(o *domain.Order) (map[string]interface{}, error) {
	response, err := orderSummary(o)
	if err != nil {
		return nil, err
	}
	tax, err := o.Tax()
	if err != nil {
		return nil, err
	}

	lines := make([]map[string]interface{}, 0, len(o.Items()))
	for i, item := range o.Items() {
		unitPrice, ok := item.PriceSnapshot()
		if !ok {
			unitPrice = item.Product().Price()
		}
		lines = append(lines, map[string]interface{}{
			"index":         i,
			"product_id":    item.Product().ID(),
			"product_name":  item.Product().Name(),
			"unit":          item.Product().Unit(),
			"quantity":      item.Quantity(),
			"unit_price":    unitPrice.Amount(),
			"subtotal":      item.Subtotal().Amount(),
			"warehouse_id":  item.Warehouse().ID(),
			"specification": item.Specification(),
		})
	}

	response["salesperson_id"] = o.Salesperson().ID()
	response["salesperson_name"] = o.Salesperson().Name()
	response["tax_type"] = o.TaxType().String()
	response["subtotal"] = o.Subtotal().Amount()
	response["discount"] = o.Discount().Amount()
	response["tax"] = tax.Amount()
	response["notes"] = o.Notes()
	response["items"] = lines
	return response, nil
}

func customerView(c *domain.Customer) map[string]interface{} {
	return map[string]interface{}{
		"id":           c.ID(),
		"code":         c.Code(),
		"name":         c.Name(),
		"address":      c.Address(),
		"phone":        c.Phone(),
		"credit_limit": c.CreditLimit().Amount(),
		"balance":      c.Balance().Amount(),
	}
}

func productView(p *domain.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID(),
		"name":        p.Name(),
		"price":       p.Price().Amount(),
		"unit":        p.Unit(),
		"description": p.Description(),
	}
}

func warehouseView(w *domain.Warehouse) map[string]interface{} {
	return map[string]interface{}{
		"id":       w.ID(),
		"name":     w.Name(),
		"location": w.Location(),
		"active":   w.IsActive(),
	}
}

func salespersonView(sp *domain.Salesperson) map[string]interface{} {
	return map[string]interface{}{
		"id":          sp.ID(),
		"code":        sp.Code(),
		"name":        sp.Name(),
		"commission":  sp.Commission(),
		"active":      sp.IsActive(),
		"total_sales": sp.TotalSales().Amount(),
	}
}
