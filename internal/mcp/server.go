package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/internal/ordering"
	"github.com/dshills/orderdesk/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "orderdesk"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// OrderCreator runs the order creation use case
type OrderCreator interface {
	CreateOrder(ctx context.Context, cmd ordering.CreateOrderCommand) (*domain.Order, error)
}

// Deps wires the server. Storage and Orders are required.
type Deps struct {
	Storage storage.Storage
	Orders  OrderCreator
	Logger  *zap.Logger

	// Now defaults to time.Now
	Now func() time.Time
	// Location is used for YYYY-MM-DD arguments; defaults to time.Local
	Location *time.Location
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	storage storage.Storage
	orders  OrderCreator
	logger  *zap.Logger
	now     func() time.Time
	loc     *time.Location
}

// NewServer creates a new MCP server instance and registers its tools
func NewServer(deps Deps) (*Server, error) {
	if deps.Storage == nil {
		return nil, errors.New("mcp: storage is required")
	}
	if deps.Orders == nil {
		return nil, errors.New("mcp: order creator is required")
	}

	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false)),
		storage: deps.Storage,
		orders:  deps.Orders,
		logger:  deps.Logger,
		now:     deps.Now,
		loc:     deps.Location,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	return s, nil
}

// Serve runs the MCP protocol on stdio until ctx is cancelled or stdin closes
func (s *Server) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger.Named("stdio")))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(createOrderTool(), withToolErrors(s.handleCreateOrder))
	s.mcp.AddTool(getOrderTool(), withToolErrors(s.handleGetOrder))
	s.mcp.AddTool(listOrdersTool(), withToolErrors(s.handleListOrders))
	s.mcp.AddTool(recordPaymentTool(), withToolErrors(s.handleRecordPayment))
	s.mcp.AddTool(markOrderPrintedTool(), withToolErrors(s.handleMarkOrderPrinted))
	s.mcp.AddTool(removeOrderItemTool(), withToolErrors(s.handleRemoveOrderItem))
	s.mcp.AddTool(deleteOrderTool(), withToolErrors(s.handleDeleteOrder))
	s.mcp.AddTool(salesSummaryTool(), withToolErrors(s.handleSalesSummary))
	s.mcp.AddTool(listCatalogTool(), withToolErrors(s.handleListCatalog))
	return nil
}

// withToolErrors turns a handler error into an error tool result carrying
// the MCPError code. mcp-go reports any error returned from a tool handler
// as a JSON-RPC internal error, which would hide the code.
func withToolErrors(handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := handler(ctx, request)
		if err == nil {
			return result, nil
		}
		var mcpErr *MCPError
		if !errors.As(err, &mcpErr) {
			mcpErr = &MCPError{Code: ErrorCodeInternalError, Message: err.Error()}
		}
		return mcpErr.toolResult(), nil
	}
}
