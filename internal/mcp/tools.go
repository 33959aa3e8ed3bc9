// ABOUTME: MCP tool definitions and registration for the navigator server
// ABOUTME: Exposes routing, full turns and state inspection as four tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/hospital-navigator/internal/dispatch"
)

// ServerName is advertised to MCP clients
const ServerName = "Hospital System Navigator"

// NewServer creates an MCP server with every navigator tool registered
func NewServer(version string, router Router, navigator *dispatch.Navigator) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(ServerName, version)
	RegisterTools(server, router, navigator)
	return server
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, router Router, navigator *dispatch.Navigator) *Handlers {
	handlers := NewHandlers(router, navigator)

	// 1. route_request - classify without touching conversation state
	server.AddTool(mcp.Tool{
		Name:        "route_request",
		Description: "Classify a hospital request and return which department agent should handle it, with the extracted arguments. Does not change the conversation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Free-text patient request",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.RouteRequest)

	// 2. submit_message - run one full navigator turn
	server.AddTool(mcp.Tool{
		Name:        "submit_message",
		Description: "Submit a message to the hospital navigator. Appends the message and the navigator's reply to the conversation and switches the active department panel.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Free-text patient request",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.SubmitMessage)

	// 3. get_state - current agent, payload and panel
	server.AddTool(mcp.Tool{
		Name:        "get_state",
		Description: "Get the active department agent, its arguments, the turn status and the rendered panel.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetState)

	// 4. get_conversation - message log
	server.AddTool(mcp.Tool{
		Name:        "get_conversation",
		Description: "Get the conversation log, oldest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Only return the most recent N messages (default: all)",
				},
			},
		},
	}, handlers.GetConversation)

	return handlers
}
