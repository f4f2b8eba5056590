package mcptools

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer builds an MCP server with every docsplit tool registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer("docsplit", version)
	RegisterTools(s)
	return s
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(mcpServer *server.MCPServer) {
	RegisterAboutTool(mcpServer)
	RegisterSplitTool(mcpServer)
}

// Handler exposes the MCP server over streamable HTTP at path.
func Handler(mcpServer *server.MCPServer, path string) http.Handler {
	return server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath(path),
	)
}

// RegisterAboutTool registers the about_docsplit tool
func RegisterAboutTool(mcpServer *server.MCPServer) {
	aboutTool := mcp.NewTool("about_docsplit",
		mcp.WithDescription("This tool provides information about the docsplit MCP server."),
	)
	mcpServer.AddTool(aboutTool, handleAbout)
}
