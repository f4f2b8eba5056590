package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgallion1/docsplit/internal/chunker"
	"github.com/dgallion1/docsplit/internal/export"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type splitChunk struct {
	Index      int    `json:"index"`
	Filename   string `json:"filename"`
	Characters int    `json:"characters"`
	Content    string `json:"content"`
}

type splitResult struct {
	ChunkCount int          `json:"chunk_count"`
	ChunkSize  int          `json:"chunk_size"`
	Overlap    int          `json:"overlap"`
	Chunks     []splitChunk `json:"chunks"`
}

// RegisterSplitTool registers the split_text tool
func RegisterSplitTool(mcpServer *server.MCPServer) {
	splitTool := mcp.NewTool("split_text",
		mcp.WithDescription(fmt.Sprintf(
			"Split a text into parts of %d characters where each part repeats the last %d characters of the previous one. Leading and trailing whitespace is removed first.",
			chunker.ChunkSize, chunker.OverlapSize)),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to split"),
		),
	)
	mcpServer.AddTool(splitTool, handleSplitText)
}

func handleAbout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(fmt.Sprintf(
		"docsplit cuts documents into overlapping parts of %d characters (overlap %d) ready to paste one by one.",
		chunker.ChunkSize, chunker.OverlapSize)), nil
}

func handleSplitText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	text, ok := args["text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text parameter is required and must not be blank"), nil
	}

	result, err := buildSplitResult(text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to split text: %v", err)), nil
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func buildSplitResult(text string) (splitResult, error) {
	chunks, err := chunker.ChunkText(strings.TrimSpace(text))
	if err != nil {
		return splitResult{}, err
	}
	result := splitResult{
		ChunkCount: len(chunks),
		ChunkSize:  chunker.ChunkSize,
		Overlap:    chunker.OverlapSize,
		Chunks:     make([]splitChunk, 0, len(chunks)),
	}
	for _, c := range chunks {
		result.Chunks = append(result.Chunks, splitChunk{
			Index:      c.Index,
			Filename:   export.Filename(c.Index),
			Characters: chunker.Len(c.Content),
			Content:    c.Content,
		})
	}
	return result, nil
}
