package tools

import (
	"github.com/lexcodex/swizzle/framework"
)

// EditorOperations exposes one tool per inbound message type.
func EditorOperations() []framework.Tool {
	open := &OpenFileTool{}
	return []framework.Tool{
		open,
		&NewFileTool{},
		&CreateFileTool{Open: open},
		&SaveFileTool{},
		&CloseFilesTool{},
		&RemoveFileTool{},
		&DocumentChangedTool{},
		&SetSelectionTool{},
		&FindAndReplaceTool{},
		&UpsertImportTool{},
		&PrependTextTool{},
		&ReplaceTextTool{},
		&GetSelectedTextTool{},
		&GetSelectedTextRangeTool{},
		&ReplaceSelectedTextTool{},
		&PublishDiagnosticsTool{},
		&GetFileErrorsTool{},
		&HighlightLineTool{},
		&InsertEndpointTool{},
		&RemoveEndpointTool{},
	}
}

// NewRegistry returns a registry holding every editor operation.
func NewRegistry() (*framework.ToolRegistry, error) {
	registry := framework.NewToolRegistry()
	for _, tool := range EditorOperations() {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
