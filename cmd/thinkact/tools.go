package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/notebook"
	"github.com/hupe1980/thinkact/tool"
)

type datetimeArgs struct {
	Layout string `json:"layout" default:"2006-01-02 15:04:05"`
}

// now is swapped in tests.
var now = time.Now

func currentDatetime(_ *core.ToolContext, in datetimeArgs) (any, error) {
	return now().Format(in.Layout), nil
}

// demoTools are the tools offered in chat sessions.
func demoTools() []tool.Toolset {
	return []tool.Toolset{
		tool.MustFunc("get_current_datetime", `Returns the current local date and time.

Args:
    layout: Go reference time layout of the result.`, currentDatetime),
		notebook.New(nil),
	}
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the JSON schemas of the chat tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := tool.NewRegistry(demoTools())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(registry.Schemas())
		},
	}
}
