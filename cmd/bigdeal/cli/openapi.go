package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bigdeal/bigdeal/internal/openapi"
)

func newOpenAPICmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Generate the OpenAPI specification",
		Example: `  bigdeal openapi              # print to stdout
  bigdeal openapi -o spec.json # write to file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpenAPI(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write spec to file instead of stdout")

	return cmd
}

func runOpenAPI(outputFile string) error {
	doc, err := openapi.Generate()
	if err != nil {
		return fmt.Errorf("generate spec: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, doc, "", "  "); err != nil {
		return fmt.Errorf("format spec: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, pretty.Bytes(), 0644); err != nil {
			return fmt.Errorf("write spec: %w", err)
		}
		fmt.Printf("Wrote %s\n", outputFile)
		return nil
	}

	fmt.Println(pretty.String())
	return nil
}
