package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	typeguard "github.com/reoring/typeguard"
	"github.com/reoring/typeguard/desc"
	"github.com/reoring/typeguard/typedef"
)

// errDocumentsInvalid is the status check returns when any document failed;
// Execute turns it into exit code 1.
var errDocumentsInvalid = errors.New("one or more documents are invalid")

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Check JSON documents against a typedef type",
	Long: `Check decodes each JSON file (or stdin when the file is "-") and validates
it against the selected type from the typedef file. The exit status is 1 when
any document fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typesPath, _ := cmd.Flags().GetString("types")
		typeName, _ := cmd.Flags().GetString("type")
		strict, _ := cmd.Flags().GetBool("strict")
		explain, _ := cmd.Flags().GetBool("explain")

		v, err := loadValidator(typesPath, typeName)
		if err != nil {
			return err
		}

		failed := false
		for _, path := range args {
			value, err := decodeDocument(path)
			if err != nil {
				return err
			}
			if explain {
				var iss typeguard.Issues
				if strict {
					iss = v.ValidateStrict(value)
				} else {
					iss = v.Validate(value)
				}
				if len(iss) == 0 {
					fmt.Printf("%s: ok\n", path)
					continue
				}
				failed = true
				fmt.Printf("%s: invalid\n", path)
				for _, it := range iss {
					fmt.Printf("  %s at %s: %s\n", it.Code, it.Path, it.Message)
				}
				continue
			}
			ok := v.Check(value)
			if strict {
				ok = v.Equals(value)
			}
			if ok {
				fmt.Printf("%s: ok\n", path)
			} else {
				failed = true
				fmt.Printf("%s: invalid\n", path)
			}
		}
		if failed {
			// per-file diagnostics are already printed; only the exit
			// status remains, so suppress cobra's own reporting
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return errDocumentsInvalid
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("types", "types.yaml", "Path to the typedef file (YAML or JSON)")
	checkCmd.Flags().String("type", "", "Type name to validate against (defaults to the document root)")
	checkCmd.Flags().Bool("strict", false, "Reject object keys the descriptor does not declare")
	checkCmd.Flags().Bool("explain", false, "Print failure paths and reasons")
}

func loadValidator(typesPath, typeName string) (*typeguard.Validator, error) {
	data, err := os.ReadFile(typesPath)
	if err != nil {
		return nil, fmt.Errorf("read typedef: %w", err)
	}
	set, err := importByExt(typesPath, data)
	if err != nil {
		return nil, err
	}
	var d desc.Type
	if typeName != "" {
		t, ok := set.Lookup(typeName)
		if !ok {
			return nil, fmt.Errorf("type %q is not defined in %s", typeName, typesPath)
		}
		d = t
	} else {
		t, ok := set.Root()
		if !ok {
			return nil, fmt.Errorf("%s declares no root; pass --type", typesPath)
		}
		d = t
	}
	return typeguard.Compile(d)
}

func importByExt(path string, data []byte) (*typedef.Set, error) {
	if strings.HasSuffix(path, ".json") {
		return typedef.ImportJSON(data)
	}
	return typedef.ImportYAML(data)
}

func decodeDocument(path string) (any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%s: invalid JSON: %w", path, err)
	}
	return v, nil
}
