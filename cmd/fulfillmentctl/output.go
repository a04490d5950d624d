package main

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
)

// printValue writes v in the configured output format. YAML is derived from
// the JSON encoding so both formats share field names and enum spellings.
func (a *app) printValue(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch a.cfg.Output {
	case "json":
		_, err = fmt.Fprintf(a.stdout, "%s\n", data)
		return err
	case "yaml":
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(out)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", a.cfg.Output)
	}
}
