package cli

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uiprobe/pkg/core"
)

// printJSON writes v as indented JSON to the app's writer.
func printJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resultOutput adds the error text, which ActionResult does not serialize.
type resultOutput struct {
	*core.ActionResult
	Error string `json:"error,omitempty"`
}

// reportResult prints r and turns a failed outcome into a command error.
func reportResult(c *cli.Context, r *core.ActionResult) error {
	if err := printJSON(c, resultOutput{ActionResult: r, Error: r.ErrorText()}); err != nil {
		return err
	}
	if !r.Success {
		return fmt.Errorf("%s: %s", r.Outcome, r.ErrorText())
	}
	return nil
}

// bulkOutput carries the error text of the sequence and of every attempt.
type bulkOutput struct {
	*core.BulkResult
	Results []resultOutput `json:"results,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func reportBulk(c *cli.Context, r *core.BulkResult) error {
	out := bulkOutput{BulkResult: r}
	if r.Error != nil {
		out.Error = r.Error.Error()
	}
	for _, res := range r.Results {
		out.Results = append(out.Results, resultOutput{ActionResult: res, Error: res.ErrorText()})
	}
	if err := printJSON(c, out); err != nil {
		return err
	}
	if r.Error != nil {
		return r.Error
	}
	return nil
}

func reportCount(c *cli.Context, r *core.CountResult) error {
	if err := printJSON(c, r); err != nil {
		return err
	}
	if r.Error != nil {
		return r.Error
	}
	return nil
}
