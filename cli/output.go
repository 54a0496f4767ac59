package cli

import (
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	jsoniter "github.com/json-iterator/go"

	"github.com/mww/fantasy_query/platforms/yahoo"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// printResponse writes resp as indented JSON. With a select expression only
// the part of the raw response matched by that JSONPath is written.
func printResponse[T any](w io.Writer, resp *yahoo.Response[T], selectExpr string) error {
	var v any = resp
	if selectExpr != "" {
		sel, err := jsonpath.Get(selectExpr, resp.Raw)
		if err != nil {
			return fmt.Errorf("select %q: %w", selectExpr, err)
		}
		v = sel
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
