package hcl_adapter

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// newEvalContext exposes the process environment as `env` plus a small set
// of string and list functions, so a file can say
//
//	search_paths = compact(split(":", env.IGN_GAZEBO_RESOURCE_PATH))
func newEvalContext(environ []string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(environ),
		},
		Functions: map[string]function.Function{
			"split":     stdlib.SplitFunc,
			"join":      stdlib.JoinFunc,
			"concat":    stdlib.ConcatFunc,
			"compact":   stdlib.CompactFunc,
			"coalesce":  stdlib.CoalesceFunc,
			"lower":     stdlib.LowerFunc,
			"trimspace": stdlib.TrimSpaceFunc,
		},
	}
}

// envObject converts KEY=VALUE pairs into a cty object. Later duplicates win.
func envObject(environ []string) cty.Value {
	vals := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vals[k] = cty.StringVal(v)
	}
	if len(vals) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vals)
}
