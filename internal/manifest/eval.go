package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/goplus/rivebuild/internal/env"
)

// envVariables exposes the environment variables body refers to as the
// "env" object. Unset variables are left out, so referring to one is a
// decode error.
func envVariables(body hcl.Body, lookup env.Lookup) map[string]cty.Value {
	vals := make(map[string]cty.Value)
	if sb, ok := body.(*hclsyntax.Body); ok {
		hclsyntax.VisitAll(sb, func(n hclsyntax.Node) hcl.Diagnostics {
			expr, ok := n.(*hclsyntax.ScopeTraversalExpr)
			if !ok {
				return nil
			}
			if name, ok := envName(expr.Traversal); ok {
				if v, ok := lookup(name); ok {
					vals[name] = cty.StringVal(v)
				}
			}
			return nil
		})
	}
	return map[string]cty.Value{"env": cty.ObjectVal(vals)}
}

// envName returns NAME for env.NAME and env["NAME"].
func envName(t hcl.Traversal) (string, bool) {
	if len(t) < 2 || t.RootName() != "env" {
		return "", false
	}
	switch step := t[1].(type) {
	case hcl.TraverseAttr:
		return step.Name, true
	case hcl.TraverseIndex:
		if step.Key.Type() == cty.String && step.Key.IsKnown() && !step.Key.IsNull() {
			return step.Key.AsString(), true
		}
	}
	return "", false
}
