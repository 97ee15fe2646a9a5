package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/logis-assistant/server/internal/inventory"
	logx "github.com/logis-assistant/server/pkg/logger"
)

// Tool names exposed to the reasoning engine.
const (
	ToolInspectItem  = "inspect_item"
	ToolListCritical = "list_critical"
	ToolMutateStock  = "mutate_stock"
	ToolListAll      = "list_all"
)

// Deps carries the handles every action operates through. No action keeps
// process-wide state; the store is the single shared resource.
type Deps struct {
	Store    inventory.Store
	Resolver *inventory.Resolver
}

// Registry holds the fixed action set, indexed for execution and listed for
// binding to the reasoning engine.
type Registry struct {
	tools  []tool.InvokableTool
	byName map[string]tool.InvokableTool
}

// NewRegistry builds the four inventory actions. The set is fixed: the
// reasoning engine is never handed open-ended query execution.
func NewRegistry(deps Deps) *Registry {
	all := []tool.InvokableTool{
		newInspectItemTool(deps),
		newListCriticalTool(deps),
		newMutateStockTool(deps),
		newListAllTool(deps),
	}
	byName := make(map[string]tool.InvokableTool, len(all))
	for _, t := range all {
		info, err := t.Info(context.Background())
		if err != nil {
			// Info on statically declared tools cannot fail.
			continue
		}
		byName[info.Name] = t
	}
	return &Registry{tools: all, byName: byName}
}

// Infos returns the declared schemas for binding to the reasoning engine.
func (r *Registry) Infos(ctx context.Context) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(r.tools))
	for _, t := range r.tools {
		info, err := t.Info(ctx)
		if err != nil {
			logx.Error().Err(err).Msg("failed to get tool info")
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Execute runs one requested call and returns its textual result. Unknown
// tools and action-level failures come back as text so the engine can keep
// reasoning; only infrastructure outages surface as errors.
func (r *Registry) Execute(ctx context.Context, name, arguments string) (string, error) {
	t, ok := r.byName[name]
	if !ok {
		logx.Warn().Str("tool_name", name).Str("arguments", arguments).
			Msg("unknown or invalid tool call; returning fallback result")
		return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", name), nil
	}
	return t.InvokableRun(ctx, arguments)
}

func upperList(names []string) string {
	if len(names) == 0 {
		return "ninguno"
	}
	up := make([]string, len(names))
	for i, n := range names {
		up[i] = strings.ToUpper(n)
	}
	return strings.Join(up, ", ")
}

// money renders a value as $X,XXX with the given number of decimals, matching
// the original report formats.
func money(v float64, decimals int) string {
	s := fmt.Sprintf("%.*f", decimals, v)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
