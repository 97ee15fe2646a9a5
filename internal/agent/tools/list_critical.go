package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/logis-assistant/server/internal/inventory"
)

type ListCriticalInput struct{}

type ListCriticalOutput struct {
	Report string `json:"report"`
}

func newListCriticalTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolListCritical,
			Desc: "Devuelve todos los productos agotados y con stock bajo. Usá esta herramienta cuando el usuario pide un análisis de múltiples productos o priorización de reposición.",
		},
		func(ctx context.Context, in *ListCriticalInput) (*ListCriticalOutput, error) {
			items, err := deps.Store.List(ctx)
			if err != nil {
				return nil, err
			}

			var outOfStock, low []string
			for _, it := range items {
				switch it.Status() {
				case inventory.StatusOutOfStock:
					outOfStock = append(outOfStock, fmt.Sprintf(
						"%s | stock: 0 | precio: $%s", strings.ToUpper(it.Name), money(it.Price, 0)))
				case inventory.StatusLow:
					low = append(low, fmt.Sprintf(
						"%s | stock: %d/%d | precio: $%s",
						strings.ToUpper(it.Name), it.Quantity, it.Threshold, money(it.Price, 0)))
				}
			}

			var sections []string
			if len(outOfStock) > 0 {
				sections = append(sections, fmt.Sprintf("AGOTADOS (%d):\n%s",
					len(outOfStock), strings.Join(outOfStock, "\n")))
			}
			if len(low) > 0 {
				sections = append(sections, fmt.Sprintf("STOCK BAJO (%d):\n%s",
					len(low), strings.Join(low, "\n")))
			}
			if len(sections) == 0 {
				return &ListCriticalOutput{Report: "Todo el inventario está en niveles óptimos."}, nil
			}
			return &ListCriticalOutput{Report: strings.Join(sections, "\n\n")}, nil
		},
	)
}
