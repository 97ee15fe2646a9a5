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

type ListAllInput struct{}

type ListAllOutput struct {
	Report string `json:"report"`
	Total  int    `json:"total"`
}

func newListAllTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolListAll,
			Desc: "Devuelve el inventario completo con todos los productos, stock y precios. Usá esta herramienta solo si el usuario pide ver TODOS los productos.",
		},
		func(ctx context.Context, in *ListAllInput) (*ListAllOutput, error) {
			items, err := deps.Store.List(ctx)
			if err != nil {
				return nil, err
			}

			lines := []string{"INVENTARIO COMPLETO:"}
			for _, it := range items {
				var estado string
				switch it.Status() {
				case inventory.StatusOutOfStock:
					estado = "AGOTADO"
				case inventory.StatusLow:
					estado = "BAJO"
				default:
					estado = "OK"
				}
				lines = append(lines, fmt.Sprintf("- %s | %d uds | $%s | %s",
					strings.ToUpper(it.Name), it.Quantity, money(it.Price, 0), estado))
			}
			lines = append(lines, fmt.Sprintf("\nTotal: %d productos", len(items)))
			return &ListAllOutput{Report: strings.Join(lines, "\n"), Total: len(items)}, nil
		},
	)
}
