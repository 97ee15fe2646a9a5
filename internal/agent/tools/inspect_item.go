package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/logis-assistant/server/internal/inventory"
)

type InspectItemInput struct {
	Name string `json:"name"`
}

type InspectItemOutput struct {
	Report string `json:"report"`
}

const maxSuggestions = 3

func newInspectItemTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolInspectItem,
			Desc: "Consulta el stock, precio y estado de UN producto específico. Usá esta herramienta cuando el usuario pregunta por stock o precio de un producto.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {
					Type:     schema.String,
					Desc:     "Nombre del producto tal como lo menciona el usuario; se resuelve contra el inventario por coincidencia aproximada.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *InspectItemInput) (*InspectItemOutput, error) {
			key, err := deps.Resolver.Resolve(ctx, in.Name)
			if err != nil {
				if errors.Is(err, inventory.ErrNotFound) {
					sugs := deps.Resolver.Suggest(ctx, in.Name, maxSuggestions)
					return &InspectItemOutput{Report: fmt.Sprintf(
						"Producto '%s' no encontrado. Similares: %s", in.Name, upperList(sugs))}, nil
				}
				return nil, err
			}

			it, err := deps.Store.Get(ctx, key)
			if err != nil {
				return nil, err
			}

			var estado string
			switch it.Status() {
			case inventory.StatusOutOfStock:
				estado = "AGOTADO"
			case inventory.StatusLow:
				estado = fmt.Sprintf("STOCK BAJO (faltan %d uds para el mínimo)", it.Shortfall())
			default:
				estado = "OK"
			}

			report := fmt.Sprintf(
				"PRODUCTO: %s\n"+
					"- Stock actual: %d uds\n"+
					"- Stock mínimo: %d uds\n"+
					"- Precio unitario: $%s\n"+
					"- Valor en inventario: $%s\n"+
					"- Estado: %s",
				strings.ToUpper(it.Name), it.Quantity, it.Threshold,
				money(it.Price, 2), money(it.Value(), 2), estado,
			)
			return &InspectItemOutput{Report: report}, nil
		},
	)
}
