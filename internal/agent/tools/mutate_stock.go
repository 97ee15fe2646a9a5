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
	logx "github.com/logis-assistant/server/pkg/logger"
)

type MutateStockInput struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Absolute bool   `json:"absolute"`
}

type MutateStockOutput struct {
	Report string `json:"report"`
}

// newMutateStockTool is the sole mutation path into inventory state. Relative
// deltas compound on repeated calls on purpose; only an absolute set is
// idempotent.
func newMutateStockTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolMutateStock,
			Desc: "Modifica el stock de un producto: con absolute=true establece el valor exacto, con absolute=false suma o resta la cantidad al stock actual.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {
					Type:     schema.String,
					Desc:     "Nombre del producto a modificar.",
					Required: true,
				},
				"quantity": {
					Type:     schema.Integer,
					Desc:     "Número entero (positivo o negativo). Valor exacto si absolute=true, delta si absolute=false.",
					Required: true,
				},
				"absolute": {
					Type: schema.Boolean,
					Desc: "true = setear a ese valor exacto, false = sumar/restar al actual.",
				},
			}),
		},
		func(ctx context.Context, in *MutateStockInput) (*MutateStockOutput, error) {
			key, err := deps.Resolver.Resolve(ctx, in.Name)
			if err != nil {
				if errors.Is(err, inventory.ErrNotFound) {
					return &MutateStockOutput{Report: fmt.Sprintf(
						"Producto '%s' no encontrado en el inventario.", in.Name)}, nil
				}
				return nil, err
			}

			var change *inventory.Change
			if in.Absolute {
				change, err = deps.Store.SetQuantity(ctx, key, in.Quantity)
			} else {
				change, err = deps.Store.AdjustQuantity(ctx, key, in.Quantity)
			}
			if err != nil {
				var negErr *inventory.NegativeQuantityError
				if errors.As(err, &negErr) {
					return &MutateStockOutput{Report: fmt.Sprintf(
						"Error: el stock no puede quedar negativo. Actual: %d, cambio: %+d.",
						negErr.Current, negErr.Delta)}, nil
				}
				if errors.Is(err, inventory.ErrNotFound) {
					return &MutateStockOutput{Report: fmt.Sprintf(
						"Producto '%s' no encontrado en el inventario.", in.Name)}, nil
				}
				// Persistence failure: nothing was committed, say so explicitly
				// instead of letting the engine assume the write happened.
				logx.Error().Err(err).Str("material", key).Msg("stock mutation failed to persist")
				return &MutateStockOutput{Report: fmt.Sprintf(
					"Error al guardar el cambio de stock de %s: %v. El inventario no fue modificado.",
					strings.ToUpper(key), err)}, nil
			}

			var accion string
			if in.Absolute {
				accion = fmt.Sprintf("establecido a %d", change.To)
			} else {
				accion = fmt.Sprintf("%d → %d (%+d)", change.From, change.To, in.Quantity)
			}
			return &MutateStockOutput{Report: fmt.Sprintf(
				"✅ Stock de %s %s uds.", strings.ToUpper(change.Name), accion)}, nil
		},
	)
}
