package reference

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// Coordinator gestiona operaciones pareadas por número de referencia:
// checkout/devolución y emisión/recepción de orden de compra. La segunda
// pierna nunca puede sobre-aplicarse respecto a la primera: la suma de
// entradas de una referencia no excede la suma de salidas de esa referencia.
type Coordinator struct {
	txRunner   ledger.TxRunner
	aggregator *ledger.Aggregator
}

// NewCoordinator construye el coordinador. Las órdenes de compra se leen y
// actualizan con el repo atado a la transacción que entrega el TxRunner.
func NewCoordinator(txRunner ledger.TxRunner, aggregator *ledger.Aggregator) *Coordinator {
	return &Coordinator{txRunner: txRunner, aggregator: aggregator}
}

// IssueInput primera pierna: entrega (checkout) de una cantidad contra una
// referencia. Si ReferenceNo viene vacío se genera una.
type IssueInput struct {
	ReferenceNo string
	ItemID      string
	WarehouseID string
	Quantity    int64 // positivo; se registra como salida
	Person      string
	Notes       string
}

// Issue registra la salida etiquetada con la referencia, sujeta a la misma
// validación de stock no-negativo de cualquier mutación.
func (c *Coordinator) Issue(ctx context.Context, input IssueInput) (*entity.MovementRecord, error) {
	if input.ItemID == "" || input.WarehouseID == "" || input.Quantity <= 0 {
		return nil, domain.ErrValidation
	}
	if input.ReferenceNo == "" {
		input.ReferenceNo = "CHK-" + uuid.New().String()
	}
	return c.aggregator.ProposeMutation(ctx, ledger.MutationInput{
		ItemID:      input.ItemID,
		WarehouseID: input.WarehouseID,
		Quantity:    -input.Quantity,
		Type:        entity.MovementTypeOut,
		ReferenceNo: input.ReferenceNo,
		Actor:       input.Person,
		Notes:       input.Notes,
	})
}

// ReturnAgainst segunda pierna: devolución contra una referencia. Calcula lo
// ya devuelto y lo entregado para la referencia y falla con ErrOverReturn si
// devuelto + cantidad > entregado. El chequeo y el movimiento entrante van en
// la misma transacción, serializados con el lock del par. Las referencias de
// checkout son de un solo par (item, bodega); una referencia cuyas piernas
// mezclan pares se rechaza con ErrValidation en vez de acreditar todas las
// devoluciones a un par arbitrario.
func (c *Coordinator) ReturnAgainst(ctx context.Context, referenceNo string, quantity int64, actor string) (*entity.MovementRecord, error) {
	if referenceNo == "" || quantity <= 0 {
		return nil, domain.ErrValidation
	}
	var mov *entity.MovementRecord
	err := c.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		posRepo repository.StockPositionRepository,
		_ repository.AdjustmentRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		legs, err := movRepo.ListByReference(referenceNo)
		if err != nil {
			return err
		}
		// El par (item, bodega) se deriva de la pierna de salida original;
		// todas las piernas de la referencia deben compartirlo.
		var issueLeg *entity.MovementRecord
		for _, leg := range legs {
			if !leg.Inbound() {
				issueLeg = leg
				break
			}
		}
		if issueLeg == nil {
			return domain.ErrNotFound
		}
		for _, leg := range legs {
			if leg.ItemID != issueLeg.ItemID || leg.WarehouseID != issueLeg.WarehouseID {
				return domain.ErrValidation
			}
		}
		// Lock del par antes del chequeo: serializa devoluciones concurrentes
		// contra la misma referencia.
		if _, err := posRepo.GetForUpdate(issueLeg.ItemID, issueLeg.WarehouseID); err != nil {
			return err
		}
		issued, returned, err := movRepo.SumByReference(referenceNo)
		if err != nil {
			return err
		}
		if returned+quantity > issued {
			return domain.ErrOverReturn
		}
		m, err := c.aggregator.ProposeInTx(movRepo, posRepo, ledger.MutationInput{
			ItemID:      issueLeg.ItemID,
			WarehouseID: issueLeg.WarehouseID,
			Quantity:    quantity,
			Type:        entity.MovementTypeIn,
			ReferenceNo: referenceNo,
			Actor:       actor,
			Notes:       "return against " + referenceNo,
		}, time.Now())
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.aggregator.NotifyCommitted(ctx, mov.ItemID, mov.WarehouseID)
	return mov, nil
}

// ReceiveLine línea de recepción contra una orden de compra.
type ReceiveLine struct {
	ItemID      string
	WarehouseID string
	Quantity    int64
}

// ReceiveAgainstOrder registra la recepción de una orden de compra. La
// orden se lee con lock de fila dentro de la transacción, de modo que dos
// recepciones concurrentes contra la misma orden se serializan y la segunda
// ve lo que la primera ya recibió. Todas las líneas se pre-validan contra lo
// ordenado y lo ya recibido antes de confirmar ninguna: una línea inválida
// aborta el lote completo sin estado parcial. Cada línea genera un movimiento
// IN etiquetado con la referencia de la orden; si el lote cubre lo que
// faltaba, la transición a RECEIVED viaja en la misma transacción.
func (c *Coordinator) ReceiveAgainstOrder(ctx context.Context, referenceNo string, lines []ReceiveLine, actor string) ([]*entity.MovementRecord, error) {
	if referenceNo == "" || len(lines) == 0 {
		return nil, domain.ErrValidation
	}
	var received []*entity.MovementRecord
	err := c.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		posRepo repository.StockPositionRepository,
		_ repository.AdjustmentRepository,
		poRepo repository.PurchaseOrderRepository,
	) error {
		po, err := poRepo.GetForUpdate(referenceNo)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		// Pre-validación de todas las líneas antes de confirmar cualquiera,
		// con lo ya recibido leído bajo el lock de la orden.
		totals, err := receivedQuantities(movRepo, referenceNo)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if line.Quantity <= 0 {
				return domain.ErrValidation
			}
			ordered := po.Line(line.ItemID, line.WarehouseID)
			if ordered == nil {
				return domain.ErrValidation
			}
			already := totals[line.ItemID+"|"+line.WarehouseID]
			if already+line.Quantity > ordered.Quantity {
				return domain.ErrOverReturn
			}
		}
		now := time.Now()
		for _, line := range lines {
			m, err := c.aggregator.ProposeInTx(movRepo, posRepo, ledger.MutationInput{
				ItemID:      line.ItemID,
				WarehouseID: line.WarehouseID,
				Quantity:    line.Quantity,
				Type:        entity.MovementTypeIn,
				ReferenceNo: referenceNo,
				Actor:       actor,
				Notes:       "PO receipt " + referenceNo,
			}, now)
			if err != nil {
				return err
			}
			received = append(received, m)
			totals[line.ItemID+"|"+line.WarehouseID] += line.Quantity
		}
		if fullyReceived(po, totals) {
			po.Status = entity.PurchaseOrderStatusReceived
			po.UpdatedAt = now
			if err := poRepo.Update(po); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, m := range received {
		c.aggregator.NotifyCommitted(ctx, m.ItemID, m.WarehouseID)
	}
	return received, nil
}

// receivedQuantities entradas acumuladas por par para la referencia.
func receivedQuantities(movRepo repository.MovementRepository, referenceNo string) (map[string]int64, error) {
	legs, err := movRepo.ListByReference(referenceNo)
	if err != nil {
		return nil, err
	}
	sums := make(map[string]int64)
	for _, leg := range legs {
		if leg.Inbound() {
			sums[leg.ItemID+"|"+leg.WarehouseID] += leg.Quantity
		}
	}
	return sums, nil
}

// fullyReceived indica si las entradas acumuladas cubren todas las líneas
// de la orden.
func fullyReceived(po *entity.PurchaseOrder, totals map[string]int64) bool {
	for _, line := range po.Lines {
		if totals[line.ItemID+"|"+line.WarehouseID] < line.Quantity {
			return false
		}
	}
	return true
}
