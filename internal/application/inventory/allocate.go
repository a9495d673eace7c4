package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	dominv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Engine es el motor de asignación de lotes. Todos sus métodos *InTx operan
// con repositorios atados a la transacción del caller: ventas y compras los
// invocan dentro de su propia tx y el rollback del caller deshace todo.
//
// Regla compartida: solo este motor descuenta o repone disponible, y siempre
// con una entrada del ledger en la misma transacción. Nadie más toca
// StockLot.QtyAvailable.
type Engine struct{}

// NewEngine construye el motor de asignación.
func NewEngine() *Engine {
	return &Engine{}
}

// applyMovement aplica un delta al lote y registra la entrada del ledger, de
// forma atómica respecto de la tx del caller. Para RECEIPT el delta también
// acumula en QtyReceived. Falla con ErrInvalidMovement si el disponible
// proyectado queda negativo o por encima del recibido.
func applyMovement(
	lotRepo repository.StockLotRepository,
	ledgerRepo repository.StockLedgerRepository,
	lot *entity.StockLot,
	movType string,
	delta decimal.Decimal,
	refType, refID, userID string,
	now time.Time,
) error {
	if movType == entity.MovementTypeRECEIPT {
		lot.QtyReceived = lot.QtyReceived.Add(delta)
	}
	newAvail := lot.QtyAvailable.Add(delta)
	if newAvail.IsNegative() || newAvail.GreaterThan(lot.QtyReceived) {
		return domain.ErrInvalidMovement
	}
	lot.QtyAvailable = newAvail
	lot.UpdatedAt = now
	if err := lotRepo.UpdateQuantities(lot); err != nil {
		return err
	}
	entry := &entity.StockLedgerEntry{
		ID:        uuid.New().String(),
		CompanyID: lot.CompanyID,
		LotID:     lot.ID,
		Type:      movType,
		Quantity:  delta,
		RefType:   refType,
		RefID:     refID,
		CreatedAt: now,
		CreatedBy: userID,
	}
	return ledgerRepo.Create(entry)
}

// AllocateInTx asigna quantity de un producto en un almacén siguiendo FEFO:
// bloquea los lotes candidatos (SELECT FOR UPDATE), arma el plan con la
// política de dominio y aplica una entrada ALLOCATE (delta negativo) por lote.
// Si el stock no alcanza retorna ErrInsufficientStock sin tocar nada; si algo
// falla a mitad, el rollback del caller revierte lo aplicado.
// Devuelve el desglose por lote para que el caller lo persista: la reversa
// (RELEASE/RETURN) debe ser lote-exacta, nunca un FEFO fresco.
func (e *Engine) AllocateInTx(
	lotRepo repository.StockLotRepository,
	ledgerRepo repository.StockLedgerRepository,
	companyID, productID, storeID string,
	quantity decimal.Decimal,
	refType, refID, userID string,
	now time.Time,
) ([]entity.LotAllocation, error) {
	lots, err := lotRepo.ListAvailableFEFOForUpdate(companyID, productID, storeID, now)
	if err != nil {
		return nil, err
	}
	// La consulta ya ordena, pero la política de dominio es la autoridad.
	plan, err := dominv.PlanAllocation(lots, quantity)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entity.StockLot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}

	allocations := make([]entity.LotAllocation, 0, len(plan))
	for _, take := range plan {
		lot := byID[take.LotID]
		if err := applyMovement(lotRepo, ledgerRepo, lot, entity.MovementTypeALLOCATE, take.Quantity.Neg(), refType, refID, userID, now); err != nil {
			return nil, err
		}
		allocations = append(allocations, entity.LotAllocation{LotID: lot.ID, Quantity: take.Quantity})
	}
	return allocations, nil
}

// ReleaseInTx revierte una asignación completa contra los MISMOS lotes
// registrados al asignar (una entrada RELEASE positiva por lote). No se
// recalcula FEFO: el orden de lotes al momento de revertir puede ser otro y
// la reversa debe ser auditable lote por lote.
func (e *Engine) ReleaseInTx(
	lotRepo repository.StockLotRepository,
	ledgerRepo repository.StockLedgerRepository,
	companyID string,
	allocations []entity.LotAllocation,
	refType, refID, userID string,
	now time.Time,
) error {
	for _, alloc := range allocations {
		lot, err := lotRepo.GetForUpdate(companyID, alloc.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if err := applyMovement(lotRepo, ledgerRepo, lot, entity.MovementTypeRELEASE, alloc.Quantity, refType, refID, userID, now); err != nil {
			return err
		}
	}
	return nil
}

// ReturnInTx devuelve quantity unidades contra los lotes originales de la
// asignación, en el mismo orden, con tope en lo asignado por lote (no se
// puede devolver más de lo dispensado). Devuelve el desglose aplicado.
func (e *Engine) ReturnInTx(
	lotRepo repository.StockLotRepository,
	ledgerRepo repository.StockLedgerRepository,
	companyID string,
	original []entity.LotAllocation,
	quantity decimal.Decimal,
	refType, refID, userID string,
	now time.Time,
) ([]entity.LotAllocation, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	allocated := decimal.Zero
	for _, a := range original {
		allocated = allocated.Add(a.Quantity)
	}
	if quantity.GreaterThan(allocated) {
		return nil, domain.ErrInvalidInput
	}

	remaining := quantity
	returned := make([]entity.LotAllocation, 0, len(original))
	for _, alloc := range original {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, alloc.Quantity)
		lot, err := lotRepo.GetForUpdate(companyID, alloc.LotID)
		if err != nil {
			return nil, err
		}
		if lot == nil {
			return nil, domain.ErrNotFound
		}
		if err := applyMovement(lotRepo, ledgerRepo, lot, entity.MovementTypeRETURN, take, refType, refID, userID, now); err != nil {
			return nil, err
		}
		returned = append(returned, entity.LotAllocation{LotID: lot.ID, Quantity: take})
		remaining = remaining.Sub(take)
	}
	return returned, nil
}

// ReceiveInTx ingresa stock aceptado de una recepción. Fusiona por número de
// lote: si ya existe un lote (empresa, producto, almacén, batch) se acumula
// sobre él; si no, se crea con cantidades en cero y el RECEIPT lo puebla.
// Devuelve el lote afectado.
func (e *Engine) ReceiveInTx(
	lotRepo repository.StockLotRepository,
	ledgerRepo repository.StockLedgerRepository,
	companyID, productID, storeID, batchNumber string,
	expiryDate time.Time,
	quantity, unitCost decimal.Decimal,
	refType, refID, userID string,
	now time.Time,
) (*entity.StockLot, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	lot, err := lotRepo.GetByBatchForUpdate(companyID, productID, storeID, batchNumber)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		lot = &entity.StockLot{
			ID:           uuid.New().String(),
			CompanyID:    companyID,
			ProductID:    productID,
			StoreID:      storeID,
			BatchNumber:  batchNumber,
			ExpiryDate:   expiryDate,
			QtyReceived:  decimal.Zero,
			QtyAvailable: decimal.Zero,
			UnitCost:     unitCost,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := lotRepo.Create(lot); err != nil {
			return nil, err
		}
	}
	if err := applyMovement(lotRepo, ledgerRepo, lot, entity.MovementTypeRECEIPT, quantity, refType, refID, userID, now); err != nil {
		return nil, err
	}
	return lot, nil
}

// AdjustInTx aplica un ajuste manual (delta firmado) sobre un lote concreto.
// Es el único camino de corrección después de contabilizar un GRN: nunca se
// edita retroactivamente el documento, se ajusta con un movimiento nuevo.
func (e *Engine) AdjustInTx(
	lotRepo repository.StockLotRepository,
	ledgerRepo repository.StockLedgerRepository,
	companyID, lotID string,
	delta decimal.Decimal,
	userID string,
	now time.Time,
) error {
	if delta.IsZero() {
		return domain.ErrInvalidInput
	}
	lot, err := lotRepo.GetForUpdate(companyID, lotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return domain.ErrNotFound
	}
	return applyMovement(lotRepo, ledgerRepo, lot, entity.MovementTypeADJUSTMENT, delta, entity.RefTypeManual, lotID, userID, now)
}
