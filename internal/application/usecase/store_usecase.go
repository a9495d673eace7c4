package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// StoreUseCase casos de uso de almacenes y puntos de dispensación.
type StoreUseCase struct {
	repo repository.StoreRepository
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(repo repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{repo: repo}
}

// Create crea un almacén. El tipo debe ser uno de los permitidos.
func (uc *StoreUseCase) Create(companyID string, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if in.Code == "" || in.Name == "" || !entity.ValidStoreType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	store := &entity.Store{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      in.Code,
		Name:      in.Name,
		Type:      in.Type,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// GetByID obtiene un almacén de la empresa.
func (uc *StoreUseCase) GetByID(companyID, id string) (*dto.StoreResponse, error) {
	store, err := uc.repo.GetByID(companyID, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return toStoreResponse(store), nil
}

// List lista almacenes de la empresa.
func (uc *StoreUseCase) List(companyID string, page dto.PageRequest) ([]*dto.StoreResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StoreResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toStoreResponse(s))
	}
	return out, nil
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Code:      s.Code,
		Name:      s.Name,
		Type:      s.Type,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
	}
}
