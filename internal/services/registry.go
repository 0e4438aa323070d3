package services

import (
	"context"

	"doc-registry/internal/dto"
	"doc-registry/internal/entities"
	"doc-registry/internal/repositories"

	"go.uber.org/zap"
)

type RegistryServiceInterface interface {
	Create(ctx context.Context, data dto.CreateRegistryDTO) (*dto.RegistryResponseDTO, error)
	GetAll(ctx context.Context) ([]dto.RegistryResponseDTO, error)
}

type RegistryService struct {
	repo   repositories.RegistryRepositoryInterface
	logger *zap.Logger
}

func NewRegistryService(repo repositories.RegistryRepositoryInterface, logger *zap.Logger) RegistryServiceInterface {
	return &RegistryService{repo: repo, logger: logger}
}

func (s *RegistryService) Create(ctx context.Context, data dto.CreateRegistryDTO) (*dto.RegistryResponseDTO, error) {
	registry := &entities.Registry{
		Code:         data.Code,
		Name:         data.Name,
		DepartmentID: data.DepartmentID,
		Year:         data.Year,
		IsActive:     true,
	}

	id, err := s.repo.Create(ctx, registry)
	if err != nil {
		return nil, err
	}
	registry.ID = id

	return registryToDTO(registry), nil
}

func (s *RegistryService) GetAll(ctx context.Context) ([]dto.RegistryResponseDTO, error) {
	registries, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.RegistryResponseDTO, 0, len(registries))
	for i := range registries {
		result = append(result, *registryToDTO(&registries[i]))
	}
	return result, nil
}

func registryToDTO(registry *entities.Registry) *dto.RegistryResponseDTO {
	return &dto.RegistryResponseDTO{
		ID:           registry.ID,
		Code:         registry.Code,
		Name:         registry.Name,
		DepartmentID: registry.DepartmentID,
		Year:         registry.Year,
		IsActive:     registry.IsActive,
	}
}
