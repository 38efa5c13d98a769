package main

import (
	"context"
	"errors"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

type referenceCreator interface {
	Create(ctx context.Context, kind entity.ReferenceKind, in dto.CreateReferenceRequest) (*dto.ReferenceResponse, error)
}

type seedResult struct {
	created int
	skipped int
	failed  int
}

// seed crea cada dato maestro; un nombre duplicado cuenta como omitido, no como error.
func seed(ctx context.Context, uc referenceCreator, items []seedItem, log *logger.Logger) seedResult {
	var res seedResult
	for _, it := range items {
		_, err := uc.Create(ctx, it.Kind, it.In)
		switch {
		case err == nil:
			res.created++
		case errors.Is(err, domain.ErrDuplicate):
			res.skipped++
		default:
			res.failed++
			log.Error().Err(err).Str("kind", string(it.Kind)).Str("name", it.In.Name).Msg("no se pudo crear")
		}
	}
	return res
}
