package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/canvascore/qr_go_server/internal/model"
	"github.com/canvascore/qr_go_server/internal/store"
)

type QRRepository struct {
	store *store.Store
}

func NewQRRepository(s *store.Store) *QRRepository {
	return &QRRepository{store: s}
}

func (r *QRRepository) Create(ctx context.Context, qr *model.QRCode) error {
	return r.store.Set(ctx, qr.StorePath(), qr)
}

func (r *QRRepository) GetByID(ctx context.Context, id string) (*model.QRCode, error) {
	var qr model.QRCode
	found, err := r.store.Get(ctx, "qr_codes/"+id, &qr)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, store.ErrNotFound
	}
	return &qr, nil
}

func (r *QRRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.store.Update(ctx, "qr_codes/"+id, fields)
}

func (r *QRRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, "qr_codes/"+id)
}

func (r *QRRepository) ListAll(ctx context.Context) ([]*model.QRCode, error) {
	all, err := r.store.List(ctx, "qr_codes")
	if err != nil {
		return nil, err
	}

	codes := make([]*model.QRCode, 0, len(all))
	for _, raw := range all {
		var qr model.QRCode
		if err := json.Unmarshal(raw, &qr); err != nil {
			return nil, fmt.Errorf("failed to unmarshal qr code: %w", err)
		}
		codes = append(codes, &qr)
	}
	return codes, nil
}
