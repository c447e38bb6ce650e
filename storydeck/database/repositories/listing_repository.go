package repositories

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/storydeck/marketplace/internal/domain/logger"
	"github.com/storydeck/marketplace/storydeck/database/models"
)

// ListingRepository reads and writes listings. Methods taking a bun.IDB run
// inside the given transaction, or against the pool when it is nil.
type ListingRepository interface {
	Create(ctx context.Context, tx bun.IDB, listing *models.Listing) error
	GetByID(ctx context.Context, tx bun.IDB, id string, forUpdate bool) (*models.Listing, error)
	UpdateFrom(ctx context.Context, tx bun.IDB, listing *models.Listing, fromStatus string) error
	GetOpen(ctx context.Context, cardID string) ([]*models.Listing, error)
	GetByCreator(ctx context.Context, uid string) ([]*models.Listing, error)
}

type listingRepository struct {
	*BaseRepository
}

func NewListingRepository(db *bun.DB) ListingRepository {
	return &listingRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *listingRepository) Create(ctx context.Context, tx bun.IDB, listing *models.Listing) error {
	q := r.idb(tx).NewInsert().Model(listing)
	ql := logger.NewQueryLogger("create_listing", q.String())

	res, err := q.Exec(ctx)
	var rows int64
	if err == nil {
		rows, _ = res.RowsAffected()
	}
	ql.Log(err, rows)
	return r.HandleErrorWithID("create", "listing", listing.ID, err)
}

func (r *listingRepository) GetByID(ctx context.Context, tx bun.IDB, id string, forUpdate bool) (*models.Listing, error) {
	listing := new(models.Listing)
	q := r.idb(tx).NewSelect().Model(listing).Where("l.id = ?", id)
	if forUpdate {
		q = q.For("UPDATE")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, r.HandleErrorWithID("get", "listing", id, err)
	}
	return listing, nil
}

// UpdateFrom writes every mutable column but only while the row still has
// fromStatus. A zero-row update is reported as a ConflictError.
func (r *listingRepository) UpdateFrom(ctx context.Context, tx bun.IDB, listing *models.Listing, fromStatus string) error {
	q := r.idb(tx).NewUpdate().
		Model(listing).
		Column("status", "accepted_by_uid", "accepted_by_display_name", "accepted_at", "updated_at").
		Where("l.id = ?", listing.ID).
		Where("l.status = ?", fromStatus)
	ql := logger.NewQueryLogger("update_listing", q.String())

	res, err := q.Exec(ctx)
	if err != nil {
		ql.Log(err, 0)
		return r.HandleErrorWithID("update", "listing", listing.ID, err)
	}
	rows, err := res.RowsAffected()
	ql.Log(err, rows)
	if err != nil {
		return r.HandleErrorWithID("update", "listing", listing.ID, err)
	}
	if rows == 0 {
		return &ConflictError{Entity: "listing", ID: listing.ID, Field: "status", Expected: fromStatus}
	}
	return nil
}

func (r *listingRepository) GetOpen(ctx context.Context, cardID string) ([]*models.Listing, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var listings []*models.Listing
	q := r.db.NewSelect().
		Model(&listings).
		Where("l.status = ?", "OPEN").
		OrderExpr("l.created_at DESC, l.id ASC")
	if cardID != "" {
		q = q.Where("l.card_id = ?", cardID)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, r.HandleError("get_open", "listing", err)
	}
	return listings, nil
}

func (r *listingRepository) GetByCreator(ctx context.Context, uid string) ([]*models.Listing, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var listings []*models.Listing
	err := r.db.NewSelect().
		Model(&listings).
		Where("l.created_by_uid = ?", uid).
		OrderExpr("l.created_at DESC, l.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_by_creator", "listing", err)
	}
	return listings, nil
}
