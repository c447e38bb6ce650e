package repositories

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/storydeck/marketplace/internal/domain/logger"
	"github.com/storydeck/marketplace/storydeck/database/models"
)

type TradeRepository interface {
	Create(ctx context.Context, tx bun.IDB, trade *models.Trade) error
	GetByID(ctx context.Context, tx bun.IDB, id string, forUpdate bool) (*models.Trade, error)
	UpdateStatusFrom(ctx context.Context, tx bun.IDB, trade *models.Trade, fromStatus string) error
	GetByParticipant(ctx context.Context, uid string) ([]*models.Trade, error)
}

type tradeRepository struct {
	*BaseRepository
}

func NewTradeRepository(db *bun.DB) TradeRepository {
	return &tradeRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *tradeRepository) Create(ctx context.Context, tx bun.IDB, trade *models.Trade) error {
	q := r.idb(tx).NewInsert().Model(trade)
	ql := logger.NewQueryLogger("create_trade", q.String())

	res, err := q.Exec(ctx)
	var rows int64
	if err == nil {
		rows, _ = res.RowsAffected()
	}
	ql.Log(err, rows)
	return r.HandleErrorWithID("create", "trade", trade.ID, err)
}

func (r *tradeRepository) GetByID(ctx context.Context, tx bun.IDB, id string, forUpdate bool) (*models.Trade, error) {
	trade := new(models.Trade)
	q := r.idb(tx).NewSelect().Model(trade).Where("t.id = ?", id)
	if forUpdate {
		q = q.For("UPDATE")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, r.HandleErrorWithID("get", "trade", id, err)
	}
	return trade, nil
}

func (r *tradeRepository) UpdateStatusFrom(ctx context.Context, tx bun.IDB, trade *models.Trade, fromStatus string) error {
	q := r.idb(tx).NewUpdate().
		Model(trade).
		Column("status", "updated_at").
		Where("t.id = ?", trade.ID).
		Where("t.status = ?", fromStatus)
	ql := logger.NewQueryLogger("update_trade_status", q.String())

	res, err := q.Exec(ctx)
	if err != nil {
		ql.Log(err, 0)
		return r.HandleErrorWithID("update", "trade", trade.ID, err)
	}
	rows, err := res.RowsAffected()
	ql.Log(err, rows)
	if err != nil {
		return r.HandleErrorWithID("update", "trade", trade.ID, err)
	}
	if rows == 0 {
		return &ConflictError{Entity: "trade", ID: trade.ID, Field: "status", Expected: fromStatus}
	}
	return nil
}

// GetByParticipant uses array containment so the GIN index on participants applies.
func (r *tradeRepository) GetByParticipant(ctx context.Context, uid string) ([]*models.Trade, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		Where("t.participants @> ?", pgdialect.Array([]string{uid})).
		OrderExpr("t.created_at DESC, t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_by_participant", "trade", err)
	}
	return trades, nil
}
