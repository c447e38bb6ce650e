package marketplace

import (
	"context"
	"errors"
	"log/slog"

	"github.com/storydeck/marketplace/storydeck/logger"
)

// TradeService moves trades out of PENDING on behalf of their participants.
type TradeService struct {
	store Store
	opts  serviceOptions
}

func NewTradeService(store Store, opts ...Option) *TradeService {
	return &TradeService{store: store, opts: buildOptions(opts)}
}

// UpdateTradeStatus moves a PENDING trade to COMPLETED or CANCELLED. Either
// participant may do so; terminal trades never change again.
func (s *TradeService) UpdateTradeStatus(ctx context.Context, requester *Identity, tradeID string, next TradeStatus) error {
	if err := RequireIdentity(requester); err != nil {
		return err
	}
	if err := assertID(tradeID, "tradeId"); err != nil {
		return err
	}
	if !next.terminal() {
		return newError(KindInvalidArgument, "status must be %s or %s", TradeCompleted, TradeCancelled)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.txTimeout)
	defer cancel()

	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		trade, err := tx.GetTrade(ctx, tradeID)
		if errors.Is(err, ErrNotFound) {
			return newError(KindNotFound, "trade %s not found", tradeID)
		}
		if err != nil {
			return err
		}
		if !trade.HasParticipant(requester.UID) {
			return newError(KindPermissionDenied, "only trade participants can update this trade")
		}
		if trade.Status != TradePending {
			return newError(KindInvalidState, "trade is %s, only PENDING trades can be updated", trade.Status)
		}

		trade.Status = next
		trade.UpdatedAt = s.opts.now()
		return tx.UpdateTrade(ctx, trade, TradePending)
	})
	if err != nil {
		return storageFailure("update trade status", err)
	}

	logger.LogMarket("Trade status updated",
		slog.String("trade_id", tradeID),
		slog.String("status", string(next)),
		slog.String("uid", requester.UID),
	)
	return nil
}

// Trade returns a trade to one of its participants.
func (s *TradeService) Trade(ctx context.Context, requester *Identity, tradeID string) (*Trade, error) {
	if err := RequireIdentity(requester); err != nil {
		return nil, err
	}
	if err := assertID(tradeID, "tradeId"); err != nil {
		return nil, err
	}
	trade, err := s.store.GetTrade(ctx, tradeID)
	if errors.Is(err, ErrNotFound) {
		return nil, newError(KindNotFound, "trade %s not found", tradeID)
	}
	if err != nil {
		return nil, storageFailure("get trade", err)
	}
	if !trade.HasParticipant(requester.UID) {
		return nil, newError(KindPermissionDenied, "only trade participants can view this trade")
	}
	return trade, nil
}

// MyTrades returns every trade the requester takes part in, newest first.
func (s *TradeService) MyTrades(ctx context.Context, requester *Identity) ([]Trade, error) {
	if err := RequireIdentity(requester); err != nil {
		return nil, err
	}
	trades, err := s.store.TradesForParticipant(ctx, requester.UID)
	if err != nil {
		return nil, storageFailure("list my trades", err)
	}
	return trades, nil
}
