// Package trade validates and settles two-party exchanges of inventory.
package trade

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/survivors/internal/model"
	"github.com/erazemk/survivors/internal/store"
)

// Request is a proposed exchange. A is the survivor initiating the trade.
type Request struct {
	A      model.TradeOffer
	B      model.TradeOffer
	DryRun bool
}

// Result describes a validated trade. Settled is false for dry runs.
type Result struct {
	Settled bool
	Trade   *model.Trade
	WorthA  int
	WorthB  int
}

// Engine runs trades against the database.
type Engine struct {
	DB  *sql.DB
	Now func() time.Time
}

// New creates an Engine using the wall clock.
func New(db *sql.DB) *Engine {
	return &Engine{DB: db, Now: time.Now}
}

// Execute validates a trade and, unless it is a dry run, settles it. All
// reads and writes happen in one transaction, so a failed trade leaves both
// inventories untouched.
func (e *Engine) Execute(ctx context.Context, req Request) (*Result, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	var result *Result
	err := store.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		// Take the write lock before reading any holdings.
		if !req.DryRun {
			if _, err := store.TouchSurvivors(ctx, tx, req.A.SurvivorID, req.B.SurvivorID); err != nil {
				return err
			}
		}

		for _, id := range []string{req.A.SurvivorID, req.B.SurvivorID} {
			exists, err := store.SurvivorExists(ctx, tx, id)
			if err != nil {
				return err
			}
			if !exists {
				return &model.NotFoundError{Entity: "survivor", ID: id}
			}
		}

		heldA, err := store.GetInventory(ctx, tx, req.A.SurvivorID)
		if err != nil {
			return err
		}
		heldB, err := store.GetInventory(ctx, tx, req.B.SurvivorID)
		if err != nil {
			return err
		}

		if err := CheckHoldings(req.A, heldA); err != nil {
			return err
		}
		if err := CheckHoldings(req.B, heldB); err != nil {
			return err
		}

		catalogue, err := store.GetCatalogue(ctx, tx)
		if err != nil {
			return err
		}
		worthA, err := catalogue.Value(req.A.Items)
		if err != nil {
			return fmt.Errorf("survivor %s: %w", req.A.SurvivorID, err)
		}
		worthB, err := catalogue.Value(req.B.Items)
		if err != nil {
			return fmt.Errorf("survivor %s: %w", req.B.SurvivorID, err)
		}
		if worthA != worthB {
			return &model.UnbalancedTradeError{OfferedA: worthA, OfferedB: worthB}
		}

		result = &Result{WorthA: worthA, WorthB: worthB}
		if req.DryRun {
			return nil
		}

		newA, newB, err := Settle(heldA, heldB, req.A.Items, req.B.Items)
		if err != nil {
			return err
		}
		if err := store.ReplaceInventory(ctx, tx, req.A.SurvivorID, newA); err != nil {
			return err
		}
		if err := store.ReplaceInventory(ctx, tx, req.B.SurvivorID, newB); err != nil {
			return err
		}

		t := &model.Trade{
			ID:        uuid.New().String(),
			A:         model.TradeOffer{SurvivorID: req.A.SurvivorID, Items: req.A.Items.Positive()},
			B:         model.TradeOffer{SurvivorID: req.B.SurvivorID, Items: req.B.Items.Positive()},
			Worth:     worthA,
			SettledAt: e.now().UTC(),
		}
		if err := store.RecordTrade(ctx, tx, t); err != nil {
			return err
		}

		result.Settled = true
		result.Trade = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func checkRequest(req Request) error {
	if req.A.SurvivorID == req.B.SurvivorID {
		return &model.SelfActionError{Action: "trade with"}
	}
	for _, offer := range []model.TradeOffer{req.A, req.B} {
		for _, itemID := range offer.Items.ItemIDs() {
			if !model.ValidQuantity(offer.Items[itemID]) {
				return fmt.Errorf("survivor %s, item %s: %w", offer.SurvivorID, itemID, model.ErrInvalidQuantity)
			}
		}
	}
	return nil
}

// CheckHoldings fails with an InsufficientItemsError for the first item, in
// id order, that the offer asks for more of than is held.
func CheckHoldings(offer model.TradeOffer, held model.Inventory) error {
	for _, itemID := range offer.Items.ItemIDs() {
		requested := offer.Items[itemID]
		if requested > held[itemID] {
			return &model.InsufficientItemsError{
				SurvivorID: offer.SurvivorID,
				ItemID:     itemID,
				Held:       held[itemID],
				Requested:  requested,
			}
		}
	}
	return nil
}

// Settle returns both participants' holdings after the exchange. Each side
// loses what it offered and gains what the other offered. The inputs are not
// modified. A holding that would exceed math.MaxInt fails with ErrOverflow.
func Settle(heldA, heldB, offerA, offerB model.Inventory) (model.Inventory, model.Inventory, error) {
	newA, newB := heldA.Clone(), heldB.Clone()
	if err := transfer(newA, newB, offerA); err != nil {
		return nil, nil, err
	}
	if err := transfer(newB, newA, offerB); err != nil {
		return nil, nil, err
	}
	return newA, newB, nil
}

func transfer(from, to, offer model.Inventory) error {
	for _, itemID := range offer.ItemIDs() {
		qty := offer[itemID]
		if qty > math.MaxInt-to[itemID] {
			return fmt.Errorf("receiving item %s: %w", itemID, model.ErrOverflow)
		}
		from[itemID] -= qty
		to[itemID] += qty
	}
	return nil
}
