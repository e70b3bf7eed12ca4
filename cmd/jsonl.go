package cmd

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
)

// jsonlStore is the file based storage: market data folder and ledger file.
type jsonlStore struct {
	*wallet.MarketData
	ledger *wallet.Ledger

	marketFile, ledgerFile string
	marketDirty, ledgerDirty bool
}

func openJSONL(marketFile, ledgerFile string) (*jsonlStore, error) {
	m, err := wallet.DecodeMarketData(marketFile)
	if err != nil {
		return nil, err
	}
	l, err := wallet.LoadLedger(ledgerFile)
	if err != nil {
		return nil, err
	}
	return &jsonlStore{MarketData: m, ledger: l, marketFile: marketFile, ledgerFile: ledgerFile}, nil
}

func (s *jsonlStore) Definitions(context.Context) ([]wallet.Definition, error) {
	return s.MarketData.Definitions(), nil
}

func (s *jsonlStore) AddAsset(_ context.Context, def wallet.Definition) error {
	if old, ok := s.MarketData.Definition(def.ID); ok && old == def {
		return nil
	}
	if err := def.ID.Validate(); err != nil {
		return err
	}
	s.MarketData.Add(def)
	s.marketDirty = true
	return nil
}

func (s *jsonlStore) Orders(ctx context.Context, id wallet.ID) ([]wallet.Order, error) {
	return s.ledger.Orders(ctx, id)
}

// AddOrder records o, unless the very same order is already there.
func (s *jsonlStore) AddOrder(ctx context.Context, id wallet.ID, o wallet.Order) error {
	added, err := s.addOrder(ctx, id, o)
	s.ledgerDirty = s.ledgerDirty || added
	return err
}

// overlayOrder adds o in memory only, it is not saved unless the ledger is changed.
func (s *jsonlStore) overlayOrder(ctx context.Context, id wallet.ID, o wallet.Order) error {
	_, err := s.addOrder(ctx, id, o)
	return err
}

func (s *jsonlStore) addOrder(ctx context.Context, id wallet.ID, o wallet.Order) (bool, error) {
	if _, ok := s.MarketData.Definition(id); !ok {
		return false, fmt.Errorf("asset %s: %w", id, wallet.ErrNotFound)
	}
	orders, err := s.ledger.Orders(ctx, id)
	if err != nil {
		return false, err
	}
	if slices.Contains(orders, o) {
		return false, nil
	}
	s.ledger.Add(id, o)
	return true, nil
}

func (s *jsonlStore) AddPrices(_ context.Context, id wallet.ID, h *date.History[float64]) (int, error) {
	n, err := s.MarketData.Merge(id, h)
	if n > 0 {
		s.marketDirty = true
	}
	return n, err
}

func (s *jsonlStore) save() error {
	if s.marketDirty {
		if err := wallet.EncodeMarketData(s.marketFile, s.MarketData); err != nil {
			return err
		}
		s.marketDirty = false
	}
	if s.ledgerDirty {
		if err := wallet.SaveLedger(s.ledgerFile, s.ledger); err != nil {
			return err
		}
		log.Printf("save-ledger name=%q", s.ledgerFile)
		s.ledgerDirty = false
	}
	return nil
}

func (s *jsonlStore) Close() error { return nil }
