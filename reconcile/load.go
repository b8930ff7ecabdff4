package reconcile

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/etnz/adjust/table"
	"go.uber.org/zap"
)

// Sources describes where the holdings are read from.
type Sources struct {
	// Base is the primary holdings file. Required.
	Base string
	// Secondary is an optional holdings file consulted when a code is not in
	// Base. A missing file is not an error.
	Secondary string
	// Target is the file of target portfolios, one group per sheet.
	Target string

	// Options applies to every file. Options.Sheet selects the sheet of the
	// holdings files only.
	Options table.Options
	// Codes, BaseQuantity and TargetQuantity are the accepted column names.
	// Defaults come from table.DefaultAliases.
	Codes          []string
	BaseQuantity   []string
	TargetQuantity []string
	// HeaderScanRows bounds the search for the target header rows.
	HeaderScanRows int
}

func (s Sources) aliases(quantity []string) table.Aliases {
	a := table.DefaultAliases()
	if len(s.Codes) > 0 {
		a.Code = s.Codes
	}
	if len(quantity) > 0 {
		a.Quantity = quantity
	}
	return a
}

// Load reads the book and the target groups. Target tables whose columns
// cannot be located are skipped and their names returned.
func Load(s Sources, logger *zap.Logger) (Book, []Group, []string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("op", "reconcile.Load"))
	var book Book

	primary, err := loadHoldings(s.Base, s, table.FallbackPositional, logger)
	if err != nil {
		return book, nil, nil, fmt.Errorf("failed to load base holdings: %w", err)
	}
	book.Primary = primary

	if s.Secondary != "" {
		secondary, err := loadHoldings(s.Secondary, s, table.FallbackFirstLast, logger)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Info("no secondary holdings", zap.String("file", s.Secondary))
		case err != nil:
			return book, nil, nil, fmt.Errorf("failed to load secondary holdings: %w", err)
		default:
			book.Secondary = secondary
		}
	}

	opts := s.Options
	opts.Sheet = ""
	tables, err := table.Open(s.Target, opts)
	if err != nil {
		return book, nil, nil, fmt.Errorf("failed to load target portfolios: %w", err)
	}
	aliases := s.aliases(s.TargetQuantity)
	var groups []Group
	var skipped []string
	for _, t := range tables {
		l, err := t.Layout(aliases, s.HeaderScanRows, table.FallbackNone)
		if err != nil {
			logger.Warn("skipping target table", zap.String("table", t.Name), zap.Error(err))
			skipped = append(skipped, t.Name)
			continue
		}
		groups = append(groups, Group{Name: t.Name, Targets: t.Holdings(l)})
	}
	return book, groups, skipped, nil
}

// loadHoldings reads the first table of path.
func loadHoldings(path string, s Sources, fb table.Fallback, logger *zap.Logger) (*table.Holdings, error) {
	tables, err := table.Open(path, s.Options)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no table in %s", path)
	}
	t := tables[0]
	l, err := t.Layout(s.aliases(s.BaseQuantity), s.HeaderScanRows, fb)
	if err != nil {
		return nil, err
	}
	h := t.Holdings(l)
	logger.Info("holdings loaded",
		zap.String("file", path),
		zap.String("table", t.Name),
		zap.Int("records", h.Len()),
		zap.Int("duplicates", h.Duplicates),
	)
	return h, nil
}
