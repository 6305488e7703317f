package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rustyeddy/mandate/mandate"
)

// CatalogBackend supplies the strategy catalog.
type CatalogBackend interface {
	Strategies(ctx context.Context) ([]mandate.StrategyInfo, error)
}

// Catalog renders the strategy browser.
type Catalog struct {
	backend    CatalogBackend
	strategies []mandate.StrategyInfo
}

func NewCatalog(backend CatalogBackend) *Catalog {
	return &Catalog{backend: backend}
}

func (c *Catalog) Load(ctx context.Context) error {
	strategies, err := c.backend.Strategies(ctx)
	if err != nil {
		return fmt.Errorf("load strategy catalog: %w", err)
	}
	c.strategies = strategies
	return nil
}

func (c *Catalog) Render(w io.Writer) {
	if len(c.strategies) == 0 {
		fmt.Fprintln(w, "The strategy catalog is empty.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUSERS\tMARKETS")
	for _, s := range c.strategies {
		symbols := s.CompatibleSymbols
		if len(symbols) == 0 {
			symbols = s.DefaultSymbols
		}
		users := "-"
		if s.UserCount > 0 {
			users = fmt.Sprintf("%d", s.UserCount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, users, strings.Join(symbols, ","))
	}
	tw.Flush()

	for _, s := range c.strategies {
		if s.Description != "" {
			fmt.Fprintf(w, "\n%s: %s\n", s.ID, s.Description)
		}
	}
}
