// Package core has the orchestration logic for building and querying change trees.
package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/huangsam/changetree/internal/contract"
	"github.com/huangsam/changetree/internal/outwriter"
	"github.com/huangsam/changetree/internal/parquet"
	"github.com/huangsam/changetree/schema"
)

// ExecutorFunc defines the function signature for the command entry points.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// GetTreeListing builds the change tree of cfg.RepoPath and lists cfg.QueryPath,
// expanded cfg.Depth levels deep.
func GetTreeListing(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.TreeListing, error) {
	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut {
		outwriter.LogTreeHeader(cfg)
	}
	source := NewGitHistorySource(cfg, contract.NewLocalGitClient(), mgr)
	return NewAggregator(source).List(ctx, cfg.QueryPath, cfg.Depth)
}

// ExecuteTree lists one directory of the change tree and prints it.
// It serves as the main entry point for the 'tree' command.
func ExecuteTree(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	listing, err := GetTreeListing(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintTree(listing, cfg, duration)
}

// ExecuteExport writes every node below cfg.QueryPath to a Parquet file.
// It serves as the main entry point for the 'export' command.
func ExecuteExport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for export")
	}

	exportCfg := cfg.Clone()
	exportCfg.Depth = math.MaxInt32
	listing, err := GetTreeListing(WithSuppressHeader(ctx), exportCfg, mgr)
	if err != nil {
		return err
	}

	rows := parquet.ConvertTreeNodes(schema.Flatten(listing.Nodes), time.Now())
	if err := parquet.WriteTreeRowsParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	_, err = fmt.Fprintf(os.Stderr, "💾 Wrote %d rows to %s\n", len(rows), cfg.OutputFile)
	return err
}
