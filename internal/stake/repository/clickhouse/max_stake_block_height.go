package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
)

const maxStakeBlockHeightQuery = `
SELECT count() AS blocks, coalesce(max(height), toUInt64(0)) AS max_height
FROM stake_blocks
WHERE coin = ? AND network = ?`

// MaxStakeBlockHeight returns the highest exported height for a
// coin/network. ok is false when nothing was exported yet.
func (r *Repository) MaxStakeBlockHeight(ctx context.Context, coin model.Coin, network model.Network) (height uint64, ok bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("max_stake_block_height", coin, network, err, start)
	}()

	rows, err := r.conn.Query(ctx, maxStakeBlockHeightQuery, coin, network)
	if err != nil {
		return 0, false, fmt.Errorf("query max stake block height: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		return 0, false, fmt.Errorf("max stake block height not found")
	}

	var count uint64
	if err = rows.Scan(&count, &height); err != nil {
		return 0, false, fmt.Errorf("scan max stake block height: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, false, fmt.Errorf("iterate max stake block height: %w", err)
	}

	return height, count > 0, nil
}
