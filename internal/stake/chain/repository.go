package chain

import (
	"context"

	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// TxStore looks up persisted transactions. A missing transaction is a nil
// record with a nil error.
type TxStore interface {
	Tx(ctx context.Context, txid string) (*model.TxRecord, error)
}
