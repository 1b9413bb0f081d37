package types

import (
	amino "github.com/tendermint/go-amino"
)

const (
	MintAminoName     = "ledgermint/OperationMint"
	TransferAminoName = "ledgermint/OperationTransfer"
	BurnAminoName     = "ledgermint/OperationBurn"
)

var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
	cdc.Seal()
}

// RegisterCodec registers the ledger operation types with the provided
// amino codec.
func RegisterCodec(c *amino.Codec) {
	c.RegisterInterface((*Operation)(nil), nil)
	c.RegisterConcrete(Mint{}, MintAminoName, nil)
	c.RegisterConcrete(Transfer{}, TransferAminoName, nil)
	c.RegisterConcrete(Burn{}, BurnAminoName, nil)
}
