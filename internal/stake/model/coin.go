package model

type Coin string
type Network string

var (
	PPC Coin = "PPC"
)

var (
	Testnet Network = "testnet"
	Mainnet Network = "mainnet"
)
