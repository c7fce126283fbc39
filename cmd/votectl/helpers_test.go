package main

import "math/big"

func bigInt(v int64) *big.Int { return big.NewInt(v) }

func bigFromString(s string) (*big.Int, bool) { return new(big.Int).SetString(s, 10) }
