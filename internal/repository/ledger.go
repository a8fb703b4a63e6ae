package repository

import "tradebook/internal/engine"

var (
	_ engine.Ledger = (*Database)(nil)
	_ engine.Ledger = (*MemoryLedger)(nil)
	_ engine.Ledger = (*SQLiteLedger)(nil)
)
