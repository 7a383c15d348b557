package business

// Platform launch parameters. Amounts are lamports unless noted.
const (
	LamportsPerSol = 1_000_000_000

	// Bonding configuration: 50 SOL cap, of which 47 seeds the permanent
	// pool, 2 pays the creator and 1 pays the platform.
	BondingTargetLamports  = int64(50 * LamportsPerSol)
	PoolSeedLamports       = int64(47 * LamportsPerSol)
	CreatorPayoutLamports  = int64(2 * LamportsPerSol)
	PlatformPayoutLamports = int64(1 * LamportsPerSol)

	// Token settings: 1B supply at 9 decimals, 85% of it on the curve.
	TokenDecimals      = 9
	TokenTotalSupply   = uint64(1_000_000_000)
	CurveSupplyPercent = 85
	DefaultSlippageBps = 100
)
