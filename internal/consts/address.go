package consts

import "sol-block-etl/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	// 系统级 Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	VoteProgramStr            = "Vote111111111111111111111111111111111111111"
	ComputeBudgetProgramStr   = "ComputeBudget111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	TokenProgram2022Str       = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	MemoProgramV1Str          = "Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo"
	MemoProgramStr            = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"
	SequenceEnforcerStr       = "GDDMwNyyx8uB6zrqwBFHjLLG3TBYk2F8Az4yrQC5RzMp"

	// WSOL：SOL 的 SPL 封装形式，swap 方向判定的基准 quote
	WSOLMintStr = "So11111111111111111111111111111111111111112"

	// DEX: Raydium
	RaydiumV4ProgramStr   = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	RaydiumV4AuthorityStr = "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1"
	RaydiumRouterStr      = "routeUGWgWzqBWFcrCfv8tritsqukccJPu3q5GPP3xS"

	// DEX: Pump.fun bonding curve
	PumpFunProgramStr = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"

	// 聚合器: Jupiter
	JupiterV6ProgramStr = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	JupiterV4ProgramStr = "JUP4Fb2cqiRUcaTHdrPC8h2gNsA2ETXiPDD33WcGuJB"

	// 其它已识别但暂不解析语义的 Programs（NoOp 注册，避免误判为未知程序）
	OpenbookV2ProgramStr = "opnb2LAfJYbRMAHHvqjCwQxanZn7ReEHp1k81EohpZb"
	PhoenixProgramStr    = "PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY"
	OKXRouterProgramStr  = "6m2CDdhRgxpH4WjvdzxAYbGxwdGUz5MziiL5jek2kBma"
	DriftProgramStr      = "dRiftyHA39MWEi3m9aunc5MzRF1JYuBsbn6VPcn33UH"
	ZetaProgramStr       = "ZETAxsqBRek56DhiGXrn75yj2NHU3aYUnxvHXpkf3aD"
	JitoTipProgramStr    = "T1pyyaTNZsKv2WcRAB8oVnk93mLJw2XzjtVYqCsaHqt"
)

var (
	SystemProgram          = types.PubkeyFromBase58(SystemProgramStr)
	VoteProgram            = types.PubkeyFromBase58(VoteProgramStr)
	ComputeBudgetProgram   = types.PubkeyFromBase58(ComputeBudgetProgramStr)
	TokenProgram           = types.PubkeyFromBase58(TokenProgramStr)
	TokenProgram2022       = types.PubkeyFromBase58(TokenProgram2022Str)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)
	MemoProgramV1          = types.PubkeyFromBase58(MemoProgramV1Str)
	MemoProgram            = types.PubkeyFromBase58(MemoProgramStr)
	SequenceEnforcer       = types.PubkeyFromBase58(SequenceEnforcerStr)

	WSOLMint = types.PubkeyFromBase58(WSOLMintStr)

	RaydiumV4Program   = types.PubkeyFromBase58(RaydiumV4ProgramStr)
	RaydiumV4Authority = types.PubkeyFromBase58(RaydiumV4AuthorityStr)
	RaydiumRouter      = types.PubkeyFromBase58(RaydiumRouterStr)

	PumpFunProgram = types.PubkeyFromBase58(PumpFunProgramStr)

	JupiterV6Program = types.PubkeyFromBase58(JupiterV6ProgramStr)
	JupiterV4Program = types.PubkeyFromBase58(JupiterV4ProgramStr)

	OpenbookV2Program = types.PubkeyFromBase58(OpenbookV2ProgramStr)
	PhoenixProgram    = types.PubkeyFromBase58(PhoenixProgramStr)
	OKXRouterProgram  = types.PubkeyFromBase58(OKXRouterProgramStr)
	DriftProgram      = types.PubkeyFromBase58(DriftProgramStr)
	ZetaProgram       = types.PubkeyFromBase58(ZetaProgramStr)
	JitoTipProgram    = types.PubkeyFromBase58(JitoTipProgramStr)
)
