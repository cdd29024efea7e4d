package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"itsuku/challenge"
	"itsuku/config"
	"itsuku/memory"
	"itsuku/merkle"
	"itsuku/prof"
	"itsuku/proof"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: itsuku <solve|verify> [options]

Subcommands:
  solve    Build the memory and Merkle tree, search for a valid nonce,
           self-verify and print the proof to stdout.
           Flags:
             -id      <hex>     challenge identifier as a hex string
             -random            draw a random 64-byte challenge identifier
             -seed    <string>  derive the challenge deterministically from a seed
             -s       <int>     chunk size in elements (l)
             -c       <int>     chunk count (P)
             -a       <int>     antecedent count (n)
             -d       <int>     difficulty in leading zero bits
             -l       <int>     search length (L)
             -params  <path>    JSON parameter file (flags override its values)
             -workers <int>     parallel workers (default: GOMAXPROCS, 1 = sequential)
             -o       <path>    also write the binary proof to a file

  verify   Verify a binary proof file.
           Flags:
             -in <path>         proof file to check (required)

Exit status is 0 only when the search succeeds and the proof verifies.`)
	os.Exit(1)
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), zapcore.InfoLevel)
	return zap.New(core)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	logger := newLogger()
	defer logger.Sync()

	switch os.Args[1] {
	case "solve":
		runSolve(logger, os.Args[2:])
	case "verify":
		runVerify(logger, os.Args[2:])
	default:
		usage()
	}
}

func runSolve(logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	idHex := fs.String("id", "", "challenge identifier as hex")
	random := fs.Bool("random", false, "draw a random challenge identifier")
	seed := fs.String("seed", "", "derive the challenge identifier from a seed")
	paramsPath := fs.String("params", "", "JSON parameter file")
	chunkSize := fs.Uint64("s", 0, "chunk size in elements (l)")
	chunkCount := fs.Uint64("c", 0, "chunk count (P)")
	antecedents := fs.Uint64("a", 0, "antecedent count (n)")
	difficulty := fs.Uint64("d", 0, "difficulty bits")
	searchLength := fs.Uint64("l", 0, "search length (L)")
	workers := fs.Int("workers", runtime.GOMAXPROCS(0), "parallel workers")
	outPath := fs.String("o", "", "write the binary proof to a file")
	fs.Parse(args)

	cfg := config.Default()
	if *paramsPath != "" {
		loaded, err := config.LoadFromFile(*paramsPath)
		if err != nil {
			logger.Fatal("load params", zap.Error(err))
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "s":
			cfg.ChunkSize = *chunkSize
		case "c":
			cfg.ChunkCount = *chunkCount
		case "a":
			cfg.AntecedentCount = *antecedents
		case "d":
			cfg.DifficultyBits = *difficulty
		case "l":
			cfg.SearchLength = *searchLength
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	id, err := resolveChallenge(*idHex, *seed, *random)
	if err != nil {
		logger.Fatal("challenge", zap.Error(err))
	}

	logger.Info("solving",
		zap.Uint64("chunk_size", cfg.ChunkSize),
		zap.Uint64("chunk_count", cfg.ChunkCount),
		zap.Uint64("antecedent_count", cfg.AntecedentCount),
		zap.Uint64("difficulty_bits", cfg.DifficultyBits),
		zap.Uint64("search_length", cfg.SearchLength),
		zap.Int("node_size", merkle.NodeSize(cfg)),
		zap.Int("workers", *workers),
		zap.String("challenge_id", hex.EncodeToString(id)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem, err := memory.New(cfg)
	if err != nil {
		logger.Fatal("allocate memory", zap.Error(err))
	}
	buildStart := time.Now()
	if err := mem.BuildParallel(ctx, id, *workers); err != nil {
		logger.Fatal("build memory", zap.Error(err))
	}
	prof.Track(buildStart, "build_memory")

	treeStart := time.Now()
	tree, err := merkle.Build(cfg, id, mem)
	if err != nil {
		logger.Fatal("build tree", zap.Error(err))
	}
	prof.Track(treeStart, "build_tree")
	logger.Info("merkle root computed", zap.String("root", hex.EncodeToString(tree.Root())))

	searchStart := time.Now()
	p := proof.SearchParallel(ctx, cfg, id, mem, tree, *workers)
	prof.Track(searchStart, "search")
	if p == nil {
		logger.Error("no solution found")
		prof.Report(os.Stderr)
		os.Exit(2)
	}
	logger.Info("solution found", zap.Uint64("nonce", p.Nonce))

	verifyStart := time.Now()
	err = p.Verify()
	prof.Track(verifyStart, "verify")
	if err != nil {
		logger.Error("self-verification failed", zap.Error(err))
		os.Exit(1)
	}

	if err := p.WriteText(os.Stdout); err != nil {
		logger.Fatal("write proof", zap.Error(err))
	}
	if *outPath != "" {
		raw, err := p.MarshalBinary()
		if err != nil {
			logger.Fatal("encode proof", zap.Error(err))
		}
		if err := os.WriteFile(*outPath, raw, 0o644); err != nil {
			logger.Fatal("write proof file", zap.Error(err))
		}
		logger.Info("proof written", zap.String("path", *outPath), zap.Int("bytes", len(raw)))
	}
	prof.Report(os.Stderr)
}

func runVerify(logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	inPath := fs.String("in", "", "proof file to check")
	fs.Parse(args)

	if *inPath == "" {
		logger.Fatal("verify requires -in")
	}
	raw, err := os.ReadFile(*inPath)
	if err != nil {
		logger.Fatal("read proof", zap.Error(err))
	}
	var p proof.Proof
	if err := p.UnmarshalBinary(raw); err != nil {
		logger.Fatal("decode proof", zap.Error(err))
	}
	if err := p.Verify(); err != nil {
		logger.Error("verification failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("proof verified",
		zap.Uint64("nonce", p.Nonce),
		zap.Uint64("difficulty_bits", p.Config.DifficultyBits),
	)
}

// resolveChallenge picks the challenge source: explicit hex wins, then a
// seed-derived identifier, then a random one.
func resolveChallenge(idHex, seed string, random bool) (challenge.ID, error) {
	switch {
	case idHex != "":
		raw, err := hex.DecodeString(idHex)
		if err != nil {
			return nil, fmt.Errorf("decode -id: %w", err)
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("-id must not be empty")
		}
		return challenge.New(raw), nil
	case seed != "":
		return challenge.FromSeed([]byte(seed), challenge.DefaultSize)
	case random:
		return challenge.Random(challenge.DefaultSize), nil
	default:
		return nil, fmt.Errorf("a challenge is required: use -id, -seed or -random")
	}
}
