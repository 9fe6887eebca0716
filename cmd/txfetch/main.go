// txfetch 按签名拉取单笔交易并输出 JSON，用于补数和人工排查。
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"sol-block-etl/internal/blockfetch"
)

var (
	endpoint  = flag.String("e", "https://api.mainnet-beta.solana.com", "RPC endpoint")
	signature = flag.String("s", "", "transaction signature")
	timeout   = flag.Duration("t", 30*time.Second, "request timeout")
)

func main() {
	flag.Parse()
	if *signature == "" {
		fmt.Fprintln(os.Stderr, "usage: txfetch -s <signature> [-e endpoint]")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	source := blockfetch.NewTxSource(*endpoint)
	tx, err := source.GetTransaction(ctx, *signature)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch transaction: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode transaction: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
	fmt.Println()
}
