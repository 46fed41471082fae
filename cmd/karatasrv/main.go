// Command karatasrv runs a standalone Karata game server: a gRPC
// listener exposing karatarpc.KarataServiceServer backed by an sqlite
// room registry.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sixpeteunder/Karata/pkg/logging"
	"github.com/sixpeteunder/Karata/pkg/rpc/karatarpc"
	"github.com/sixpeteunder/Karata/pkg/server"
	"github.com/sixpeteunder/Karata/pkg/server/internal/db"
	"google.golang.org/grpc"
)

func main() {
	var (
		dbPath     string
		host       string
		port       int
		portFile   string
		seed       int64
		debugLevel string
	)
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database file (created if missing)")
	flag.StringVar(&host, "host", "127.0.0.1", "Host to listen on")
	flag.IntVar(&port, "port", 0, "Port to listen on (0 for random free port)")
	flag.StringVar(&portFile, "portfile", "", "If set, write the selected port to this file")
	flag.Int64Var(&seed, "seed", 0, "Deterministic RNG seed for deck shuffles (0 = random)")
	flag.StringVar(&debugLevel, "debuglevel", "info", "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "karata.sqlite")
	}
	if seed == 0 {
		if env := os.Getenv("KARATA_SEED"); env != "" {
			if v, err := strconv.ParseInt(env, 10, 64); err == nil {
				seed = v
			}
		}
	}

	database, err := db.NewDB(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init db: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	logBackend, err := logging.New(logging.Config{DebugLevel: debugLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logging: %v\n", err)
		os.Exit(1)
	}

	srv := server.NewServer(database, logBackend, seed)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to listen: %v\n", err)
		os.Exit(1)
	}

	grpcSrv := grpc.NewServer()
	karatarpc.RegisterKarataServiceServer(grpcSrv, srv)

	if portFile != "" {
		_, p, _ := net.SplitHostPort(lis.Addr().String())
		_ = os.WriteFile(portFile, []byte(p), 0600)
	}

	if err := grpcSrv.Serve(lis); err != nil {
		fmt.Fprintf(os.Stderr, "grpc serve error: %v\n", err)
		os.Exit(1)
	}
}
