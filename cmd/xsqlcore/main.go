package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zzzcdf/cube.js/conf"
	"github.com/zzzcdf/cube.js/internal/jobs"
	"github.com/zzzcdf/cube.js/internal/metadata"
	"github.com/zzzcdf/cube.js/internal/planner"
	"github.com/zzzcdf/cube.js/internal/remotefs"
	"github.com/zzzcdf/cube.js/internal/sqlservice"
	"github.com/zzzcdf/cube.js/internal/wal"
	"github.com/zzzcdf/cube.js/logger"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "configPath", "", "path to the core's ini configuration file")
	flag.Parse()

	cfg := conf.Default()
	if configPath != "" {
		loaded, err := conf.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if err := logger.Init(logger.Config{Level: cfg.Server.LogLevel, Path: cfg.Server.LogPath}); err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	logger.Infof("xsqlcore starting, wal_chunk_size=%d", cfg.Storage.WalChunkSize)

	mdStore := metadata.NewInMemoryStore()
	walStore := wal.NewInMemoryStore()
	bus := jobs.NewBus()
	planr := planner.NewLocalPlanner()
	exec := planner.NewLocalExecutor(mdStore, walStore)

	if cfg.RemoteFS.Root == "" {
		cfg.RemoteFS.Root = filepath.Join(os.TempDir(), "xsqlcore-mirror")
	}
	var rfs remotefs.RemoteFs
	if cfg.RemoteFS.Bucket != "" {
		s3fs, err := remotefs.NewS3(context.Background(), remotefs.S3Config{
			Bucket:          cfg.RemoteFS.Bucket,
			Region:          cfg.RemoteFS.Region,
			Endpoint:        cfg.RemoteFS.Endpoint,
			AccessKeyID:     cfg.RemoteFS.AccessKeyID,
			SecretAccessKey: cfg.RemoteFS.SecretAccessKey,
			SubPath:         cfg.RemoteFS.SubPath,
			LocalRoot:       cfg.RemoteFS.Root,
		})
		if err != nil {
			logger.Warnf("S3 remote fs unavailable, falling back to local: %v", err)
		} else {
			rfs = s3fs
		}
	}
	if rfs == nil {
		rfs = remotefs.NewLocal(cfg.RemoteFS.Root,
			filepath.Join(os.TempDir(), "xsqlcore-remote"), cfg.RemoteFS.SubPath)
	}
	if mirrorRoot, err := rfs.LocalPath(context.Background()); err == nil {
		logger.Infof("remote fs mirror at %s", mirrorRoot)
	}

	svc := sqlservice.New(
		sqlservice.Config{WalChunkSize: cfg.Storage.WalChunkSize},
		mdStore, walStore, bus, planr, exec, logger.Logger,
	)

	logger.Infof("xsqlcore ready")
	repl(svc)
}

// repl is a minimal line-oriented SQL console: one statement per line,
// read from stdin until EOF. A MySQL-compatible wire listener that would
// normally front this loop is not implemented here.
func repl(svc *sqlservice.Service) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		query := scanner.Text()
		if query == "" {
			continue
		}
		frame, err := svc.Exec(context.Background(), query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			continue
		}
		printFrame(frame)
	}
}

func printFrame(f *sqlservice.Frame) {
	fmt.Println(f.Columns)
	for _, row := range f.Rows {
		fmt.Println(row)
	}
}
