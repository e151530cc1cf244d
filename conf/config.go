// Package conf loads the core's configuration surface from an ini file
// into a typed Cfg struct wrapping the raw *ini.File, populated section by
// section.
package conf

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// RemoteFSConfig is `[remote_fs]`: root path plus the S3-compatible
// backend's bucket/region/credentials/endpoint.
type RemoteFSConfig struct {
	Root            string
	SubPath         string
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// StorageConfig is `[storage]`: the ingest chunk size and the background
// job engine's size thresholds.
type StorageConfig struct {
	WalChunkSize              int
	PartitionSplitThreshold   int
	CompactionChunksThreshold int
}

// ClusterConfig is `[cluster]`: worker addresses and an optional bind
// address for this node.
type ClusterConfig struct {
	WorkerAddresses []string
	BindAddress     string
}

// ServerConfig is `[server]`: logging knobs.
type ServerConfig struct {
	LogLevel string
	LogPath  string
}

// Cfg is the parsed configuration surface.
type Cfg struct {
	Raw      *ini.File
	RemoteFS RemoteFSConfig
	Storage  StorageConfig
	Cluster  ClusterConfig
	Server   ServerConfig
}

// Default returns a Cfg with the same defaults the core falls back to
// when a key is absent from the ini file.
func Default() *Cfg {
	return &Cfg{
		Raw: ini.Empty(),
		Storage: StorageConfig{
			WalChunkSize:              1000,
			PartitionSplitThreshold:   1000000,
			CompactionChunksThreshold: 10,
		},
		Server: ServerConfig{LogLevel: "info"},
	}
}

// Load reads path and populates a Cfg, falling back to Default()'s values
// for any key the file omits, except `[remote_fs] region`, which falls back
// to us-east-1.
func Load(path string) (*Cfg, error) {
	cfg := Default()

	raw, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading configuration %q: %w", path, err)
	}
	cfg.Raw = raw

	remoteFS := raw.Section("remote_fs")
	cfg.RemoteFS.Root = remoteFS.Key("root").MustString("")
	cfg.RemoteFS.SubPath = remoteFS.Key("sub_path").MustString("")
	cfg.RemoteFS.Bucket = remoteFS.Key("bucket").MustString("")
	cfg.RemoteFS.Region = remoteFS.Key("region").MustString("us-east-1")
	cfg.RemoteFS.Endpoint = remoteFS.Key("endpoint").MustString("")
	cfg.RemoteFS.AccessKeyID = remoteFS.Key("access_key_id").MustString("")
	cfg.RemoteFS.SecretAccessKey = remoteFS.Key("secret_access_key").MustString("")

	storage := raw.Section("storage")
	cfg.Storage.WalChunkSize = storage.Key("wal_chunk_size").MustInt(cfg.Storage.WalChunkSize)
	cfg.Storage.PartitionSplitThreshold = storage.Key("partition_split_threshold").MustInt(cfg.Storage.PartitionSplitThreshold)
	cfg.Storage.CompactionChunksThreshold = storage.Key("compaction_chunks_threshold").MustInt(cfg.Storage.CompactionChunksThreshold)

	cluster := raw.Section("cluster")
	cfg.Cluster.WorkerAddresses = cluster.Key("worker_addresses").Strings(",")
	cfg.Cluster.BindAddress = cluster.Key("bind_address").MustString("")

	server := raw.Section("server")
	cfg.Server.LogLevel = server.Key("log_level").MustString(cfg.Server.LogLevel)
	cfg.Server.LogPath = server.Key("log_path").MustString("")

	return cfg, nil
}

// LoadFromArgs resolves the config path from argv[1] if present and the
// file exists, else falls back to the in-process defaults.
func LoadFromArgs(args []string) (*Cfg, error) {
	if len(args) < 2 {
		return Default(), nil
	}
	if _, err := os.Stat(args[1]); err != nil {
		return Default(), nil
	}
	return Load(args[1])
}
