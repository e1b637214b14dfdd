package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
job:
  peers: 3
  delegate_threshold: 64
  restart_threshold: 0.05
  metrics_addr: ":9100"
graph:
  input: file
  path: data/web.txt
network:
  rank: 1
  peers:
    - rank: 0
      address: "10.0.0.1:7000"
    - rank: 1
      address: "10.0.0.2:7000"
    - rank: 2
      address: "10.0.0.3:7000"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Job.Peers != 3 || cfg.Job.DelegateThreshold != 64 || cfg.Job.RestartThreshold != 0.05 {
		t.Fatalf("job section mangled: %+v", cfg.Job)
	}
	if cfg.Graph.Input != "file" || cfg.Graph.Path != "data/web.txt" {
		t.Fatalf("graph section mangled: %+v", cfg.Graph)
	}
	addrs, err := cfg.Network.PeerAddresses()
	if err != nil {
		t.Fatalf("PeerAddresses: %v", err)
	}
	if addrs[2] != "10.0.0.3:7000" {
		t.Fatalf("peer table mangled: %v", addrs)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
job:
  peers: 2
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Job.DelegateThreshold != DefaultDelegateThreshold {
		t.Errorf("delegate threshold = %d, want default %d", cfg.Job.DelegateThreshold, DefaultDelegateThreshold)
	}
	if cfg.Job.RestartThreshold != DefaultRestartThreshold {
		t.Errorf("restart threshold = %g, want default %g", cfg.Job.RestartThreshold, DefaultRestartThreshold)
	}
	if cfg.Graph.Input != "rmat" || cfg.Graph.RMAT.Scale != DefaultScale {
		t.Errorf("graph defaults mangled: %+v", cfg.Graph)
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "zeroPeers",
			content: "job:\n  peers: 0\n",
			wantErr: "job.peers",
		},
		{
			name:    "fileWithoutPath",
			content: "job:\n  peers: 1\ngraph:\n  input: file\n",
			wantErr: "graph.path",
		},
		{
			name:    "unknownInput",
			content: "job:\n  peers: 1\ngraph:\n  input: census\n",
			wantErr: "graph.input",
		},
		{
			name:    "badRestartThreshold",
			content: "job:\n  peers: 1\n  restart_threshold: 1.5\n",
			wantErr: "restart_threshold",
		},
		{
			name: "peerTableMismatch",
			content: `
job:
  peers: 3
network:
  rank: 0
  peers:
    - rank: 0
      address: "a:1"
`,
			wantErr: "network.peers",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PEERS", "5")
	t.Setenv("GRAPH_INPUT", "file")
	t.Setenv("GRAPH_PATH", "g.txt")
	t.Setenv("RESTART_THRESHOLD", "0.02")

	cfg := LoadConfigFromEnv()
	if cfg.Job.Peers != 5 {
		t.Errorf("peers = %d, want 5", cfg.Job.Peers)
	}
	if cfg.Graph.Input != "file" || cfg.Graph.Path != "g.txt" {
		t.Errorf("graph env mangled: %+v", cfg.Graph)
	}
	if cfg.Job.RestartThreshold != 0.02 {
		t.Errorf("restart threshold = %g, want 0.02", cfg.Job.RestartThreshold)
	}
}

func TestPeerAddressesRejectsDuplicates(t *testing.T) {
	n := Network{Peers: []Peer{
		{Rank: 0, Address: "a:1"},
		{Rank: 0, Address: "b:2"},
	}}
	if _, err := n.PeerAddresses(); err == nil {
		t.Fatal("expected duplicate-rank error")
	}
}
