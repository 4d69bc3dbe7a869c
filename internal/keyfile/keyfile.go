// Package keyfile loads private key lists and RPC endpoint lists from the
// file formats produced by local devnet tooling.
package keyfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	jsonArrayRegex = regexp.MustCompile(`(?s)\[\s*\{.*?\}\s*\]`)
	containerRegex = regexp.MustCompile(`^\w+\s+(el-[\w-]+)`)
	rpcPortRegex   = regexp.MustCompile(`rpc:\s*8545/tcp\s*->\s*127\.0\.0\.1:(\d+)`)
	elMarkerRegex  = regexp.MustCompile(`\bel-\d+-[\w-]+`)
	urlLineRegex   = regexp.MustCompile(`^(https?|wss?)://`)
)

// KeyEntry mirrors one object of a key file's JSON array.
type KeyEntry struct {
	Name       string `json:"name,omitempty"`
	PrivateKey string `json:"private_key"`
}

// LoadPrivateKeys reads private keys from a file. The file may hold a JSON
// array of objects embedded in arbitrary surrounding text, or plain hex keys
// one per line (empty lines and #-comments skipped). Key order is preserved.
func LoadPrivateKeys(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	if match := jsonArrayRegex.Find(raw); match != nil {
		var entries []KeyEntry
		if err := json.Unmarshal(match, &entries); err != nil {
			return nil, fmt.Errorf("invalid key file JSON: %w", err)
		}

		keys := make([]string, 0, len(entries))
		for i, e := range entries {
			if e.PrivateKey == "" {
				return nil, fmt.Errorf("key file entry %d has no private_key", i)
			}
			keys = append(keys, e.PrivateKey)
		}
		return keys, nil
	}

	var keys []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys = append(keys, line)
	}
	return keys, nil
}

// Endpoint is a named RPC target parsed from an endpoint file.
type Endpoint struct {
	Name string
	URL  string
}

// LoadEndpoints reads RPC endpoints from a file. Two formats are accepted:
// plain URLs one per line, or a devnet container service listing where
// execution-layer containers (el-*) expose port 8545 on localhost. File order
// is preserved.
func LoadEndpoints(path string) ([]Endpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open endpoint file: %w", err)
	}
	defer f.Close()

	var (
		endpoints []Endpoint
		container string
		started   bool
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if urlLineRegex.MatchString(trimmed) {
			endpoints = append(endpoints, Endpoint{URL: trimmed})
			continue
		}

		// Container listing: ignore everything before the first el- service.
		if !started {
			if !elMarkerRegex.MatchString(line) {
				continue
			}
			started = true
		}

		if m := containerRegex.FindStringSubmatch(line); m != nil {
			container = m[1]
		}
		if m := rpcPortRegex.FindStringSubmatch(line); m != nil && container != "" {
			endpoints = append(endpoints, Endpoint{
				Name: container,
				URL:  fmt.Sprintf("http://127.0.0.1:%s", m[1]),
			})
			container = ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read endpoint file: %w", err)
	}

	return endpoints, nil
}
